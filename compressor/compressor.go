// compressor.go - soft-knee feed-forward compressor with auto makeup, atomic metering
package compressor

import (
	"math"
	"sync/atomic"

	"github.com/hyperpolymath/volumod/audioblock"
	"github.com/hyperpolymath/volumod/dsp"
)

// Mode selects a compression preset from spec.md §4.G's table.
type Mode int

const (
	ModeGentle Mode = iota
	ModeModerate
	ModeAggressive
	ModeLimiting
)

type preset struct {
	thresholdDB float64
	ratio       float64
	attackMs    float64
	releaseMs   float64
	kneeDB      float64
	makeupDB    float64
}

var presets = map[Mode]preset{
	ModeGentle:     {-20, 2, 20, 200, 6, 2},
	ModeModerate:   {-18, 4, 10, 150, 4, 4},
	ModeAggressive: {-15, 8, 5, 100, 2, 6},
	ModeLimiting:   {-1, 20, 0.5, 50, 0, 0},
}

// Compressor implements spec.md §4.G. Metering (gainReductionDB) is stored
// as an atomic bit pattern so a control thread can read it lock-free while
// the audio thread keeps writing every block.
type Compressor struct {
	mode       Mode
	p          preset
	sampleRate float64

	envelope dsp.EnvelopeFollower

	gainReductionDBBits atomic.Uint64
	initialized         bool
}

// New builds a Compressor in the given preset mode for sampleRate.
func New(sampleRate float64, mode Mode) *Compressor {
	c := &Compressor{sampleRate: sampleRate}
	c.SetMode(mode)
	return c
}

// SetMode switches the preset. Idempotent for repeated identical calls.
// Recomputes the envelope's attack/release coefficients in place - it
// never allocates, so it is safe to call from the audio thread once a
// mode-switch command has been drained from the control queue.
func (c *Compressor) SetMode(mode Mode) {
	if c.initialized && c.mode == mode {
		return
	}
	c.mode = mode
	c.p = presets[mode]
	c.envelope.SetTimes(c.p.attackMs, c.p.releaseMs, c.sampleRate)
	c.initialized = true
}

// gr computes the static gain-reduction curve from spec.md §4.G in dB,
// given the envelope value x_db.
func (c *Compressor) gr(xDB float64) float64 {
	t := c.p.thresholdDB
	knee := c.p.kneeDB
	switch {
	case xDB < t-knee/2:
		return 0
	case xDB > t+knee/2:
		return (t + (xDB-t)/c.p.ratio) - xDB
	default:
		return (1/c.p.ratio - 1) * math.Pow(xDB-(t-knee/2), 2) / (2 * knee)
	}
}

// Process implements spec.md §4.G's per-frame algorithm over the block.
func (c *Compressor) Process(b *audioblock.Block) {
	frames := b.FrameCount()
	var lastGRDB float64

	for f := 0; f < frames; f++ {
		var peak float64
		for ch := 0; ch < b.Channels; ch++ {
			a := math.Abs(float64(b.Get(f, ch)))
			if a > peak {
				peak = a
			}
		}

		peakDB := dsp.LinearToDB(peak)
		env := c.envelope.ProcessSigned(peakDB)
		grDB := c.gr(env)
		lastGRDB = grDB

		gain := dsp.DBToLinear(grDB) * dsp.DBToLinear(c.p.makeupDB)
		for ch := 0; ch < b.Channels; ch++ {
			b.Set(f, ch, float32(float64(b.Get(f, ch))*gain))
		}
	}

	if frames > 0 {
		c.storeGainReduction(-lastGRDB)
	}
}

func (c *Compressor) storeGainReduction(db float64) {
	c.gainReductionDBBits.Store(math.Float64bits(db))
}

// GainReductionDB reports the most recent positive gain-reduction value.
func (c *Compressor) GainReductionDB() float64 {
	return math.Float64frombits(c.gainReductionDBBits.Load())
}

// Mode reports the currently selected preset.
func (c *Compressor) Mode() Mode {
	return c.mode
}

// Reset zeros the envelope and reported gain reduction.
func (c *Compressor) Reset() {
	c.envelope.Reset(0)
	c.storeGainReduction(0)
}
