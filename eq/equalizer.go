// equalizer.go - 10-band ISO parametric equalizer with per-channel filter state
package eq

import (
	"github.com/hyperpolymath/volumod/audioblock"
	"github.com/hyperpolymath/volumod/dsp"
)

// NumBands is the fixed ISO band count (§4.H).
const NumBands = 10

// BandQ is the fixed Q used by every band.
const BandQ = 1.41421356237 // sqrt(2)

// bandCenters are the ISO-standard centers in Hz.
var bandCenters = [NumBands]float64{31, 62, 125, 250, 500, 1000, 2000, 4000, 8000, 16000}

// Preset is a named curve: one gain per band, in dB.
type Preset int

const (
	PresetFlat Preset = iota
	PresetSpeech
	PresetMusic
	PresetBassBoost
	PresetTrebleBoost
	PresetLoudness
	PresetHearingAid
	PresetNightMode
)

var presetCurves = map[Preset][NumBands]float64{
	PresetFlat:        {0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	PresetSpeech:      {-6, -4, -2, 0, 2, 4, 4, 2, 0, -2},
	PresetMusic:       {2, 1, 0, -1, 0, 0, 1, 2, 2, 1},
	PresetBassBoost:   {6, 5, 3, 1, 0, 0, 0, 0, 0, 0},
	PresetTrebleBoost: {0, 0, 0, 0, 0, 1, 2, 4, 5, 6},
	PresetLoudness:    {6, 4, 1, 0, -1, 0, 1, 3, 4, 3},
	PresetHearingAid:  {0, 0, 0, 0, 1, 3, 5, 7, 9, 10},
	PresetNightMode:   {-8, -6, -3, -1, 0, 2, 2, 1, 0, -1},
}

// band holds the configured gain and one biquad per channel.
type band struct {
	gainDB  float64
	filters []dsp.Biquad // per-channel, never shared
}

// Equalizer implements spec.md §4.H.
type Equalizer struct {
	OutputGainDB float64

	sampleRate float64
	channels   int
	bands      [NumBands]band
}

// New builds an Equalizer with the flat preset for sampleRate/channels.
func New(sampleRate float64, channels int) *Equalizer {
	e := &Equalizer{sampleRate: sampleRate, channels: channels}
	for i := range e.bands {
		e.bands[i].filters = make([]dsp.Biquad, channels)
		e.configureBand(i, 0)
	}
	return e
}

func (e *Equalizer) configureBand(i int, gainDB float64) {
	gainDB = dsp.Clamp(gainDB, -24, 24)
	e.bands[i].gainDB = gainDB
	for ch := range e.bands[i].filters {
		e.bands[i].filters[ch].Configure(dsp.FilterPeak, bandCenters[i], e.sampleRate, BandQ, gainDB)
	}
}

// SetBand sets band i's gain and recomputes its coefficients. Out-of-range
// indices are a no-op.
func (e *Equalizer) SetBand(i int, gainDB float64) {
	if i < 0 || i >= NumBands {
		return
	}
	e.configureBand(i, gainDB)
}

// BandGainDB reports band i's configured gain, or 0 if out of range.
func (e *Equalizer) BandGainDB(i int) float64 {
	if i < 0 || i >= NumBands {
		return 0
	}
	return e.bands[i].gainDB
}

// ApplyPreset loads one of the named curves from spec.md §4.H.
func (e *Equalizer) ApplyPreset(p Preset) {
	curve, ok := presetCurves[p]
	if !ok {
		return
	}
	for i, g := range curve {
		e.configureBand(i, g)
	}
}

func (e *Equalizer) isIdentity() bool {
	if e.OutputGainDB != 0 {
		return false
	}
	for i := range e.bands {
		if e.bands[i].gainDB != 0 {
			return false
		}
	}
	return true
}

// Process implements spec.md §4.H: short-circuits when every band is flat
// and output gain is 0, otherwise runs every frame/channel serially
// through all ten band biquads using that channel's own filter state.
func (e *Equalizer) Process(b *audioblock.Block) {
	if e.isIdentity() {
		return
	}

	outGain := dsp.DBToLinear(e.OutputGainDB)
	frames := b.FrameCount()

	for f := 0; f < frames; f++ {
		for ch := 0; ch < b.Channels && ch < e.channels; ch++ {
			x := float64(b.Get(f, ch))
			for i := range e.bands {
				x = e.bands[i].filters[ch].Process(x)
			}
			if outGain != 1 {
				x *= outGain
			}
			b.Set(f, ch, float32(x))
		}
	}
}

// Reset zeros all filter state but preserves configured gains.
func (e *Equalizer) Reset() {
	for i := range e.bands {
		for ch := range e.bands[i].filters {
			e.bands[i].filters[ch].Reset()
		}
	}
}
