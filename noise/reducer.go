// reducer.go - wide-band adaptive noise gate with optional voice-band shaping
package noise

import (
	"github.com/hyperpolymath/volumod/audioblock"
	"github.com/hyperpolymath/volumod/dsp"
)

// Mode selects a preset reduction depth, or adaptive floor tracking.
type Mode int

const (
	ModeLight Mode = iota
	ModeModerate
	ModeAggressive
	ModeAdaptive
)

func defaultReductionDB(m Mode) float64 {
	switch m {
	case ModeLight:
		return 6
	case ModeModerate:
		return 12
	case ModeAggressive:
		return 20
	case ModeAdaptive:
		return 10
	default:
		return 12
	}
}

// profile is the learned/adaptive noise floor estimate.
type profile struct {
	floorDB    float64
	isLearned  bool
	updateRate float64
}

const adaptiveUpdateRate = 0.1
const adaptiveFloorTrack = 0.01

// voiceBand is the per-channel pair of biquads used by VoiceEnhance.
type voiceBand struct {
	hp   dsp.Biquad // 300 Hz highpass, Q 0.707
	peak dsp.Biquad // 2.5 kHz peak, Q 1, +3 dB
}

// Reducer implements the §4.E wide-band gate. The gate only ever
// attenuates - no gate path in Process raises a sample's magnitude above
// its input. The optional VoiceEnhance shaping that follows the gate
// includes a +3 dB peak filter at 2.5 kHz and can raise magnitudes there.
type Reducer struct {
	Enabled      bool
	Mode         Mode
	ReductionDB  float64 // not clamped on assignment; adaptive mode recomputes it within [6, 24]
	VoiceEnhance bool
	LearnNoise   bool

	sampleRate float64
	profile    profile
	voice      []voiceBand // one per channel
}

// New builds a Reducer for the given sample rate and channel count. Voice
// band filters are allocated up front; Process never allocates.
func New(sampleRate float64, channels int) *Reducer {
	r := &Reducer{
		Enabled:     true,
		Mode:        ModeAdaptive,
		ReductionDB: defaultReductionDB(ModeAdaptive),
		sampleRate:  sampleRate,
		profile:     profile{updateRate: adaptiveUpdateRate},
		voice:       make([]voiceBand, channels),
	}
	r.configureVoiceBands()
	return r
}

func (r *Reducer) configureVoiceBands() {
	for i := range r.voice {
		r.voice[i].hp.Configure(dsp.FilterHighpass, 300, r.sampleRate, 0.707, 0)
		r.voice[i].peak.Configure(dsp.FilterPeak, 2500, r.sampleRate, 1, 3)
	}
}

// SetMode switches the reduction preset (adaptive mode keeps its own
// running reduction computed in Process). Idempotent: calling it twice
// with the same mode leaves state unchanged.
func (r *Reducer) SetMode(m Mode) {
	if r.Mode == m {
		return
	}
	r.Mode = m
	if m != ModeAdaptive {
		r.ReductionDB = defaultReductionDB(m)
	}
}

// StartLearning (re)initializes the noise profile and begins tracking.
func (r *Reducer) StartLearning() {
	r.profile = profile{updateRate: adaptiveUpdateRate}
	r.LearnNoise = true
}

// StopLearning freezes the learned floor.
func (r *Reducer) StopLearning() {
	r.LearnNoise = false
}

// Process implements spec.md §4.E steps 1-3 over the whole block in place.
func (r *Reducer) Process(b *audioblock.Block) {
	if !r.Enabled || len(b.Samples) == 0 {
		return
	}

	rmsDB := dsp.LinearToDB(b.RMS())

	if r.LearnNoise {
		if r.profile.isLearned {
			r.profile.floorDB += r.profile.updateRate * (rmsDB - r.profile.floorDB)
		} else {
			r.profile.floorDB = rmsDB
			r.profile.isLearned = true
		}
	}

	if r.Mode == ModeAdaptive {
		if rmsDB < r.profile.floorDB+10 {
			r.profile.floorDB += adaptiveFloorTrack * (rmsDB - r.profile.floorDB)
		}
		r.ReductionDB = dsp.Clamp(-(r.profile.floorDB + 40), 6, 24)
	}

	threshold := r.profile.floorDB + r.ReductionDB/2
	frames := b.FrameCount()

	for f := 0; f < frames; f++ {
		for ch := 0; ch < b.Channels; ch++ {
			s := b.Get(f, ch)
			inputDB := dsp.LinearToDB(abs64(float64(s)))

			out := s
			if inputDB < threshold {
				atten := dsp.DBToLinear(-minF(threshold-inputDB, r.ReductionDB))
				out = float32(float64(s) * atten)
			}

			if r.VoiceEnhance && ch < len(r.voice) {
				v := &r.voice[ch]
				filtered := v.peak.Process(v.hp.Process(float64(out)))
				out = float32(filtered)
			}

			b.Set(f, ch, out)
		}
	}
}

// Reset clears learned/adaptive state and filter state but keeps the
// configured mode and reduction depth.
func (r *Reducer) Reset() {
	r.profile = profile{updateRate: adaptiveUpdateRate}
	r.LearnNoise = false
	for i := range r.voice {
		r.voice[i].hp.Reset()
		r.voice[i].peak.Reset()
	}
}

func abs64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
