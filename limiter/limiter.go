// limiter.go - peak-hold brick-wall limiter with instant attack, no look-ahead
package limiter

import (
	"math"

	"github.com/hyperpolymath/volumod/audioblock"
	"github.com/hyperpolymath/volumod/dsp"
)

const defaultCeilingDB = -0.5
const defaultReleaseMs = 50

// Limiter implements spec.md §4.I. The attack is instantaneous by
// construction: envelope is recomputed from the current frame's peak
// before that frame is written, so the guarantee |y| <= ceiling holds on
// the very first sample of an overshoot.
type Limiter struct {
	CeilingDB float64
	ReleaseMs float64

	envelope    float64 // gain, (0, 1]
	releaseCoef float64
	sampleRate  float64
}

// New builds a Limiter at the default ceiling/release for sampleRate.
func New(sampleRate float64) *Limiter {
	l := &Limiter{
		CeilingDB:  defaultCeilingDB,
		ReleaseMs:  defaultReleaseMs,
		envelope:   1,
		sampleRate: sampleRate,
	}
	l.releaseCoef = dsp.SmoothCoef(l.ReleaseMs, sampleRate)
	return l
}

// SetReleaseMs recomputes the release coefficient in place.
func (l *Limiter) SetReleaseMs(ms float64) {
	l.ReleaseMs = ms
	l.releaseCoef = dsp.SmoothCoef(ms, l.sampleRate)
}

// Process implements spec.md §4.I's per-frame algorithm.
func (l *Limiter) Process(b *audioblock.Block) {
	ceilingLinear := dsp.DBToLinear(l.CeilingDB)
	frames := b.FrameCount()

	for f := 0; f < frames; f++ {
		var peak float64
		for ch := 0; ch < b.Channels; ch++ {
			a := math.Abs(float64(b.Get(f, ch)))
			if a > peak {
				peak = a
			}
		}

		if peak > ceilingLinear {
			target := ceilingLinear / peak
			if target < l.envelope || l.envelope == 0 {
				l.envelope = target
			} else {
				l.envelope += l.releaseCoef * (1 - l.envelope)
				if l.envelope > target {
					l.envelope = target
				}
			}
		} else {
			l.envelope += l.releaseCoef * (1 - l.envelope)
		}

		if l.envelope < 1 {
			for ch := 0; ch < b.Channels; ch++ {
				b.Set(f, ch, float32(float64(b.Get(f, ch))*l.envelope))
			}
		}
	}
}

// Envelope reports the current gain envelope (1 = no reduction).
func (l *Limiter) Envelope() float64 {
	return l.envelope
}

// Reset restores the envelope to 1 (no gain reduction).
func (l *Limiter) Reset() {
	l.envelope = 1
}
