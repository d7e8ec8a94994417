// envelope.go - attack/release one-pole envelope follower
package dsp

import "math"

// EnvelopeFollower tracks the magnitude of its input with independent
// attack and release one-pole coefficients. It is domain-agnostic: callers
// may feed it linear magnitudes or dB magnitudes, whichever the caller
// needs to smooth.
type EnvelopeFollower struct {
	envelope    float64
	attackCoef  float64
	releaseCoef float64
}

// NewEnvelopeFollower builds a follower from attack/release time constants
// (milliseconds) and the sample rate.
func NewEnvelopeFollower(attackMs, releaseMs, sampleRate float64) *EnvelopeFollower {
	return &EnvelopeFollower{
		attackCoef:  SmoothCoef(attackMs, sampleRate),
		releaseCoef: SmoothCoef(releaseMs, sampleRate),
	}
}

// SetTimes recomputes the attack/release coefficients in place - no
// allocation, safe to call from the audio thread after a parameter change
// has been drained from the control queue.
func (e *EnvelopeFollower) SetTimes(attackMs, releaseMs, sampleRate float64) {
	e.attackCoef = SmoothCoef(attackMs, sampleRate)
	e.releaseCoef = SmoothCoef(releaseMs, sampleRate)
}

// Process advances the envelope toward |x| using the attack coefficient
// when rising and the release coefficient when falling.
func (e *EnvelopeFollower) Process(x float64) float64 {
	mag := math.Abs(x)
	if mag > e.envelope {
		e.envelope += e.attackCoef * (mag - e.envelope)
	} else {
		e.envelope += e.releaseCoef * (mag - e.envelope)
	}
	return e.envelope
}

// ProcessSigned advances the envelope toward x directly, without taking
// |x| first. Used when x is already a signed magnitude-like quantity in
// dB (which can be negative) rather than a linear sample - taking |x| in
// that domain would invert the attack/release comparison.
func (e *EnvelopeFollower) ProcessSigned(x float64) float64 {
	if x > e.envelope {
		e.envelope += e.attackCoef * (x - e.envelope)
	} else {
		e.envelope += e.releaseCoef * (x - e.envelope)
	}
	return e.envelope
}

// Value returns the current envelope without advancing it.
func (e *EnvelopeFollower) Value() float64 {
	return e.envelope
}

// Reset sets the envelope to v (typically 0 or 1 depending on domain).
func (e *EnvelopeFollower) Reset(v float64) {
	e.envelope = v
}
