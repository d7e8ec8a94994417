// biquad.go - RBJ audio-EQ-cookbook biquad filter, direct form I
package dsp

import "math"

// FilterType selects which RBJ cookbook formula Configure uses.
type FilterType int

const (
	FilterLowpass FilterType = iota
	FilterHighpass
	FilterBandpass
	FilterNotch
	FilterPeak
	FilterLowShelf
	FilterHighShelf
)

// Biquad is a second-order IIR section with its own state. Coefficients are
// already normalized by a0. Per-channel filters must not share a Biquad
// instance - state would bleed between channels.
type Biquad struct {
	b0, b1, b2 float64
	a1, a2     float64

	x1, x2 float64
	y1, y2 float64
}

// Configure computes coefficients for (type, f0, sr, Q, gainDB) using the
// RBJ cookbook closed forms. It does not touch filter state, so changing
// coefficients mid-stream never introduces a state discontinuity beyond
// the filter's own transient response.
func (b *Biquad) Configure(kind FilterType, f0, sampleRate, q, gainDB float64) {
	if f0 <= 0 {
		f0 = 1
	}
	if q <= 0 {
		q = 0.0001
	}
	w0 := 2 * math.Pi * f0 / sampleRate
	cosW0 := math.Cos(w0)
	sinW0 := math.Sin(w0)
	alpha := sinW0 / (2 * q)
	a := math.Pow(10, gainDB/40)

	var b0, b1, b2, a0, a1, a2 float64

	switch kind {
	case FilterLowpass:
		b0 = (1 - cosW0) / 2
		b1 = 1 - cosW0
		b2 = (1 - cosW0) / 2
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha

	case FilterHighpass:
		b0 = (1 + cosW0) / 2
		b1 = -(1 + cosW0)
		b2 = (1 + cosW0) / 2
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha

	case FilterBandpass:
		b0 = alpha
		b1 = 0
		b2 = -alpha
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha

	case FilterNotch:
		b0 = 1
		b1 = -2 * cosW0
		b2 = 1
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha

	case FilterPeak:
		b0 = 1 + alpha*a
		b1 = -2 * cosW0
		b2 = 1 - alpha*a
		a0 = 1 + alpha/a
		a1 = -2 * cosW0
		a2 = 1 - alpha/a

	case FilterLowShelf:
		sqrtA := math.Sqrt(a)
		beta := 2 * sqrtA * alpha
		b0 = a * ((a + 1) - (a-1)*cosW0 + beta)
		b1 = 2 * a * ((a - 1) - (a+1)*cosW0)
		b2 = a * ((a + 1) - (a-1)*cosW0 - beta)
		a0 = (a + 1) + (a-1)*cosW0 + beta
		a1 = -2 * ((a - 1) + (a+1)*cosW0)
		a2 = (a + 1) + (a-1)*cosW0 - beta

	case FilterHighShelf:
		sqrtA := math.Sqrt(a)
		beta := 2 * sqrtA * alpha
		b0 = a * ((a + 1) + (a-1)*cosW0 + beta)
		b1 = -2 * a * ((a - 1) + (a+1)*cosW0)
		b2 = a * ((a + 1) + (a-1)*cosW0 - beta)
		a0 = (a + 1) - (a-1)*cosW0 + beta
		a1 = 2 * ((a - 1) - (a+1)*cosW0)
		a2 = (a + 1) - (a-1)*cosW0 - beta
	}

	b.b0, b.b1, b.b2 = b0/a0, b1/a0, b2/a0
	b.a1, b.a2 = a1/a0, a2/a0
}

// Process filters one sample through direct form I and rotates state.
func (b *Biquad) Process(x float64) float64 {
	y := b.b0*x + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2
	b.x2, b.x1 = b.x1, x
	b.y2, b.y1 = b.y1, y
	return y
}

// Reset zeros filter state but preserves the configured coefficients.
func (b *Biquad) Reset() {
	b.x1, b.x2, b.y1, b.y2 = 0, 0, 0, 0
}
