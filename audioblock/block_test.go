package audioblock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestNew_FrameCountMatchesRequest(t *testing.T) {
	b := New(512, 2, 48000)
	assert.Equal(t, 512, b.FrameCount())
	assert.Len(t, b.Samples, 1024)
}

func TestGetSet_RoundTrip(t *testing.T) {
	b := New(4, 2, 48000)
	b.Set(1, 1, 0.75)
	assert.Equal(t, float32(0.75), b.Get(1, 1))
	assert.Equal(t, float32(0), b.Get(0, 0))
}

func TestGetSet_OutOfRangeIsNoop(t *testing.T) {
	b := New(2, 2, 48000)
	assert.NotPanics(t, func() {
		b.Set(-1, 0, 1)
		b.Set(100, 0, 1)
		b.Set(0, -1, 1)
		b.Set(0, 100, 1)
	})
	assert.Equal(t, float32(0), b.Get(-1, 0))
	assert.Equal(t, float32(0), b.Get(100, 0))
}

func TestPeak_FindsMaxMagnitude(t *testing.T) {
	b := New(4, 1, 48000)
	b.Samples = []float32{0.1, -0.9, 0.3, -0.2}
	assert.InDelta(t, 0.9, b.Peak(), 1e-6)
}

func TestRMS_EmptyBlockIsZero(t *testing.T) {
	b := &Block{Channels: 1}
	assert.Equal(t, 0.0, b.RMS())
}

func TestRMS_ConstantSignal(t *testing.T) {
	b := New(100, 1, 48000)
	for i := range b.Samples {
		b.Samples[i] = 0.5
	}
	assert.InDelta(t, 0.5, b.RMS(), 1e-6)
}

func TestApplyGain_Scales(t *testing.T) {
	b := New(1, 1, 48000)
	b.Samples[0] = 0.5
	b.ApplyGain(2.0)
	assert.InDelta(t, 1.0, b.Samples[0], 1e-6)
}

func TestMix_MismatchedLengthIsNoop(t *testing.T) {
	a := New(2, 1, 48000)
	other := New(3, 1, 48000)
	a.Samples[0] = 0.5
	a.Mix(other, 1.0)
	assert.Equal(t, float32(0.5), a.Samples[0])
}

func TestMix_AddsScaledSamples(t *testing.T) {
	a := New(2, 1, 48000)
	b := New(2, 1, 48000)
	a.Samples = []float32{0.1, 0.2}
	b.Samples = []float32{1, 1}
	a.Mix(b, 0.5)
	assert.InDelta(t, 0.6, a.Samples[0], 1e-6)
	assert.InDelta(t, 0.7, a.Samples[1], 1e-6)
}

func TestClone_IsIndependentCopy(t *testing.T) {
	a := New(2, 1, 48000)
	a.Samples[0] = 0.3
	b := a.Clone()
	b.Samples[0] = 0.9
	assert.Equal(t, float32(0.3), a.Samples[0])
	assert.Equal(t, float32(0.9), b.Samples[0])
}

func TestClear_ZeroesAllSamples(t *testing.T) {
	b := New(4, 2, 48000)
	for i := range b.Samples {
		b.Samples[i] = 1
	}
	b.Clear()
	for _, s := range b.Samples {
		assert.Equal(t, float32(0), s)
	}
}

func TestPeak_NeverExceedsInputMagnitude(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 64).Draw(t, "n")
		b := New(n, 1, 48000)
		maxAbs := float32(0)
		for i := range b.Samples {
			v := float32(rapid.Float64Range(-1, 1).Draw(t, "v"))
			b.Samples[i] = v
			if v < 0 {
				v = -v
			}
			if v > maxAbs {
				maxAbs = v
			}
		}
		assert.InDelta(t, float64(maxAbs), b.Peak(), 1e-6)
	})
}
