package compressor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hyperpolymath/volumod/audioblock"
)

func TestGr_BelowKneeIsUnity(t *testing.T) {
	c := New(48000, ModeGentle)
	assert.Equal(t, 0.0, c.gr(c.p.thresholdDB-c.p.kneeDB))
}

func TestGr_AboveKneeFollowsRatio(t *testing.T) {
	c := New(48000, ModeLimiting) // threshold -1, ratio 20, knee 0
	got := c.gr(0)
	assert.InDelta(t, -0.95, got, 1e-6)
}

func TestSetMode_IdempotentForRepeatedCall(t *testing.T) {
	c := New(48000, ModeGentle)
	c.envelope.Process(0.5) // perturb the envelope
	before := c.envelope.Value()
	c.SetMode(ModeGentle)
	assert.Equal(t, before, c.envelope.Value(), "re-selecting the same mode must not reset the envelope")
}

func TestSetMode_SwitchingModeChangesPreset(t *testing.T) {
	c := New(48000, ModeGentle)
	c.SetMode(ModeAggressive)
	assert.Equal(t, presets[ModeAggressive], c.p)
}

func TestProcess_SilenceProducesNoGainReduction(t *testing.T) {
	c := New(48000, ModeAggressive)
	b := audioblock.New(256, 2, 48000)
	// The dB envelope starts at 0 dB and releases toward the -120 dB floor;
	// after a few blocks of silence it sits below the knee.
	for i := 0; i < 10; i++ {
		c.Process(b)
	}
	assert.Equal(t, 0.0, c.GainReductionDB())
}

func TestProcess_LoudSignalProducesGainReduction(t *testing.T) {
	c := New(48000, ModeLimiting)
	b := audioblock.New(256, 2, 48000)
	for i := range b.Samples {
		b.Samples[i] = 0.99
	}
	for i := 0; i < 50; i++ {
		c.Process(b)
	}
	assert.Greater(t, c.GainReductionDB(), 0.0)
}

func TestReset_ZeroesEnvelopeAndMetering(t *testing.T) {
	c := New(48000, ModeAggressive)
	b := audioblock.New(256, 2, 48000)
	for i := range b.Samples {
		b.Samples[i] = 0.99
	}
	c.Process(b)
	c.Reset()
	assert.Equal(t, 0.0, c.GainReductionDB())
	assert.Equal(t, 0.0, c.envelope.Value())
}
