package noise

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hyperpolymath/volumod/audioblock"
	"github.com/hyperpolymath/volumod/dsp"
)

func constantToneBlock(amplitude float64, frames, channels, sampleRate int) *audioblock.Block {
	b := audioblock.New(frames, channels, sampleRate)
	for f := 0; f < frames; f++ {
		v := float32(amplitude * math.Sin(2*math.Pi*440*float64(f)/float64(sampleRate)))
		for ch := 0; ch < channels; ch++ {
			b.Set(f, ch, v)
		}
	}
	return b
}

func TestNew_DefaultsAreAdaptive(t *testing.T) {
	r := New(48000, 2)
	assert.True(t, r.Enabled)
	assert.Equal(t, ModeAdaptive, r.Mode)
}

func TestSetMode_IdempotentNoopOnSameMode(t *testing.T) {
	r := New(48000, 2)
	r.SetMode(ModeLight)
	r.ReductionDB = 99 // force a marker value
	r.SetMode(ModeLight)
	assert.Equal(t, 99.0, r.ReductionDB, "re-applying the same mode must not touch ReductionDB")
}

func TestSetMode_NonAdaptivePresetsMatchTable(t *testing.T) {
	r := New(48000, 2)
	r.SetMode(ModeLight)
	assert.Equal(t, 6.0, r.ReductionDB)
	r.SetMode(ModeModerate)
	assert.Equal(t, 12.0, r.ReductionDB)
	r.SetMode(ModeAggressive)
	assert.Equal(t, 20.0, r.ReductionDB)
}

func TestProcess_DisabledIsNoop(t *testing.T) {
	r := New(48000, 1)
	r.Enabled = false
	b := constantToneBlock(0.5, 256, 1, 48000)
	before := b.Clone()
	r.Process(b)
	assert.Equal(t, before.Samples, b.Samples)
}

func TestProcess_NeverIncreasesPeakAboveInput(t *testing.T) {
	r := New(48000, 1)
	b := constantToneBlock(0.01, 512, 1, 48000) // quiet signal, near the noise floor
	inputPeak := b.Peak()
	r.Process(b)
	assert.LessOrEqual(t, b.Peak(), inputPeak+1e-9)
}

func TestLearnNoise_ConvergesTowardInputLevel(t *testing.T) {
	r := New(48000, 1)
	r.StartLearning()
	expected := dsp.LinearToDB(0.02 / math.Sqrt2) // rms of a 0.02-amplitude sine
	for i := 0; i < 200; i++ {
		r.Process(constantToneBlock(0.02, 512, 1, 48000))
	}
	assert.InDelta(t, expected, r.profile.floorDB, 2.0)
}

func TestStopLearning_FreezesFloor(t *testing.T) {
	r := New(48000, 1)
	r.StartLearning()
	r.Process(constantToneBlock(0.05, 256, 1, 48000))
	r.StopLearning()
	frozen := r.profile.floorDB
	r.Process(constantToneBlock(0.5, 256, 1, 48000))
	assert.Equal(t, frozen, r.profile.floorDB)
}

func TestReset_ClearsLearnedProfile(t *testing.T) {
	r := New(48000, 1)
	r.StartLearning()
	r.Process(constantToneBlock(0.05, 256, 1, 48000))
	r.Reset()
	assert.False(t, r.profile.isLearned)
	assert.False(t, r.LearnNoise)
}

func TestVoiceEnhance_FiltersWithoutPanicking(t *testing.T) {
	r := New(48000, 2)
	r.VoiceEnhance = true
	b := constantToneBlock(0.2, 512, 2, 48000)
	assert.NotPanics(t, func() { r.Process(b) })
}
