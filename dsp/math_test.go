package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestDBToLinear_Unity(t *testing.T) {
	assert.InDelta(t, 1.0, DBToLinear(0), 1e-9)
}

func TestLinearToDB_SilenceFloor(t *testing.T) {
	assert.Equal(t, SilenceFloorDB, LinearToDB(0))
	assert.Equal(t, SilenceFloorDB, LinearToDB(-5))
}

func TestDBLinearRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		db := rapid.Float64Range(-100, 20).Draw(t, "db")
		got := LinearToDB(DBToLinear(db))
		assert.InDelta(t, db, got, 1e-6)
	})
}

func TestClamp_StaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lo := rapid.Float64Range(-1000, 0).Draw(t, "lo")
		hi := rapid.Float64Range(0, 1000).Draw(t, "hi")
		v := rapid.Float64Range(-2000, 2000).Draw(t, "v")
		got := Clamp(v, lo, hi)
		assert.GreaterOrEqual(t, got, lo)
		assert.LessOrEqual(t, got, hi)
	})
}

func TestClamp_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lo := rapid.Float64Range(-1000, 0).Draw(t, "lo")
		hi := rapid.Float64Range(0, 1000).Draw(t, "hi")
		v := rapid.Float64Range(-2000, 2000).Draw(t, "v")
		once := Clamp(v, lo, hi)
		twice := Clamp(once, lo, hi)
		assert.Equal(t, once, twice)
	})
}

func TestSmoothCoef_NonPositiveTimeIsInstantaneous(t *testing.T) {
	assert.Equal(t, 1.0, SmoothCoef(0, 48000))
	assert.Equal(t, 1.0, SmoothCoef(-5, 48000))
}

func TestSmoothCoef_BoundedUnitInterval(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ms := rapid.Float64Range(0.1, 5000).Draw(t, "ms")
		c := SmoothCoef(ms, 48000)
		assert.Greater(t, c, 0.0)
		assert.LessOrEqual(t, c, 1.0)
		assert.False(t, math.IsNaN(c))
	})
}
