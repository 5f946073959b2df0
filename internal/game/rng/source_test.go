package rng_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/embervault/crawler/internal/game/rng"
)

// fixedSrc returns a constant value for every Intn call.
type fixedSrc struct{ val int }

func (f fixedSrc) Intn(_ int) int { return f.val }

// TestCryptoSource_Intn_InRange verifies the postcondition:
// every value returned by Intn(6) is in [0, 6).
func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := rng.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

// TestCryptoSource_Intn_PanicsOnZero verifies the precondition:
// Intn panics when called with n <= 0.
func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := rng.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestRoller_Intn_Delegates(t *testing.T) {
	r := rng.NewRoller(fixedSrc{val: 7}, zap.NewNop())
	assert.Equal(t, 7, r.Intn(10))
}

func TestRoller_Chance_Extremes(t *testing.T) {
	r := rng.NewRoller(fixedSrc{val: 9999}, zap.NewNop())
	assert.False(t, r.Chance(0))
	assert.False(t, r.Chance(-0.5))
	assert.True(t, r.Chance(1))
	assert.True(t, r.Chance(1.5))
}

func TestChance_Threshold(t *testing.T) {
	assert.True(t, rng.Chance(fixedSrc{val: 4999}, 0.5))
	assert.False(t, rng.Chance(fixedSrc{val: 5000}, 0.5))
	assert.False(t, rng.Chance(fixedSrc{val: 0}, 0))
	assert.True(t, rng.Chance(fixedSrc{val: 9999}, 1))
}

func TestRoller_Chance_Threshold(t *testing.T) {
	// Roll of 4999 succeeds against p=0.5 (4999 < 5000); 5000 does not.
	low := rng.NewRoller(fixedSrc{val: 4999}, zap.NewNop())
	assert.True(t, low.Chance(0.5))

	high := rng.NewRoller(fixedSrc{val: 5000}, zap.NewNop())
	assert.False(t, high.Chance(0.5))
}
