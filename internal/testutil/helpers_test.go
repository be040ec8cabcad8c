package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeakAbs(t *testing.T) {
	assert.Zero(t, PeakAbs(nil))
	assert.Equal(t, 3.0, PeakAbs([]float64{1, -3, 2}))
}

func TestAssertHelpers_Pass(t *testing.T) {
	s := []float64{0, 0.5, -0.5}
	assert.True(t, AssertNoNaNOrInf(t, s))
	assert.True(t, AssertAllInRange(t, s, -1, 1))
	assert.True(t, AssertAllZero(t, []float64{0, 0}))
	assert.True(t, AssertLengthEquals(t, s, 3))
	assert.True(t, AssertRelativeError(t, 100, 101, 0.02))
	assert.True(t, AssertInRange(t, 0.5, 0, 1))
}
