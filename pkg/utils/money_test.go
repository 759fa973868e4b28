package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 5.95, Round2(5.949999999999999))
	assert.Equal(t, 0.01, Round2(0.014))
	assert.Equal(t, 0.02, Round2(0.015000001))
	assert.Equal(t, -1.23, Round2(-1.234))
}

func TestSafeAddSubtract(t *testing.T) {
	assert.Equal(t, 0.3, SafeAdd(0.1, 0.2))
	assert.Equal(t, 79.0, SafeSubtract(100, 21))
	assert.Equal(t, 0.0, SafeSubtract(21.01, 21.01))
}

func TestHasMaxTwoDecimals(t *testing.T) {
	assert.True(t, HasMaxTwoDecimals(20))
	assert.True(t, HasMaxTwoDecimals(20.01))
	assert.True(t, HasMaxTwoDecimals(0.1+0.2)) // float noise must not fail the check
	assert.False(t, HasMaxTwoDecimals(20.011))
	assert.False(t, HasMaxTwoDecimals(0.001))
}
