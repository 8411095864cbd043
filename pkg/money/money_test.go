package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMajorFormatting(t *testing.T) {
	assert.Equal(t, "125.50", Amount(12550).Major())
	assert.Equal(t, "0.05", Amount(5).Major())
	assert.Equal(t, "0.00", Amount(0).Major())
	assert.Equal(t, "-3.07", Amount(-307).Major())
}

func TestSumIsExact(t *testing.T) {
	// Values chosen to drift under binary float accumulation (0.1 + 0.2 ...).
	amounts := make([]Amount, 1000)
	for i := range amounts {
		amounts[i] = 10 // 0.10 in minor units
	}
	assert.Equal(t, Amount(10000), Sum(amounts))
}

func TestIsNegative(t *testing.T) {
	assert.True(t, Amount(-1).IsNegative())
	assert.False(t, Amount(0).IsNegative())
	assert.False(t, Amount(1).IsNegative())
}
