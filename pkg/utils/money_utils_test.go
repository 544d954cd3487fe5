package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundCurrency(t *testing.T) {
	// Naive float math gives 29.970000000000002 here.
	assert.Equal(t, 29.97, RoundCurrency(9.99*3))

	assert.Equal(t, 2.00, RoundCurrency(1.9951))
	assert.Equal(t, 2.34, RoundCurrency(2.3449))
	assert.Equal(t, 0.1, RoundCurrency(0.1))
	assert.Equal(t, 0.0, RoundCurrency(0))
	assert.Equal(t, -2.35, RoundCurrency(-2.3451))
	assert.Equal(t, 7.50, RoundCurrency((5.00+1.50+0.75+0.25)*1))
}
