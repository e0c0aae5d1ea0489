package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmounts(t *testing.T) {
	assert.Equal(t, "10.00", FormatMinor(1000))
	assert.Equal(t, "2500.50", FormatMinor(250050))
	assert.Equal(t, "0.05", FormatMinor(5))
	assert.Equal(t, "250.00", FormatMajor(250))
}
