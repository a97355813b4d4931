package greenops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatters(t *testing.T) {
	assert.Equal(t, "18,248", FormatNumber(18248))
	assert.Equal(t, "-1,000", FormatNumber(-1000))
	assert.Equal(t, "1,234.57", FormatFloat(1234.567, 2))
	assert.Equal(t, "1,235", FormatFloat(1234.567, 0))
	assert.Equal(t, "~1.5 million", FormatLarge(1_500_000))
	assert.Equal(t, "~2.3 billion", FormatLarge(2_300_000_000))
	assert.Equal(t, "999,999", FormatLarge(999_999))
	assert.Equal(t, "$1,586,012.25", FormatCurrency(1586012.25))
	assert.Equal(t, "-$12.50", FormatCurrency(-12.5))
	assert.Equal(t, "42%", FormatPercent(0.42))
	assert.Equal(t, "100%", FormatPercent(1))
}
