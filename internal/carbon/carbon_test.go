package carbon

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToKg(t *testing.T) {
	tests := []struct {
		value float64
		unit  string
		want  float64
	}{
		{1500, "g", 1.5},
		{2, "KG", 2},
		{2, "kgCO2e", 2},
		{1.2, "t", 1200},
		{1.2, "tCO2e", 1200},
		{10, "lb", 4.53592},
	}
	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			got, err := ToKg(tt.value, tt.unit)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestToKg_Errors(t *testing.T) {
	_, err := ToKg(1, "stone")
	require.ErrorIs(t, err, ErrInvalidUnit)
	assert.Contains(t, err.Error(), "stone")

	_, err = ToKg(-1, "kg")
	require.ErrorIs(t, err, ErrNegativeValue)

	_, err = ToKg(math.NaN(), "kg")
	require.ErrorIs(t, err, ErrOverflow)

	_, err = ToKg(math.MaxFloat64, "t")
	require.ErrorIs(t, err, ErrOverflow)
}

func TestEquivalents(t *testing.T) {
	eq, err := Equivalents(1800)
	require.NoError(t, err)
	require.False(t, eq.Empty())
	require.Len(t, eq.Items, 3)

	assert.Equal(t, MilesDriven, eq.Items[0].Kind)
	assert.InDelta(t, 9375, eq.Items[0].Value, 1e-6)
	assert.Equal(t, "9,375", eq.Items[0].Formatted)
	assert.Equal(t, "218,978", eq.Items[1].Formatted)
	assert.Equal(t, "30", eq.Items[2].Formatted)
	assert.Equal(t, "9,375 car miles or 30 tree seedlings", eq.Text)
}

func TestEquivalents_Small(t *testing.T) {
	eq, err := Equivalents(0.5)
	require.NoError(t, err)
	assert.True(t, eq.Empty())
	assert.InDelta(t, 0.5, eq.Kg, 1e-12)
	assert.Empty(t, eq.Text)
}

func TestEquivalents_Errors(t *testing.T) {
	_, err := Equivalents(-120)
	assert.ErrorIs(t, err, ErrNegativeValue)

	_, err = Equivalents(math.Inf(1))
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestFormatLarge(t *testing.T) {
	assert.Equal(t, "1,000", FormatLarge(999.6))
	assert.Equal(t, "~2.5 million", FormatLarge(2_500_000))
	assert.Equal(t, "~1.5 billion", FormatLarge(1_500_000_000))
	assert.Equal(t, "18,248", FormatNumber(18248))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "TreeSeedlings", TreeSeedlings.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}
