package datasets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegion(t *testing.T) {
	assert.True(t, UKAverage.Valid())
	assert.False(t, Region(NumRegions).Valid())
	assert.False(t, Region(-1).Valid())
	assert.Equal(t, "UK average", UKAverage.Name())
	assert.Equal(t, "Region(99)", Region(99).Name())

	// Out-of-range lookups fall back to the UK average.
	assert.InDelta(t, ExternalTemperature(UKAverage, 0), ExternalTemperature(Region(99), 0), 0)
}

func TestClimateTables(t *testing.T) {
	for r := Region(0); r < NumRegions; r++ {
		for m := range 12 {
			assert.Greater(t, WindSpeed(r, m), 0.0)
			assert.Greater(t, HorizontalSolar(r, m), 0.0)
		}
		// Summer is warmer than winter everywhere.
		assert.Greater(t, ExternalTemperature(r, 6), ExternalTemperature(r, 0))
		assert.Greater(t, Latitude(r), 49.0)
	}
}

func TestSolarRadiationOnSurface(t *testing.T) {
	t.Run("HorizontalMatchesTable", func(t *testing.T) {
		for m := range 12 {
			assert.InDelta(t, HorizontalSolar(UKAverage, m),
				SolarRadiationOnSurface(UKAverage, South, 0, m), 1e-9)
		}
	})

	t.Run("SouthBeatsNorthInWinter", func(t *testing.T) {
		south := SolarRadiationOnSurface(UKAverage, South, 90, 0)
		north := SolarRadiationOnSurface(UKAverage, North, 90, 0)
		assert.Greater(t, south, north)
	})

	t.Run("EastWestSymmetric", func(t *testing.T) {
		for m := range 12 {
			assert.InDelta(t,
				SolarRadiationOnSurface(UKAverage, East, 90, m),
				SolarRadiationOnSurface(UKAverage, West, 90, m), 1e-12)
		}
	})

	t.Run("AnnualSouthPitched", func(t *testing.T) {
		annual := AnnualSolarRadiation(UKAverage, South, 30)
		// A south-facing 30° roof in the UK receives roughly 1,000–1,200 kWh/m² a year.
		assert.Greater(t, annual, 900.0)
		assert.Less(t, annual, 1300.0)
	})
}

func TestParseOrientation(t *testing.T) {
	o, err := ParseOrientation("se")
	require.NoError(t, err)
	assert.Equal(t, SouthEast, o)
	assert.Equal(t, "SE", o.String())

	_, err = ParseOrientation("up")
	assert.Error(t, err)
	assert.False(t, Orientation(9).Valid())
}

func TestDefaultFuels(t *testing.T) {
	fuels := DefaultFuels()
	require.Contains(t, fuels, MainsGas)
	require.Contains(t, fuels, StandardTariff)
	require.Contains(t, fuels, GenerationFuel)

	fuels[MainsGas] = Fuel{}
	assert.NotEqual(t, Fuel{}, DefaultFuels()[MainsGas], "DefaultFuels must return a fresh copy")
}
