package legacy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUtilisationFactor_Boundaries(t *testing.T) {
	const tmp, hlp = 250.0, 2.0
	tau := tmp / (3.6 * hlp)
	a := 1 + tau/15

	assert.Equal(t, 1.0, UtilisationFactor(tmp, hlp, 0, 1000), "no gains")
	assert.InDelta(t, a/(a+1), UtilisationFactor(tmp, hlp, 1000, 1000), 1e-12)
	assert.Equal(t, 1.0, UtilisationFactor(tmp, hlp, 500, -1000), "negative losses")
	assert.Equal(t, 0.0, UtilisationFactor(tmp, hlp, 500, 0), "no losses")
	assert.Equal(t, 0.0, UtilisationFactor(tmp, hlp, 0, 0))
}

func TestUtilisationFactor_ContinuousAtOne(t *testing.T) {
	const tmp, hlp = 250.0, 2.0
	atOne := UtilisationFactor(tmp, hlp, 1000, 1000)
	for _, eps := range []float64{1e-3, 1e-5, 1e-7} {
		below := UtilisationFactor(tmp, hlp, 1000*(1-eps), 1000)
		above := UtilisationFactor(tmp, hlp, 1000*(1+eps), 1000)
		assert.InDelta(t, atOne, below, 1e-2*eps*1e3+1e-6, "below by %g", eps)
		assert.InDelta(t, atOne, above, 1e-2*eps*1e3+1e-6, "above by %g", eps)
		assert.Greater(t, below, above, "utilisation falls as gains rise")
	}
}

func TestUtilisationFactor_RoundsGamma(t *testing.T) {
	// Ratios within 5e-9 of one are treated as exactly one.
	assert.Equal(t,
		UtilisationFactor(250, 2, 1000, 1000),
		UtilisationFactor(250, 2, 1000+1e-7, 1000))
}

func TestUtilisationFactor_ZeroHeatLossParameter(t *testing.T) {
	// τ falls back to zero so a is one.
	assert.InDelta(t, 0.5, UtilisationFactor(250, 0, 1000, 1000), 1e-12)
	eta := UtilisationFactor(250, 0, 300, 1000)
	assert.False(t, math.IsNaN(eta))
	assert.InDelta(t, (1-0.3)/(1-0.09), eta, 1e-12)
}

func TestEnergyCostRating_Threshold(t *testing.T) {
	linear := 100 - 13.95*3.5
	logarithmic := 117 - 121*math.Log10(3.5)
	assert.InDelta(t, linear, logarithmic, 0.01, "branches meet at the threshold")
	assert.InDelta(t, logarithmic, EnergyCostRating(3.5), 1e-12)

	assert.InDelta(t, 100-13.95*2, EnergyCostRating(2), 1e-12)
	assert.InDelta(t, 100-13.95*3.4999, EnergyCostRating(3.4999), 1e-12)
	assert.InDelta(t, 117-121*math.Log10(10), EnergyCostRating(10), 1e-12)
}

func TestEnvironmentalRating_Threshold(t *testing.T) {
	linear := 100 - 1.34*28.3
	logarithmic := 200 - 95*math.Log10(28.3)
	assert.InDelta(t, linear, logarithmic, 0.01)
	assert.InDelta(t, logarithmic, EnvironmentalRating(28.3), 1e-12)
	assert.InDelta(t, 100-1.34*10, EnvironmentalRating(10), 1e-12)
}

func TestRestOfDwellingTarget(t *testing.T) {
	assert.InDelta(t, 20, restOfDwellingTarget(1, 21, 2), 1e-12)
	assert.InDelta(t, 21-2+4.0/12, restOfDwellingTarget(2, 21, 2), 1e-12)
	assert.InDelta(t, 21-2+4.0/12, restOfDwellingTarget(3, 21, 2), 1e-12)
	assert.InDelta(t, 21-6+3, restOfDwellingTarget(2, 21, 8), 1e-12, "HLP capped at 6")
	assert.InDelta(t, 18, restOfDwellingTarget(1, 21, 9), 1e-12)
}

func TestRestOfDwellingPattern(t *testing.T) {
	living := heatingPattern{weekday: []float64{7, 8}, weekend: []float64{8}}
	assert.Equal(t, living, restOfDwellingPattern(1, living))
	assert.Equal(t, living, restOfDwellingPattern(2, living))
	assert.Equal(t, []float64{9, 8}, restOfDwellingPattern(3, living).weekend)
}

func TestZoneTemperature_HeatingOffLowersMean(t *testing.T) {
	c := zoneConditions{external: 5, heatLoss: 150, gains: 500, hlp: 3, tmp: 250}
	always := zoneTemperature(c, 21, 1, heatingPattern{})
	assert.InDelta(t, 21, always, 1e-12)

	off := zoneTemperature(c, 21, 1, heatingPattern{weekday: []float64{7, 8}, weekend: []float64{8}})
	assert.Less(t, off, 21.0)
	assert.Greater(t, off, 5.0)
}

func TestCombinedWaterEfficiency(t *testing.T) {
	got := combinedWaterEfficiency(1000, 1000, 0.9, 0.8)
	assert.InDelta(t, 2000/(1000/0.9+1000/0.8), got, 1e-12)
	assert.InDelta(t, 0.8, combinedWaterEfficiency(0, 1000, 0.9, 0.8), 1e-12)
	assert.Zero(t, combinedWaterEfficiency(0, 0, 0.9, 0.8))
}

