package legacy

import (
	"math"

	"github.com/carboncoop/homeenergy/internal/scenario"
)

// Rating constants.
const (
	energyCostDeflator       = 0.42
	floorAreaOffset          = 45
	ecfLogThreshold          = 3.5
	carbonFactorLogThreshold = 28.3
)

// ratingExcluded are the requirement categories left out of the SAP rating.
//
//nolint:gochecknoglobals // Fixed category list.
var ratingExcluded = []string{"appliances", "cooking"}

// EnergyCostRating converts an energy cost factor into the SAP rating. Factors
// of 3.5 and above use the logarithmic form.
func EnergyCostRating(ecf float64) float64 {
	if ecf >= ecfLogThreshold {
		return 117 - 121*math.Log10(ecf)
	}
	return 100 - 13.95*ecf
}

// EnvironmentalRating converts a carbon factor in kg/m² into the
// environmental impact rating.
func EnvironmentalRating(cf float64) float64 {
	if cf >= carbonFactorLogThreshold {
		return 200 - 95*math.Log10(cf)
	}
	return 100 - 1.34*cf
}

// zeroRequirements clears the demand and fuel input of one requirement
// category in place.
func zeroRequirements(requirements scenario.Record, category string) {
	entry := requirements.Sub(category)
	if entry == nil {
		return
	}
	entry.Set(0.0, "quantity")
	entry.Set(0.0, "fuel_input")
	for _, raw := range entry.List("list") {
		if item, ok := raw.(map[string]any); ok {
			item["demand"] = 0.0
			item["fuel_input"] = 0.0
		}
	}
}

func (p *pipeline) sapRating() error {
	rated := scenario.Clone(p.rec)
	requirements := rated.Sub("fuel_requirements")
	for _, category := range ratingExcluded {
		zeroRequirements(requirements, category)
	}

	t := p.computeTotals(rated)
	denominator := p.tfa + floorAreaOffset
	ecf := energyCostDeflator * t.totalCost / denominator
	cf := t.annualCO2 / denominator

	sap := p.rec.Ensure("SAP")
	sap.Set(t.totalCost, "total_costs")
	sap.Set(ecf, "ECF")
	sap.Set(EnergyCostRating(ecf), "rating")
	sap.Set(t.annualCO2, "annualco2")
	sap.Set(cf, "CF")
	sap.Set(EnvironmentalRating(cf), "EI_rating")
	return nil
}
