// Package model holds the typed calculation modules. Each module owns an
// immutable input value and references to the modules it depends on, computes
// its outputs once at construction, and writes only the record fields it
// declares through OwnedFields.
package model

import (
	"fmt"
	"strings"

	"github.com/carboncoop/homeenergy/internal/result"
	"github.com/carboncoop/homeenergy/internal/scenario"
)

// Module is implemented by every constructed calculation module.
type Module interface {
	// Name identifies the module in logs and errors.
	Name() string

	// OwnedFields lists the dotted record paths the module writes. A trailing
	// "[]" segment marks a field written into every element of a list.
	OwnedFields() []string

	// MutateLegacyData writes the module's outputs into rec.
	MutateLegacyData(rec scenario.Record)
}

// Overshading is the SAP overshading category of a glazed or collector surface.
type Overshading int

// Overshading categories, from most to least shaded.
const (
	OvershadingHeavy Overshading = iota
	OvershadingMoreThanAverage
	OvershadingAverage
	OvershadingVeryLittle
)

// ParseOvershading accepts a category index (0–3) or a name such as
// "more_than_average". Empty values read as average.
func ParseOvershading(v any) (Overshading, error) {
	if f, ok := scenario.ToFloat(v); ok {
		o := Overshading(int(f))
		if float64(o) != f || o < OvershadingHeavy || o > OvershadingVeryLittle {
			return OvershadingAverage, fmt.Errorf("overshading index %v out of range", v)
		}
		return o, nil
	}

	name := strings.ToLower(strings.TrimSpace(scenario.ToString(v)))
	name = strings.NewReplacer(" ", "_", "-", "_", ">", "").Replace(name)
	switch name {
	case "":
		return OvershadingAverage, nil
	case "heavy", "80%":
		return OvershadingHeavy, nil
	case "more_than_average", "significant", "60%_80%":
		return OvershadingMoreThanAverage, nil
	case "average", "average_or_unknown", "modest", "20%_60%":
		return OvershadingAverage, nil
	case "very_little", "none", "none_or_very_little", "20%":
		return OvershadingVeryLittle, nil
	default:
		return OvershadingAverage, fmt.Errorf("unknown overshading %q", name)
	}
}

// SolarAccessFactor is the winter solar access factor for glazing.
func (o Overshading) SolarAccessFactor() float64 {
	return [...]float64{0.3, 0.54, 0.77, 1.0}[o]
}

// LightAccessFactor is the light access factor for glazing.
func (o Overshading) LightAccessFactor() float64 {
	return [...]float64{0.5, 0.67, 0.83, 1.0}[o]
}

// CollectorFactor is the overshading factor for solar collectors and PV panels.
func (o Overshading) CollectorFactor() float64 {
	return [...]float64{0.5, 0.65, 0.8, 1.0}[o]
}

// FuelShare assigns a fraction of a demand to a named fuel.
type FuelShare struct {
	Fuel     string
	Fraction float64
}

// FuelRequirement is one fuel's part of a module's demand.
type FuelRequirement struct {
	Fuel      string
	Fraction  float64
	Demand    float64
	FuelInput float64
}

// fuelRequirementsRecord renders requirements in the stored legacy shape.
func fuelRequirementsRecord(reqs []FuelRequirement) map[string]any {
	list := make([]any, 0, len(reqs))
	quantity := 0.0
	fuelInput := 0.0
	for _, r := range reqs {
		quantity += r.Demand
		fuelInput += r.FuelInput
		list = append(list, map[string]any{
			"fuel":       r.Fuel,
			"fraction":   r.Fraction,
			"demand":     r.Demand,
			"fuel_input": r.FuelInput,
		})
	}
	return map[string]any{
		"quantity":   quantity,
		"fuel_input": fuelInput,
		"list":       list,
	}
}

// splitByShares divides an annual demand across fuel shares with unit efficiency.
func splitByShares(demand float64, shares []FuelShare) []FuelRequirement {
	reqs := make([]FuelRequirement, 0, len(shares))
	for _, s := range shares {
		reqs = append(reqs, FuelRequirement{
			Fuel:      s.Fuel,
			Fraction:  s.Fraction,
			Demand:    demand * s.Fraction,
			FuelInput: demand * s.Fraction,
		})
	}
	return reqs
}

// requireFuels checks every share names a known fuel.
func requireFuels(fuels *Fuels, field string, shares []FuelShare) error {
	for i, s := range shares {
		if _, ok := fuels.Get(s.Fuel); !ok {
			return result.NewModelError(fmt.Sprintf("unknown fuel %q", s.Fuel), map[string]any{
				"fields": []string{fmt.Sprintf("%s.%d.fuel", field, i)},
				"fuel":   s.Fuel,
			})
		}
	}
	return nil
}

// safeDiv returns a/b, or 0 when b is zero.
func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
