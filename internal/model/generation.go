package model

import (
	"github.com/carboncoop/homeenergy/internal/behaviour"
	"github.com/carboncoop/homeenergy/internal/datasets"
	"github.com/carboncoop/homeenergy/internal/result"
	"github.com/carboncoop/homeenergy/internal/scenario"
)

// GenerationSource is one on-site generator.
type GenerationSource struct {
	// Annual is the annual output in kWh.
	Annual float64
	// FractionOnsite is the share of output used in the dwelling.
	FractionOnsite float64
	// FIT is the generation tariff in p/kWh.
	FIT float64
}

// PVArray describes a photovoltaic array for the PV calculator.
type PVArray struct {
	KWp         float64
	Orientation datasets.Orientation
	Inclination float64
	Overshading Overshading
}

// GenerationInput describes on-site generation.
type GenerationInput struct {
	Region datasets.Region
	Solar  GenerationSource
	// PV is set when solar output is calculated from the array instead of
	// entered directly.
	PV    *PVArray
	Wind  GenerationSource
	Hydro GenerationSource
	// ExportRate is the export tariff in p/kWh.
	ExportRate float64
}

// Generation computes on-site generation output, savings and income.
type Generation struct {
	input GenerationInput
	fuels *Fuels
	flags behaviour.GenerationFlags
}

// NewGeneration constructs the generation module. Any generation requires the
// generation fuel to price and credit it.
func NewGeneration(in GenerationInput, fuels *Fuels, flags behaviour.GenerationFlags) (*Generation, error) {
	g := &Generation{input: in, fuels: fuels, flags: flags}
	if _, ok := fuels.Get(datasets.GenerationFuel); !ok && g.Total() > 0 {
		return nil, result.NewModelError("generation fuel missing from fuel table", map[string]any{
			"fields": []string{"fuels"},
			"fuel":   datasets.GenerationFuel,
		})
	}
	return g, nil
}

// Name implements Module.
func (g *Generation) Name() string { return "generation" }

// SolarAnnual is the solar PV output in kWh.
func (g *Generation) SolarAnnual() float64 {
	pv := g.input.PV
	if pv == nil {
		return g.input.Solar.Annual
	}
	radiation := datasets.AnnualSolarRadiation(g.input.Region, pv.Orientation, pv.Inclination)
	return 0.8 * pv.KWp * radiation * pv.Overshading.CollectorFactor()
}

func (g *Generation) sources() []GenerationSource {
	solar := g.input.Solar
	solar.Annual = g.SolarAnnual()
	return []GenerationSource{solar, g.input.Wind, g.input.Hydro}
}

// Total is the annual generation in kWh.
func (g *Generation) Total() float64 {
	total := 0.0
	for _, s := range g.sources() {
		total += s.Annual
	}
	return total
}

// UsedOnsite is the annual generation consumed in the dwelling in kWh.
func (g *Generation) UsedOnsite() float64 {
	total := 0.0
	for _, s := range g.sources() {
		total += s.Annual * s.FractionOnsite
	}
	return total
}

// Exported is the annual generation exported to the grid in kWh.
func (g *Generation) Exported() float64 {
	return g.Total() - g.UsedOnsite()
}

// FITIncome is the annual generation tariff income in £.
func (g *Generation) FITIncome() float64 {
	total := 0.0
	for _, s := range g.sources() {
		total += s.Annual * s.FIT / 100
	}
	return total
}

// ExportIncome is the annual export income in £.
func (g *Generation) ExportIncome() float64 {
	return g.Exported() * g.input.ExportRate / 100
}

// Savings is the annual bill saving in £ from displaced imports.
func (g *Generation) Savings() float64 {
	displaced := g.Total()
	if g.flags.CountSavingsUsingOnsiteFraction {
		displaced = g.UsedOnsite()
	}
	return displaced * g.fuels.UnitPrice(datasets.GenerationFuel)
}

// CO2Savings is the annual emissions offset in kg.
func (g *Generation) CO2Savings() float64 {
	f, _ := g.fuels.Get(datasets.GenerationFuel)
	return g.Total() * f.CO2Factor
}

// PrimaryEnergySavings is the annual primary energy offset in kWh.
func (g *Generation) PrimaryEnergySavings() float64 {
	f, _ := g.fuels.Get(datasets.GenerationFuel)
	return g.Total() * f.PrimaryEnergyFactor
}

// OwnedFields implements Module.
func (g *Generation) OwnedFields() []string {
	return []string{
		"generation.solarpv_annual_kwh",
		"generation.total_generation",
		"generation.total_used_onsite",
		"generation.total_exported",
		"generation.total_FIT_income",
		"generation.total_export_income",
		"generation.total_energy_income",
		"generation.annual_savings",
		"generation.total_CO2",
		"generation.total_primaryenergy",
	}
}

// MutateLegacyData implements Module.
func (g *Generation) MutateLegacyData(rec scenario.Record) {
	rec.Set(g.SolarAnnual(), "generation", "solarpv_annual_kwh")
	rec.Set(g.Total(), "generation", "total_generation")
	rec.Set(g.UsedOnsite(), "generation", "total_used_onsite")
	rec.Set(g.Exported(), "generation", "total_exported")
	rec.Set(g.FITIncome(), "generation", "total_FIT_income")
	rec.Set(g.ExportIncome(), "generation", "total_export_income")
	rec.Set(g.FITIncome()+g.ExportIncome(), "generation", "total_energy_income")
	rec.Set(g.Savings(), "generation", "annual_savings")
	rec.Set(g.CO2Savings(), "generation", "total_CO2")
	rec.Set(g.PrimaryEnergySavings(), "generation", "total_primaryenergy")
}
