package model

import (
	"fmt"
	"sort"

	"github.com/carboncoop/homeenergy/internal/behaviour"
	"github.com/carboncoop/homeenergy/internal/datasets"
	"github.com/carboncoop/homeenergy/internal/result"
	"github.com/carboncoop/homeenergy/internal/scenario"
)

// CurrentGeneration is bill-side on-site generation.
type CurrentGeneration struct {
	Annual         float64
	FractionOnsite float64
	FITIncome      float64
}

// CurrentEnergyInput is metered annual use by fuel.
type CurrentEnergyInput struct {
	// UseByFuel maps fuel names to annual use in kWh.
	UseByFuel map[string]float64
	// Generation is nil when there is no on-site generation on the bills.
	Generation *CurrentGeneration
}

// FuelUse is the computed cost and emissions of one metered fuel.
type FuelUse struct {
	Fuel          string
	AnnualUse     float64
	AnnualCO2     float64
	PrimaryEnergy float64
	AnnualCost    float64
}

// CurrentEnergy reconciles metered energy use against fuel factors.
type CurrentEnergy struct {
	input CurrentEnergyInput
	fuels *Fuels
	flags behaviour.CurrentEnergyFlags

	byFuel []FuelUse
}

// NewCurrentEnergy prices each metered fuel. Unknown fuels are a model error.
func NewCurrentEnergy(in CurrentEnergyInput, fuels *Fuels, flags behaviour.CurrentEnergyFlags) (*CurrentEnergy, error) {
	c := &CurrentEnergy{input: in, fuels: fuels, flags: flags}

	names := make([]string, 0, len(in.UseByFuel))
	for name := range in.UseByFuel {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fuel, ok := fuels.Get(name)
		if !ok {
			return nil, result.NewModelError(fmt.Sprintf("unknown fuel %q", name), map[string]any{
				"fields": []string{"currentenergy.use_by_fuel." + name},
				"fuel":   name,
			})
		}
		use := in.UseByFuel[name]
		c.byFuel = append(c.byFuel, FuelUse{
			Fuel:          name,
			AnnualUse:     use,
			AnnualCO2:     use * fuel.CO2Factor,
			PrimaryEnergy: use * fuel.PrimaryEnergyFactor,
			AnnualCost:    use*fuel.FuelCost/100 + fuel.StandingCharge,
		})
	}
	return c, nil
}

// Name implements Module.
func (c *CurrentEnergy) Name() string { return "current-energy" }

// ByFuel returns the priced fuels in name order.
func (c *CurrentEnergy) ByFuel() []FuelUse {
	return append([]FuelUse(nil), c.byFuel...)
}

func (c *CurrentEnergy) totals() (use, co2, primary, cost float64) {
	for _, f := range c.byFuel {
		use += f.AnnualUse
		co2 += f.AnnualCO2
		primary += f.PrimaryEnergy
		cost += f.AnnualCost
	}
	return use, co2, primary, cost
}

// GenerationUsedOnsite is the self-consumed share of bill-side generation in kWh.
func (c *CurrentEnergy) GenerationUsedOnsite() float64 {
	if c.input.Generation == nil {
		return 0
	}
	return c.input.Generation.Annual * c.input.Generation.FractionOnsite
}

// GenerationSavings is the bill saving from self-consumed generation in £.
func (c *CurrentEnergy) GenerationSavings() float64 {
	g := c.input.Generation
	if g == nil {
		return 0
	}
	displaced := g.Annual
	if c.flags.CalculateSavingsIncorporatingOnsiteUse {
		displaced = c.GenerationUsedOnsite()
	}
	return displaced * c.fuels.UnitPrice(datasets.StandardTariff)
}

// EnergyUse is metered use plus self-consumed generation in kWh.
func (c *CurrentEnergy) EnergyUse() float64 {
	use, _, _, _ := c.totals()
	return use + c.GenerationUsedOnsite()
}

// AnnualCO2 is metered emissions less the generation credit in kg.
func (c *CurrentEnergy) AnnualCO2() float64 {
	_, co2, _, _ := c.totals()
	if c.input.Generation == nil {
		return co2
	}
	gen, _ := c.fuels.Get(datasets.GenerationFuel)
	return co2 - c.input.Generation.Annual*gen.CO2Factor
}

// PrimaryEnergy is metered primary energy less the generation credit in kWh.
func (c *CurrentEnergy) PrimaryEnergy() float64 {
	_, _, primary, _ := c.totals()
	if c.input.Generation == nil {
		return primary
	}
	gen, _ := c.fuels.Get(datasets.GenerationFuel)
	return primary - c.input.Generation.Annual*gen.PrimaryEnergyFactor
}

// NetCost is the bill cost less generation savings and income in £.
func (c *CurrentEnergy) NetCost() float64 {
	_, _, _, cost := c.totals()
	income := 0.0
	if c.input.Generation != nil {
		income = c.input.Generation.FITIncome
	}
	return cost - c.GenerationSavings() - income
}

// OwnedFields implements Module.
func (c *CurrentEnergy) OwnedFields() []string {
	return []string{
		"currentenergy.by_fuel",
		"currentenergy.enduse_annual_kwh",
		"currentenergy.annual_co2",
		"currentenergy.primaryenergy_annual_kwh",
		"currentenergy.total_cost",
		"currentenergy.generation_used_onsite",
		"currentenergy.generation_savings",
		"currentenergy.annual_net_cost",
	}
}

// MutateLegacyData implements Module.
func (c *CurrentEnergy) MutateLegacyData(rec scenario.Record) {
	byFuel := map[string]any{}
	for _, f := range c.byFuel {
		byFuel[f.Fuel] = map[string]any{
			"annual_use":    f.AnnualUse,
			"annual_co2":    f.AnnualCO2,
			"primaryenergy": f.PrimaryEnergy,
			"annualcost":    f.AnnualCost,
		}
	}
	_, _, _, cost := c.totals()

	rec.Set(byFuel, "currentenergy", "by_fuel")
	rec.Set(c.EnergyUse(), "currentenergy", "enduse_annual_kwh")
	rec.Set(c.AnnualCO2(), "currentenergy", "annual_co2")
	rec.Set(c.PrimaryEnergy(), "currentenergy", "primaryenergy_annual_kwh")
	rec.Set(cost, "currentenergy", "total_cost")
	rec.Set(c.GenerationUsedOnsite(), "currentenergy", "generation_used_onsite")
	rec.Set(c.GenerationSavings(), "currentenergy", "generation_savings")
	rec.Set(c.NetCost(), "currentenergy", "annual_net_cost")
}
