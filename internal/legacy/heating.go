package legacy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/carboncoop/homeenergy/internal/datasets"
	"github.com/carboncoop/homeenergy/internal/result"
	"github.com/carboncoop/homeenergy/internal/scenario"
)

// Requirement categories written by the heating systems step.
const (
	requirementSpaceHeating = "space_heating"
	requirementWaterHeating = "water_heating"
)

// generationTotal is the fuel_totals entry offsetting on-site generation.
const generationTotal = "generation"

// requirement is one fuel's share of a demand category.
type requirement struct {
	fuel      string
	fraction  float64
	demand    float64
	fuelInput float64
}

// requirementsRecord renders requirements in the stored fuel_requirements shape.
func requirementsRecord(reqs []requirement) map[string]any {
	list := make([]any, 0, len(reqs))
	quantity, fuelInput := 0.0, 0.0
	for _, r := range reqs {
		quantity += r.demand
		fuelInput += r.fuelInput
		list = append(list, map[string]any{
			"fuel":       r.fuel,
			"fraction":   r.fraction,
			"demand":     r.demand,
			"fuel_input": r.fuelInput,
		})
	}
	return map[string]any{
		"quantity":   quantity,
		"fuel_input": fuelInput,
		"list":       list,
	}
}

// combinedWaterEfficiency blends winter and summer efficiencies by the space
// and water demand the system serves.
func combinedWaterEfficiency(space, water, winter, summer float64) float64 {
	return safeDiv(space+water, safeDiv(space, winter)+safeDiv(water, summer))
}

func (p *pipeline) heatingSystems() error {
	spaceDemand := p.rec.Float("space_heating", "annual_heating_demand")
	waterDemand := p.rec.Float("water_heating", "annual_waterheating_demand")

	var (
		space, water []requirement
		messages     []string
		fields       []string
	)
	for _, s := range p.systems {
		spaceShare := spaceDemand * s.fractionSpace
		waterShare := waterDemand * s.fractionWater

		if _, ok := p.fuels.Get(s.fuel); !ok && (s.heatsSpace() || s.heatsWater()) {
			messages = append(messages, fmt.Sprintf("heating system %d uses unknown fuel %q", s.index, s.fuel))
			fields = append(fields, fmt.Sprintf("heating_systems.%d.fuel", s.index))
			continue
		}

		spaceEfficiency := s.efficiency
		waterEfficiency := s.efficiency
		if s.provides == "heating_and_water" {
			spaceEfficiency = s.winterEfficiency
			waterEfficiency = combinedWaterEfficiency(spaceShare, waterShare, s.winterEfficiency, s.summerEfficiency)
		}

		spaceFuel := safeDiv(spaceShare, spaceEfficiency)
		waterFuel := safeDiv(waterShare, waterEfficiency)
		if s.heatsSpace() {
			space = append(space, requirement{s.fuel, s.fractionSpace, spaceShare, spaceFuel})
		}
		if s.heatsWater() {
			water = append(water, requirement{s.fuel, s.fractionWater, waterShare, waterFuel})
		}

		s.item.Set(spaceShare, "demand_space")
		s.item.Set(waterShare, "demand_water")
		s.item.Set(waterEfficiency, "water_efficiency")
		s.item.Set(spaceFuel+waterFuel, "fuel_input")
	}
	if len(fields) > 0 {
		return result.NewModelError(strings.Join(messages, "; "), map[string]any{"fields": fields})
	}

	p.rec.Set(requirementsRecord(space), "fuel_requirements", requirementSpaceHeating)
	p.rec.Set(requirementsRecord(water), "fuel_requirements", requirementWaterHeating)
	return nil
}

// fuelTotal is the annual use of one fuel and what it costs and emits.
type fuelTotal struct {
	name          string
	quantity      float64
	annualCost    float64
	annualCO2     float64
	primaryEnergy float64
}

func (t fuelTotal) record() map[string]any {
	return map[string]any{
		"name":          t.name,
		"quantity":      t.quantity,
		"annualcost":    t.annualCost,
		"annualco2":     t.annualCO2,
		"primaryenergy": t.primaryEnergy,
	}
}

// totals is the aggregate of every fuel total.
type totals struct {
	fuels           []fuelTotal
	energyUse       float64
	annualCO2       float64
	primaryEnergy   float64
	totalCost       float64
	generationSaved float64
}

// aggregateFuels sums fuel inputs across every requirement category per fuel,
// in name order, then prices them.
func aggregateFuels(requirements scenario.Record, lookup func(string) (datasets.Fuel, bool)) []fuelTotal {
	categories := make([]string, 0, len(requirements))
	for name := range requirements {
		categories = append(categories, name)
	}
	sort.Strings(categories)

	quantities := map[string]float64{}
	for _, category := range categories {
		entries, _ := requirements[category].(map[string]any)
		list, _ := entries["list"].([]any)
		for _, raw := range list {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			fuel := scenario.ToString(entry["fuel"])
			quantities[fuel] += scenario.FloatOr(entry["fuel_input"], 0)
		}
	}

	names := make([]string, 0, len(quantities))
	for name := range quantities {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]fuelTotal, 0, len(names))
	for _, name := range names {
		q := quantities[name]
		fuel, _ := lookup(name)
		t := fuelTotal{
			name:          name,
			quantity:      q,
			annualCost:    q * fuel.FuelCost / 100,
			annualCO2:     q * fuel.CO2Factor,
			primaryEnergy: q * fuel.PrimaryEnergyFactor,
		}
		if q > 0 {
			t.annualCost += fuel.StandingCharge
		}
		out = append(out, t)
	}
	return out
}

// computeTotals aggregates the requirements in rec, adding the generation
// offset when generation counts towards the totals.
func (p *pipeline) computeTotals(rec scenario.Record) totals {
	var t totals
	t.fuels = aggregateFuels(rec.Sub("fuel_requirements"), p.fuels.Get)
	for _, f := range t.fuels {
		t.totalCost += f.annualCost
	}

	if rec.Bool("use_generation") && rec.Float("generation", "total_generation") > 0 {
		gen := fuelTotal{
			name:          generationTotal,
			quantity:      -rec.Float("generation", "total_generation"),
			annualCO2:     -rec.Float("generation", "total_CO2"),
			primaryEnergy: -rec.Float("generation", "total_primaryenergy"),
			annualCost:    -rec.Float("generation", "annual_savings"),
		}
		t.generationSaved = gen.annualCost
		t.fuels = append(t.fuels, gen)
	}

	for _, f := range t.fuels {
		t.energyUse += f.quantity
		t.annualCO2 += f.annualCO2
		t.primaryEnergy += f.primaryEnergy
	}
	return t
}

func (p *pipeline) fuelTotals() error {
	t := p.computeTotals(p.rec)

	byName := make(map[string]any, len(t.fuels))
	for _, f := range t.fuels {
		byName[f.name] = f.record()
	}

	income := 0.0
	if p.rec.Bool("use_generation") {
		income = p.rec.Float("generation", "total_energy_income")
	}

	p.rec.Set(byName, "fuel_totals")
	p.rec.Set(t.energyUse, "energy_use")
	p.rec.Set(t.annualCO2, "annualco2")
	p.rec.Set(t.primaryEnergy, "primary_energy_use")
	p.rec.Set(t.totalCost, "total_cost")
	p.rec.Set(income, "total_income")
	p.rec.Set(t.totalCost+t.generationSaved-income, "net_cost")
	p.rec.Set(safeDiv(t.energyUse, 365*p.occupancy), "kwhdpp")
	p.rec.Set(safeDiv(t.primaryEnergy, p.tfa), "primary_energy_use_m2")
	p.rec.Set(safeDiv(t.annualCO2, p.tfa), "kgco2perm2")
	return nil
}
