// Package bridge extracts the typed model inputs from a legacy scenario record.
//
// Every extractor reads the same full record and reports problems instead of
// stopping, so a single extraction lists every invalid field at once.
package bridge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/carboncoop/homeenergy/internal/datasets"
	"github.com/carboncoop/homeenergy/internal/model"
	"github.com/carboncoop/homeenergy/internal/result"
	"github.com/carboncoop/homeenergy/internal/scenario"
)

// Extract builds model.Inputs from rec. rec is not modified. Invalid field
// combinations are merged into one *result.ModelError naming every field.
func Extract(rec scenario.Record) result.Result[model.Inputs] {
	x := &extractor{rec: rec}
	region := x.region()

	in := model.Inputs{
		Fuels:             x.fuels(),
		Floors:            x.floors(),
		Occupancy:         x.occupancy(),
		Fabric:            x.fabric(region),
		VentilationCommon: x.ventilationCommon(region),
		Ventilation:       x.ventilation(),
		Infiltration:      x.infiltration(),
		WaterCommon:       x.waterCommon(),
		SolarHotWater:     x.solarHotWater(region),
		CalculationType:   x.calculationType(),
		Lighting:          x.lighting(),
		Appliances:        x.appliances(),
		Cooking:           x.cooking(),
		ApplianceItems:    x.applianceItems(),
		WaterHeating:      x.waterHeating(),
		Generation:        x.generation(region),
		CurrentEnergy:     x.currentEnergy(),
	}

	if err := x.err(); err != nil {
		return result.Err[model.Inputs](err)
	}
	return result.Ok(in)
}

type problem struct {
	message string
	fields  []string
}

type extractor struct {
	rec      scenario.Record
	problems []problem
}

func (x *extractor) fail(message string, fields ...string) {
	x.problems = append(x.problems, problem{message: message, fields: fields})
}

// err merges every recorded problem into one model error.
func (x *extractor) err() error {
	if len(x.problems) == 0 {
		return nil
	}
	sort.SliceStable(x.problems, func(i, j int) bool {
		return firstField(x.problems[i]) < firstField(x.problems[j])
	})
	messages := make([]string, 0, len(x.problems))
	var fields []string
	seen := map[string]bool{}
	for _, p := range x.problems {
		messages = append(messages, p.message)
		for _, f := range p.fields {
			if !seen[f] {
				seen[f] = true
				fields = append(fields, f)
			}
		}
	}
	return result.NewModelError(strings.Join(messages, "; "), map[string]any{
		"fields":   fields,
		"problems": len(x.problems),
	})
}

func firstField(p problem) string {
	if len(p.fields) == 0 {
		return ""
	}
	return p.fields[0]
}

func (x *extractor) region() datasets.Region {
	v, ok := x.rec.Get("region")
	if !ok || v == nil || v == "" {
		return datasets.UKAverage
	}
	f, ok := scenario.ToFloat(v)
	r := datasets.Region(int(f))
	if !ok || float64(r) != f || !r.Valid() {
		x.fail(fmt.Sprintf("invalid region %v", v), "region")
		return datasets.UKAverage
	}
	return r
}

func (x *extractor) fuels() model.FuelsInput {
	table := map[string]datasets.Fuel{}
	for name, raw := range x.rec.Sub("fuels") {
		m, ok := raw.(map[string]any)
		if !ok {
			x.fail(fmt.Sprintf("fuel %q is not an object", name), "fuels."+name)
			continue
		}
		entry := scenario.Record(m)
		table[name] = datasets.Fuel{
			Category:            entry.String("category"),
			StandingCharge:      entry.Float("standingcharge"),
			FuelCost:            entry.Float("fuelcost"),
			CO2Factor:           entry.Float("co2factor"),
			PrimaryEnergyFactor: entry.Float("primaryenergyfactor"),
		}
	}
	return model.FuelsInput{Table: table}
}

// items returns the list at path as records, reporting non-object entries.
func (x *extractor) items(path ...string) []scenario.Record {
	list := x.rec.List(path...)
	out := make([]scenario.Record, 0, len(list))
	for i, raw := range list {
		m, ok := raw.(map[string]any)
		if !ok {
			field := fmt.Sprintf("%s.%d", strings.Join(path, "."), i)
			x.fail(fmt.Sprintf("%s is not an object", field), field)
			m = map[string]any{}
		}
		out = append(out, scenario.Record(m))
	}
	return out
}

// fuelShares reads a list of {fuel, fraction} entries.
func (x *extractor) fuelShares(path ...string) []model.FuelShare {
	var shares []model.FuelShare
	for _, item := range x.items(path...) {
		shares = append(shares, model.FuelShare{
			Fuel:     item.String("fuel"),
			Fraction: item.FloatOr(1, "fraction"),
		})
	}
	return shares
}

func (x *extractor) orientation(v any, field string) datasets.Orientation {
	if f, ok := scenario.ToFloat(v); ok {
		o := datasets.Orientation(int(f))
		if float64(o) != f || !o.Valid() {
			x.fail(fmt.Sprintf("orientation %v out of range", v), field)
			return datasets.South
		}
		return o
	}
	s := scenario.ToString(v)
	if s == "" {
		return datasets.South
	}
	o, err := datasets.ParseOrientation(s)
	if err != nil {
		x.fail(err.Error(), field)
		return datasets.South
	}
	return o
}

func (x *extractor) overshading(v any, field string) model.Overshading {
	o, err := model.ParseOvershading(v)
	if err != nil {
		x.fail(err.Error(), field)
	}
	return o
}
