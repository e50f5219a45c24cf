package legacy

import (
	"strings"

	"github.com/carboncoop/homeenergy/internal/scenario"
)

// Main heating system roles.
const (
	mainSystem1       = "mainHS1"
	mainSystem2Prefix = "mainHS2"
)

// warmAirCategory marks warm air heating systems.
const warmAirCategory = "Warm air systems"

// heatingSystem is one entry of the heating_systems list with its legacy
// defaults applied.
type heatingSystem struct {
	index int
	item  scenario.Record

	fuel     string
	category string
	provides string
	main     string

	fractionSpace float64
	fractionWater float64

	efficiency       float64
	winterEfficiency float64
	summerEfficiency float64

	controls              int
	responsiveness        float64
	temperatureAdjustment float64

	pump       float64
	pumpInside bool
	fans       float64
	sfp        float64
}

func parseHeatingSystems(rec scenario.Record) []heatingSystem {
	var systems []heatingSystem
	for i, raw := range rec.List("heating_systems") {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		item := scenario.Record(m)

		s := heatingSystem{
			index:                 i,
			item:                  item,
			fuel:                  item.String("fuel"),
			category:              item.String("category"),
			provides:              strings.TrimSpace(item.String("provides")),
			main:                  strings.TrimSpace(item.String("main_space_heating_system")),
			efficiency:            item.FloatOr(1, "efficiency"),
			controls:              scenario.ToInt(item["heating_controls"], 2),
			responsiveness:        item.FloatOr(1, "responsiveness"),
			temperatureAdjustment: item.Float("temperature_adjustment"),
			pump:                  item.Float("central_heating_pump"),
			pumpInside:            item.Bool("central_heating_pump_inside"),
			fans:                  item.Float("fans_and_supply_pumps"),
			sfp:                   item.Float("sfp"),
		}
		s.winterEfficiency = item.FloatOr(s.efficiency, "winter_efficiency")
		s.summerEfficiency = item.FloatOr(s.efficiency, "summer_efficiency")
		if s.heatsSpace() {
			s.fractionSpace = item.FloatOr(1, "fraction_space")
		}
		if s.heatsWater() {
			s.fractionWater = item.FloatOr(1, "fraction_water_heating")
		}
		if s.controls < 1 || s.controls > 3 {
			s.controls = 2
		}
		systems = append(systems, s)
	}
	return systems
}

func (s heatingSystem) heatsSpace() bool {
	return s.provides == "heating" || s.provides == "heating_and_water"
}

func (s heatingSystem) heatsWater() bool {
	return s.provides == "water" || s.provides == "heating_and_water"
}

func (s heatingSystem) isWarmAir() bool {
	return strings.EqualFold(strings.TrimSpace(s.category), warmAirCategory)
}

// mainSystems returns the primary space heating system and, when present, the
// second main system. Without an explicit mainHS1 the first space heating
// system is primary.
func mainSystems(systems []heatingSystem) (first, second *heatingSystem) {
	for i := range systems {
		s := &systems[i]
		switch {
		case s.main == mainSystem1 && first == nil:
			first = s
		case strings.HasPrefix(s.main, mainSystem2Prefix) && second == nil:
			second = s
		}
	}
	if first == nil {
		for i := range systems {
			if systems[i].heatsSpace() && &systems[i] != second {
				first = &systems[i]
				break
			}
		}
	}
	return first, second
}
