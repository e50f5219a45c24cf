package legacy

import (
	"github.com/carboncoop/homeenergy/internal/datasets"
	"github.com/carboncoop/homeenergy/internal/model"
)

// Per-occupant internal gains in W.
const (
	metabolicGainPerPerson = 60
	evaporationLossPerson  = -40
)

// Fans and pumps gains in W.
const (
	centralHeatingPumpGain = 3
	oilBoilerPumpGain      = 10
	warmAirFanGainPerM3    = 0.06
	warmAirFanKWhPerSFPM3  = 0.4
)

// inHeatingSeason reports whether pumps run in month m (October to May).
func inHeatingSeason(m model.Month) bool {
	return m <= 4 || m >= 9
}

func (p *pipeline) internalGains() error {
	p.rec.Set(model.Constant(metabolicGainPerPerson*p.occupancy).Array(), "gains_W", "metabolic")
	p.rec.Set(model.Constant(evaporationLossPerson*p.occupancy).Array(), "gains_W", "losses")

	fanGain := p.rec.Float("ventilation", "fan_gain_W")
	pumpKWh := 0.0
	var gains model.Monthly
	for _, s := range p.systems {
		seasonal := 0.0
		if s.pumpInside {
			if s.pump > 0 {
				seasonal += centralHeatingPumpGain
			}
			if fuel, ok := p.fuels.Get(s.fuel); ok && fuel.Category == datasets.CategoryOil {
				seasonal += oilBoilerPumpGain
			}
		}
		if s.isWarmAir() {
			if !p.flags.FansAndPumps.WarmAirSystemFanGainAlwaysZero {
				seasonal += warmAirFanGainPerM3 * p.volume
			}
			pumpKWh += s.sfp * warmAirFanKWhPerSFPM3 * p.volume
		}
		gains = gains.Add(model.MonthlyOf(func(m model.Month) float64 {
			if inHeatingSeason(m) {
				return seasonal
			}
			return 0
		}))
		pumpKWh += s.pump + s.fans
	}
	gains = gains.Add(model.Constant(fanGain))
	p.rec.Set(gains.Array(), "gains_W", "fans_and_pumps")

	electricity := pumpKWh +
		p.rec.Float("ventilation", "fan_annual_kWh") +
		p.rec.Float("SHW", "pump_annual_kWh")
	p.rec.Set(electricity, "fans_and_pumps_annual_kWh")
	p.rec.Set(requirementsRecord([]requirement{{
		fuel:      datasets.StandardTariff,
		fraction:  1,
		demand:    electricity,
		fuelInput: electricity,
	}}), "fuel_requirements", "fans_and_pumps")
	return nil
}
