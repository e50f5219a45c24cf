package legacy

import (
	"github.com/carboncoop/homeenergy/internal/model"
)

// Gain categories in the annual useful gains breakdown.
const (
	gainsInternal = "Internal"
	gainsSolar    = "Solar"

	solarGainsKey = "solar"
)

// summerMonths are June to September, when heating may be switched off.
func summerMonth(m model.Month) bool {
	return m >= 5 && m <= 8
}

func (p *pipeline) spaceHeatingDemand() error {
	useUtilisation := p.rec.Bool("space_heating", "use_utilfactor_forgains")
	offInSummer := p.rec.Bool("space_heating", "heating_off_summer")
	external := externalTemperatures(p.region)

	lossNames, losses := p.monthlyCategories("losses_WK")
	gainNames, gains := p.monthlyCategories("gains_W")

	var (
		deltaT      model.Monthly
		utilisation model.Monthly
		heatW       model.Monthly
	)
	for _, m := range model.Months {
		deltaT[m] = p.internalTemp[m] - external[m]
		loss := p.heatLoss[m] * deltaT[m]

		eta := 1.0
		if useUtilisation {
			hlp := safeDiv(p.heatLoss[m], p.tfa)
			eta = UtilisationFactor(p.tmp, hlp, p.gains[m], loss)
		}
		utilisation[m] = eta

		demand := loss - eta*p.gains[m]
		heatW[m] = demand
		if demand >= 0 {
			p.spaceHeating[m] = demand * kwhFactor(m)
			p.spaceCooling[m] = 0
		} else {
			p.spaceHeating[m] = 0
			p.spaceCooling[m] = -demand * kwhFactor(m)
		}
		if offInSummer && summerMonth(m) {
			p.spaceHeating[m] = 0
			p.spaceCooling[m] = 0
		}
	}

	usefulGains := map[string]any{gainsInternal: 0.0, gainsSolar: 0.0}
	for _, name := range gainNames {
		category := gainsInternal
		if name == solarGainsKey {
			category = gainsSolar
		}
		kwh := 0.0
		for _, m := range model.Months {
			kwh += utilisation[m] * gains[name][m] * kwhFactor(m)
		}
		usefulGains[category] = usefulGains[category].(float64) + kwh
	}

	annualLosses := map[string]any{}
	for _, name := range lossNames {
		kwh := 0.0
		for _, m := range model.Months {
			kwh += losses[name][m] * deltaT[m] * kwhFactor(m)
		}
		annualLosses[name] = kwh
	}

	heating := p.spaceHeating.Sum()
	cooling := p.spaceCooling.Sum()

	sh := p.rec.Ensure("space_heating")
	sh.Set(utilisation.Array(), "utilisation_factor")
	sh.Set(heatW.Array(), "heat_demand")
	sh.Set(p.spaceHeating.Array(), "heat_demand_kwh")
	sh.Set(p.spaceCooling.Array(), "cooling_demand_kwh")
	sh.Set(heating, "annual_heating_demand")
	sh.Set(cooling, "annual_cooling_demand")
	sh.Set(usefulGains, "annual_useful_gains_kWh")
	sh.Set(annualLosses, "annual_losses_kWh")

	p.rec.Set(safeDiv(heating, p.tfa), "space_heating_demand_m2")
	return nil
}
