package legacy

import (
	"math"

	"github.com/carboncoop/homeenergy/internal/model"
	"github.com/carboncoop/homeenergy/internal/scenario"
)

const (
	defaultTarget             = 21.0
	defaultLivingAreaFraction = 0.3
	maxHLPForDepression       = 6.0
	gammaDecimals             = 8
)

// UtilisationFactor is the fraction of monthly gains that offsets heat loss,
// for a dwelling with thermal mass parameter tmp (kJ/m²K) and heat loss
// parameter hlp (W/m²K). gains and losses are in W.
func UtilisationFactor(tmp, hlp, gains, losses float64) float64 {
	return utilisation(timeConstant(tmp, hlp), gains, losses)
}

// timeConstant is τ in hours.
func timeConstant(tmp, hlp float64) float64 {
	return safeDiv(tmp, 3.6*hlp)
}

func utilisation(tau, gains, losses float64) float64 {
	a := 1 + tau/15
	gamma := roundTo(gains/losses, gammaDecimals)

	var eta float64
	switch {
	case gamma <= 0:
		return 1
	case gamma == 1:
		eta = a / (a + 1)
	default:
		eta = (1 - math.Pow(gamma, a)) / (1 - math.Pow(gamma, a+1))
	}
	if math.IsNaN(eta) || math.IsInf(eta, 0) {
		return 0
	}
	return eta
}

func roundTo(v float64, decimals int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	scale := math.Pow10(decimals)
	return math.Round(v*scale) / scale
}

// heatingPattern is the heating-off hours of one zone on weekdays and weekends.
type heatingPattern struct {
	weekday []float64
	weekend []float64
}

// restOfDwellingPattern returns the heating-off hours outside the living
// area. Control type 3 heats the rest of the dwelling for fewer hours.
func restOfDwellingPattern(controls int, living heatingPattern) heatingPattern {
	if controls == 3 {
		return heatingPattern{weekday: []float64{9, 8}, weekend: []float64{9, 8}}
	}
	return living
}

// restOfDwellingTarget is the demand temperature outside the living area.
func restOfDwellingTarget(controls int, target, hlp float64) float64 {
	hlp = min(hlp, maxHLPForDepression)
	if controls == 1 {
		return target - 0.5*hlp
	}
	return target - hlp + hlp*hlp/12
}

// zoneConditions are the monthly values shared by every zone calculation.
type zoneConditions struct {
	external float64
	heatLoss float64
	gains    float64
	hlp      float64
	tmp      float64
}

// zoneTemperature is the mean temperature of a zone heated to target with the
// given heating-off pattern and system responsiveness.
func zoneTemperature(c zoneConditions, target, responsiveness float64, pattern heatingPattern) float64 {
	tau := timeConstant(c.tmp, c.hlp)
	eta := utilisation(tau, c.gains, c.heatLoss*(target-c.external))
	tc := 4 + 0.25*tau
	unheated := (1-responsiveness)*(target-2) + responsiveness*(c.external+safeDiv(eta*c.gains, c.heatLoss))

	reduction := func(hours []float64) float64 {
		u := 0.0
		for _, off := range hours {
			if off <= tc {
				u += 0.5 * off * off * (target - unheated) / (24 * tc)
			} else {
				u += (target - unheated) * (off - 0.5*tc) / 24
			}
		}
		return u
	}

	weekday := target - reduction(pattern.weekday)
	weekend := target - reduction(pattern.weekend)
	return (5*weekday + 2*weekend) / 7
}

// systemTemperature blends living area and rest of dwelling temperatures for
// one main heating system.
type systemTemperature struct {
	living model.Monthly
	rest   model.Monthly
	mean   model.Monthly
}

func (p *pipeline) systemTemperature(s *heatingSystem, target, livingFraction float64,
	living heatingPattern, external, hlp model.Monthly,
) systemTemperature {
	controls, responsiveness, adjustment := 2, 1.0, 0.0
	if s != nil {
		controls, responsiveness, adjustment = s.controls, s.responsiveness, s.temperatureAdjustment
	}
	rest := restOfDwellingPattern(controls, living)

	var out systemTemperature
	for _, m := range model.Months {
		c := zoneConditions{
			external: external[m],
			heatLoss: p.heatLoss[m],
			gains:    p.gains[m],
			hlp:      hlp[m],
			tmp:      p.tmp,
		}
		out.living[m] = zoneTemperature(c, target, responsiveness, living)
		out.rest[m] = zoneTemperature(c, restOfDwellingTarget(controls, target, hlp[m]), responsiveness, rest)
		out.mean[m] = livingFraction*out.living[m] + (1-livingFraction)*out.rest[m] + adjustment
	}
	return out
}

func (p *pipeline) temperature() error {
	lossNames, losses := p.monthlyCategories("losses_WK")
	gainNames, gains := p.monthlyCategories("gains_W")
	p.heatLoss = sumCategories(lossNames, losses)
	p.gains = sumCategories(gainNames, gains)

	hlp := model.MonthlyOf(func(m model.Month) float64 { return safeDiv(p.heatLoss[m], p.tfa) })
	external := externalTemperatures(p.region)

	target := p.rec.FloatOr(defaultTarget, "temperature", "target")
	livingFraction := defaultLivingAreaFraction
	rawArea, _ := p.rec.Get("temperature", "living_area")
	if area := scenario.OptionalFloat(rawArea); area != nil && p.tfa > 0 {
		livingFraction = *area / p.tfa
	}
	livingFraction = min(1, max(0, livingFraction))

	living := heatingPattern{
		weekday: p.hours("weekday", []float64{7, 8}),
		weekend: p.hours("weekend", []float64{8}),
	}

	first, second := mainSystems(p.systems)
	t1 := p.systemTemperature(first, target, livingFraction, living, external, hlp)
	p.internalTemp = t1.mean
	if second != nil {
		t2 := p.systemTemperature(second, target, livingFraction, living, external, hlp)
		share := 0.0
		if first != nil {
			share = safeDiv(second.fractionSpace, first.fractionSpace+second.fractionSpace)
		}
		p.internalTemp = t1.mean.Scale(1 - share).Add(t2.mean.Scale(share))
	}

	p.rec.Set(p.heatLoss.Array(), "temperature", "total_losses_WK")
	p.rec.Set(p.gains.Array(), "temperature", "total_gains_W")
	p.rec.Set(hlp.Array(), "temperature", "HLP_monthly")
	p.rec.Set(livingFraction, "temperature", "fLA")
	p.rec.Set(t1.living.Array(), "temperature", "mean_internal_temperature_living_area")
	p.rec.Set(t1.rest.Array(), "temperature", "mean_internal_temperature_rest_of_dwelling")
	p.rec.Set(p.internalTemp.Array(), "internal_temperature")
	p.rec.Set(external.Array(), "external_temperature")
	return nil
}

// hours reads a heating-off list, falling back to def when it is empty.
func (p *pipeline) hours(day string, def []float64) []float64 {
	list := p.rec.List("temperature", "hours_off", day)
	if len(list) == 0 {
		return def
	}
	out := make([]float64, 0, len(list))
	for _, v := range list {
		if h, ok := scenario.ToFloat(v); ok && h >= 0 {
			out = append(out, h)
		}
	}
	return out
}
