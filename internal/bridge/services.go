package bridge

import (
	"fmt"
	"strings"

	"github.com/carboncoop/homeenergy/internal/datasets"
	"github.com/carboncoop/homeenergy/internal/model"
	"github.com/carboncoop/homeenergy/internal/scenario"
)

// Combi loss keywords and their annual loss in kWh.
//
//nolint:gochecknoglobals // Fixed lookup table.
var combiLossKeywords = map[string]float64{
	"instantaneous":          600,
	"instantaneous_keep_hot": 900,
	"storage":                0,
}

func (x *extractor) waterCommon() model.WaterCommonInput {
	return model.WaterCommonInput{
		LowWaterUseDesign: x.rec.Bool("water_heating", "low_water_use_design"),
		Instantaneous:     x.rec.Bool("water_heating", "instantaneous_hotwater"),
	}
}

func (x *extractor) solarHotWater(region datasets.Region) model.SolarHotWaterInput {
	if !x.rec.Bool("water_heating", "solar_water_heating") {
		return model.SolarHotWaterInput{}
	}
	shw := x.rec.Sub("SHW")
	orientation, _ := shw.Get("orientation")
	overshading, _ := shw.Get("overshading")

	collector := &model.SolarCollectorInput{
		Region:                 region,
		Area:                   shw.Float("A"),
		ZeroLossEfficiency:     shw.Float("n0"),
		A1:                     shw.Float("a1"),
		A2:                     shw.Float("a2"),
		Orientation:            x.orientation(orientation, "SHW.orientation"),
		Inclination:            shw.FloatOr(35, "inclination"),
		Overshading:            x.overshading(overshading, "SHW.overshading"),
		DedicatedVolume:        shw.Float("Vs"),
		CombinedCylinderVolume: shw.Float("combined_cylinder_volume"),
		ElectricPump:           !strings.EqualFold(shw.String("pump"), "PV"),
	}
	if collector.Area < 0 || collector.ZeroLossEfficiency < 0 {
		x.fail("solar collector area and efficiency must not be negative", "SHW.A", "SHW.n0")
	}
	return model.SolarHotWaterInput{Collector: collector}
}

func (x *extractor) calculationType() model.CalculationType {
	calc, err := model.ParseCalculationType(x.rec.String("LAC_calculation_type"))
	if err != nil {
		x.fail(err.Error(), "LAC_calculation_type")
	}
	return calc
}

func (x *extractor) lighting() model.LightingInput {
	lac := x.rec.Sub("LAC")
	in := model.LightingInput{
		LowEnergyOutlets: lac.Float("LLE"),
		TotalOutlets:     lac.Float("L"),
		ReducedHeatGains: lac.Bool("reduced_heat_gains_lighting"),
		Fuels:            x.fuelShares("LAC", "fuels_lighting"),
	}
	if in.LowEnergyOutlets > in.TotalOutlets {
		x.fail("more low energy outlets than outlets", "LAC.LLE", "LAC.L")
	}
	return in
}

func (x *extractor) appliances() model.AppliancesInput {
	return model.AppliancesInput{
		EnergyEfficient: x.rec.Bool("LAC", "energy_efficient_appliances"),
		Fuels:           x.fuelShares("LAC", "fuels_appliances"),
	}
}

func (x *extractor) cooking() model.CookingInput {
	return model.CookingInput{
		EnergyEfficient: x.rec.Bool("LAC", "energy_efficient_cooking"),
		Fuels:           x.fuelShares("LAC", "fuels_cooking"),
	}
}

// applianceItems reads the itemised list. Anything not in the cooking
// category counts as an appliance.
func (x *extractor) applianceItems() []model.ApplianceItem {
	var items []model.ApplianceItem
	for _, item := range x.items("applianceCarbonCoop", "list") {
		category := model.CategoryAppliances
		if strings.EqualFold(strings.TrimSpace(item.String("category")), string(model.CategoryCooking)) {
			category = model.CategoryCooking
		}
		items = append(items, model.ApplianceItem{
			Category:          category,
			NumberUsed:        item.Float("number_used"),
			APlusRated:        item.Bool("a_plus_rated"),
			NormDemand:        item.Float("norm_demand"),
			UtilisationFactor: item.FloatOr(1, "utilisation_factor"),
			Frequency:         item.FloatOr(1, "frequency"),
			ReferenceQuantity: item.FloatOr(1, "reference_quantity"),
			Fuel:              item.String("fuel"),
			Efficiency:        item.FloatOr(1, "efficiency"),
		})
	}
	return items
}

func (x *extractor) waterHeating() model.WaterHeatingInput {
	water := x.rec.Sub("water_heating")

	control := model.HotWaterControl(strings.TrimSpace(water.String("hot_water_control_type")))
	switch control {
	case "":
		control = model.CylinderThermostatSeparatelyTimed
	case model.CylinderThermostatSeparatelyTimed, model.CylinderThermostatNotSeparatelyTimed, model.NoCylinderThermostat:
	default:
		x.fail(fmt.Sprintf("unknown hot water control %q", control), "water_heating.hot_water_control_type")
		control = model.CylinderThermostatSeparatelyTimed
	}

	in := model.WaterHeatingInput{
		PipeworkInsulatedFraction: water.FloatOr(1, "pipework_insulated_fraction"),
		Control:                   control,
	}
	if water.Bool("storage") {
		in.Cylinder = x.cylinder(water)
	}

	for i, system := range x.items("heating_systems") {
		if !providesWater(system) {
			continue
		}
		if strings.EqualFold(system.String("primary_circuit_loss"), "Yes") {
			in.PrimaryCircuit = true
		}
		in.CombiLoss += x.combiLoss(i, system)
	}
	return in
}

func (x *extractor) cylinder(water scenario.Record) *model.CylinderInput {
	insulation := model.InsulationType(strings.TrimSpace(water.String("insulation_type")))
	switch insulation {
	case "":
		insulation = model.FactoryInsulated
	case model.FactoryInsulated, model.LooseJacket:
	default:
		x.fail(fmt.Sprintf("unknown cylinder insulation %q", insulation), "water_heating.insulation_type")
		insulation = model.FactoryInsulated
	}

	c := &model.CylinderInput{
		Volume:              water.Float("storage_volume"),
		Insulation:          insulation,
		InsulationThickness: water.Float("insulation_thickness"),
		TemperatureFactor:   water.FloatOr(0.6, "temperature_factor"),
	}
	if water.Bool("declared_loss_factor_known") {
		v, _ := water.Get("manufacturer_loss_factor")
		if loss := scenario.OptionalFloat(v); loss != nil {
			c.DeclaredLoss = loss
		} else {
			x.fail("declared loss factor known without a value",
				"water_heating.declared_loss_factor_known", "water_heating.manufacturer_loss_factor")
		}
	}
	if c.Volume < 0 {
		x.fail("cylinder volume is negative", "water_heating.storage_volume")
		c.Volume = 0
	}
	return c
}

// providesWater reports whether a heating system heats water.
func providesWater(system scenario.Record) bool {
	switch strings.TrimSpace(system.String("provides")) {
	case "water", "heating_and_water":
		return true
	default:
		return false
	}
}

func (x *extractor) combiLoss(i int, system scenario.Record) float64 {
	v, _ := system.Get("combi_loss")
	if f, ok := scenario.ToFloat(v); ok {
		return f
	}
	key := strings.ToLower(strings.TrimSpace(scenario.ToString(v)))
	if key == "" || key == "none" {
		return 0
	}
	loss, ok := combiLossKeywords[key]
	if !ok {
		x.fail(fmt.Sprintf("unknown combi loss %q", key), fmt.Sprintf("heating_systems.%d.combi_loss", i))
	}
	return loss
}

func (x *extractor) generation(region datasets.Region) model.GenerationInput {
	gen := x.rec.Sub("generation")
	source := func(prefix string, defaultOnsite float64) model.GenerationSource {
		return model.GenerationSource{
			Annual:         gen.Float(prefix + "_annual_kwh"),
			FractionOnsite: gen.FloatOr(defaultOnsite, prefix+"_fraction_used_onsite"),
			FIT:            gen.Float(prefix + "_FIT"),
		}
	}

	in := model.GenerationInput{
		Region:     region,
		Solar:      source("solar", 0.5),
		Wind:       source("wind", 0.7),
		Hydro:      source("hydro", 0.6),
		ExportRate: gen.Float("export_rate"),
	}
	if gen.Bool("use_PV_calculator") {
		orientation, _ := gen.Get("solarpv_orientation")
		overshading, _ := gen.Get("solarpv_overshading")
		in.PV = &model.PVArray{
			KWp:         gen.Float("solarpv_kwp_installed"),
			Orientation: x.orientation(orientation, "generation.solarpv_orientation"),
			Inclination: gen.FloatOr(35, "solarpv_inclination"),
			Overshading: x.overshading(overshading, "generation.solarpv_overshading"),
		}
	}

	for i, s := range []model.GenerationSource{in.Solar, in.Wind, in.Hydro} {
		if s.FractionOnsite < 0 || s.FractionOnsite > 1 {
			name := [...]string{"solar", "wind", "hydro"}[i]
			x.fail(fmt.Sprintf("%s onsite fraction outside 0..1", name), "generation."+name+"_fraction_used_onsite")
		}
	}
	return in
}

func (x *extractor) currentEnergy() model.CurrentEnergyInput {
	current := x.rec.Sub("currentenergy")
	in := model.CurrentEnergyInput{UseByFuel: map[string]float64{}}

	for name, raw := range current.Sub("use_by_fuel") {
		use, ok := scenario.ToFloat(raw)
		if m, isMap := raw.(map[string]any); isMap {
			use, ok = scenario.ToFloat(m["annual_use"])
		}
		if !ok {
			x.fail(fmt.Sprintf("annual use of %q is not a number", name), "currentenergy.use_by_fuel."+name)
			continue
		}
		in.UseByFuel[name] = use
	}

	if current.Bool("onsite_generation") {
		in.Generation = &model.CurrentGeneration{
			Annual:         current.Float("generation", "annual_generation"),
			FractionOnsite: current.FloatOr(0.25, "generation", "fraction_used_onsite"),
			FITIncome:      current.Float("generation", "annual_FIT_income"),
		}
	}
	return in
}
