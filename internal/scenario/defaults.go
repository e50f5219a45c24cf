package scenario

import "github.com/carboncoop/homeenergy/internal/datasets"

// ApplyDefaults fills every input field the engine reads with its legacy
// default when the record does not already hold a value. It never overwrites
// existing values, so applying it twice is the same as applying it once.
func ApplyDefaults(r Record) {
	r.SetDefault(float64(datasets.UKAverage), "region")
	r.SetDefault([]any{}, "floors")
	r.SetDefault(0.0, "use_custom_occupancy")
	r.SetDefault("", "custom_occupancy")
	r.SetDefault(1.0, "use_generation")
	r.SetDefault("SAP2012", "LAC_calculation_type")

	applyFabricDefaults(r)
	applyVentilationDefaults(r)
	applyWaterDefaults(r)
	applyLACDefaults(r)
	applyGenerationDefaults(r)
	applyHeatingDefaults(r)
	applyFuelDefaults(r)
}

func applyFabricDefaults(r Record) {
	r.SetDefault([]any{}, "fabric", "elements")
	r.SetDefault(0.15, "fabric", "thermal_bridging_yvalue")
	r.SetDefault(0.0, "fabric", "global_TMP")
	r.SetDefault("", "fabric", "global_TMP_value")
}

func applyVentilationDefaults(r Record) {
	defaults := map[string]any{
		"number_of_sides_sheltered":         2.0,
		"dwelling_construction":             "timberframe",
		"suspended_wooden_floor":            0.0,
		"draught_lobby":                     0.0,
		"percentage_draught_proofed":        0.0,
		"air_permeability_test":             0.0,
		"air_permeability_value":            0.0,
		"number_of_chimneys":                0.0,
		"number_of_openflues":               0.0,
		"number_of_intermittentfans":        0.0,
		"number_of_passivevents":            0.0,
		"number_of_fluelessgasfires":        0.0,
		"ventilation_type":                  "NV",
		"system_air_change_rate":            0.5,
		"balanced_heat_recovery_efficiency": 65.0,
		"system_specific_fan_power":         3.0,
	}
	for key, value := range defaults {
		r.SetDefault(value, "ventilation", key)
	}
}

func applyWaterDefaults(r Record) {
	defaults := map[string]any{
		"low_water_use_design":        0.0,
		"instantaneous_hotwater":      0.0,
		"solar_water_heating":         0.0,
		"storage":                     0.0,
		"declared_loss_factor_known":  0.0,
		"manufacturer_loss_factor":    0.0,
		"storage_volume":              0.0,
		"insulation_type":             "factory_insulated",
		"insulation_thickness":        0.0,
		"temperature_factor":          0.6,
		"pipework_insulated_fraction": 1.0,
		"hot_water_control_type":      "cylinder_thermostat_separately_timed",
	}
	for key, value := range defaults {
		r.SetDefault(value, "water_heating", key)
	}

	shw := map[string]any{
		"A":                        0.0,
		"n0":                       0.0,
		"a1":                       0.0,
		"a2":                       0.0,
		"orientation":              float64(datasets.South),
		"inclination":              35.0,
		"overshading":              "none",
		"Vs":                       0.0,
		"combined_cylinder_volume": 0.0,
		"pump":                     "electric",
	}
	for key, value := range shw {
		r.SetDefault(value, "SHW", key)
	}
}

func applyLACDefaults(r Record) {
	electricity := func() []any {
		return []any{map[string]any{"fuel": datasets.StandardTariff, "fraction": 1.0}}
	}
	r.SetDefault(0.0, "LAC", "L")
	r.SetDefault(0.0, "LAC", "LLE")
	r.SetDefault(0.0, "LAC", "reduced_heat_gains_lighting")
	r.SetDefault(0.0, "LAC", "energy_efficient_appliances")
	r.SetDefault(0.0, "LAC", "energy_efficient_cooking")
	r.SetDefault(electricity(), "LAC", "fuels_lighting")
	r.SetDefault(electricity(), "LAC", "fuels_appliances")
	r.SetDefault(electricity(), "LAC", "fuels_cooking")
	r.SetDefault([]any{}, "applianceCarbonCoop", "list")
}

func applyGenerationDefaults(r Record) {
	defaults := map[string]any{
		"use_PV_calculator":          0.0,
		"solar_annual_kwh":           0.0,
		"solar_fraction_used_onsite": 0.5,
		"solar_FIT":                  0.0,
		"solarpv_kwp_installed":      0.0,
		"solarpv_orientation":        float64(datasets.South),
		"solarpv_inclination":        35.0,
		"solarpv_overshading":        "none",
		"wind_annual_kwh":            0.0,
		"wind_fraction_used_onsite":  0.7,
		"wind_FIT":                   0.0,
		"hydro_annual_kwh":           0.0,
		"hydro_fraction_used_onsite": 0.6,
		"hydro_FIT":                  0.0,
		"export_rate":                0.0,
	}
	for key, value := range defaults {
		r.SetDefault(value, "generation", key)
	}

	r.SetDefault(map[string]any{}, "currentenergy", "use_by_fuel")
	r.SetDefault(0.0, "currentenergy", "onsite_generation")
	r.SetDefault(0.0, "currentenergy", "generation", "annual_generation")
	r.SetDefault(0.25, "currentenergy", "generation", "fraction_used_onsite")
	r.SetDefault(0.0, "currentenergy", "generation", "annual_FIT_income")
}

func applyHeatingDefaults(r Record) {
	r.SetDefault([]any{}, "heating_systems")
	r.SetDefault(21.0, "temperature", "target")
	r.SetDefault("", "temperature", "living_area")
	r.SetDefault([]any{7.0, 8.0}, "temperature", "hours_off", "weekday")
	r.SetDefault([]any{8.0}, "temperature", "hours_off", "weekend")
	r.SetDefault(1.0, "space_heating", "use_utilfactor_forgains")
	r.SetDefault(1.0, "space_heating", "heating_off_summer")
}

func applyFuelDefaults(r Record) {
	if fuels := r.Sub("fuels"); len(fuels) > 0 {
		return
	}
	table := map[string]any{}
	for name, fuel := range datasets.DefaultFuels() {
		table[name] = map[string]any{
			"category":            fuel.Category,
			"standingcharge":      fuel.StandingCharge,
			"fuelcost":            fuel.FuelCost,
			"co2factor":           fuel.CO2Factor,
			"primaryenergyfactor": fuel.PrimaryEnergyFactor,
		}
	}
	r.Set(table, "fuels")
}
