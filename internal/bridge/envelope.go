package bridge

import (
	"fmt"
	"strings"

	"github.com/carboncoop/homeenergy/internal/datasets"
	"github.com/carboncoop/homeenergy/internal/model"
	"github.com/carboncoop/homeenergy/internal/scenario"
)

// Glazing defaults applied when a window omits them.
const (
	defaultGValue      = 0.76
	defaultLightFactor = 0.8
	defaultFrameFactor = 0.7
)

func (x *extractor) floors() model.FloorsInput {
	var in model.FloorsInput
	for _, item := range x.items("floors") {
		in.Floors = append(in.Floors, model.FloorInput{
			Name:   item.String("name"),
			Area:   item.Float("area"),
			Height: item.Float("height"),
		})
	}
	return in
}

func (x *extractor) occupancy() model.OccupancyInput {
	if !x.rec.Bool("use_custom_occupancy") {
		return model.OccupancyInput{}
	}
	v, _ := x.rec.Get("custom_occupancy")
	custom := scenario.OptionalFloat(v)
	if custom == nil {
		x.fail("custom occupancy enabled without a value", "use_custom_occupancy", "custom_occupancy")
		return model.OccupancyInput{}
	}
	if *custom < 0 {
		x.fail("custom occupancy is negative", "custom_occupancy")
		return model.OccupancyInput{}
	}
	return model.OccupancyInput{Custom: custom}
}

func (x *extractor) fabric(region datasets.Region) model.FabricInput {
	in := model.FabricInput{
		Region:          region,
		ThermalBridging: x.rec.FloatOr(0.15, "fabric", "thermal_bridging_yvalue"),
	}

	if x.rec.Bool("fabric", "global_TMP") {
		v, _ := x.rec.Get("fabric", "global_TMP_value")
		if tmp := scenario.OptionalFloat(v); tmp != nil {
			in.GlobalTMP = tmp
		} else {
			x.fail("global TMP enabled without a value", "fabric.global_TMP", "fabric.global_TMP_value")
		}
	}

	for i, item := range x.items("fabric", "elements") {
		in.Elements = append(in.Elements, x.element(i, item))
	}
	return in
}

func (x *extractor) element(i int, item scenario.Record) model.FabricElementInput {
	field := func(name string) string { return fmt.Sprintf("fabric.elements.%d.%s", i, name) }

	typ, err := model.ParseElementType(item.String("type"))
	if err != nil {
		x.fail(err.Error(), field("type"))
	}

	area := item.FloatOr(item.Float("l")*item.Float("h"), "area")

	id, _ := item.Get("id")
	subtract, _ := item.Get("subtractfrom")
	orientation, _ := item.Get("orientation")
	overshading, _ := item.Get("overshading")

	el := model.FabricElementInput{
		ID:           scenario.ToString(id),
		Type:         typ,
		Area:         area,
		UValue:       item.Float("uvalue"),
		KValue:       item.Float("kvalue"),
		SubtractFrom: strings.TrimSpace(scenario.ToString(subtract)),
	}
	if !typ.IsGlazed() {
		return el
	}

	el.Orientation = x.orientation(orientation, field("orientation"))
	el.Overshading = x.overshading(overshading, field("overshading"))
	el.G = item.FloatOr(defaultGValue, "g")
	el.GL = item.FloatOr(defaultLightFactor, "gL")
	el.FrameFactor = item.FloatOr(defaultFrameFactor, "ff")
	if typ == model.ElementRoofLight {
		el.Tilt = item.FloatOr(0, "tilt")
	} else {
		el.Tilt = item.FloatOr(90, "tilt")
	}
	return el
}

func (x *extractor) ventilationCommon(region datasets.Region) model.VentilationCommonInput {
	sides := x.rec.FloatOr(2, "ventilation", "number_of_sides_sheltered")
	if sides < 0 || sides > 4 || sides != float64(int(sides)) {
		x.fail(fmt.Sprintf("sheltered sides %v outside 0..4", sides), "ventilation.number_of_sides_sheltered")
		sides = 2
	}
	return model.VentilationCommonInput{Region: region, SidesSheltered: int(sides)}
}

func (x *extractor) ventilation() model.VentilationInput {
	typ, err := model.ParseVentilationType(x.rec.String("ventilation", "ventilation_type"))
	if err != nil {
		x.fail(err.Error(), "ventilation.ventilation_type")
	}
	return model.VentilationInput{
		Type:                   typ,
		SystemAirChangeRate:    x.rec.FloatOr(0.5, "ventilation", "system_air_change_rate"),
		HeatRecoveryEfficiency: x.rec.FloatOr(65, "ventilation", "balanced_heat_recovery_efficiency"),
		SpecificFanPower:       x.rec.FloatOr(3, "ventilation", "system_specific_fan_power"),
	}
}

func (x *extractor) infiltration() model.InfiltrationInput {
	vent := x.rec.Sub("ventilation")

	construction := model.Construction(strings.ToLower(strings.TrimSpace(vent.String("dwelling_construction"))))
	switch construction {
	case "":
		construction = model.TimberFrame
	case model.TimberFrame, model.Masonry:
	default:
		x.fail(fmt.Sprintf("unknown dwelling construction %q", construction), "ventilation.dwelling_construction")
		construction = model.TimberFrame
	}

	rawFloor, _ := vent.Get("suspended_wooden_floor")
	floor, err := model.ParseWoodenFloor(rawFloor)
	if err != nil {
		x.fail(err.Error(), "ventilation.suspended_wooden_floor")
	}

	in := model.InfiltrationInput{
		Construction:          construction,
		WoodenFloor:           floor,
		DraughtLobby:          vent.Bool("draught_lobby"),
		PercentDraughtProofed: vent.Float("percentage_draught_proofed"),
		Openings: model.Openings{
			Chimneys:         x.count("number_of_chimneys"),
			OpenFlues:        x.count("number_of_openflues"),
			IntermittentFans: x.count("number_of_intermittentfans"),
			PassiveVents:     x.count("number_of_passivevents"),
			FluelessGasFires: x.count("number_of_fluelessgasfires"),
		},
	}
	if in.PercentDraughtProofed < 0 || in.PercentDraughtProofed > 100 {
		x.fail("draught proofing percentage outside 0..100", "ventilation.percentage_draught_proofed")
		in.PercentDraughtProofed = min(100, max(0, in.PercentDraughtProofed))
	}

	if vent.Bool("air_permeability_test") {
		v, _ := vent.Get("air_permeability_value")
		if q50 := scenario.OptionalFloat(v); q50 != nil {
			in.AirPermeability = q50
		} else {
			x.fail("air permeability test without a value",
				"ventilation.air_permeability_test", "ventilation.air_permeability_value")
		}
	}
	return in
}

// count reads a non-negative opening count from the ventilation section.
func (x *extractor) count(key string) int {
	n := x.rec.Float("ventilation", key)
	if n < 0 {
		x.fail(fmt.Sprintf("%s is negative", key), "ventilation."+key)
		return 0
	}
	return int(n)
}
