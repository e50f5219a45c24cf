package model

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carboncoop/homeenergy/internal/behaviour"
	"github.com/carboncoop/homeenergy/internal/datasets"
	"github.com/carboncoop/homeenergy/internal/scenario"
)

func electricity() []FuelShare {
	return []FuelShare{{Fuel: datasets.StandardTariff, Fraction: 1}}
}

// testInputs is a 50 m² single storey dwelling with a south window.
func testInputs() Inputs {
	return Inputs{
		Fuels:  FuelsInput{Table: datasets.DefaultFuels()},
		Floors: FloorsInput{Floors: []FloorInput{{Name: "Ground", Area: 50, Height: 2.5}}},
		Fabric: FabricInput{
			Region: datasets.UKAverage,
			Elements: []FabricElementInput{
				{ID: "wall", Type: ElementWall, Area: 60, UValue: 0.5, KValue: 150},
				{ID: "win", Type: ElementWindow, Area: 6, UValue: 2, G: 0.76, GL: 0.8, FrameFactor: 0.7,
					Orientation: datasets.South, Overshading: OvershadingAverage, Tilt: 90, SubtractFrom: "wall"},
				{ID: "roof", Type: ElementLoft, Area: 50, UValue: 0.2, KValue: 9},
				{ID: "floor", Type: ElementFloor, Area: 50, UValue: 0.4, KValue: 110},
			},
			ThermalBridging: 0.15,
		},
		VentilationCommon: VentilationCommonInput{Region: datasets.UKAverage, SidesSheltered: 2},
		Ventilation:       VentilationInput{Type: NaturalVentilation, SystemAirChangeRate: 0.5},
		Infiltration: InfiltrationInput{
			Construction: TimberFrame,
			Openings:     Openings{IntermittentFans: 2},
		},
		CalculationType: SAPCalculation,
		Lighting:        LightingInput{Fuels: electricity()},
		Appliances:      AppliancesInput{Fuels: electricity()},
		Cooking:         CookingInput{Fuels: electricity()},
		WaterHeating: WaterHeatingInput{
			PipeworkInsulatedFraction: 1,
			Control:                   CylinderThermostatSeparatelyTimed,
			CombiLoss:                 600,
		},
		Generation: GenerationInput{Region: datasets.UKAverage},
	}
}

func mustCombine(t *testing.T, in Inputs, flags behaviour.Flags) *CombinedModules {
	t.Helper()
	cm, err := NewCombinedModules(in, flags)
	require.NoError(t, err)
	return cm
}

// testRecord holds the list shapes that module mutators write into.
func testRecord(in Inputs) scenario.Record {
	rec := scenario.New()
	floors := make([]any, len(in.Floors.Floors))
	for i, f := range in.Floors.Floors {
		floors[i] = map[string]any{"name": f.Name, "area": f.Area, "height": f.Height}
	}
	elements := make([]any, len(in.Fabric.Elements))
	for i, e := range in.Fabric.Elements {
		elements[i] = map[string]any{"id": e.ID, "type": e.Type.String()}
	}
	rec.Set(floors, "floors")
	rec.Set(elements, "fabric", "elements")
	return rec
}

// leaves flattens rec into dotted leaf paths. Lists of maps use "[]".
func leaves(prefix string, v any, out map[string]any) {
	switch t := v.(type) {
	case map[string]any:
		for k, inner := range t {
			leaves(join(prefix, k), inner, out)
		}
	case scenario.Record:
		leaves(prefix, map[string]any(t), out)
	case []any:
		if len(t) > 0 {
			if _, ok := t[0].(map[string]any); ok {
				for _, inner := range t {
					leaves(prefix+"[]", inner, out)
				}
				return
			}
		}
		out[prefix] = t
	default:
		out[prefix] = t
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func testFlags() behaviour.Flags {
	return behaviour.ConstructFlags(behaviour.Numbered(behaviour.LatestVersion))
}
