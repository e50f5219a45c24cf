package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carboncoop/homeenergy/internal/datasets"
	"github.com/carboncoop/homeenergy/internal/result"
)

func TestMonth_DaysCoverYear(t *testing.T) {
	total := 0.0
	for _, m := range Months {
		total += m.Days()
	}
	assert.InDelta(t, DaysInYear, total, 1e-9)
	assert.InDelta(t, DaysInYear, Constant(1).WeightedSum(), 1e-9)
}

func TestMonth_OutOfRangePanics(t *testing.T) {
	assert.Panics(t, func() { Month(12).Days() })
	assert.Panics(t, func() { Month(-1).Index() })
}

func TestMonthly_PowerEnergyRoundTrip(t *testing.T) {
	p := MonthlyOf(func(m Month) float64 { return float64(m) * 10 })
	back := KWhToWatts(WattsToKWh(p))
	for _, m := range Months {
		assert.InDelta(t, p[m], back[m], 1e-9)
	}
}

func TestFloors(t *testing.T) {
	floors, err := NewFloors(FloorsInput{Floors: []FloorInput{
		{Name: "Ground", Area: 40, Height: 2.5},
		{Name: "First", Area: 35, Height: 2.4},
		{Name: "Void", Area: 0, Height: 2},
	}})
	require.NoError(t, err)

	assert.InDelta(t, 75, floors.TotalFloorArea(), 1e-9)
	assert.InDelta(t, 184, floors.Volume(), 1e-9)
	assert.Equal(t, 2, floors.NumberOfFloors())
	assert.InDelta(t, 184.0/75, floors.AverageHeight(), 1e-9)
}

func TestFloors_NegativeAreaIsModelError(t *testing.T) {
	_, err := NewFloors(FloorsInput{Floors: []FloorInput{{Name: "Ground", Area: -1, Height: 2.5}}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, result.ErrModel))

	var me *result.ModelError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, []string{"floors.0.area", "floors.0.height"}, me.Fields())
}

func TestOccupancy(t *testing.T) {
	assert.InDelta(t, 1, StandardOccupancy(10), 1e-9)
	assert.InDelta(t, 1, StandardOccupancy(13.9), 1e-9)
	assert.InDelta(t, 1.690, StandardOccupancy(50), 1e-3)
	assert.Greater(t, StandardOccupancy(120), StandardOccupancy(80))

	floors, err := NewFloors(FloorsInput{Floors: []FloorInput{{Area: 50, Height: 2.5}}})
	require.NoError(t, err)

	custom := 4.0
	o := NewOccupancy(OccupancyInput{Custom: &custom}, floors)
	assert.True(t, o.IsCustom())
	assert.InDelta(t, 4, o.Occupancy(), 1e-9)
	assert.False(t, NewOccupancy(OccupancyInput{}, floors).IsCustom())
}

func TestFabric_HeatLoss(t *testing.T) {
	in := testInputs()
	floors, err := NewFloors(in.Floors)
	require.NoError(t, err)
	fabric, err := NewFabric(in.Fabric, floors)
	require.NoError(t, err)

	elements := fabric.Elements()
	assert.InDelta(t, 54, elements[0].NetArea, 1e-9)
	assert.InDelta(t, 27, elements[0].WK, 1e-9)
	assert.InDelta(t, 12, elements[1].WK, 1e-9)

	// 27 + 12 + 10 + 20 element loss, 0.15 × 160 m² bridging.
	assert.InDelta(t, 69, fabric.ElementHeatLoss(), 1e-9)
	assert.InDelta(t, 160, fabric.ExternalArea(), 1e-9)
	assert.InDelta(t, 24, fabric.ThermalBridgingHeatLoss(), 1e-9)
	assert.InDelta(t, 93, fabric.HeatLoss(), 1e-9)

	// (54×150 + 50×9 + 50×110) / 50
	assert.InDelta(t, 281, fabric.ThermalMassParameter(), 1e-9)
}

func TestFabric_HeatLossIsRepeatable(t *testing.T) {
	floors, err := NewFloors(FloorsInput{Floors: []FloorInput{{Area: 40, Height: 2.4}}})
	require.NoError(t, err)
	in := FabricInput{
		Elements: []FabricElementInput{
			{Type: ElementWall, Area: 1.2, UValue: 0.65},
			{Type: ElementRoof, Area: 76, UValue: 0.1},
			{Type: ElementFloor, Area: 3.2, UValue: 0.7},
			{Type: ElementWindow, Area: 6.4, UValue: 0.5},
			{Type: ElementPartyWall, Area: 17.3, UValue: 0.3},
			{Type: ElementDoor, Area: 1.9, UValue: 2.9},
		},
		ThermalBridging: 0.08,
	}

	first, err := NewFabric(in, floors)
	require.NoError(t, err)
	want := 0.0
	for _, e := range first.Elements() {
		want += e.WK
	}
	require.Equal(t, want, first.ElementHeatLoss())

	for range 200 {
		fabric, ferr := NewFabric(in, floors)
		require.NoError(t, ferr)
		require.Equal(t, first.HeatLoss(), fabric.HeatLoss())
		require.Equal(t, want, fabric.ElementHeatLoss())
	}
}

func TestFabric_GlobalTMPOverrides(t *testing.T) {
	in := testInputs()
	tmp := 250.0
	in.Fabric.GlobalTMP = &tmp
	floors, err := NewFloors(in.Floors)
	require.NoError(t, err)
	fabric, err := NewFabric(in.Fabric, floors)
	require.NoError(t, err)
	assert.InDelta(t, 250, fabric.ThermalMassParameter(), 1e-9)
}

func TestFabric_PartyWallExcludedFromExternalArea(t *testing.T) {
	floors, err := NewFloors(FloorsInput{Floors: []FloorInput{{Area: 50, Height: 2.5}}})
	require.NoError(t, err)
	fabric, err := NewFabric(FabricInput{
		Elements: []FabricElementInput{
			{Type: ElementWall, Area: 30, UValue: 0.3},
			{Type: ElementPartyWall, Area: 30, UValue: 0.2},
		},
		ThermalBridging: 0.1,
	}, floors)
	require.NoError(t, err)

	assert.InDelta(t, 30, fabric.ExternalArea(), 1e-9)
	assert.InDelta(t, 15+3, fabric.HeatLoss(), 1e-9)
}

func TestFabric_SolarGainsFollowOrientation(t *testing.T) {
	floors, err := NewFloors(FloorsInput{Floors: []FloorInput{{Area: 50, Height: 2.5}}})
	require.NoError(t, err)

	gains := func(o datasets.Orientation) float64 {
		fabric, ferr := NewFabric(FabricInput{
			Elements: []FabricElementInput{{
				Type: ElementWindow, Area: 4, UValue: 2, G: 0.76, GL: 0.8, FrameFactor: 0.7,
				Orientation: o, Overshading: OvershadingAverage, Tilt: 90,
			}},
		}, floors)
		require.NoError(t, ferr)
		return fabric.SolarGains().Sum()
	}

	assert.Greater(t, gains(datasets.South), gains(datasets.North))
	assert.Greater(t, gains(datasets.North), 0.0)
}

func TestFabric_SubtractFromMissingElement(t *testing.T) {
	floors, err := NewFloors(FloorsInput{Floors: []FloorInput{{Area: 50, Height: 2.5}}})
	require.NoError(t, err)

	_, err = NewFabric(FabricInput{Elements: []FabricElementInput{
		{ID: "wall", Type: ElementWall, Area: 30},
		{ID: "win", Type: ElementWindow, Area: 2, SubtractFrom: "nope"},
	}}, floors)
	require.Error(t, err)

	var me *result.ModelError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, []string{"fabric.elements.1.subtractfrom"}, me.Fields())
}

func TestFabric_SubtractFromSelf(t *testing.T) {
	floors, err := NewFloors(FloorsInput{Floors: []FloorInput{{Area: 50, Height: 2.5}}})
	require.NoError(t, err)
	_, err = NewFabric(FabricInput{Elements: []FabricElementInput{
		{ID: "wall", Type: ElementWall, Area: 30, SubtractFrom: "wall"},
	}}, floors)
	assert.ErrorIs(t, err, result.ErrModel)
}

func TestParseElementType(t *testing.T) {
	for name, want := range map[string]ElementType{
		"Wall":       ElementWall,
		"party wall": ElementPartyWall,
		"Roof_light": ElementRoofLight,
		"rooflight":  ElementRoofLight,
		"window":     ElementWindow,
	} {
		got, err := ParseElementType(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseElementType("chimney")
	assert.Error(t, err)
	assert.Equal(t, "roof_light", ElementRoofLight.String())
}

func TestElementType_StringRoundTrips(t *testing.T) {
	for typ := ElementWall; typ <= ElementHatch; typ++ {
		got, err := ParseElementType(typ.String())
		require.NoError(t, err, typ.String())
		assert.Equal(t, typ, got)
	}
	assert.Equal(t, "ElementType(42)", ElementType(42).String())
}

func TestParseOvershading(t *testing.T) {
	tests := []struct {
		in   any
		want Overshading
	}{
		{"", OvershadingAverage},
		{nil, OvershadingAverage},
		{"none", OvershadingVeryLittle},
		{"Very little", OvershadingVeryLittle},
		{"significant", OvershadingMoreThanAverage},
		{"heavy", OvershadingHeavy},
		{0.0, OvershadingHeavy},
		{"3", OvershadingVeryLittle},
	}
	for _, tt := range tests {
		got, err := ParseOvershading(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseOvershading(7.0)
	assert.Error(t, err)
	_, err = ParseOvershading("gloomy")
	assert.Error(t, err)
}

func newVentilationStack(
	t *testing.T, floors []FloorInput, vent VentilationInput, infil InfiltrationInput,
) (*Infiltration, *AirChangeRate) {
	t.Helper()
	f, err := NewFloors(FloorsInput{Floors: floors})
	require.NoError(t, err)
	common := NewVentilationCommon(VentilationCommonInput{Region: datasets.UKAverage, SidesSheltered: 2})
	v := NewVentilation(vent, f, common)
	i := NewInfiltration(infil, f, common)
	return i, NewAirChangeRate(v, i)
}

func TestInfiltration_Structural(t *testing.T) {
	in := testInputs()
	infil, _ := newVentilationStack(t, in.Floors.Floors, in.Ventilation, in.Infiltration)

	// Timber 0.25, no lobby 0.05, nothing draught-proofed 0.25.
	assert.InDelta(t, 0.55, infil.StructuralInfiltration(), 1e-9)
	// Two extract fans are 20 m³/h in 125 m³.
	assert.InDelta(t, 0.16, infil.OpeningsAirChangeRate(), 1e-9)
	assert.InDelta(t, 0.71, infil.InfiltrationRate(), 1e-9)
	assert.InDelta(t, 0.71*0.85, infil.ShelteredRate(), 1e-9)
}

func TestInfiltration_MasonryMultiStorey(t *testing.T) {
	floors := []FloorInput{{Area: 40, Height: 2.5}, {Area: 40, Height: 2.5}}
	infil, _ := newVentilationStack(t, floors, VentilationInput{Type: NaturalVentilation}, InfiltrationInput{
		Construction:          Masonry,
		WoodenFloor:           UnsealedWoodenFloor,
		DraughtLobby:          true,
		PercentDraughtProofed: 100,
	})
	// 0.35 + 0.2 + 0.05 + 0.1 for the second storey.
	assert.InDelta(t, 0.7, infil.StructuralInfiltration(), 1e-9)
}

func TestInfiltration_PressureTestReplacesStructural(t *testing.T) {
	in := testInputs()
	q50 := 10.0
	in.Infiltration.AirPermeability = &q50
	infil, _ := newVentilationStack(t, in.Floors.Floors, in.Ventilation, in.Infiltration)
	assert.InDelta(t, 0.5+0.16, infil.InfiltrationRate(), 1e-9)
}

func TestAirChangeRate_PartsSumToEffective(t *testing.T) {
	in := testInputs()
	types := []VentilationType{
		NaturalVentilation, IntermittentExtract, PassiveStack, DecentralisedExtract,
		MechanicalExtract, MechanicalVentilation, MechanicalHeatRecovery,
	}
	for _, typ := range types {
		t.Run(string(typ), func(t *testing.T) {
			_, acr := newVentilationStack(t, in.Floors.Floors, VentilationInput{
				Type: typ, SystemAirChangeRate: 0.5, HeatRecoveryEfficiency: 80, SpecificFanPower: 1.5,
			}, in.Infiltration)
			effective := acr.Effective()
			for _, m := range Months {
				assert.GreaterOrEqual(t, acr.InfiltrationPart()[m], 0.0)
				assert.GreaterOrEqual(t, acr.VentilationPart()[m], 0.0)
				assert.InDelta(t, effective[m], acr.InfiltrationPart()[m]+acr.VentilationPart()[m], 1e-12)
			}
		})
	}
}

func TestAirChangeRate_NaturalVentilationFloor(t *testing.T) {
	in := testInputs()
	infil, acr := newVentilationStack(t, in.Floors.Floors, in.Ventilation, in.Infiltration)
	rates := infil.MonthlyRate()
	for _, m := range Months {
		require.Less(t, rates[m], 1.0)
		assert.InDelta(t, 0.5+0.5*rates[m]*rates[m], acr.Effective()[m], 1e-12)
		assert.GreaterOrEqual(t, acr.Effective()[m], 0.5)
	}
}

func TestAirChangeRate_HeatRecovery(t *testing.T) {
	in := testInputs()
	_, acr := newVentilationStack(t, in.Floors.Floors, VentilationInput{
		Type: MechanicalHeatRecovery, SystemAirChangeRate: 0.5, HeatRecoveryEfficiency: 80,
	}, in.Infiltration)
	for _, m := range Months {
		assert.InDelta(t, 0.1, acr.VentilationPart()[m], 1e-12)
	}
}

func TestAirChangeRate_ExtractDominates(t *testing.T) {
	in := testInputs()
	infil, acr := newVentilationStack(t, in.Floors.Floors, VentilationInput{
		Type: MechanicalExtract, SystemAirChangeRate: 5,
	}, in.Infiltration)
	for _, m := range Months {
		assert.InDelta(t, 5, acr.Effective()[m], 1e-12)
		assert.InDelta(t, infil.MonthlyRate()[m], acr.InfiltrationPart()[m], 1e-12)
	}
}

func TestVentilation_Fans(t *testing.T) {
	floors, err := NewFloors(FloorsInput{Floors: []FloorInput{{Area: 50, Height: 2.5}}})
	require.NoError(t, err)
	common := NewVentilationCommon(VentilationCommonInput{SidesSheltered: 2})

	mv := NewVentilation(VentilationInput{Type: MechanicalVentilation, SystemAirChangeRate: 0.5, SpecificFanPower: 2}, floors, common)
	assert.InDelta(t, 0.12*2*125, mv.FanHeatGain(), 1e-9)
	assert.InDelta(t, 2.44*0.5*2*125, mv.FanElectricity(), 1e-9)

	mev := NewVentilation(VentilationInput{Type: MechanicalExtract, SpecificFanPower: 2}, floors, common)
	assert.Zero(t, mev.FanHeatGain())
	assert.InDelta(t, 1.22*2*125, mev.FanElectricity(), 1e-9)

	nv := NewVentilation(VentilationInput{Type: NaturalVentilation, SystemAirChangeRate: 0.5}, floors, common)
	assert.Zero(t, nv.SystemAirChangeRate())
	assert.Zero(t, nv.FanElectricity())
	assert.Zero(t, nv.HeatRecoveryEfficiency())
}

func TestParseWoodenFloor(t *testing.T) {
	for in, want := range map[any]WoodenFloor{
		0.0: NoWoodenFloor, 1.0: UnsealedWoodenFloor, "sealed": SealedWoodenFloor, "": NoWoodenFloor,
	} {
		got, err := ParseWoodenFloor(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseWoodenFloor(3.0)
	assert.Error(t, err)
}

func TestHeatLoss_TotalIsFabricPlusAir(t *testing.T) {
	cm := mustCombine(t, testInputs(), testFlags())
	air := cm.HeatLoss.VentilationWK().Add(cm.HeatLoss.InfiltrationWK())
	assert.InDelta(t, cm.Fabric.HeatLoss()+air.Mean(), cm.HeatLoss.TotalWK(), 1e-9)
	assert.InDelta(t, cm.HeatLoss.TotalWK()/50, cm.HeatLoss.HeatLossParameter(), 1e-9)

	effective := cm.AirChangeRate.Effective()
	for _, m := range Months {
		assert.InDelta(t, 0.33*125*effective[m], air[m], 1e-9)
	}
}
