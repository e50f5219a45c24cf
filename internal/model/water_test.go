package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carboncoop/homeenergy/internal/behaviour"
	"github.com/carboncoop/homeenergy/internal/datasets"
)

func oneOccupant(t *testing.T) *Occupancy {
	t.Helper()
	floors, err := NewFloors(FloorsInput{Floors: []FloorInput{{Area: 50, Height: 2.5}}})
	require.NoError(t, err)
	n := 1.0
	return NewOccupancy(OccupancyInput{Custom: &n}, floors)
}

func TestWaterCommon_Volume(t *testing.T) {
	occ := oneOccupant(t)
	w := NewWaterCommon(WaterCommonInput{}, occ, behaviour.WaterCommonFlags{})
	assert.InDelta(t, 61, w.AverageDailyVolume(), 1e-9)
	assert.InDelta(t, 61*1.10, w.DailyVolume()[0], 1e-9)

	low := NewWaterCommon(WaterCommonInput{LowWaterUseDesign: true}, occ, behaviour.WaterCommonFlags{})
	assert.InDelta(t, 61*0.95, low.AverageDailyVolume(), 1e-9)
}

func TestWaterCommon_EnergyContent(t *testing.T) {
	w := NewWaterCommon(WaterCommonInput{}, oneOccupant(t), behaviour.WaterCommonFlags{})
	// 4.19 × 67.1 l × 31 d × 41.2 K / 3600
	assert.InDelta(t, 99.745, w.EnergyContent()[0], 1e-3)

	dist := w.DistributionLoss()
	for _, m := range Months {
		assert.InDelta(t, 0.15*w.EnergyContent()[m], dist[m], 1e-9)
	}
	assert.InDelta(t, 1.15*w.EnergyContent().Sum(), w.AnnualDemand(), 1e-9)
}

func TestWaterCommon_InstantaneousDistributionLoss(t *testing.T) {
	occ := oneOccupant(t)
	in := WaterCommonInput{Instantaneous: true}

	kept := NewWaterCommon(in, occ, behaviour.WaterCommonFlags{})
	assert.Greater(t, kept.DistributionLoss().Sum(), 0.0)

	skipped := NewWaterCommon(in, occ, behaviour.WaterCommonFlags{SkipDistributionLossForInstantaneous: true})
	assert.Zero(t, skipped.DistributionLoss().Sum())

	stored := NewWaterCommon(WaterCommonInput{}, occ, behaviour.WaterCommonFlags{SkipDistributionLossForInstantaneous: true})
	assert.Greater(t, stored.DistributionLoss().Sum(), 0.0)
}

func TestWaterHeating_StorageLoss(t *testing.T) {
	common := NewWaterCommon(WaterCommonInput{}, oneOccupant(t), behaviour.WaterCommonFlags{})
	declared := 1.5

	w := NewWaterHeating(WaterHeatingInput{
		Cylinder: &CylinderInput{DeclaredLoss: &declared, Volume: 120, TemperatureFactor: 0.6},
	}, common, noSolarHotWater{})
	assert.InDelta(t, 0.9*31, w.StorageLoss()[0], 1e-9)

	// 120 l factory insulated at 50 mm: 0.005 + 0.55/54, volume factor 1.
	computed := NewWaterHeating(WaterHeatingInput{
		Cylinder: &CylinderInput{Volume: 120, Insulation: FactoryInsulated, InsulationThickness: 50, TemperatureFactor: 0.6},
	}, common, noSolarHotWater{})
	daily := 120 * (0.005 + 0.55/54) * 0.6
	assert.InDelta(t, daily*31, computed.StorageLoss()[0], 1e-9)

	none := NewWaterHeating(WaterHeatingInput{}, common, noSolarHotWater{})
	assert.Zero(t, none.StorageLoss().Sum())
}

func TestWaterHeating_PrimaryCircuitNeedsCylinder(t *testing.T) {
	common := NewWaterCommon(WaterCommonInput{}, oneOccupant(t), behaviour.WaterCommonFlags{})

	w := NewWaterHeating(WaterHeatingInput{
		Cylinder:                  &CylinderInput{Volume: 120, TemperatureFactor: 0.6},
		PipeworkInsulatedFraction: 1,
		Control:                   CylinderThermostatSeparatelyTimed,
		PrimaryCircuit:            true,
	}, common, noSolarHotWater{})
	assert.InDelta(t, 14*(0.0091*3+0.0263)*31, w.PrimaryCircuitLoss()[0], 1e-9)

	combi := NewWaterHeating(WaterHeatingInput{PrimaryCircuit: true}, common, noSolarHotWater{})
	assert.Zero(t, combi.PrimaryCircuitLoss().Sum())
}

func TestWaterHeating_CombiLossScalesWithUse(t *testing.T) {
	common := NewWaterCommon(WaterCommonInput{}, oneOccupant(t), behaviour.WaterCommonFlags{})
	w := NewWaterHeating(WaterHeatingInput{CombiLoss: 600}, common, noSolarHotWater{})

	// Under 100 l/day the loss is scaled by use.
	vd := common.DailyVolume()
	assert.InDelta(t, 600*vd[0]/100*31/365, w.CombiLoss()[0], 1e-9)
}

func TestWaterHeating_OutputNetOfSolar(t *testing.T) {
	common := NewWaterCommon(WaterCommonInput{}, oneOccupant(t), behaviour.WaterCommonFlags{})
	solar := NewSolarHotWater(SolarHotWaterInput{Collector: testCollector()}, common)
	w := NewWaterHeating(WaterHeatingInput{CombiLoss: 600}, common, solar)

	required := w.HeatRequired()
	output := w.Output()
	input := solar.MonthlyInput()
	for _, m := range Months {
		assert.GreaterOrEqual(t, output[m], 0.0)
		assert.InDelta(t, max(0, required[m]-input[m]), output[m], 1e-9)
	}
	assert.Less(t, output.Sum(), required.Sum())
	for _, g := range w.Gains() {
		assert.Greater(t, g, 0.0)
	}
}

func testCollector() *SolarCollectorInput {
	return &SolarCollectorInput{
		Region:             datasets.UKAverage,
		Area:               3,
		ZeroLossEfficiency: 0.8,
		A1:                 4,
		A2:                 0.01,
		Orientation:        datasets.South,
		Inclination:        35,
		Overshading:        OvershadingVeryLittle,
		DedicatedVolume:    75,
		ElectricPump:       true,
	}
}

func TestSolarHotWater_None(t *testing.T) {
	common := NewWaterCommon(WaterCommonInput{}, oneOccupant(t), behaviour.WaterCommonFlags{})
	s := NewSolarHotWater(SolarHotWaterInput{}, common)
	assert.Zero(t, s.MonthlyInput().Sum())
	assert.Zero(t, s.PumpElectricity())
}

func TestSolarHotWater_CollectorCappedAtDemand(t *testing.T) {
	common := NewWaterCommon(WaterCommonInput{}, oneOccupant(t), behaviour.WaterCommonFlags{})
	s := NewSolarHotWater(SolarHotWaterInput{Collector: testCollector()}, common)

	demand := common.EnergyContent().Add(common.DistributionLoss())
	input := s.MonthlyInput()
	assert.Greater(t, input.Sum(), 0.0)
	for _, m := range Months {
		assert.LessOrEqual(t, input[m], demand[m]+1e-9)
	}
	// Summer months deliver more than winter months.
	assert.Greater(t, input[6], input[0])
	assert.InDelta(t, 50, s.PumpElectricity(), 1e-9)
}
