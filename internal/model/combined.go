package model

import (
	"errors"
	"fmt"

	"github.com/carboncoop/homeenergy/internal/behaviour"
	"github.com/carboncoop/homeenergy/internal/result"
	"github.com/carboncoop/homeenergy/internal/scenario"
)

// Inputs is the typed input bundle, one value per module, extracted once per
// run and never modified afterwards.
type Inputs struct {
	Fuels             FuelsInput
	Floors            FloorsInput
	Occupancy         OccupancyInput
	Fabric            FabricInput
	VentilationCommon VentilationCommonInput
	Ventilation       VentilationInput
	Infiltration      InfiltrationInput
	WaterCommon       WaterCommonInput
	SolarHotWater     SolarHotWaterInput
	CalculationType   CalculationType
	Lighting          LightingInput
	Appliances        AppliancesInput
	Cooking           CookingInput
	ApplianceItems    []ApplianceItem
	WaterHeating      WaterHeatingInput
	Generation        GenerationInput
	CurrentEnergy     CurrentEnergyInput
}

// CombinedModules is the composition root: every module constructed in
// dependency order with only its declared dependencies.
type CombinedModules struct {
	Flags behaviour.Flags

	Fuels             *Fuels
	Floors            *Floors
	Occupancy         *Occupancy
	Fabric            *Fabric
	VentilationCommon *VentilationCommon
	Ventilation       *Ventilation
	Infiltration      *Infiltration
	AirChangeRate     *AirChangeRate
	HeatLoss          *HeatLoss
	WaterCommon       *WaterCommon
	SolarHotWater     SolarHotWater
	Lighting          Lighting
	Appliances        Appliances
	Cooking           Cooking
	WaterHeating      *WaterHeating
	Generation        *Generation
	CurrentEnergy     *CurrentEnergy
}

// NewCombinedModules constructs every module. The first construction failure
// is returned as the scenario's single model error.
func NewCombinedModules(in Inputs, flags behaviour.Flags) (*CombinedModules, error) {
	cm := &CombinedModules{Flags: flags}
	var err error

	cm.Fuels = NewFuels(in.Fuels)
	if cm.Floors, err = NewFloors(in.Floors); err != nil {
		return nil, wrapConstruction("floors", err)
	}
	cm.Occupancy = NewOccupancy(in.Occupancy, cm.Floors)
	if cm.Fabric, err = NewFabric(in.Fabric, cm.Floors); err != nil {
		return nil, wrapConstruction("fabric", err)
	}
	cm.VentilationCommon = NewVentilationCommon(in.VentilationCommon)
	cm.Ventilation = NewVentilation(in.Ventilation, cm.Floors, cm.VentilationCommon)
	cm.Infiltration = NewInfiltration(in.Infiltration, cm.Floors, cm.VentilationCommon)
	cm.AirChangeRate = NewAirChangeRate(cm.Ventilation, cm.Infiltration)
	cm.HeatLoss = NewHeatLoss(cm.Floors, cm.Fabric, cm.AirChangeRate)
	cm.WaterCommon = NewWaterCommon(in.WaterCommon, cm.Occupancy, flags.WaterCommon)
	cm.SolarHotWater = NewSolarHotWater(in.SolarHotWater, cm.WaterCommon)

	if cm.Lighting, err = NewLighting(in.CalculationType, in.Lighting, cm.Floors, cm.Occupancy,
		cm.Fabric, cm.Fuels, flags.Lighting); err != nil {
		return nil, wrapConstruction("lighting", err)
	}
	if cm.Appliances, err = NewAppliances(in.CalculationType, in.Appliances, in.ApplianceItems,
		cm.Floors, cm.Occupancy, cm.Fuels, flags.Appliances, flags.CarbonCoopAppliancesCooking); err != nil {
		return nil, wrapConstruction("appliances", err)
	}
	if cm.Cooking, err = NewCooking(in.CalculationType, in.Cooking, in.ApplianceItems,
		cm.Occupancy, cm.Fuels, flags.CarbonCoopAppliancesCooking); err != nil {
		return nil, wrapConstruction("cooking", err)
	}

	cm.WaterHeating = NewWaterHeating(in.WaterHeating, cm.WaterCommon, cm.SolarHotWater)
	if cm.Generation, err = NewGeneration(in.Generation, cm.Fuels, flags.Generation); err != nil {
		return nil, wrapConstruction("generation", err)
	}
	if cm.CurrentEnergy, err = NewCurrentEnergy(in.CurrentEnergy, cm.Fuels, flags.CurrentEnergy); err != nil {
		return nil, wrapConstruction("current-energy", err)
	}
	return cm, nil
}

// wrapConstruction adds the failing module to a model error's context.
func wrapConstruction(module string, err error) error {
	var me *result.ModelError
	if errors.As(err, &me) {
		ctx := map[string]any{"module": module}
		for k, v := range me.Context {
			ctx[k] = v
		}
		return result.NewModelError(me.Message, ctx)
	}
	return fmt.Errorf("constructing %s: %w", module, err)
}

// Modules returns every module in construction order.
func (cm *CombinedModules) Modules() []Module {
	return []Module{
		cm.Fuels, cm.Floors, cm.Occupancy, cm.Fabric, cm.VentilationCommon, cm.Ventilation,
		cm.Infiltration, cm.AirChangeRate, cm.HeatLoss, cm.WaterCommon, cm.SolarHotWater,
		cm.Lighting, cm.Appliances, cm.Cooking, cm.WaterHeating, cm.Generation, cm.CurrentEnergy,
	}
}

// MutateLegacyData writes every module's outputs into rec in construction
// order, then stores the handle under scenario.ModelKey.
func (cm *CombinedModules) MutateLegacyData(rec scenario.Record) {
	for _, m := range cm.Modules() {
		m.MutateLegacyData(rec)
	}
	rec.Set(result.Ok(cm), scenario.ModelKey)
}

// Handle returns the engine handle stored in rec, if any.
func Handle(rec scenario.Record) (result.Result[*CombinedModules], bool) {
	v, ok := rec.Model()
	if !ok {
		return result.Result[*CombinedModules]{}, false
	}
	r, ok := v.(result.Result[*CombinedModules])
	return r, ok
}
