package model

import "github.com/carboncoop/homeenergy/internal/scenario"

// volumetricHeatCapacity is the heat capacity of air in Wh/m³K.
const volumetricHeatCapacity = 0.33

// HeatLoss combines fabric and air change heat loss coefficients.
type HeatLoss struct {
	floors *Floors
	fabric *Fabric
	acr    *AirChangeRate
}

// NewHeatLoss constructs the heat loss module.
func NewHeatLoss(floors *Floors, fabric *Fabric, acr *AirChangeRate) *HeatLoss {
	return &HeatLoss{floors: floors, fabric: fabric, acr: acr}
}

// Name implements Module.
func (h *HeatLoss) Name() string { return "heat-loss" }

// VentilationWK is the monthly ventilation heat loss coefficient in W/K.
func (h *HeatLoss) VentilationWK() Monthly {
	return h.acr.VentilationPart().Scale(volumetricHeatCapacity * h.floors.Volume())
}

// InfiltrationWK is the monthly infiltration heat loss coefficient in W/K.
func (h *HeatLoss) InfiltrationWK() Monthly {
	return h.acr.InfiltrationPart().Scale(volumetricHeatCapacity * h.floors.Volume())
}

// MonthlyWK is the monthly total heat loss coefficient in W/K.
func (h *HeatLoss) MonthlyWK() Monthly {
	return Constant(h.fabric.HeatLoss()).Add(h.VentilationWK()).Add(h.InfiltrationWK())
}

// TotalWK is the fabric coefficient plus the mean air change coefficient.
func (h *HeatLoss) TotalWK() float64 {
	return h.fabric.HeatLoss() + h.VentilationWK().Add(h.InfiltrationWK()).Mean()
}

// HeatLossParameter is the mean total coefficient per floor area in W/m²K.
func (h *HeatLoss) HeatLossParameter() float64 {
	return safeDiv(h.TotalWK(), h.floors.TotalFloorArea())
}

// OwnedFields implements Module.
func (h *HeatLoss) OwnedFields() []string {
	return []string{
		"losses_WK.ventilation",
		"losses_WK.infiltration",
		"ventilation.average_ventilation_WK",
		"ventilation.average_infiltration_WK",
		"totalWK",
		"totalWK_monthly",
		"HLP",
	}
}

// MutateLegacyData implements Module.
func (h *HeatLoss) MutateLegacyData(rec scenario.Record) {
	vent := h.VentilationWK()
	infil := h.InfiltrationWK()
	rec.Set(vent.Array(), "losses_WK", "ventilation")
	rec.Set(infil.Array(), "losses_WK", "infiltration")
	rec.Set(vent.Mean(), "ventilation", "average_ventilation_WK")
	rec.Set(infil.Mean(), "ventilation", "average_infiltration_WK")
	rec.Set(h.TotalWK(), "totalWK")
	rec.Set(h.MonthlyWK().Array(), "totalWK_monthly")
	rec.Set(h.HeatLossParameter(), "HLP")
}
