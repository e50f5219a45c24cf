package model

import (
	"fmt"
	"strings"

	"github.com/carboncoop/homeenergy/internal/datasets"
	"github.com/carboncoop/homeenergy/internal/result"
	"github.com/carboncoop/homeenergy/internal/scenario"
)

// ElementType classifies a fabric element.
type ElementType int

// Fabric element types.
const (
	ElementWall ElementType = iota
	ElementPartyWall
	ElementRoof
	ElementLoft
	ElementFloor
	ElementDoor
	ElementWindow
	ElementRoofLight
	ElementHatch
)

//nolint:gochecknoglobals // Fixed lookup table.
var elementTypeNames = map[string]ElementType{
	"wall":       ElementWall,
	"party_wall": ElementPartyWall,
	"roof":       ElementRoof,
	"loft":       ElementLoft,
	"floor":      ElementFloor,
	"door":       ElementDoor,
	"window":     ElementWindow,
	"roof_light": ElementRoofLight,
	"rooflight":  ElementRoofLight,
	"hatch":      ElementHatch,
}

// ParseElementType accepts element type names case-insensitively.
func ParseElementType(s string) (ElementType, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
	if t, ok := elementTypeNames[key]; ok {
		return t, nil
	}
	return ElementWall, fmt.Errorf("unknown fabric element type %q", s)
}

// String returns the canonical element type name.
func (t ElementType) String() string {
	switch t {
	case ElementWall:
		return "wall"
	case ElementPartyWall:
		return "party_wall"
	case ElementRoof:
		return "roof"
	case ElementLoft:
		return "loft"
	case ElementFloor:
		return "floor"
	case ElementDoor:
		return "door"
	case ElementWindow:
		return "window"
	case ElementRoofLight:
		return "roof_light"
	case ElementHatch:
		return "hatch"
	default:
		return fmt.Sprintf("ElementType(%d)", int(t))
	}
}

// IsGlazed reports whether the element admits solar gains.
func (t ElementType) IsGlazed() bool {
	return t == ElementWindow || t == ElementRoofLight
}

// lossCategory groups element types for the per-category heat loss totals.
func (t ElementType) lossCategory() string {
	switch t {
	case ElementPartyWall:
		return "party_wall"
	case ElementRoof, ElementLoft, ElementHatch:
		return "roof"
	case ElementFloor:
		return "floor"
	case ElementWindow, ElementRoofLight, ElementDoor:
		return "window"
	default:
		return "wall"
	}
}

// FabricElementInput describes one element of the building envelope.
type FabricElementInput struct {
	ID          string
	Type        ElementType
	Area        float64
	UValue      float64
	KValue      float64
	Orientation datasets.Orientation
	Overshading Overshading
	// Tilt is the glazing inclination from horizontal in degrees.
	Tilt float64
	G    float64
	GL   float64
	// FrameFactor is the glazed fraction of the opening.
	FrameFactor  float64
	SubtractFrom string
}

// FabricInput is the building envelope.
type FabricInput struct {
	Region          datasets.Region
	Elements        []FabricElementInput
	ThermalBridging float64
	// GlobalTMP overrides the element-derived thermal mass parameter when set.
	GlobalTMP *float64
}

// ElementResult is the computed state of one fabric element.
type ElementResult struct {
	Input   FabricElementInput
	NetArea float64
	WK      float64
	// SolarGain is the monthly mean solar gain in W.
	SolarGain Monthly
}

// Fabric computes envelope heat loss, thermal mass and solar gains.
type Fabric struct {
	input    FabricInput
	floors   *Floors
	elements []ElementResult

	lossByCategory map[string]float64
	bridging       float64
	externalArea   float64
	capacity       float64
	solarGains     Monthly
	lightAccess    float64
}

// NewFabric validates element references and computes the envelope totals.
func NewFabric(in FabricInput, floors *Floors) (*Fabric, error) {
	f := &Fabric{
		input:          in,
		floors:         floors,
		lossByCategory: map[string]float64{},
	}

	index := map[string]int{}
	f.elements = make([]ElementResult, len(in.Elements))
	for i, el := range in.Elements {
		if el.Area < 0 {
			return nil, result.FieldError("fabric element has negative area",
				fmt.Sprintf("fabric.elements.%d.area", i))
		}
		f.elements[i] = ElementResult{Input: el, NetArea: el.Area}
		if el.ID != "" {
			index[el.ID] = i
		}
	}

	for i, el := range in.Elements {
		if el.SubtractFrom == "" {
			continue
		}
		host, ok := index[el.SubtractFrom]
		if !ok || host == i {
			return nil, result.NewModelError(
				fmt.Sprintf("element %q subtracts from missing element %q", el.ID, el.SubtractFrom),
				map[string]any{
					"fields":       []string{fmt.Sprintf("fabric.elements.%d.subtractfrom", i)},
					"subtractfrom": el.SubtractFrom,
				})
		}
		f.elements[host].NetArea -= el.Area
	}

	for i := range f.elements {
		f.computeElement(&f.elements[i])
	}
	f.bridging = in.ThermalBridging * f.externalArea
	return f, nil
}

func (f *Fabric) computeElement(e *ElementResult) {
	el := e.Input
	if e.NetArea < 0 {
		e.NetArea = 0
	}
	e.WK = el.UValue * e.NetArea
	f.lossByCategory[el.Type.lossCategory()] += e.WK
	f.capacity += el.KValue * e.NetArea
	if el.Type != ElementPartyWall {
		f.externalArea += e.NetArea
	}

	if !el.Type.IsGlazed() {
		return
	}
	access := el.Overshading.SolarAccessFactor()
	if el.Type == ElementRoofLight {
		access = 1
	}
	e.SolarGain = MonthlyOf(func(m Month) float64 {
		flux := datasets.SolarRadiationOnSurface(f.input.Region, el.Orientation, el.Tilt, m.Index())
		return 0.9 * e.NetArea * flux * el.G * el.FrameFactor * access
	})
	f.solarGains = f.solarGains.Add(e.SolarGain)
	f.lightAccess += 0.9 * e.NetArea * el.GL * el.FrameFactor * el.Overshading.LightAccessFactor()
}

// Name implements Module.
func (f *Fabric) Name() string { return "fabric" }

// Elements returns the computed elements in input order.
func (f *Fabric) Elements() []ElementResult {
	return append([]ElementResult(nil), f.elements...)
}

// ElementHeatLoss is the summed U×A of all elements in W/K, added in input
// order so repeated runs give identical totals.
func (f *Fabric) ElementHeatLoss() float64 {
	total := 0.0
	for _, e := range f.elements {
		total += e.WK
	}
	return total
}

// ThermalBridgingHeatLoss is y × exposed area in W/K.
func (f *Fabric) ThermalBridgingHeatLoss() float64 { return f.bridging }

// HeatLoss is the total fabric heat loss coefficient in W/K.
func (f *Fabric) HeatLoss() float64 { return f.ElementHeatLoss() + f.bridging }

// ExternalArea is the summed net area of all non-party elements in m².
func (f *Fabric) ExternalArea() float64 { return f.externalArea }

// ThermalMassParameter is the effective heat capacity per floor area in kJ/m²K.
func (f *Fabric) ThermalMassParameter() float64 {
	if f.input.GlobalTMP != nil {
		return *f.input.GlobalTMP
	}
	return safeDiv(f.capacity, f.floors.TotalFloorArea())
}

// SolarGains is the monthly solar gain through all glazing in W.
func (f *Fabric) SolarGains() Monthly { return f.solarGains }

// GlazingLightFactor is the SAP GL light access ratio used by lighting.
func (f *Fabric) GlazingLightFactor() float64 {
	return safeDiv(f.lightAccess, f.floors.TotalFloorArea())
}

// OwnedFields implements Module.
func (f *Fabric) OwnedFields() []string {
	return []string{
		"fabric.total_heat_loss_WK",
		"fabric.thermal_bridging_heat_loss",
		"fabric.total_external_area",
		"fabric.total_floor_WK",
		"fabric.total_wall_WK",
		"fabric.total_roof_WK",
		"fabric.total_window_WK",
		"fabric.total_party_wall_WK",
		"fabric.annual_solar_gain_kwh",
		"fabric.GL",
		"fabric.elements[].netarea",
		"fabric.elements[].wk",
		"fabric.elements[].gain",
		"TMP",
		"losses_WK.fabric",
		"gains_W.solar",
	}
}

// MutateLegacyData implements Module.
func (f *Fabric) MutateLegacyData(rec scenario.Record) {
	rec.Set(f.HeatLoss(), "fabric", "total_heat_loss_WK")
	rec.Set(f.bridging, "fabric", "thermal_bridging_heat_loss")
	rec.Set(f.externalArea, "fabric", "total_external_area")
	for _, category := range []string{"floor", "wall", "roof", "window", "party_wall"} {
		rec.Set(f.lossByCategory[category], "fabric", "total_"+category+"_WK")
	}
	rec.Set(WattsToKWh(f.solarGains).Sum(), "fabric", "annual_solar_gain_kwh")
	rec.Set(f.GlazingLightFactor(), "fabric", "GL")

	for i, item := range rec.List("fabric", "elements") {
		m, ok := item.(map[string]any)
		if !ok || i >= len(f.elements) {
			continue
		}
		e := f.elements[i]
		m["netarea"] = e.NetArea
		m["wk"] = e.WK
		m["gain"] = WattsToKWh(e.SolarGain).Sum()
	}

	rec.Set(f.ThermalMassParameter(), "TMP")
	rec.Set(Constant(f.HeatLoss()).Array(), "losses_WK", "fabric")
	rec.Set(f.solarGains.Array(), "gains_W", "solar")
}
