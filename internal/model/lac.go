package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/carboncoop/homeenergy/internal/behaviour"
	"github.com/carboncoop/homeenergy/internal/result"
	"github.com/carboncoop/homeenergy/internal/scenario"
)

// CalculationType selects the lighting, appliances and cooking methodology.
type CalculationType string

// Calculation types.
const (
	// SAPCalculation uses the SAP formulas for all three.
	SAPCalculation CalculationType = "SAP2012"
	// CarbonCoopCalculation uses SAP lighting with itemised appliances and cooking.
	CarbonCoopCalculation CalculationType = "carboncoop_SAPlighting"
)

// ParseCalculationType accepts the stored calculation type names.
func ParseCalculationType(s string) (CalculationType, error) {
	switch t := CalculationType(strings.TrimSpace(s)); t {
	case "":
		return SAPCalculation, nil
	case SAPCalculation, CarbonCoopCalculation:
		return t, nil
	default:
		return SAPCalculation, fmt.Errorf("unknown LAC calculation type %q", s)
	}
}

// seasonalMonth is the month number used in the SAP seasonal cosine.
func seasonalMonth(m Month, oneIndexed bool) float64 {
	if oneIndexed {
		return float64(m.Index() + 1)
	}
	return float64(m.Index())
}

// LightingInput describes fixed lighting.
type LightingInput struct {
	// LowEnergyOutlets and TotalOutlets count fixed lighting outlets.
	LowEnergyOutlets float64
	TotalOutlets     float64
	ReducedHeatGains bool
	Fuels            []FuelShare
}

// Lighting is the lighting energy and gains module.
type Lighting interface{ EnergyUse }

// NewLighting constructs the lighting variant for the calculation type. Both
// methodologies use SAP lighting.
func NewLighting(
	calc CalculationType, in LightingInput, floors *Floors, occupancy *Occupancy, fabric *Fabric,
	fuels *Fuels, flags behaviour.SeasonalVariationFlags,
) (Lighting, error) {
	if err := requireFuels(fuels, "LAC.fuels_lighting", in.Fuels); err != nil {
		return nil, err
	}
	switch calc {
	case SAPCalculation, CarbonCoopCalculation:
		return newSAPLighting(in, floors, occupancy, fabric, flags), nil
	default:
		panic(fmt.Sprintf("model: unhandled calculation type %q", calc))
	}
}

type sapLighting struct {
	input LightingInput
	eb    float64
	c1    float64
	c2    float64
	el    float64
	flags behaviour.SeasonalVariationFlags
}

func newSAPLighting(
	in LightingInput, floors *Floors, occupancy *Occupancy, fabric *Fabric, flags behaviour.SeasonalVariationFlags,
) *sapLighting {
	l := &sapLighting{input: in, flags: flags}
	l.eb = 59.73 * math.Pow(floors.TotalFloorArea()*occupancy.Occupancy(), 0.4714)

	l.c1 = 1
	if in.TotalOutlets > 0 {
		l.c1 = 1 - 0.5*in.LowEnergyOutlets/in.TotalOutlets
	}

	gl := fabric.GlazingLightFactor()
	if gl <= 0.095 {
		l.c2 = 52.2*gl*gl - 9.94*gl + 1.433
	} else {
		l.c2 = 0.96
	}

	l.el = l.eb * l.c1 * l.c2
	return l
}

func (l *sapLighting) Name() string          { return "lighting" }
func (l *sapLighting) AnnualEnergy() float64 { return l.el }

func (l *sapLighting) MonthlyEnergy() Monthly {
	oneIndexed := l.flags.UseOneIndexedMonthInSeasonalVariation
	return MonthlyOf(func(m Month) float64 {
		season := 1 + 0.5*math.Cos(2*math.Pi*(seasonalMonth(m, oneIndexed)-0.2)/12)
		return l.el * season * m.Days() / DaysInYear
	})
}

func (l *sapLighting) Gains() Monthly {
	gains := KWhToWatts(l.MonthlyEnergy()).Scale(0.85)
	if l.input.ReducedHeatGains {
		gains = gains.Scale(0.4)
	}
	return gains
}

func (l *sapLighting) FuelRequirements() []FuelRequirement {
	return splitByShares(l.MonthlyEnergy().Sum(), l.input.Fuels)
}

func (l *sapLighting) OwnedFields() []string {
	return []string{
		"LAC.EB", "LAC.C1", "LAC.C2", "LAC.EL", "LAC.EL_monthly",
		"gains_W.lighting", "fuel_requirements.lighting",
	}
}

func (l *sapLighting) MutateLegacyData(rec scenario.Record) {
	rec.Set(l.eb, "LAC", "EB")
	rec.Set(l.c1, "LAC", "C1")
	rec.Set(l.c2, "LAC", "C2")
	rec.Set(l.el, "LAC", "EL")
	rec.Set(l.MonthlyEnergy().Array(), "LAC", "EL_monthly")
	rec.Set(l.Gains().Array(), "gains_W", "lighting")
	rec.Set(fuelRequirementsRecord(l.FuelRequirements()), "fuel_requirements", "lighting")
}

// ApplianceCategory groups carbon co-op items.
type ApplianceCategory string

// Appliance categories.
const (
	CategoryAppliances ApplianceCategory = "Appliances"
	CategoryCooking    ApplianceCategory = "Cooking"
)

// ApplianceItem is one itemised appliance in the carbon co-op methodology.
type ApplianceItem struct {
	Category          ApplianceCategory
	NumberUsed        float64
	APlusRated        bool
	NormDemand        float64
	UtilisationFactor float64
	Frequency         float64
	ReferenceQuantity float64
	Fuel              string
	Efficiency        float64
}

// EnergyDemand is the item's annual useful energy in kWh.
func (i ApplianceItem) EnergyDemand() float64 {
	demand := i.NumberUsed * i.NormDemand * i.UtilisationFactor * i.Frequency * i.ReferenceQuantity
	if i.APlusRated {
		demand *= 0.75
	}
	return demand
}

// FuelInput is the item's annual delivered energy in kWh.
func (i ApplianceItem) FuelInput() float64 {
	if i.Efficiency <= 0 {
		return i.EnergyDemand()
	}
	return i.EnergyDemand() / i.Efficiency
}

// AppliancesInput describes household appliances.
type AppliancesInput struct {
	EnergyEfficient bool
	Fuels           []FuelShare
}

// CookingInput describes cooking.
type CookingInput struct {
	EnergyEfficient bool
	Fuels           []FuelShare
}

// EnergyUse is the shared behaviour of the appliance and cooking variants.
type EnergyUse interface {
	Module
	AnnualEnergy() float64
	MonthlyEnergy() Monthly
	Gains() Monthly
	FuelRequirements() []FuelRequirement
}

// Appliances is the appliance energy and gains module.
type Appliances interface{ EnergyUse }

// Cooking is the cooking energy and gains module.
type Cooking interface{ EnergyUse }

// NewAppliances constructs the appliance variant for the calculation type.
func NewAppliances(
	calc CalculationType, in AppliancesInput, items []ApplianceItem, floors *Floors, occupancy *Occupancy,
	fuels *Fuels, flags behaviour.SeasonalVariationFlags, ccFlags behaviour.CarbonCoopAppliancesCookingFlags,
) (Appliances, error) {
	switch calc {
	case SAPCalculation:
		if err := requireFuels(fuels, "LAC.fuels_appliances", in.Fuels); err != nil {
			return nil, err
		}
		return newSAPAppliances(in, floors, occupancy, flags), nil
	case CarbonCoopCalculation:
		cc, err := newCarbonCoopEnergyUse("appliances", CategoryAppliances, items, fuels, ccFlags)
		if err != nil {
			return nil, err
		}
		return cc, nil
	default:
		panic(fmt.Sprintf("model: unhandled calculation type %q", calc))
	}
}

// NewCooking constructs the cooking variant for the calculation type.
func NewCooking(
	calc CalculationType, in CookingInput, items []ApplianceItem, occupancy *Occupancy,
	fuels *Fuels, ccFlags behaviour.CarbonCoopAppliancesCookingFlags,
) (Cooking, error) {
	switch calc {
	case SAPCalculation:
		if err := requireFuels(fuels, "LAC.fuels_cooking", in.Fuels); err != nil {
			return nil, err
		}
		return newSAPCooking(in, occupancy), nil
	case CarbonCoopCalculation:
		cc, err := newCarbonCoopEnergyUse("cooking", CategoryCooking, items, fuels, ccFlags)
		if err != nil {
			return nil, err
		}
		return cc, nil
	default:
		panic(fmt.Sprintf("model: unhandled calculation type %q", calc))
	}
}

type sapAppliances struct {
	input AppliancesInput
	ea    float64
	flags behaviour.SeasonalVariationFlags
}

func newSAPAppliances(
	in AppliancesInput, floors *Floors, occupancy *Occupancy, flags behaviour.SeasonalVariationFlags,
) *sapAppliances {
	return &sapAppliances{
		input: in,
		ea:    207.8 * math.Pow(floors.TotalFloorArea()*occupancy.Occupancy(), 0.4714),
		flags: flags,
	}
}

func (a *sapAppliances) Name() string          { return "appliances" }
func (a *sapAppliances) AnnualEnergy() float64 { return a.ea }

func (a *sapAppliances) MonthlyEnergy() Monthly {
	oneIndexed := a.flags.UseOneIndexedMonthInSeasonalVariation
	return MonthlyOf(func(m Month) float64 {
		season := 1 + 0.157*math.Cos(2*math.Pi*(seasonalMonth(m, oneIndexed)-1.78)/12)
		return a.ea * season * m.Days() / DaysInYear
	})
}

func (a *sapAppliances) Gains() Monthly {
	gains := KWhToWatts(a.MonthlyEnergy())
	if a.input.EnergyEfficient {
		gains = gains.Scale(0.67)
	}
	return gains
}

func (a *sapAppliances) FuelRequirements() []FuelRequirement {
	return splitByShares(a.MonthlyEnergy().Sum(), a.input.Fuels)
}

func (a *sapAppliances) OwnedFields() []string {
	return []string{"LAC.EA", "LAC.EA_monthly", "gains_W.appliances", "fuel_requirements.appliances"}
}

func (a *sapAppliances) MutateLegacyData(rec scenario.Record) {
	rec.Set(a.ea, "LAC", "EA")
	rec.Set(a.MonthlyEnergy().Array(), "LAC", "EA_monthly")
	rec.Set(a.Gains().Array(), "gains_W", "appliances")
	rec.Set(fuelRequirementsRecord(a.FuelRequirements()), "fuel_requirements", "appliances")
}

type sapCooking struct {
	input     CookingInput
	occupancy *Occupancy
}

func newSAPCooking(in CookingInput, occupancy *Occupancy) *sapCooking {
	return &sapCooking{input: in, occupancy: occupancy}
}

func (c *sapCooking) Name() string { return "cooking" }

func (c *sapCooking) AnnualEnergy() float64 {
	return 138 + 28*c.occupancy.Occupancy()
}

func (c *sapCooking) MonthlyEnergy() Monthly {
	annual := c.AnnualEnergy()
	return MonthlyOf(func(m Month) float64 { return annual * m.Days() / DaysInYear })
}

func (c *sapCooking) Gains() Monthly {
	n := c.occupancy.Occupancy()
	if c.input.EnergyEfficient {
		return Constant(23 + 5*n)
	}
	return Constant(35 + 7*n)
}

func (c *sapCooking) FuelRequirements() []FuelRequirement {
	return splitByShares(c.AnnualEnergy(), c.input.Fuels)
}

func (c *sapCooking) OwnedFields() []string {
	return []string{"LAC.EC", "LAC.EC_monthly", "gains_W.cooking", "fuel_requirements.cooking"}
}

func (c *sapCooking) MutateLegacyData(rec scenario.Record) {
	rec.Set(c.AnnualEnergy(), "LAC", "EC")
	rec.Set(c.MonthlyEnergy().Array(), "LAC", "EC_monthly")
	rec.Set(c.Gains().Array(), "gains_W", "cooking")
	rec.Set(fuelRequirementsRecord(c.FuelRequirements()), "fuel_requirements", "cooking")
}

// carbonCoopEnergyUse totals the itemised appliances of one category.
type carbonCoopEnergyUse struct {
	name     string
	category ApplianceCategory
	items    []ApplianceItem
	flags    behaviour.CarbonCoopAppliancesCookingFlags

	demand    float64
	fuelInput float64
	byFuel    map[string]FuelRequirement
	fuelOrder []string
}

func newCarbonCoopEnergyUse(
	name string, category ApplianceCategory, all []ApplianceItem, fuels *Fuels,
	flags behaviour.CarbonCoopAppliancesCookingFlags,
) (*carbonCoopEnergyUse, error) {
	c := &carbonCoopEnergyUse{
		name:     name,
		category: category,
		flags:    flags,
		byFuel:   map[string]FuelRequirement{},
	}
	for i, item := range all {
		if item.Category != category {
			continue
		}
		if _, ok := fuels.Get(item.Fuel); !ok {
			return nil, result.NewModelError(fmt.Sprintf("unknown fuel %q", item.Fuel), map[string]any{
				"fields": []string{fmt.Sprintf("applianceCarbonCoop.list.%d.fuel", i)},
				"fuel":   item.Fuel,
			})
		}
		c.items = append(c.items, item)

		req, seen := c.byFuel[item.Fuel]
		if !seen {
			c.fuelOrder = append(c.fuelOrder, item.Fuel)
		}
		req.Fuel = item.Fuel
		req.Demand += item.EnergyDemand()
		req.FuelInput += item.FuelInput()
		c.byFuel[item.Fuel] = req

		c.demand += item.EnergyDemand()
		c.fuelInput += item.FuelInput()
	}
	return c, nil
}

func (c *carbonCoopEnergyUse) Name() string          { return c.name }
func (c *carbonCoopEnergyUse) AnnualEnergy() float64 { return c.demand }

func (c *carbonCoopEnergyUse) MonthlyEnergy() Monthly {
	if c.flags.UseWeightedMonthsForEnergyDemand {
		return MonthlyOf(func(m Month) float64 { return c.demand * m.Days() / DaysInYear })
	}
	return Constant(c.demand / NumMonths)
}

func (c *carbonCoopEnergyUse) Gains() Monthly {
	monthly := c.MonthlyEnergy()
	if c.flags.TreatMonthlyGainAsPower {
		return monthly
	}
	return KWhToWatts(monthly)
}

// FuelRequirements splits the category's total fuel input between fuels,
// either by each fuel's share of fuel input or its share of energy demand.
func (c *carbonCoopEnergyUse) FuelRequirements() []FuelRequirement {
	reqs := make([]FuelRequirement, 0, len(c.fuelOrder))
	for _, fuel := range c.fuelOrder {
		req := c.byFuel[fuel]
		if c.flags.UseFuelInputForFuelFraction {
			req.Fraction = safeDiv(req.FuelInput, c.fuelInput)
		} else {
			req.Fraction = safeDiv(req.Demand, c.demand)
		}
		req.FuelInput = req.Fraction * c.fuelInput
		reqs = append(reqs, req)
	}
	return reqs
}

func (c *carbonCoopEnergyUse) OwnedFields() []string {
	prefix := "LAC.EA"
	if c.category == CategoryCooking {
		prefix = "LAC.EC"
	}
	return []string{
		prefix, prefix + "_monthly",
		"gains_W." + c.name, "fuel_requirements." + c.name,
		"applianceCarbonCoop." + c.name + "_fuel_input",
	}
}

func (c *carbonCoopEnergyUse) MutateLegacyData(rec scenario.Record) {
	key := "EA"
	if c.category == CategoryCooking {
		key = "EC"
	}
	rec.Set(c.demand, "LAC", key)
	rec.Set(c.MonthlyEnergy().Array(), "LAC", key+"_monthly")
	rec.Set(c.Gains().Array(), "gains_W", c.name)
	rec.Set(fuelRequirementsRecord(c.FuelRequirements()), "fuel_requirements", c.name)
	rec.Set(c.fuelInput, "applianceCarbonCoop", c.name+"_fuel_input")
}
