// Package carbon puts a dwelling's annual CO2 emissions into everyday terms.
//
// Equivalents divide a mass of CO2e by published per-activity factors, so a
// home emitting 1,800 kg a year reads as "9,375 car miles or 30 tree
// seedlings".
package carbon

import (
	"fmt"
	"math"
	"strings"
)

// Activity factors, in kg CO2e per unit of activity. The equivalent of a mass
// is mass / factor.
const (
	// MilesDrivenFactor is kg CO2e per mile in an average passenger car.
	MilesDrivenFactor = 0.192

	// SmartphoneChargeFactor is kg CO2e per full smartphone charge.
	SmartphoneChargeFactor = 0.00822

	// TreeSeedlingFactor is kg CO2e absorbed by one tree seedling grown for
	// ten years.
	TreeSeedlingFactor = 60.0
)

// Unit conversions to kilograms.
const (
	GramsToKg  = 0.001
	TonnesToKg = 1000.0
	PoundsToKg = 0.453592
)

// MinEquivalentKg is the smallest mass for which equivalents are worth
// showing.
const MinEquivalentKg = 1.0

type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrInvalidUnit is returned by ToKg for an unknown mass unit.
	ErrInvalidUnit = constError("invalid carbon unit")

	// ErrNegativeValue is returned for negative masses. Homes that export
	// more than they import can have negative net emissions; they have no
	// meaningful equivalent.
	ErrNegativeValue = constError("negative carbon value")

	// ErrOverflow is returned for non-finite inputs or results.
	ErrOverflow = constError("carbon value out of range")
)

// Kind identifies an everyday activity.
type Kind int

const (
	MilesDriven Kind = iota
	SmartphonesCharged
	TreeSeedlings
)

func (k Kind) String() string {
	switch k {
	case MilesDriven:
		return "MilesDriven"
	case SmartphonesCharged:
		return "SmartphonesCharged"
	case TreeSeedlings:
		return "TreeSeedlings"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Equivalent is one activity matching a mass of CO2e.
type Equivalent struct {
	Kind      Kind    `json:"kind"`
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
	Label     string  `json:"label"`
}

// Equivalence holds the equivalents of one mass.
type Equivalence struct {
	Kg    float64      `json:"kg"`
	Items []Equivalent `json:"items,omitempty"`

	// Text is the short prose form, e.g. "9,375 car miles or 30 tree seedlings".
	Text string `json:"text,omitempty"`
}

// Empty reports whether the mass was too small for any equivalent.
func (e Equivalence) Empty() bool { return len(e.Items) == 0 }

func unitFactor(unit string) (float64, bool) {
	switch strings.ToLower(unit) {
	case "g", "gco2e":
		return GramsToKg, true
	case "kg", "kgco2e":
		return 1, true
	case "t", "tco2e":
		return TonnesToKg, true
	case "lb", "lbco2e":
		return PoundsToKg, true
	default:
		return 0, false
	}
}

// ToKg converts a mass in g, kg, t or lb (optionally suffixed CO2e, any
// case) to kilograms.
func ToKg(value float64, unit string) (float64, error) {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrOverflow
	}
	if value < 0 {
		return 0, ErrNegativeValue
	}
	factor, ok := unitFactor(unit)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidUnit, unit)
	}
	kg := value * factor
	if math.IsInf(kg, 0) {
		return 0, ErrOverflow
	}
	return kg, nil
}

// Equivalents computes the everyday equivalents of kg kilograms of CO2e.
// Masses below MinEquivalentKg give an empty Equivalence and no error.
func Equivalents(kg float64) (Equivalence, error) {
	if math.IsInf(kg, 0) || math.IsNaN(kg) {
		return Equivalence{}, ErrOverflow
	}
	if kg < 0 {
		return Equivalence{}, ErrNegativeValue
	}
	if kg < MinEquivalentKg {
		return Equivalence{Kg: kg}, nil
	}

	miles := equivalent(MilesDriven, kg/MilesDrivenFactor, "car miles")
	phones := equivalent(SmartphonesCharged, kg/SmartphoneChargeFactor, "smartphone charges")
	trees := equivalent(TreeSeedlings, kg/TreeSeedlingFactor, "tree seedlings")
	for _, e := range []Equivalent{miles, phones, trees} {
		if math.IsInf(e.Value, 0) {
			return Equivalence{}, ErrOverflow
		}
	}

	return Equivalence{
		Kg:    kg,
		Items: []Equivalent{miles, phones, trees},
		Text:  fmt.Sprintf("%s %s or %s %s", miles.Formatted, miles.Label, trees.Formatted, trees.Label),
	}, nil
}

func equivalent(kind Kind, v float64, label string) Equivalent {
	return Equivalent{Kind: kind, Value: v, Formatted: formatValue(v), Label: label}
}
