package model

import (
	"math"

	"github.com/carboncoop/homeenergy/internal/scenario"
)

// OccupancyInput holds an optional user override of the assumed occupancy.
type OccupancyInput struct {
	// Custom is nil when the standard occupancy applies.
	Custom *float64
}

// Occupancy derives the assumed number of occupants.
type Occupancy struct {
	input     OccupancyInput
	occupancy float64
}

// NewOccupancy computes occupancy from floor area unless overridden.
func NewOccupancy(in OccupancyInput, floors *Floors) *Occupancy {
	o := &Occupancy{input: in}
	if in.Custom != nil {
		o.occupancy = *in.Custom
	} else {
		o.occupancy = StandardOccupancy(floors.TotalFloorArea())
	}
	return o
}

// StandardOccupancy is the SAP assumed occupancy for a floor area in m².
func StandardOccupancy(tfa float64) float64 {
	if tfa <= 13.9 {
		return 1
	}
	d := tfa - 13.9
	return 1 + 1.76*(1-math.Exp(-0.000349*d*d)) + 0.0013*d
}

// Name implements Module.
func (o *Occupancy) Name() string { return "occupancy" }

// Occupancy is the number of occupants.
func (o *Occupancy) Occupancy() float64 { return o.occupancy }

// IsCustom reports whether the user override is in use.
func (o *Occupancy) IsCustom() bool { return o.input.Custom != nil }

// OwnedFields implements Module.
func (o *Occupancy) OwnedFields() []string { return []string{"occupancy"} }

// MutateLegacyData implements Module.
func (o *Occupancy) MutateLegacyData(rec scenario.Record) {
	rec.Set(o.occupancy, "occupancy")
}
