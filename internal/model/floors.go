package model

import (
	"fmt"

	"github.com/carboncoop/homeenergy/internal/result"
	"github.com/carboncoop/homeenergy/internal/scenario"
)

// FloorInput describes one storey.
type FloorInput struct {
	Name   string
	Area   float64
	Height float64
}

// FloorsInput lists the dwelling's storeys.
type FloorsInput struct {
	Floors []FloorInput
}

// Floors aggregates storeys into total floor area and volume.
type Floors struct {
	input  FloorsInput
	tfa    float64
	volume float64
}

// NewFloors validates the storeys and sums their area and volume.
func NewFloors(in FloorsInput) (*Floors, error) {
	f := &Floors{input: in}
	for i, floor := range in.Floors {
		if floor.Area < 0 || floor.Height < 0 {
			return nil, result.FieldError(
				fmt.Sprintf("floor %q has negative area or height", floor.Name),
				fmt.Sprintf("floors.%d.area", i), fmt.Sprintf("floors.%d.height", i))
		}
		f.tfa += floor.Area
		f.volume += floor.Area * floor.Height
	}
	return f, nil
}

// Name implements Module.
func (f *Floors) Name() string { return "floors" }

// TotalFloorArea is the summed floor area in m².
func (f *Floors) TotalFloorArea() float64 { return f.tfa }

// Volume is the heated volume in m³.
func (f *Floors) Volume() float64 { return f.volume }

// NumberOfFloors counts storeys with a positive area.
func (f *Floors) NumberOfFloors() int {
	n := 0
	for _, floor := range f.input.Floors {
		if floor.Area > 0 {
			n++
		}
	}
	return n
}

// AverageHeight is volume divided by floor area, or 0 for an empty dwelling.
func (f *Floors) AverageHeight() float64 {
	return safeDiv(f.volume, f.tfa)
}

// OwnedFields implements Module.
func (f *Floors) OwnedFields() []string {
	return []string{"TFA", "volume", "num_of_floors", "floors[].volume"}
}

// MutateLegacyData implements Module.
func (f *Floors) MutateLegacyData(rec scenario.Record) {
	rec.Set(f.tfa, "TFA")
	rec.Set(f.volume, "volume")
	rec.Set(f.NumberOfFloors(), "num_of_floors")
	for i, item := range rec.List("floors") {
		if i >= len(f.input.Floors) {
			break
		}
		if m, ok := item.(map[string]any); ok {
			m["volume"] = f.input.Floors[i].Area * f.input.Floors[i].Height
		}
	}
}
