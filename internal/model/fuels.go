package model

import (
	"sort"

	"github.com/carboncoop/homeenergy/internal/datasets"
	"github.com/carboncoop/homeenergy/internal/scenario"
)

// FuelsInput is the scenario's fuel table.
type FuelsInput struct {
	Table map[string]datasets.Fuel
}

// Fuels resolves fuel names to prices and emission factors.
type Fuels struct {
	table map[string]datasets.Fuel
}

// NewFuels copies the fuel table. An empty table falls back to the defaults.
func NewFuels(in FuelsInput) *Fuels {
	table := make(map[string]datasets.Fuel, len(in.Table))
	for name, f := range in.Table {
		table[name] = f
	}
	if len(table) == 0 {
		table = datasets.DefaultFuels()
	}
	return &Fuels{table: table}
}

// Name implements Module.
func (f *Fuels) Name() string { return "fuels" }

// Get returns the named fuel.
func (f *Fuels) Get(name string) (datasets.Fuel, bool) {
	fuel, ok := f.table[name]
	return fuel, ok
}

// Names lists the fuels in name order.
func (f *Fuels) Names() []string {
	names := make([]string, 0, len(f.table))
	for name := range f.table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnitPrice returns the price of the named fuel in £/kWh, or 0 if it is unknown.
func (f *Fuels) UnitPrice(name string) float64 {
	return f.table[name].FuelCost / 100
}

// OwnedFields implements Module. The fuel table is input only.
func (f *Fuels) OwnedFields() []string { return nil }

// MutateLegacyData implements Module.
func (f *Fuels) MutateLegacyData(scenario.Record) {}
