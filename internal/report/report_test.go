package report

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carboncoop/homeenergy/internal/scenario"
)

func calculated() scenario.Record {
	return scenario.Record{
		"TFA":                      50.0,
		"occupancy":                1.0,
		"space_heating_demand_m2":  81.234,
		"fabric_energy_efficiency": 76.5,
		"primary_energy_use_m2":    210.0,
		"annualco2":                1800.0,
		"total_cost":               745.678,
		"total_income":             100.0,
		"net_cost":                 580.004,
		"SAP": map[string]any{
			"rating":    66.4,
			"EI_rating": 61.0,
		},
		"fuel_totals": map[string]any{
			"Standard Tariff": map[string]any{"quantity": 2500.0, "annualcost": 400.0},
			"Mains Gas":       map[string]any{"quantity": 9000.0, "annualcost": 411.0},
			"generation":      map[string]any{"quantity": -1000.0, "annualcost": -65.67},
		},
	}
}

func TestBand(t *testing.T) {
	tests := []struct {
		rating float64
		want   string
	}{
		{120, "A"}, {92, "A"}, {91.9, "B"}, {81, "B"}, {69, "C"}, {68.99, "D"},
		{55, "D"}, {39, "E"}, {21, "F"}, {20.9, "G"}, {-5, "G"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Band(tt.rating), "rating %v", tt.rating)
	}
}

func TestFromRecord(t *testing.T) {
	s := FromRecord("home", calculated(), nil)

	assert.Equal(t, "D", s.Band())
	assert.True(t, s.TotalCost.Equal(decimal.RequireFromString("745.68")))
	assert.True(t, s.NetCost.Equal(decimal.RequireFromString("580")))
	require.Len(t, s.Fuels, 3)
	assert.Equal(t, "Mains Gas", s.Fuels[0].Name)
	assert.Equal(t, "generation", s.Fuels[2].Name)
	assert.True(t, s.Fuels[2].Cost.Equal(decimal.RequireFromString("-65.67")))
}

func TestMoney_NonFinite(t *testing.T) {
	assert.True(t, money(math.NaN()).IsZero())
	assert.True(t, money(math.Inf(1)).IsZero())
}

func TestRender_Plain(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, []Summary{
		FromRecord("home", calculated(), nil),
		FromRecord("broken", scenario.Record{}, errors.New("invalid region")),
	}, Options{Precision: 1})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "home\n----\n")
	assert.Contains(t, out, "66.4 (D)")
	assert.Contains(t, out, "81.2 kWh/m²/yr")
	assert.Contains(t, out, "£745.68")
	assert.Contains(t, out, "-£65.67")
	assert.Contains(t, out, "on-site generation")
	assert.Contains(t, out, "Generation income")
	assert.Contains(t, out, "FAILED: invalid region")
	assert.Contains(t, out, "9,375 car miles or 30 tree seedlings")
	assert.NotContains(t, out, "╭")
}

func TestRender_NoEquivalentForNetExporter(t *testing.T) {
	rec := calculated()
	rec["annualco2"] = -250.0

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, []Summary{FromRecord("home", rec, nil)}, Options{}))
	assert.NotContains(t, buf.String(), "equivalent to")
}

func TestRender_NaNShownAsUnavailable(t *testing.T) {
	rec := calculated()
	rec["fabric_energy_efficiency"] = math.NaN()

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, []Summary{FromRecord("home", rec, nil)}, Options{}))
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "Fabric energy efficiency") {
			assert.True(t, strings.HasSuffix(line, "n/a"), line)
		}
	}
}

func TestRender_Styled(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, []Summary{FromRecord("home", calculated(), nil)}, Options{Styled: true, Precision: 0}))

	out := buf.String()
	assert.Contains(t, out, "╭")
	assert.Contains(t, out, "home")
	assert.Contains(t, out, "SAP rating")
}
