// Package report renders calculated scenarios as terminal summaries.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/carboncoop/homeenergy/internal/carbon"
	"github.com/carboncoop/homeenergy/internal/scenario"
)

const (
	boxWidth         = 58
	defaultPrecision = 1
	moneyPlaces      = 2
	generationFuel   = "generation"
)

// FuelLine is one fuel's annual use and cost.
type FuelLine struct {
	Name     string
	Quantity float64
	Cost     decimal.Decimal
}

// Summary holds the headline results of one scenario.
type Summary struct {
	Name string
	Err  error

	TFA             float64
	Occupancy       float64
	SpaceHeatingM2  float64
	FEE             float64
	PrimaryEnergyM2 float64
	CO2PerM2        float64
	AnnualCO2       float64
	SAPRating       float64
	EIRating        float64

	TotalCost decimal.Decimal
	NetCost   decimal.Decimal
	Income    decimal.Decimal

	Fuels []FuelLine
}

// Band returns the SAP energy efficiency band letter for the rating.
func (s Summary) Band() string { return Band(s.SAPRating) }

// FromRecord extracts the summary of a calculated record. err is the error
// the engine stored for it, if any.
func FromRecord(name string, rec scenario.Record, err error) Summary {
	s := Summary{
		Name:            name,
		Err:             err,
		TFA:             rec.Float("TFA"),
		Occupancy:       rec.Float("occupancy"),
		SpaceHeatingM2:  rec.Float("space_heating_demand_m2"),
		FEE:             rec.FloatOr(math.NaN(), "fabric_energy_efficiency"),
		PrimaryEnergyM2: rec.Float("primary_energy_use_m2"),
		CO2PerM2:        rec.Float("kgco2perm2"),
		AnnualCO2:       rec.Float("annualco2"),
		SAPRating:       rec.Float("SAP", "rating"),
		EIRating:        rec.Float("SAP", "EI_rating"),
		TotalCost:       money(rec.Float("total_cost")),
		NetCost:         money(rec.Float("net_cost")),
		Income:          money(rec.Float("total_income")),
	}

	totals := rec.Sub("fuel_totals")
	names := make([]string, 0, len(totals))
	for fuel := range totals {
		names = append(names, fuel)
	}
	sort.Strings(names)
	for _, fuel := range names {
		t := totals.Sub(fuel)
		s.Fuels = append(s.Fuels, FuelLine{
			Name:     fuel,
			Quantity: t.Float("quantity"),
			Cost:     money(t.Float("annualcost")),
		})
	}
	return s
}

// money rounds a pound amount to pence. Non-finite amounts are zero.
func money(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v).Round(moneyPlaces)
}

// Band maps a SAP rating onto the A to G scale.
func Band(rating float64) string {
	switch {
	case rating >= 92:
		return "A"
	case rating >= 81:
		return "B"
	case rating >= 69:
		return "C"
	case rating >= 55:
		return "D"
	case rating >= 39:
		return "E"
	case rating >= 21:
		return "F"
	default:
		return "G"
	}
}

// Options control rendering.
type Options struct {
	// Styled draws lipgloss boxes; otherwise plain text is written.
	Styled bool

	// Precision is the number of decimals shown for physical quantities.
	Precision int
}

// Render writes one block per summary.
func Render(w io.Writer, summaries []Summary, opts Options) error {
	if opts.Precision < 0 {
		opts.Precision = defaultPrecision
	}
	p := message.NewPrinter(language.BritishEnglish)
	for i, s := range summaries {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		var err error
		if opts.Styled {
			err = renderStyled(w, p, s, opts.Precision)
		} else {
			err = renderPlain(w, p, s, opts.Precision)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// row is one label and formatted value.
type row struct {
	label string
	value string
}

func rows(p *message.Printer, s Summary, precision int) []row {
	format := fmt.Sprintf("%%.%df", precision)
	num := func(v float64, unit string) string {
		if math.IsNaN(v) {
			return "n/a"
		}
		out := p.Sprintf(format, v)
		if unit != "" {
			out += " " + unit
		}
		return out
	}

	out := []row{
		{"Floor area", num(s.TFA, "m²")},
		{"Occupancy", num(s.Occupancy, "")},
		{"SAP rating", fmt.Sprintf("%s (%s)", num(s.SAPRating, ""), s.Band())},
		{"Environmental impact", num(s.EIRating, "")},
		{"Space heating", num(s.SpaceHeatingM2, "kWh/m²/yr")},
		{"Fabric energy efficiency", num(s.FEE, "kWh/m²/yr")},
		{"Primary energy", num(s.PrimaryEnergyM2, "kWh/m²/yr")},
		{"CO₂", num(s.AnnualCO2, "kg/yr")},
	}
	if eq, err := carbon.Equivalents(s.AnnualCO2); err == nil && !eq.Empty() {
		out = append(out, row{"  equivalent to", eq.Text})
	}
	out = append(out, row{"Annual cost", pounds(p, s.TotalCost)})
	if !s.Income.IsZero() {
		out = append(out, row{"Generation income", pounds(p, s.Income)})
	}
	out = append(out, row{"Net cost", pounds(p, s.NetCost)})
	for _, f := range s.Fuels {
		label := "  " + f.Name
		if f.Name == generationFuel {
			label = "  on-site generation"
		}
		out = append(out, row{label, fmt.Sprintf("%s  %s", num(f.Quantity, "kWh"), pounds(p, f.Cost))})
	}
	return out
}

// pounds formats a decimal amount with thousands separators.
func pounds(p *message.Printer, d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + "£" + p.Sprintf("%.2f", d.InexactFloat64())
}

func labelWidth(rs []row) int {
	width := 0
	for _, r := range rs {
		width = max(width, lipgloss.Width(r.label))
	}
	return width
}

func renderPlain(w io.Writer, p *message.Printer, s Summary, precision int) error {
	if _, err := fmt.Fprintln(w, s.Name); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", max(len(s.Name), 1))); err != nil {
		return err
	}
	if s.Err != nil {
		_, err := fmt.Fprintf(w, "FAILED: %v\n", s.Err)
		return err
	}

	rs := rows(p, s, precision)
	width := labelWidth(rs)
	for _, r := range rs {
		pad := strings.Repeat(" ", width-lipgloss.Width(r.label))
		if _, err := fmt.Fprintf(w, "%s%s  %s\n", r.label, pad, r.value); err != nil {
			return err
		}
	}
	return nil
}

func renderStyled(w io.Writer, p *message.Printer, s Summary, precision int) error {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Width(boxWidth)

	var content strings.Builder
	content.WriteString(titleStyle.Render(s.Name))
	content.WriteString("\n")

	if s.Err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
		content.WriteString(errStyle.Render("FAILED"))
		content.WriteString(" ")
		content.WriteString(s.Err.Error())
		_, err := fmt.Fprintln(w, boxStyle.Render(content.String()))
		return err
	}

	rs := rows(p, s, precision)
	width := labelWidth(rs)
	for i, r := range rs {
		label := labelStyle.Width(width).Render(r.label)
		value := r.value
		if r.label == "SAP rating" {
			value = lipgloss.NewStyle().Bold(true).Foreground(bandColor(s.Band())).Render(value)
		}
		content.WriteString(label + "  " + value)
		if i < len(rs)-1 {
			content.WriteString("\n")
		}
	}

	_, err := fmt.Fprintln(w, boxStyle.Render(content.String()))
	return err
}

// bandColor returns the conventional EPC colour for a band.
func bandColor(band string) lipgloss.Color {
	switch band {
	case "A":
		return lipgloss.Color("28")
	case "B":
		return lipgloss.Color("34")
	case "C":
		return lipgloss.Color("112")
	case "D":
		return lipgloss.Color("226")
	case "E":
		return lipgloss.Color("214")
	case "F":
		return lipgloss.Color("208")
	default:
		return lipgloss.Color("196")
	}
}
