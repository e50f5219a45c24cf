package model

import (
	"fmt"

	"github.com/carboncoop/homeenergy/internal/datasets"
)

// Month is a calendar month, 0 (January) to 11 (December).
type Month int

// NumMonths is the number of months in a monthly profile.
const NumMonths = 12

// Months lists every month in order.
//
//nolint:gochecknoglobals // Fixed calendar.
var Months = [NumMonths]Month{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}

// Days returns the methodology day count of m.
func (m Month) Days() float64 {
	m.mustBeValid()
	return float64(datasets.DaysInMonth(int(m)))
}

// Index returns m as a zero-based array index.
func (m Month) Index() int {
	m.mustBeValid()
	return int(m)
}

func (m Month) mustBeValid() {
	if m < 0 || m >= NumMonths {
		panic(fmt.Sprintf("model: month %d out of range", int(m)))
	}
}

// DaysInYear is the methodology year length.
const DaysInYear = 365.0

// Monthly is a twelve-month profile indexed by Month.
type Monthly [NumMonths]float64

// MonthlyOf builds a profile by evaluating fn for every month.
func MonthlyOf(fn func(m Month) float64) Monthly {
	var out Monthly
	for _, m := range Months {
		out[m] = fn(m)
	}
	return out
}

// Constant returns a profile with v in every month.
func Constant(v float64) Monthly {
	return MonthlyOf(func(Month) float64 { return v })
}

// Sum adds the twelve values without weighting.
func (p Monthly) Sum() float64 {
	total := 0.0
	for _, v := range p {
		total += v
	}
	return total
}

// Mean is the unweighted mean of the twelve values.
func (p Monthly) Mean() float64 {
	return p.Sum() / NumMonths
}

// WeightedSum multiplies each month by its day count and adds them.
func (p Monthly) WeightedSum() float64 {
	total := 0.0
	for _, m := range Months {
		total += p[m] * m.Days()
	}
	return total
}

// Add returns the element-wise sum of p and q.
func (p Monthly) Add(q Monthly) Monthly {
	return MonthlyOf(func(m Month) float64 { return p[m] + q[m] })
}

// Scale returns p multiplied by k.
func (p Monthly) Scale(k float64) Monthly {
	return MonthlyOf(func(m Month) float64 { return p[m] * k })
}

// Array returns the profile as a plain array.
func (p Monthly) Array() [NumMonths]float64 {
	return p
}

// WattsToKWh converts a mean power profile in W to monthly energy in kWh.
func WattsToKWh(p Monthly) Monthly {
	return MonthlyOf(func(m Month) float64 { return p[m] * 0.024 * m.Days() })
}

// KWhToWatts converts monthly energy in kWh to a mean power profile in W.
func KWhToWatts(p Monthly) Monthly {
	return MonthlyOf(func(m Month) float64 { return p[m] * 1000 / (24 * m.Days()) })
}
