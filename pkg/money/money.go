// Package money provides integer minor-unit currency arithmetic.
//
// All fee amounts in the system are carried as int64 minor units (cents).
// Summation therefore stays exact; conversion to major units happens only
// at display boundaries.
package money

import "fmt"

// Amount is a monetary value in minor currency units (cents).
type Amount int64

// Add returns the exact integer sum of a and b.
func (a Amount) Add(b Amount) Amount { return a + b }

// IsNegative reports whether the amount is below zero. Fee amounts must
// never be negative; stores and services validate with this.
func (a Amount) IsNegative() bool { return a < 0 }

// Major renders the amount as a major-unit decimal string, e.g. 12550 -> "125.50".
// Display only; never parse this back for arithmetic.
func (a Amount) Major() string {
	neg := ""
	v := int64(a)
	if v < 0 {
		neg = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", neg, v/100, v%100)
}

// Sum totals a slice of amounts with exact integer accumulation.
func Sum(amounts []Amount) Amount {
	var total Amount
	for _, a := range amounts {
		total += a
	}
	return total
}
