// Package budget implements the budget-scenario exercises: a 12-month
// editable budget table and the per-scenario predicates that decide
// whether the learner's edits satisfy the scenario's challenge.
//
// Validation is a pure function of the current table state. It never
// depends on edit history, so undo/redo and late edits are handled for
// free by re-running it.
package budget

import (
	"errors"
	"fmt"
)

// MonthsPerYear is the fixed number of rows in a budget table.
const MonthsPerYear = 12

// Category identifies one column of the budget table.
type Category string

// Categories used by the predefined scenarios. Income is the only
// inflow; every other category is an expense.
const (
	CategoryIncome        Category = "income"
	CategoryHousing       Category = "housing"
	CategoryFood          Category = "food"
	CategoryDining        Category = "dining"
	CategoryTransport     Category = "transportation"
	CategoryEntertainment Category = "entertainment"
	CategoryUtilities     Category = "utilities"
	CategoryEmergency     Category = "emergency"
	CategoryDownPayment   Category = "down_payment"
	CategoryRetirement    Category = "retirement"
)

// Table errors
var (
	// ErrMonthOutOfRange is returned for a month index outside 0-11.
	ErrMonthOutOfRange = errors.New("month index out of range")

	// ErrUnknownCategory is returned when a cell edit names a category
	// the scenario does not carry.
	ErrUnknownCategory = errors.New("unknown budget category")
)

// Month is one row of the table: category to amount.
type Month map[Category]float64

// Table is a learner-edited year of budget values. Months are indexed
// 0 (January) through 11 (December).
type Table struct {
	Months [MonthsPerYear]Month `json:"months"`
}

// NewTable builds a table with every month initialized to the given
// baseline values.
func NewTable(baseline Month) *Table {
	t := &Table{}
	for i := range t.Months {
		month := make(Month, len(baseline))
		for cat, v := range baseline {
			month[cat] = v
		}
		t.Months[i] = month
	}
	return t
}

// SetCell writes one value into the table. Negative input is coerced
// to zero rather than rejected; validation re-runs from current state
// regardless, so nothing is hidden by the coercion.
func (t *Table) SetCell(monthIndex int, category Category, value float64) error {
	if monthIndex < 0 || monthIndex >= MonthsPerYear {
		return fmt.Errorf("%w: %d", ErrMonthOutOfRange, monthIndex)
	}

	month := t.Months[monthIndex]
	if month == nil {
		month = make(Month)
		t.Months[monthIndex] = month
	}

	if _, ok := month[category]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	if value < 0 {
		value = 0
	}
	month[category] = value

	return nil
}

// NetSavings returns income minus the sum of every expense category for
// one month, including any scenario-specific extra category.
func NetSavings(month Month) float64 {
	net := month[CategoryIncome]
	for cat, v := range month {
		if cat == CategoryIncome {
			continue
		}
		net -= v
	}
	return net
}
