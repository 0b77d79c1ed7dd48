package budget

import (
	"errors"
	"fmt"
)

// ScenarioKind identifies one of the predefined budget exercises.
type ScenarioKind string

const (
	// ScenarioVariableIncome: keep every month in the black on an
	// uneven income by trimming discretionary spending.
	ScenarioVariableIncome ScenarioKind = "variable_income"

	// ScenarioEmergencyFund: build up the emergency category well above
	// its baseline by rebalancing other categories.
	ScenarioEmergencyFund ScenarioKind = "emergency_fund"

	// ScenarioMajorPurchase: sustain a down-payment fund while keeping
	// a floor under dining out and never going negative.
	ScenarioMajorPurchase ScenarioKind = "major_purchase"

	// ScenarioFamilyProtection: never cut retirement below its baseline
	// and never go negative.
	ScenarioFamilyProtection ScenarioKind = "family_protection"
)

// ErrUnknownScenario is returned for a scenario kind outside the
// predefined set.
var ErrUnknownScenario = errors.New("unknown budget scenario")

// Tunable thresholds of the scenario predicates.
const (
	// emergencyFundMargin is how far above baseline the average monthly
	// emergency contribution must sit in the emergency-fund scenario.
	emergencyFundMargin = 200

	// downPaymentFloor is the required average monthly down-payment
	// contribution in the major-purchase scenario.
	downPaymentFloor = 500

	// diningFloor is the required minimum monthly dining amount in the
	// major-purchase scenario (the exercise teaches saving without
	// zeroing out quality of life).
	diningFloor = 300

	// minAdjustments is how many edits the adjustment-based scenarios
	// require before their challenge can be met.
	minAdjustments = 2
)

// Scenario couples a kind with the baseline month its table starts
// from. The challenge predicate is evaluated programmatically per kind,
// not data-declared.
type Scenario struct {
	Kind     ScenarioKind `json:"kind"`
	Title    string       `json:"title"`
	Baseline Month        `json:"baseline"`

	// Discretionary lists the categories the variable-income scenario
	// counts as adjustable.
	Discretionary []Category `json:"discretionary,omitempty"`
}

// Verdict is the outcome of validating a table against its scenario.
type Verdict struct {
	ChallengeMet bool `json:"challenge_met"`

	// MonthsInDeficit counts months with negative net savings, for the
	// presentation layer to highlight.
	MonthsInDeficit int `json:"months_in_deficit"`
}

// Validate evaluates the full table against the scenario's challenge
// predicate. It is a pure function of the current table state.
func Validate(scenario Scenario, table *Table) (Verdict, error) {
	deficits := monthsInDeficit(table)
	verdict := Verdict{MonthsInDeficit: deficits}

	switch scenario.Kind {
	case ScenarioVariableIncome:
		verdict.ChallengeMet = deficits == 0 &&
			discretionaryAdjustments(scenario, table) >= minAdjustments

	case ScenarioEmergencyFund:
		verdict.ChallengeMet = averageOf(table, CategoryEmergency) >=
			scenario.Baseline[CategoryEmergency]+emergencyFundMargin &&
			adjustedCategories(scenario, table) >= minAdjustments

	case ScenarioMajorPurchase:
		verdict.ChallengeMet = averageOf(table, CategoryDownPayment) >= downPaymentFloor &&
			minimumOf(table, CategoryDining) >= diningFloor &&
			deficits == 0

	case ScenarioFamilyProtection:
		verdict.ChallengeMet = retirementNeverBelowBaseline(scenario, table) &&
			deficits == 0

	default:
		return Verdict{}, fmt.Errorf("%w: %q", ErrUnknownScenario, scenario.Kind)
	}

	return verdict, nil
}

// monthsInDeficit counts months whose net savings are negative.
func monthsInDeficit(table *Table) int {
	count := 0
	for _, month := range table.Months {
		if NetSavings(month) < 0 {
			count++
		}
	}
	return count
}

// discretionaryAdjustments counts month/category cells among the
// scenario's discretionary categories whose value differs from
// baseline. Reducing one category in two different months counts as two
// adjustments.
func discretionaryAdjustments(scenario Scenario, table *Table) int {
	count := 0
	for _, month := range table.Months {
		for _, cat := range scenario.Discretionary {
			if month[cat] != scenario.Baseline[cat] {
				count++
			}
		}
	}
	return count
}

// adjustedCategories counts distinct categories whose value differs
// from baseline in at least one month.
func adjustedCategories(scenario Scenario, table *Table) int {
	adjusted := make(map[Category]struct{})
	for _, month := range table.Months {
		for cat, baseValue := range scenario.Baseline {
			if month[cat] != baseValue {
				adjusted[cat] = struct{}{}
			}
		}
	}
	return len(adjusted)
}

// retirementNeverBelowBaseline reports whether every month keeps the
// retirement category at or above its baseline value.
func retirementNeverBelowBaseline(scenario Scenario, table *Table) bool {
	baseline := scenario.Baseline[CategoryRetirement]
	for _, month := range table.Months {
		if month[CategoryRetirement] < baseline {
			return false
		}
	}
	return true
}

func averageOf(table *Table, cat Category) float64 {
	total := 0.0
	for _, month := range table.Months {
		total += month[cat]
	}
	return total / MonthsPerYear
}

func minimumOf(table *Table, cat Category) float64 {
	min := table.Months[0][cat]
	for _, month := range table.Months[1:] {
		if month[cat] < min {
			min = month[cat]
		}
	}
	return min
}
