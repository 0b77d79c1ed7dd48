package budget

import (
	"errors"
	"testing"
)

func scenarioForTest(t *testing.T, kind ScenarioKind) Scenario {
	t.Helper()
	scenario, err := ScenarioByKind(kind)
	if err != nil {
		t.Fatalf("scenario %q not defined: %v", kind, err)
	}
	return scenario
}

func TestVariableIncomeScenario(t *testing.T) {
	t.Parallel()
	scenario := scenarioForTest(t, ScenarioVariableIncome)

	t.Run("untouched baseline does not meet the challenge", func(t *testing.T) {
		table := NewTable(scenario.Baseline)

		verdict, err := Validate(scenario, table)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if verdict.ChallengeMet {
			t.Error("baseline table with no adjustments must not meet the challenge")
		}
	})

	t.Run("trimming dining in two months meets the challenge", func(t *testing.T) {
		table := NewTable(scenario.Baseline)
		if err := table.SetCell(2, CategoryDining, 200); err != nil {
			t.Fatalf("SetCell: %v", err)
		}
		if err := table.SetCell(7, CategoryDining, 180); err != nil {
			t.Fatalf("SetCell: %v", err)
		}

		verdict, err := Validate(scenario, table)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !verdict.ChallengeMet {
			t.Error("two discretionary adjustments with all months in the black must meet the challenge")
		}
	})

	t.Run("a deficit month fails regardless of adjustments", func(t *testing.T) {
		table := NewTable(scenario.Baseline)
		if err := table.SetCell(0, CategoryDining, 100); err != nil {
			t.Fatalf("SetCell: %v", err)
		}
		if err := table.SetCell(1, CategoryEntertainment, 100); err != nil {
			t.Fatalf("SetCell: %v", err)
		}
		// Push one month deep into deficit.
		if err := table.SetCell(5, CategoryIncome, 0); err != nil {
			t.Fatalf("SetCell: %v", err)
		}

		verdict, err := Validate(scenario, table)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if verdict.ChallengeMet {
			t.Error("a month with negative net savings must fail the challenge")
		}
		if verdict.MonthsInDeficit != 1 {
			t.Errorf("expected 1 deficit month, got %d", verdict.MonthsInDeficit)
		}
	})
}

func TestEmergencyFundScenario(t *testing.T) {
	t.Parallel()
	scenario := scenarioForTest(t, ScenarioEmergencyFund)

	t.Run("raising emergency plus two categories meets the challenge", func(t *testing.T) {
		table := NewTable(scenario.Baseline)
		// Baseline emergency is 250; 450 in every month gives an
		// average of 450 >= 250 + 200.
		for m := 0; m < MonthsPerYear; m++ {
			if err := table.SetCell(m, CategoryEmergency, 450); err != nil {
				t.Fatalf("SetCell: %v", err)
			}
		}
		if err := table.SetCell(0, CategoryDining, 150); err != nil {
			t.Fatalf("SetCell: %v", err)
		}
		if err := table.SetCell(0, CategoryEntertainment, 100); err != nil {
			t.Fatalf("SetCell: %v", err)
		}

		verdict, err := Validate(scenario, table)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !verdict.ChallengeMet {
			t.Error("average emergency above baseline+200 with adjustments must meet the challenge")
		}
	})

	t.Run("average below the margin fails", func(t *testing.T) {
		table := NewTable(scenario.Baseline)
		// 400 average is only baseline+150.
		for m := 0; m < MonthsPerYear; m++ {
			if err := table.SetCell(m, CategoryEmergency, 400); err != nil {
				t.Fatalf("SetCell: %v", err)
			}
		}
		if err := table.SetCell(0, CategoryDining, 150); err != nil {
			t.Fatalf("SetCell: %v", err)
		}

		verdict, err := Validate(scenario, table)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if verdict.ChallengeMet {
			t.Error("emergency average below baseline+200 must not meet the challenge")
		}
	})
}

func TestMajorPurchaseScenario(t *testing.T) {
	t.Parallel()
	scenario := scenarioForTest(t, ScenarioMajorPurchase)

	t.Run("down payment and dining floors both hold", func(t *testing.T) {
		table := NewTable(scenario.Baseline)
		for m := 0; m < MonthsPerYear; m++ {
			if err := table.SetCell(m, CategoryDownPayment, 600); err != nil {
				t.Fatalf("SetCell: %v", err)
			}
		}

		verdict, err := Validate(scenario, table)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !verdict.ChallengeMet {
			t.Error("expected challenge met with down payment 600 and baseline dining 350")
		}
	})

	t.Run("starving dining below the floor fails", func(t *testing.T) {
		table := NewTable(scenario.Baseline)
		for m := 0; m < MonthsPerYear; m++ {
			if err := table.SetCell(m, CategoryDownPayment, 600); err != nil {
				t.Fatalf("SetCell: %v", err)
			}
		}
		if err := table.SetCell(3, CategoryDining, 100); err != nil {
			t.Fatalf("SetCell: %v", err)
		}

		verdict, err := Validate(scenario, table)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if verdict.ChallengeMet {
			t.Error("one month of dining below 300 must fail the challenge")
		}
	})
}

func TestFamilyProtectionScenario(t *testing.T) {
	t.Parallel()
	scenario := scenarioForTest(t, ScenarioFamilyProtection)

	t.Run("baseline retirement everywhere meets the challenge", func(t *testing.T) {
		table := NewTable(scenario.Baseline)

		verdict, err := Validate(scenario, table)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !verdict.ChallengeMet {
			t.Error("untouched baseline keeps retirement at baseline and must meet the challenge")
		}
	})

	t.Run("cutting retirement in one month fails", func(t *testing.T) {
		table := NewTable(scenario.Baseline)
		if err := table.SetCell(9, CategoryRetirement, 350); err != nil {
			t.Fatalf("SetCell: %v", err)
		}

		verdict, err := Validate(scenario, table)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if verdict.ChallengeMet {
			t.Error("retirement below baseline in any month must fail the challenge")
		}
	})
}

func TestValidateUnknownScenario(t *testing.T) {
	t.Parallel()

	_, err := Validate(Scenario{Kind: ScenarioKind("lottery")}, NewTable(Month{}))
	if !errors.Is(err, ErrUnknownScenario) {
		t.Fatalf("expected ErrUnknownScenario, got %v", err)
	}
}

func TestValidateIsPureOverEditHistory(t *testing.T) {
	t.Parallel()
	scenario := scenarioForTest(t, ScenarioVariableIncome)

	// Make adjustments and then undo them; the verdict must match a
	// table that was never touched.
	edited := NewTable(scenario.Baseline)
	if err := edited.SetCell(2, CategoryDining, 100); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	if err := edited.SetCell(4, CategoryEntertainment, 50); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	if err := edited.SetCell(2, CategoryDining, scenario.Baseline[CategoryDining]); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	if err := edited.SetCell(4, CategoryEntertainment, scenario.Baseline[CategoryEntertainment]); err != nil {
		t.Fatalf("SetCell: %v", err)
	}

	editedVerdict, err := Validate(scenario, edited)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	freshVerdict, err := Validate(scenario, NewTable(scenario.Baseline))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if editedVerdict != freshVerdict {
		t.Errorf("verdict depends on edit history: edited=%+v fresh=%+v", editedVerdict, freshVerdict)
	}
}
