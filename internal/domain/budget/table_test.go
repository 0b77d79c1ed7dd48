package budget

import (
	"errors"
	"testing"
)

func TestSetCellCoercesNegativeToZero(t *testing.T) {
	t.Parallel()

	table := NewTable(Month{CategoryIncome: 3000, CategoryDining: 250})
	if err := table.SetCell(0, CategoryDining, -75); err != nil {
		t.Fatalf("SetCell: %v", err)
	}

	if got := table.Months[0][CategoryDining]; got != 0 {
		t.Errorf("negative input should coerce to 0, got %v", got)
	}
}

func TestSetCellRejectsBadCoordinates(t *testing.T) {
	t.Parallel()

	table := NewTable(Month{CategoryIncome: 3000})

	if err := table.SetCell(12, CategoryIncome, 100); !errors.Is(err, ErrMonthOutOfRange) {
		t.Errorf("expected ErrMonthOutOfRange, got %v", err)
	}
	if err := table.SetCell(-1, CategoryIncome, 100); !errors.Is(err, ErrMonthOutOfRange) {
		t.Errorf("expected ErrMonthOutOfRange, got %v", err)
	}
	if err := table.SetCell(0, Category("yachts"), 100); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestNetSavings(t *testing.T) {
	t.Parallel()

	month := Month{
		CategoryIncome:  3000,
		CategoryHousing: 1100,
		CategoryFood:    450,
		CategoryDining:  250,
	}

	if got := NetSavings(month); got != 1200 {
		t.Errorf("NetSavings = %v, want 1200", got)
	}
}

func TestNewTableCopiesBaselinePerMonth(t *testing.T) {
	t.Parallel()

	baseline := Month{CategoryIncome: 3000, CategoryDining: 250}
	table := NewTable(baseline)

	if err := table.SetCell(3, CategoryDining, 50); err != nil {
		t.Fatalf("SetCell: %v", err)
	}

	if table.Months[4][CategoryDining] != 250 {
		t.Error("editing one month must not leak into other months")
	}
	if baseline[CategoryDining] != 250 {
		t.Error("editing the table must not mutate the baseline")
	}
}
