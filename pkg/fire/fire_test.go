package fire

import (
	"testing"

	"github.com/iwvelando/ratewise/pkg/testutil"
	"github.com/iwvelando/ratewise/pkg/validation"
)

func TestCalculate(t *testing.T) {
	result, err := Calculate(Input{
		AnnualExpenses:     40000,
		SafeWithdrawalRate: 4,
		CurrentSavings:     100000,
		AnnualContribution: 50000,
		ExpectedReturnRate: 7,
	})
	if err != nil {
		t.Fatalf("Calculate() unexpected error: %v", err)
	}

	testutil.AssertFields(t,
		testutil.Field{Name: "FireNumber", Got: result.FireNumber, Expected: 1000000},
		testutil.Field{Name: "LeanFireNumber", Got: result.LeanFireNumber, Expected: 600000},
		testutil.Field{Name: "FatFireNumber", Got: result.FatFireNumber, Expected: 2000000},
		testutil.Field{Name: "CoastFireNumber", Got: result.CoastFireNumber, Expected: 131367.12},
		testutil.Field{Name: "TotalContributions", Got: result.TotalContributions, Expected: 700000},
		testutil.Field{Name: "TotalGrowth", Got: result.TotalGrowth, Expected: 300000},
	)
	if result.YearsToFire != 12 {
		t.Errorf("YearsToFire = %d, expected 12", result.YearsToFire)
	}
	if !result.Reached() {
		t.Errorf("Reached() = false, expected true")
	}

	if len(result.Projections) != 61 {
		t.Fatalf("expected 61 projections, got %d", len(result.Projections))
	}
	first, second := result.Projections[0], result.Projections[1]
	if first.Year != 0 || first.Savings != 100000 || first.Progress != 10 || first.Target != 1000000 {
		t.Errorf("unexpected first projection %+v", first)
	}
	testutil.AssertClose(t, "year 1 savings", second.Savings, 157000)
	testutil.AssertClose(t, "year 1 progress", second.Progress, 15.7)
}

func TestCalculateNotReached(t *testing.T) {
	result, err := Calculate(Input{
		AnnualExpenses:     100000,
		SafeWithdrawalRate: 4,
		AnnualContribution: 1000,
	})
	if err != nil {
		t.Fatalf("Calculate() unexpected error: %v", err)
	}
	if result.YearsToFire != -1 || result.Reached() {
		t.Errorf("YearsToFire = %d, expected -1", result.YearsToFire)
	}
	testutil.AssertFields(t,
		testutil.Field{Name: "FireNumber", Got: result.FireNumber, Expected: 2500000},
		testutil.Field{Name: "TotalContributions", Got: result.TotalContributions, Expected: 0},
		testutil.Field{Name: "TotalGrowth", Got: result.TotalGrowth, Expected: 2500000},
		testutil.Field{Name: "CoastFireNumber", Got: result.CoastFireNumber, Expected: 2500000},
	)
	last := result.Projections[len(result.Projections)-1]
	if last.Year != 60 {
		t.Errorf("last projection year = %d, expected 60", last.Year)
	}
	testutil.AssertClose(t, "year 60 savings", last.Savings, 60000)
	testutil.AssertClose(t, "year 60 progress", last.Progress, 2.4)
}

func TestCalculateAlreadyIndependent(t *testing.T) {
	result, err := Calculate(Input{
		AnnualExpenses:     40000,
		SafeWithdrawalRate: 4,
		CurrentSavings:     2000000,
		AnnualContribution: 10000,
		ExpectedReturnRate: 5,
	})
	if err != nil {
		t.Fatalf("Calculate() unexpected error: %v", err)
	}
	if result.YearsToFire != 0 {
		t.Errorf("YearsToFire = %d, expected 0", result.YearsToFire)
	}
	testutil.AssertClose(t, "TotalContributions", result.TotalContributions, 2000000)
	testutil.AssertClose(t, "TotalGrowth", result.TotalGrowth, -1000000)
	for _, p := range result.Projections {
		if p.Progress > 100 {
			t.Fatalf("progress exceeds 100 in year %d: %v", p.Year, p.Progress)
		}
	}
	if result.Projections[0].Progress != 100 {
		t.Errorf("year 0 progress = %v, expected 100", result.Projections[0].Progress)
	}
}

func TestCalculateValidation(t *testing.T) {
	valid := Input{AnnualExpenses: 40000, SafeWithdrawalRate: 4, ExpectedReturnRate: 7}
	tests := []struct {
		name   string
		modify func(*Input)
	}{
		{"Zero expenses", func(in *Input) { in.AnnualExpenses = 0 }},
		{"Zero withdrawal rate", func(in *Input) { in.SafeWithdrawalRate = 0 }},
		{"Withdrawal rate above 100", func(in *Input) { in.SafeWithdrawalRate = 101 }},
		{"Negative savings", func(in *Input) { in.CurrentSavings = -1 }},
		{"Negative return", func(in *Input) { in.ExpectedReturnRate = -2 }},
		{"Savings overflow", func(in *Input) {
			in.CurrentSavings = 1000
			in.ExpectedReturnRate = 1e10
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.modify(&in)
			if _, err := Calculate(in); !validation.IsValidationError(err) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}
