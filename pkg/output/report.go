package output

import (
	"fmt"
	"strconv"

	"github.com/iwvelando/ratewise/pkg/compound"
	"github.com/iwvelando/ratewise/pkg/constants"
	"github.com/iwvelando/ratewise/pkg/fire"
	"github.com/iwvelando/ratewise/pkg/hourly"
	"github.com/iwvelando/ratewise/pkg/loans"
	"github.com/iwvelando/ratewise/pkg/salary"
	"github.com/iwvelando/ratewise/pkg/salestax"
	"github.com/iwvelando/ratewise/pkg/vat"
)

// Kind selects how a value is rendered.
type Kind int

const (
	Money Kind = iota
	Percent
	Count
	Text
)

// Field is a labeled value. Text is used when Kind is Text.
type Field struct {
	Label string
	Kind  Kind
	Value float64
	Text  string
}

// Table is a list of rows sharing a set of column headers.
type Table struct {
	Columns []string
	Rows    [][]Field
}

// Report is a renderable calculation result. Data is the raw result and is
// what the JSON format emits.
type Report struct {
	Title    string
	Currency string
	Fields   []Field
	Table    *Table
	Data     interface{}
}

func money(label string, v float64) Field   { return Field{Label: label, Kind: Money, Value: v} }
func percent(label string, v float64) Field { return Field{Label: label, Kind: Percent, Value: v} }
func count(label string, v int) Field       { return Field{Label: label, Kind: Count, Value: float64(v)} }
func text(label, s string) Field            { return Field{Label: label, Kind: Text, Text: s} }

// VATReport describes a VAT result.
func VATReport(r vat.Result, currency string) Report {
	return Report{
		Title:    "VAT",
		Currency: currency,
		Fields: []Field{
			percent("Rate", r.Rate),
			money("Net amount", r.NetAmount),
			money("VAT", r.VATAmount),
			money("Gross amount", r.GrossAmount),
		},
		Data: r,
	}
}

// SalesTaxReport describes a sales tax result.
func SalesTaxReport(r salestax.Result) Report {
	return Report{
		Title:    "Sales tax",
		Currency: "USD",
		Fields: []Field{
			money("Subtotal", r.Subtotal),
			money("State tax", r.StateTax),
			money("Local tax", r.LocalTax),
			money("Total tax", r.TotalTax),
			money("Total", r.Total),
			percent("Effective rate", r.EffectiveRate),
		},
		Data: r,
	}
}

// SalaryReport describes a take-home result. The breakdown becomes the
// table and the net figure for freq is listed with the summary.
func SalaryReport(r salary.Result, freq salary.PayFrequency) Report {
	if freq == "" {
		freq = salary.PayAnnual
	}
	rows := make([][]Field, 0, len(r.Breakdown))
	for _, item := range r.Breakdown {
		rows = append(rows, []Field{text("", item.Label), money("", item.Amount)})
	}
	return Report{
		Title:    fmt.Sprintf("Take-home pay (%s)", r.CountryCode),
		Currency: r.Currency,
		Fields: []Field{
			money("Gross annual", r.GrossAnnual),
			money("Taxable income", r.TaxableIncome),
			money("Income tax", r.IncomeTax),
			money("Social contributions", r.SocialContributions),
			money("Pension", r.PensionDeduction),
			money("Total deductions", r.TotalDeductions),
			money("Net annual", r.NetAnnual),
			money(fmt.Sprintf("Net pay (%s)", freq), r.NetPay(freq)),
			percent("Effective rate", r.EffectiveTaxRate),
			percent("Marginal rate", r.MarginalRate),
		},
		Table: &Table{Columns: []string{"Item", "Amount"}, Rows: rows},
		Data:  r,
	}
}

// HourlyReport describes an hourly-to-salary conversion.
func HourlyReport(r hourly.Result) Report {
	return Report{
		Title:    "Hourly to salary",
		Currency: "USD",
		Fields: []Field{
			money("Hourly rate", r.HourlyRate),
			money("Weekly", r.WeeklyPay),
			money("Biweekly", r.BiweeklyPay),
			money("Monthly", r.MonthlyPay),
			money("Annual", r.AnnualPay),
			money("Regular pay", r.RegularPay),
			money("Overtime pay", r.OvertimePay),
		},
		Data: r,
	}
}

// SalaryToHourlyReport describes a salary-to-hourly conversion.
func SalaryToHourlyReport(r hourly.SalaryConversion) Report {
	return Report{
		Title:    "Salary to hourly",
		Currency: "USD",
		Fields: []Field{
			money("Annual salary", r.AnnualSalary),
			text("Hours per week", strconv.FormatFloat(r.HoursPerWeek, 'f', -1, 64)),
			text("Weeks per year", strconv.FormatFloat(r.WeeksPerYear, 'f', -1, 64)),
			money("Hourly rate", r.HourlyRate),
		},
		Data: r,
	}
}

// CompoundReport describes a compound interest projection.
func CompoundReport(r compound.Result) Report {
	rows := make([][]Field, 0, len(r.YearlyBreakdown))
	for _, y := range r.YearlyBreakdown {
		rows = append(rows, []Field{count("", y.Year), money("", y.Balance), money("", y.Contributions), money("", y.Interest)})
	}
	return Report{
		Title:    "Compound interest",
		Currency: "USD",
		Fields: []Field{
			money("Final balance", r.FinalBalance),
			money("Total contributions", r.TotalContributions),
			money("Total interest", r.TotalInterest),
		},
		Table: &Table{Columns: []string{"Year", "Balance", "Contributions", "Interest"}, Rows: rows},
		Data:  r,
	}
}

// LoanReport describes a loan amortization.
func LoanReport(r loans.Result) Report {
	rows := make([][]Field, 0, len(r.Schedule))
	for _, p := range r.Schedule {
		rows = append(rows, []Field{
			count("", p.Month), money("", p.Payment), money("", p.Principal),
			money("", p.Interest), money("", p.ExtraPayment), money("", p.Balance),
		})
	}
	return Report{
		Title:    "Loan amortization",
		Currency: "USD",
		Fields: []Field{
			money("Monthly payment", r.MonthlyPayment),
			money("Total payment", r.TotalPayment),
			money("Total interest", r.TotalInterest),
			count("Payoff months", r.PayoffMonths),
		},
		Table: &Table{Columns: []string{"Month", "Payment", "Principal", "Interest", "Extra", "Balance"}, Rows: rows},
		Data:  r,
	}
}

// FireReport describes a FIRE projection.
func FireReport(r fire.Result) Report {
	years := text("Years to FIRE", fmt.Sprintf("not reached within %d years", constants.FireHorizonYears))
	if r.Reached() {
		years = count("Years to FIRE", r.YearsToFire)
	}
	rows := make([][]Field, 0, len(r.Projections))
	for _, p := range r.Projections {
		rows = append(rows, []Field{count("", p.Year), money("", p.Savings), money("", p.Target), percent("", p.Progress)})
	}
	return Report{
		Title:    "FIRE",
		Currency: "USD",
		Fields: []Field{
			money("FIRE number", r.FireNumber),
			years,
			money("Lean FIRE", r.LeanFireNumber),
			money("Fat FIRE", r.FatFireNumber),
			money("Coast FIRE", r.CoastFireNumber),
			money("Total contributions", r.TotalContributions),
			money("Total growth", r.TotalGrowth),
		},
		Table: &Table{Columns: []string{"Year", "Savings", "Target", "Progress"}, Rows: rows},
		Data:  r,
	}
}
