// Package loans provides loan amortization utilities.
package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/ratewise/pkg/constants"
	"github.com/iwvelando/ratewise/pkg/mathutil"
	"github.com/iwvelando/ratewise/pkg/validation"
	"go.uber.org/zap"
)

// Input describes a fixed-rate loan. AnnualRate is a percentage and
// ExtraMonthlyPayment is paid towards principal on top of the scheduled
// payment every month.
type Input struct {
	Principal           float64 `json:"principal"`
	AnnualRate          float64 `json:"annualRate"`
	TermYears           int     `json:"termYears"`
	ExtraMonthlyPayment float64 `json:"extraMonthlyPayment"`
}

// AmortizationRow holds the values for a given payment.
type AmortizationRow struct {
	Month        int     `json:"month"`
	Payment      float64 `json:"payment"`
	Principal    float64 `json:"principal"`
	Interest     float64 `json:"interest"`
	ExtraPayment float64 `json:"extraPayment"`
	Balance      float64 `json:"balance"`
}

// Result summarizes a simulated repayment. PayoffMonths equals
// len(Schedule) and is shorter than the term when extra payments apply.
type Result struct {
	MonthlyPayment float64           `json:"monthlyPayment"`
	TotalPayment   float64           `json:"totalPayment"`
	TotalInterest  float64           `json:"totalInterest"`
	PayoffMonths   int               `json:"payoffMonths"`
	Schedule       []AmortizationRow `json:"schedule"`
}

// MonthlyRate converts an annual percentage rate to a monthly decimal rate.
func MonthlyRate(annualInterestRate float64) float64 {
	return annualInterestRate / constants.PercentageMultiplier / constants.MonthsPerYear
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the standard amortization formula.
func CalculateMonthlyPayment(principal, annualInterestRate float64, termMonths int) float64 {
	if annualInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return principal / float64(termMonths)
	}

	// 1-(1+r)^-n tends to 1 instead of overflowing as the rate grows.
	periodicInterestRate := MonthlyRate(annualInterestRate)
	discountFactor := 1.00 - math.Pow(1.00+periodicInterestRate, -float64(termMonths))
	return principal * periodicInterestRate / discountFactor
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * MonthlyRate(annualInterestRate)
}

// Validate checks the loan inputs.
func (in Input) Validate() error {
	if err := validation.First(
		validation.Positive("principal", "Principal", in.Principal),
		validation.NonNegative("annualRate", "Annual rate", in.AnnualRate),
		validation.NonNegative("extraMonthlyPayment", "Extra monthly payment", in.ExtraMonthlyPayment),
	); err != nil {
		return err
	}
	if in.TermYears <= 0 || in.TermYears > constants.MaxLoanTermYears {
		return validation.NewError("termYears", "Term must be between 1 and %d years", constants.MaxLoanTermYears)
	}
	return nil
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// Calculate generates the schedule without logging.
func Calculate(in Input) (Result, error) {
	return NewAmortizationScheduleGenerator(nil).GenerateSchedule(in)
}

// GenerateSchedule simulates the loan month by month. The scheduled payment
// is rounded to cents once and held fixed; the running balance keeps full
// precision and only the reported rows are rounded.
func (g *AmortizationScheduleGenerator) GenerateSchedule(in Input) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	totalPayments := in.TermYears * constants.MonthsPerYear
	exactPayment := CalculateMonthlyPayment(in.Principal, in.AnnualRate, totalPayments)
	monthlyPayment := mathutil.Round(exactPayment)
	if monthlyPayment < CalculateInterestPayment(in.Principal, in.AnnualRate) {
		// Rounding down below the first month's interest would grow the balance.
		monthlyPayment = math.Ceil(exactPayment*100) / 100
	}
	if !mathutil.IsFinite(monthlyPayment) {
		return Result{}, validation.NewError("annualRate", "Inputs overflow the amortization schedule")
	}

	schedule := make([]AmortizationRow, 0, totalPayments)
	balance := in.Principal
	totalPaid := 0.0
	totalInterest := 0.0

	for month := 1; month <= totalPayments && balance > 0; month++ {
		interest := CalculateInterestPayment(balance, in.AnnualRate)
		principal := monthlyPayment - interest
		extra := g.capExtraPayment(month, in.ExtraMonthlyPayment, balance-principal)

		if principal+extra > balance {
			g.logger.Debug(fmt.Sprintf("month %d: final payment adjusted to remaining balance %.2f", month, balance),
				zap.String("op", "loans.GenerateSchedule"),
			)
			principal = balance
			extra = 0
		}

		balance -= principal + extra
		if !mathutil.IsFinite(balance) {
			return Result{}, validation.NewError("annualRate", "Inputs overflow the amortization schedule")
		}
		if mathutil.Round(balance) == 0 {
			// We will get machine error otherwise so just set to 0.
			balance = 0
		}
		totalPaid += monthlyPayment + extra
		totalInterest += interest

		schedule = append(schedule, AmortizationRow{
			Month:        month,
			Payment:      mathutil.Round(principal + interest),
			Principal:    mathutil.Round(principal),
			Interest:     mathutil.Round(interest),
			ExtraPayment: mathutil.Round(extra),
			Balance:      mathutil.Round(math.Max(0, balance)),
		})
	}

	return Result{
		MonthlyPayment: monthlyPayment,
		TotalPayment:   mathutil.Round(totalPaid),
		TotalInterest:  mathutil.Round(totalInterest),
		PayoffMonths:   len(schedule),
		Schedule:       schedule,
	}, nil
}

// capExtraPayment limits the extra principal payment to what remains after
// the scheduled principal portion so the loan is never overpaid.
func (g *AmortizationScheduleGenerator) capExtraPayment(month int, requested, remaining float64) float64 {
	if requested <= remaining {
		return requested
	}
	capped := math.Max(0, remaining)
	if requested > 0 {
		g.logger.Debug("Capping extra principal payment to prevent overpayment",
			zap.String("op", "loans.capExtraPayment"),
			zap.Int("month", month),
			zap.Float64("requested", requested),
			zap.Float64("capped_to_balance", capped))
	}
	return capped
}
