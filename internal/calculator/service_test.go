package calculator

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/iwvelando/ratewise/internal/cache"
	"github.com/iwvelando/ratewise/internal/catalog"
	"github.com/iwvelando/ratewise/pkg/compound"
	"github.com/iwvelando/ratewise/pkg/fire"
	"github.com/iwvelando/ratewise/pkg/hourly"
	"github.com/iwvelando/ratewise/pkg/loans"
	"github.com/iwvelando/ratewise/pkg/salary"
	"github.com/iwvelando/ratewise/pkg/testutil"
	"github.com/iwvelando/ratewise/pkg/validation"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newService(t testing.TB, opts ...Option) *Service {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	s, err := NewService(cat, opts...)
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	return s
}

func ratePtr(v float64) *float64 { return &v }

func TestNewServiceRequiresCatalog(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error for nil catalog")
	}
}

func TestVAT(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		req         VATRequest
		net         float64
		vat         float64
		gross       float64
		countryName string
	}{
		{"country rate exclusive", VATRequest{Amount: 100, CountryCode: "de"}, 100, 19, 119, "Germany"},
		{"country rate inclusive", VATRequest{Amount: 120, CountryCode: "FR", Inclusive: true}, 100, 20, 120, "France"},
		{"explicit rate wins", VATRequest{Amount: 100, CountryCode: "DE", Rate: ratePtr(10)}, 100, 10, 110, ""},
		{"explicit rate only", VATRequest{Amount: 50, Rate: ratePtr(25)}, 50, 12.5, 62.5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.VAT(ctx, tt.req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertFields(t,
				testutil.Field{Name: "NetAmount", Got: result.NetAmount, Expected: tt.net},
				testutil.Field{Name: "VATAmount", Got: result.VATAmount, Expected: tt.vat},
				testutil.Field{Name: "GrossAmount", Got: result.GrossAmount, Expected: tt.gross},
			)
			if result.CountryName != tt.countryName {
				t.Errorf("CountryName = %q, expected %q", result.CountryName, tt.countryName)
			}
		})
	}
}

func TestVATErrors(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	_, err := s.VAT(ctx, VATRequest{Amount: 100, CountryCode: "US"})
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = s.VAT(ctx, VATRequest{Amount: 100})
	if !validation.IsValidationError(err) {
		t.Errorf("expected validation error without rate or country, got %v", err)
	}

	_, err = s.VAT(ctx, VATRequest{Amount: -1, CountryCode: "DE"})
	if !validation.IsValidationError(err) {
		t.Errorf("expected validation error for negative amount, got %v", err)
	}
}

func TestSalesTax(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	t.Run("state rates", func(t *testing.T) {
		result, err := s.SalesTax(ctx, SalesTaxRequest{Amount: 100, StateCode: "ca"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testutil.AssertFields(t,
			testutil.Field{Name: "StateTax", Got: result.StateTax, Expected: 7.25},
			testutil.Field{Name: "LocalTax", Got: result.LocalTax, Expected: 1.57},
			testutil.Field{Name: "TotalTax", Got: result.TotalTax, Expected: 8.82},
			testutil.Field{Name: "Total", Got: result.Total, Expected: 108.82},
		)
		if result.StateName != "California" {
			t.Errorf("StateName = %q, expected California", result.StateName)
		}
	})

	t.Run("negative average local rate is floored", func(t *testing.T) {
		result, err := s.SalesTax(ctx, SalesTaxRequest{Amount: 100, StateCode: "NJ"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.LocalTax != 0 {
			t.Errorf("LocalTax = %.2f, expected 0", result.LocalTax)
		}
	})

	t.Run("explicit local rate overrides state average", func(t *testing.T) {
		result, err := s.SalesTax(ctx, SalesTaxRequest{Amount: 100, StateCode: "CA", LocalRate: ratePtr(0)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testutil.AssertClose(t, "TotalTax", result.TotalTax, 7.25)
	})

	t.Run("explicit rates", func(t *testing.T) {
		result, err := s.SalesTax(ctx, SalesTaxRequest{Amount: 200, StateRate: ratePtr(5), LocalRate: ratePtr(2.5)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testutil.AssertClose(t, "TotalTax", result.TotalTax, 15)
		testutil.AssertClose(t, "Total", result.Total, 215)
	})

	t.Run("unknown state", func(t *testing.T) {
		_, err := s.SalesTax(ctx, SalesTaxRequest{Amount: 100, StateCode: "ZZ"})
		if !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("no rate", func(t *testing.T) {
		_, err := s.SalesTax(ctx, SalesTaxRequest{Amount: 100})
		if !validation.IsValidationError(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

func TestSalary(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	result, err := s.Salary(ctx, salary.Input{GrossAnnual: 50000, CountryCode: "DE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertClose(t, "NetAnnual", result.NetAnnual, 31025.06)
	if result.Currency != "EUR" {
		t.Errorf("Currency = %s, expected EUR", result.Currency)
	}

	result, err = s.Salary(ctx, salary.Input{GrossAnnual: 40000, CountryCode: "JP"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertClose(t, "NetAnnual", result.NetAnnual, 26000)
}

func TestConversions(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	hourlyResult, err := s.Hourly(ctx, hourly.Input{HourlyRate: 25, HoursPerWeek: 40, WeeksPerYear: 52})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertClose(t, "AnnualPay", hourlyResult.AnnualPay, 52000)

	conversion, err := s.SalaryToHourly(ctx, SalaryToHourlyRequest{AnnualSalary: 75000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertClose(t, "HourlyRate", conversion.HourlyRate, 36.06)
	if conversion.HoursPerWeek != 40 || conversion.WeeksPerYear != 52 {
		t.Errorf("expected default 40h/52wk, got %gh/%gwk", conversion.HoursPerWeek, conversion.WeeksPerYear)
	}
}

func TestProjections(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	growth, err := s.CompoundInterest(ctx, compound.Input{Principal: 10000, AnnualRate: 5, Years: 10, CompoundingFrequency: compound.Annually})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertClose(t, "FinalBalance", growth.FinalBalance, 16288.95)

	loan, err := s.Loan(ctx, loans.Input{Principal: 12000, AnnualRate: 0, TermYears: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertClose(t, "MonthlyPayment", loan.MonthlyPayment, 1000)
	if loan.PayoffMonths != 12 {
		t.Errorf("PayoffMonths = %d, expected 12", loan.PayoffMonths)
	}

	plan, err := s.Fire(ctx, fire.Input{AnnualExpenses: 40000, SafeWithdrawalRate: 4, CurrentSavings: 100000, AnnualContribution: 50000, ExpectedReturnRate: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.YearsToFire != 12 {
		t.Errorf("YearsToFire = %d, expected 12", plan.YearsToFire)
	}
}

func TestResultsAreCached(t *testing.T) {
	mem := cache.NewMemory(100, time.Minute)
	s := newService(t, WithCache(mem, "test:"))
	ctx := context.Background()

	first, err := s.Loan(ctx, loans.Input{Principal: 300000, AnnualRate: 6, TermYears: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mem.Len() != 1 {
		t.Fatalf("expected 1 cached entry, got %d", mem.Len())
	}

	second, err := s.Loan(ctx, loans.Input{Principal: 300000, AnnualRate: 6, TermYears: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second.Schedule) != len(first.Schedule) || second.TotalInterest != first.TotalInterest {
		t.Errorf("cached result differs: %+v vs %+v", second.TotalInterest, first.TotalInterest)
	}

	if _, err := s.VAT(ctx, VATRequest{Amount: 100, CountryCode: "DE"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.VAT(ctx, VATRequest{Amount: -5, CountryCode: "DE"}); err == nil {
		t.Fatal("expected validation error")
	}
	if mem.Len() != 2 {
		t.Errorf("expected errors not to be cached, got %d entries", mem.Len())
	}
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}
func (failingCache) Set(context.Context, string, []byte) error { return errors.New("connection refused") }
func (failingCache) Close() error                              { return nil }

func TestCacheFailuresDoNotFailCalculations(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := newService(t, WithCache(failingCache{}, ""), WithLogger(zap.New(core)))

	result, err := s.VAT(context.Background(), VATRequest{Amount: 100, CountryCode: "AT"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertClose(t, "GrossAmount", result.GrossAmount, 120)

	if got := logs.FilterMessage("cache lookup failed").Len(); got != 1 {
		t.Errorf("expected 1 lookup warning, got %d", got)
	}
	if got := logs.FilterMessage("cache store failed").Len(); got != 1 {
		t.Errorf("expected 1 store warning, got %d", got)
	}
}

func TestNonFiniteInputSkipsCache(t *testing.T) {
	mem := cache.NewMemory(100, time.Minute)
	s := newService(t, WithCache(mem, ""))

	_, err := s.VAT(context.Background(), VATRequest{Amount: math.NaN(), CountryCode: "DE"})
	if !validation.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	if mem.Len() != 0 {
		t.Errorf("expected nothing cached, got %d entries", mem.Len())
	}
}
