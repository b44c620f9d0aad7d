// Package calculator is the facade shared by the CLI and the HTTP API. It
// resolves catalog defaults, runs the pure calculators and caches results.
package calculator

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/iwvelando/ratewise/internal/cache"
	"github.com/iwvelando/ratewise/internal/catalog"
	"github.com/iwvelando/ratewise/pkg/compound"
	"github.com/iwvelando/ratewise/pkg/constants"
	"github.com/iwvelando/ratewise/pkg/fire"
	"github.com/iwvelando/ratewise/pkg/hourly"
	"github.com/iwvelando/ratewise/pkg/loans"
	"github.com/iwvelando/ratewise/pkg/salary"
	"github.com/iwvelando/ratewise/pkg/salestax"
	"github.com/iwvelando/ratewise/pkg/validation"
	"github.com/iwvelando/ratewise/pkg/vat"
	"go.uber.org/zap"
)

// Service runs calculations against a rate catalog.
type Service struct {
	catalog   *catalog.Catalog
	registry  *salary.Registry
	cache     cache.Cache
	keyPrefix string
	loans     *loans.AmortizationScheduleGenerator
	logger    *zap.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithCache stores results in c under keys starting with prefix.
func WithCache(c cache.Cache, prefix string) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
			s.keyPrefix = prefix
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService builds a service over cat. Without options results are not
// cached and nothing is logged.
func NewService(cat *catalog.Catalog, opts ...Option) (*Service, error) {
	if cat == nil {
		return nil, fmt.Errorf("calculator: catalog is required")
	}
	s := &Service{
		catalog: cat,
		cache:   cache.Nop{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	registry, err := cat.SalaryRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to build salary registry: %w", err)
	}
	s.registry = registry
	s.loans = loans.NewAmortizationScheduleGenerator(s.logger)
	return s, nil
}

// Catalog returns the catalog the service resolves rates from.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// VATRequest computes VAT either at an explicit Rate or at the standard rate
// of CountryCode. An explicit rate wins when both are given.
type VATRequest struct {
	Amount      float64  `json:"amount"`
	Rate        *float64 `json:"rate,omitempty"`
	CountryCode string   `json:"countryCode,omitempty"`
	Inclusive   bool     `json:"inclusive"`
}

// VATResult is a VAT calculation plus the country whose rate was applied.
type VATResult struct {
	vat.Result
	CountryCode string `json:"countryCode,omitempty"`
	CountryName string `json:"countryName,omitempty"`
}

// VAT adds or extracts VAT.
func (s *Service) VAT(ctx context.Context, req VATRequest) (VATResult, error) {
	return cached(ctx, s, "vat", req, func() (VATResult, error) {
		var out VATResult
		in := vat.Input{Amount: req.Amount, Inclusive: req.Inclusive}

		switch {
		case req.Rate != nil:
			in.Rate = *req.Rate
		case req.CountryCode != "":
			rate, err := s.catalog.VATRate(req.CountryCode)
			if err != nil {
				return VATResult{}, err
			}
			in.Rate = rate.StandardRate
			out.CountryCode = rate.CountryCode
			out.CountryName = rate.CountryName
		default:
			return VATResult{}, validation.NewError("rate", "Either a rate or a country code is required")
		}

		result, err := vat.Calculate(in)
		if err != nil {
			return VATResult{}, err
		}
		out.Result = result
		return out, nil
	})
}

// SalesTaxRequest computes sales tax at explicit rates or at the rates of
// StateCode. When StateCode is given, an omitted rate is taken from the
// catalog; the average local rate is floored at zero.
type SalesTaxRequest struct {
	Amount    float64  `json:"amount"`
	StateRate *float64 `json:"stateRate,omitempty"`
	LocalRate *float64 `json:"localRate,omitempty"`
	StateCode string   `json:"stateCode,omitempty"`
}

// SalesTaxResult is a sales tax calculation plus the state whose rates were
// applied.
type SalesTaxResult struct {
	salestax.Result
	StateCode string `json:"stateCode,omitempty"`
	StateName string `json:"stateName,omitempty"`
}

// SalesTax applies state and local sales tax.
func (s *Service) SalesTax(ctx context.Context, req SalesTaxRequest) (SalesTaxResult, error) {
	return cached(ctx, s, "sales-tax", req, func() (SalesTaxResult, error) {
		var out SalesTaxResult
		in := salestax.Input{Amount: req.Amount}

		if req.StateCode != "" {
			rate, err := s.catalog.SalesTaxRate(req.StateCode)
			if err != nil {
				return SalesTaxResult{}, err
			}
			in.StateRate = rate.StateRate
			in.LocalRate = math.Max(0, rate.AvgLocalRate)
			out.StateCode = rate.StateCode
			out.StateName = rate.StateName
		} else if req.StateRate == nil {
			return SalesTaxResult{}, validation.NewError("stateRate", "Either a state rate or a state code is required")
		}
		if req.StateRate != nil {
			in.StateRate = *req.StateRate
		}
		if req.LocalRate != nil {
			in.LocalRate = *req.LocalRate
		}

		result, err := salestax.Calculate(in)
		if err != nil {
			return SalesTaxResult{}, err
		}
		out.Result = result
		return out, nil
	})
}

// Salary computes take-home pay for in.CountryCode. Codes without a
// catalog entry use the fallback jurisdiction.
func (s *Service) Salary(ctx context.Context, in salary.Input) (salary.Result, error) {
	return cached(ctx, s, "salary", in, func() (salary.Result, error) {
		return s.registry.Calculate(in)
	})
}

// Hourly converts an hourly rate to pay per period.
func (s *Service) Hourly(ctx context.Context, in hourly.Input) (hourly.Result, error) {
	return cached(ctx, s, "hourly", in, func() (hourly.Result, error) {
		return hourly.ConvertHourlyToSalary(in)
	})
}

// SalaryToHourlyRequest converts an annual salary to an hourly rate. Zero
// hours or weeks mean a 40 hour week over 52 weeks.
type SalaryToHourlyRequest struct {
	AnnualSalary float64 `json:"annualSalary"`
	HoursPerWeek float64 `json:"hoursPerWeek,omitempty"`
	WeeksPerYear float64 `json:"weeksPerYear,omitempty"`
}

// SalaryToHourly converts an annual salary to an hourly rate.
func (s *Service) SalaryToHourly(ctx context.Context, req SalaryToHourlyRequest) (hourly.SalaryConversion, error) {
	if req.HoursPerWeek == 0 {
		req.HoursPerWeek = constants.DefaultHoursPerWeek
	}
	if req.WeeksPerYear == 0 {
		req.WeeksPerYear = constants.DefaultWeeksPerYear
	}
	return cached(ctx, s, "salary-to-hourly", req, func() (hourly.SalaryConversion, error) {
		rate, err := hourly.ConvertSalaryToHourly(req.AnnualSalary, req.HoursPerWeek, req.WeeksPerYear)
		if err != nil {
			return hourly.SalaryConversion{}, err
		}
		return hourly.SalaryConversion{
			AnnualSalary: req.AnnualSalary,
			HoursPerWeek: req.HoursPerWeek,
			WeeksPerYear: req.WeeksPerYear,
			HourlyRate:   rate,
		}, nil
	})
}

// CompoundInterest projects a savings balance.
func (s *Service) CompoundInterest(ctx context.Context, in compound.Input) (compound.Result, error) {
	return cached(ctx, s, "compound-interest", in, func() (compound.Result, error) {
		return compound.Calculate(in)
	})
}

// Loan builds an amortization schedule.
func (s *Service) Loan(ctx context.Context, in loans.Input) (loans.Result, error) {
	return cached(ctx, s, "loan", in, func() (loans.Result, error) {
		return s.loans.GenerateSchedule(in)
	})
}

// Fire projects progress towards financial independence.
func (s *Service) Fire(ctx context.Context, in fire.Input) (fire.Result, error) {
	return cached(ctx, s, "fire", in, func() (fire.Result, error) {
		return fire.Calculate(in)
	})
}

// cached returns the stored result for (op, input) or computes and stores
// it. Cache failures are logged and otherwise ignored; errors are never
// cached.
func cached[T any](ctx context.Context, s *Service, op string, input interface{}, compute func() (T, error)) (T, error) {
	key, keyErr := cache.Key(s.keyPrefix, op, input)
	if keyErr == nil {
		if data, ok, err := s.cache.Get(ctx, key); err != nil {
			s.logger.Warn("cache lookup failed",
				zap.String("op", "calculator."+op),
				zap.Error(err),
			)
		} else if ok {
			var result T
			if err := json.Unmarshal(data, &result); err == nil {
				s.logger.Debug("cache hit",
					zap.String("op", "calculator."+op),
					zap.String("key", key),
				)
				return result, nil
			}
		}
	}

	result, err := compute()
	if err != nil {
		s.logger.Debug("calculation rejected",
			zap.String("op", "calculator."+op),
			zap.Error(err),
		)
		return result, err
	}
	s.logger.Debug("calculation completed", zap.String("op", "calculator."+op))

	if keyErr != nil {
		return result, nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn("failed to encode result for cache",
			zap.String("op", "calculator."+op),
			zap.Error(err),
		)
		return result, nil
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		s.logger.Warn("cache store failed",
			zap.String("op", "calculator."+op),
			zap.Error(err),
		)
	}
	return result, nil
}
