package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/ratewise/internal/calculator"
	"github.com/iwvelando/ratewise/internal/server"
	"github.com/iwvelando/ratewise/pkg/compound"
	"github.com/iwvelando/ratewise/pkg/constants"
	"github.com/iwvelando/ratewise/pkg/fire"
	"github.com/iwvelando/ratewise/pkg/hourly"
	"github.com/iwvelando/ratewise/pkg/loans"
	"github.com/iwvelando/ratewise/pkg/output"
	"github.com/iwvelando/ratewise/pkg/salary"
	"github.com/spf13/cobra"
)

func optional(cmd *cobra.Command, name string, value float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func (a *app) vatCommand() *cobra.Command {
	var (
		req      calculator.VATRequest
		rate     float64
		currency string
	)
	cmd := &cobra.Command{
		Use:   "vat",
		Short: "Add or extract VAT",
		Example: `  ratewise vat --amount 100 --country DE
  ratewise vat --amount 119 --rate 19 --inclusive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.Rate = optional(cmd, "rate", rate)
			result, err := a.service.VAT(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), output.VATReport(result.Result, currency))
		},
	}
	cmd.Flags().Float64Var(&req.Amount, "amount", 0, "net amount, or gross amount with --inclusive")
	cmd.Flags().Float64Var(&rate, "rate", 0, "VAT rate in percent (overrides --country)")
	cmd.Flags().StringVar(&req.CountryCode, "country", "", "EU country code whose standard rate applies")
	cmd.Flags().BoolVar(&req.Inclusive, "inclusive", false, "treat --amount as VAT-inclusive")
	cmd.Flags().StringVar(&currency, "currency", "EUR", "currency code used for display")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func (a *app) salesTaxCommand() *cobra.Command {
	var (
		req                  calculator.SalesTaxRequest
		stateRate, localRate float64
	)
	cmd := &cobra.Command{
		Use:   "sales-tax",
		Short: "Apply US state and local sales tax",
		Example: `  ratewise sales-tax --amount 100 --state CA
  ratewise sales-tax --amount 100 --state-rate 6.25 --local-rate 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.StateRate = optional(cmd, "state-rate", stateRate)
			req.LocalRate = optional(cmd, "local-rate", localRate)
			result, err := a.service.SalesTax(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), output.SalesTaxReport(result.Result))
		},
	}
	cmd.Flags().Float64Var(&req.Amount, "amount", 0, "purchase amount")
	cmd.Flags().StringVar(&req.StateCode, "state", "", "US state code whose rates apply")
	cmd.Flags().Float64Var(&stateRate, "state-rate", 0, "state rate in percent")
	cmd.Flags().Float64Var(&localRate, "local-rate", 0, "local rate in percent")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func (a *app) salaryCommand() *cobra.Command {
	var (
		in        salary.Input
		frequency string
	)
	cmd := &cobra.Command{
		Use:   "salary",
		Short: "Compute take-home pay",
		Example: `  ratewise salary --gross 100000 --country US --frequency monthly
  ratewise salary --gross 50000 --country GB --pension 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.PayFrequency = salary.PayFrequency(frequency)
			result, err := a.service.Salary(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), output.SalaryReport(result, in.PayFrequency))
		},
	}
	cmd.Flags().Float64Var(&in.GrossAnnual, "gross", 0, "gross annual salary")
	cmd.Flags().StringVar(&in.CountryCode, "country", "US", "jurisdiction country code")
	cmd.Flags().Float64Var(&in.Bonus, "bonus", 0, "annual bonus")
	cmd.Flags().Float64Var(&in.PensionContribution, "pension", 0, "pension contribution in percent of gross pay")
	cmd.Flags().StringVar(&frequency, "frequency", string(salary.PayAnnual), "pay frequency: annual, monthly, biweekly, weekly")
	_ = cmd.MarkFlagRequired("gross")
	return cmd
}

func (a *app) hourlyCommand() *cobra.Command {
	var (
		in         hourly.Input
		multiplier float64
	)
	cmd := &cobra.Command{
		Use:     "hourly",
		Short:   "Convert an hourly rate to salary",
		Example: `  ratewise hourly --rate 25 --overtime-hours 5`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.OvertimeMultiplier = &multiplier
			result, err := a.service.Hourly(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), output.HourlyReport(result))
		},
	}
	cmd.Flags().Float64Var(&in.HourlyRate, "rate", 0, "hourly rate")
	cmd.Flags().Float64Var(&in.HoursPerWeek, "hours", constants.DefaultHoursPerWeek, "regular hours per week")
	cmd.Flags().Float64Var(&in.WeeksPerYear, "weeks", constants.DefaultWeeksPerYear, "paid weeks per year")
	cmd.Flags().Float64Var(&in.OvertimeHours, "overtime-hours", 0, "overtime hours per week")
	cmd.Flags().Float64Var(&multiplier, "overtime-multiplier", constants.DefaultOvertimeMultiplier, "overtime pay multiplier")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}

func (a *app) salaryToHourlyCommand() *cobra.Command {
	var req calculator.SalaryToHourlyRequest
	cmd := &cobra.Command{
		Use:     "salary-to-hourly",
		Short:   "Convert an annual salary to an hourly rate",
		Example: `  ratewise salary-to-hourly --salary 75000`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := a.service.SalaryToHourly(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), output.SalaryToHourlyReport(result))
		},
	}
	cmd.Flags().Float64Var(&req.AnnualSalary, "salary", 0, "annual salary")
	cmd.Flags().Float64Var(&req.HoursPerWeek, "hours", constants.DefaultHoursPerWeek, "hours per week")
	cmd.Flags().Float64Var(&req.WeeksPerYear, "weeks", constants.DefaultWeeksPerYear, "paid weeks per year")
	_ = cmd.MarkFlagRequired("salary")
	return cmd
}

func (a *app) compoundCommand() *cobra.Command {
	var (
		in        compound.Input
		frequency string
	)
	cmd := &cobra.Command{
		Use:     "compound",
		Short:   "Project a balance with compound interest",
		Example: `  ratewise compound --principal 10000 --contribution 100 --rate 6 --years 10`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.CompoundingFrequency = compound.Frequency(frequency)
			result, err := a.service.CompoundInterest(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), output.CompoundReport(result))
		},
	}
	cmd.Flags().Float64Var(&in.Principal, "principal", 0, "starting balance")
	cmd.Flags().Float64Var(&in.MonthlyContribution, "contribution", 0, "monthly contribution")
	cmd.Flags().Float64Var(&in.AnnualRate, "rate", 0, "annual interest rate in percent")
	cmd.Flags().IntVar(&in.Years, "years", 10, "projection length in years")
	cmd.Flags().StringVar(&frequency, "frequency", string(compound.Monthly), "compounding: daily, monthly, quarterly, annually")
	return cmd
}

func (a *app) loanCommand() *cobra.Command {
	var in loans.Input
	cmd := &cobra.Command{
		Use:     "loan",
		Short:   "Build a loan amortization schedule",
		Example: `  ratewise loan --principal 300000 --rate 6 --years 30 --extra 200`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := a.service.Loan(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), output.LoanReport(result))
		},
	}
	cmd.Flags().Float64Var(&in.Principal, "principal", 0, "amount borrowed")
	cmd.Flags().Float64Var(&in.AnnualRate, "rate", 0, "annual interest rate in percent")
	cmd.Flags().IntVar(&in.TermYears, "years", 30, "term in years")
	cmd.Flags().Float64Var(&in.ExtraMonthlyPayment, "extra", 0, "extra principal paid each month")
	_ = cmd.MarkFlagRequired("principal")
	return cmd
}

func (a *app) fireCommand() *cobra.Command {
	var in fire.Input
	cmd := &cobra.Command{
		Use:     "fire",
		Short:   "Project progress towards financial independence",
		Example: `  ratewise fire --expenses 40000 --savings 100000 --contribution 50000`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := a.service.Fire(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), output.FireReport(result))
		},
	}
	cmd.Flags().Float64Var(&in.AnnualExpenses, "expenses", 0, "annual expenses")
	cmd.Flags().Float64Var(&in.SafeWithdrawalRate, "withdrawal-rate", 4, "safe withdrawal rate in percent")
	cmd.Flags().Float64Var(&in.CurrentSavings, "savings", 0, "current savings")
	cmd.Flags().Float64Var(&in.AnnualContribution, "contribution", 0, "annual contribution")
	cmd.Flags().Float64Var(&in.ExpectedReturnRate, "return", 7, "expected annual return in percent")
	_ = cmd.MarkFlagRequired("expenses")
	return cmd
}

func (a *app) serveCommand() *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators as a JSON HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := server.NewConfig(a.conf.Server)
			if err != nil {
				return fmt.Errorf("invalid server configuration: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			handler := server.NewHandler(a.service, a.logger, cfg.BodySizeBytes(), version)
			return server.Run(ctx, cfg, handler, a.logger)
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "optional file of environment overrides loaded before configuration")
	return cmd
}
