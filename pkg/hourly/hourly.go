// Package hourly converts between hourly rates and annual salaries.
package hourly

import (
	"github.com/iwvelando/ratewise/pkg/constants"
	"github.com/iwvelando/ratewise/pkg/mathutil"
	"github.com/iwvelando/ratewise/pkg/validation"
)

// Input describes a weekly work pattern. OvertimeHours are paid on top of
// HoursPerWeek at HourlyRate * OvertimeMultiplier; an omitted multiplier
// means time-and-a-half.
type Input struct {
	HourlyRate         float64 `json:"hourlyRate"`
	HoursPerWeek       float64 `json:"hoursPerWeek"`
	WeeksPerYear       float64 `json:"weeksPerYear"`
	OvertimeHours      float64 `json:"overtimeHours"`
	OvertimeMultiplier *float64 `json:"overtimeMultiplier,omitempty"`
}

// Result holds pay per period. OvertimePay and RegularPay are annual figures.
type Result struct {
	HourlyRate  float64 `json:"hourlyRate"`
	WeeklyPay   float64 `json:"weeklyPay"`
	BiweeklyPay float64 `json:"biweeklyPay"`
	MonthlyPay  float64 `json:"monthlyPay"`
	AnnualPay   float64 `json:"annualPay"`
	OvertimePay float64 `json:"overtimePay"`
	RegularPay  float64 `json:"regularPay"`
}

// ConvertHourlyToSalary projects an hourly rate to weekly, biweekly, monthly
// and annual pay.
func ConvertHourlyToSalary(in Input) (Result, error) {
	if err := validation.First(
		validation.NonNegative("hourlyRate", "Hourly rate", in.HourlyRate),
		validation.Between("hoursPerWeek", "Hours per week", in.HoursPerWeek, 0, constants.HoursPerWeekLimit),
		validation.Between("weeksPerYear", "Weeks per year", in.WeeksPerYear, 0, constants.WeeksPerYear),
		validation.NonNegative("overtimeHours", "Overtime hours", in.OvertimeHours),
	); err != nil {
		return Result{}, err
	}

	multiplier := constants.DefaultOvertimeMultiplier
	if in.OvertimeMultiplier != nil {
		multiplier = *in.OvertimeMultiplier
		if err := validation.NonNegative("overtimeMultiplier", "Overtime multiplier", multiplier); err != nil {
			return Result{}, err
		}
	}

	regularWeekly := in.HourlyRate * in.HoursPerWeek
	overtimeWeekly := in.HourlyRate * multiplier * in.OvertimeHours
	weekly := regularWeekly + overtimeWeekly
	annual := weekly * in.WeeksPerYear

	return Result{
		HourlyRate:  in.HourlyRate,
		WeeklyPay:   mathutil.Round(weekly),
		BiweeklyPay: mathutil.Round(weekly * 2),
		MonthlyPay:  mathutil.Round(annual / constants.MonthsPerYear),
		AnnualPay:   mathutil.Round(annual),
		OvertimePay: mathutil.Round(overtimeWeekly * in.WeeksPerYear),
		RegularPay:  mathutil.Round(regularWeekly * in.WeeksPerYear),
	}, nil
}

// ConvertSalaryToHourly returns the hourly rate equivalent to annualSalary
// over hoursPerWeek * weeksPerYear paid hours.
func ConvertSalaryToHourly(annualSalary, hoursPerWeek, weeksPerYear float64) (float64, error) {
	if err := validation.First(
		validation.NonNegative("annualSalary", "Annual salary", annualSalary),
		validation.Between("hoursPerWeek", "Hours per week", hoursPerWeek, 0, constants.HoursPerWeekLimit),
		validation.Between("weeksPerYear", "Weeks per year", weeksPerYear, 0, constants.WeeksPerYear),
	); err != nil {
		return 0, err
	}
	if hoursPerWeek == 0 || weeksPerYear == 0 {
		return 0, validation.NewError("hoursPerWeek", "Hours per week and weeks per year must be positive")
	}
	return mathutil.Round(annualSalary / (hoursPerWeek * weeksPerYear)), nil
}

// SalaryConversion is a salary-to-hourly conversion together with the work
// pattern it assumed.
type SalaryConversion struct {
	AnnualSalary float64 `json:"annualSalary"`
	HoursPerWeek float64 `json:"hoursPerWeek"`
	WeeksPerYear float64 `json:"weeksPerYear"`
	HourlyRate   float64 `json:"hourlyRate"`
}
