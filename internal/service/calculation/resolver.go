package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/wagecore/payroll-backend-go/internal/domain/assignment"
)

// ConfigurationError reports an assignment whose rate fields do not match its
// calculation method and mode. Both resolution call sites (the save hook and
// the payroll run) reject the same configurations identically.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Field + ": " + e.Message
}

var oneHundred = decimal.NewFromInt(100)

// ResolveAssignmentAmount derives the monetary amount of one earning or
// deduction assignment from its calculation method, mode and mode-specific
// fields, plus the employee's basic salary. This is the single shared
// resolution function; it is invoked from the assignment save hook and again
// by the calculation engine at payroll-run time.
func ResolveAssignmentAmount(a assignment.Assignment, basicSalary decimal.Decimal) (decimal.Decimal, error) {
	switch a.CalculationMethod {
	case assignment.MethodPercentage:
		if a.Mode != assignment.ModeMonthly {
			return decimal.Zero, &ConfigurationError{Field: "mode", Message: "percentage assignments require monthly mode"}
		}
		if a.Percentage == nil {
			return decimal.Zero, &ConfigurationError{Field: "percentage", Message: "is required for percentage assignments"}
		}
		return basicSalary.Mul(*a.Percentage).Div(oneHundred).Round(2), nil

	case assignment.MethodFixedAmount:
		switch a.Mode {
		case assignment.ModeMonthly:
			if a.MonthlyAmount == nil {
				return decimal.Zero, &ConfigurationError{Field: "monthly_amount", Message: "is required for monthly fixed assignments"}
			}
			return a.MonthlyAmount.Round(2), nil
		case assignment.ModeHourly:
			return resolveRateQuantity(a.HourlyRate, a.HoursPerMonth, "hourly_rate", "hours_per_month")
		case assignment.ModeDaily:
			return resolveRateQuantity(a.DailyRate, a.DaysPerMonth, "daily_rate", "days_per_month")
		case assignment.ModeWeekly:
			return resolveRateQuantity(a.WeeklyRate, a.WeeksPerMonth, "weekly_rate", "weeks_per_month")
		default:
			return decimal.Zero, &ConfigurationError{Field: "mode", Message: "unknown assignment mode"}
		}

	default:
		return decimal.Zero, &ConfigurationError{Field: "calculation_method", Message: "unknown calculation method"}
	}
}

func resolveRateQuantity(rate, quantity *decimal.Decimal, rateField, quantityField string) (decimal.Decimal, error) {
	if rate == nil {
		return decimal.Zero, &ConfigurationError{Field: rateField, Message: "is required for this mode"}
	}
	if quantity == nil {
		return decimal.Zero, &ConfigurationError{Field: quantityField, Message: "is required for this mode"}
	}
	return rate.Mul(*quantity).Round(2), nil
}
