package assignment

import (
	"github.com/shopspring/decimal"
	"github.com/wagecore/payroll-backend-go/internal/pkg/validator"
)

type CreateAssignmentRequest struct {
	EmployeeID        string           `json:"-"`
	Name              string           `json:"name"`
	Kind              string           `json:"kind"`               // "earning" or "deduction"
	CalculationMethod string           `json:"calculation_method"` // "fixed_amount" or "percentage"
	Mode              string           `json:"mode"`               // "monthly", "hourly", "daily" or "weekly"
	MonthlyAmount     *decimal.Decimal `json:"monthly_amount,omitempty"`
	Percentage        *decimal.Decimal `json:"percentage,omitempty"`
	HourlyRate        *decimal.Decimal `json:"hourly_rate,omitempty"`
	HoursPerMonth     *decimal.Decimal `json:"hours_per_month,omitempty"`
	DailyRate         *decimal.Decimal `json:"daily_rate,omitempty"`
	DaysPerMonth      *decimal.Decimal `json:"days_per_month,omitempty"`
	WeeklyRate        *decimal.Decimal `json:"weekly_rate,omitempty"`
	WeeksPerMonth     *decimal.Decimal `json:"weeks_per_month,omitempty"`
	IsTaxable         *bool            `json:"is_taxable,omitempty"`
	EffectiveDate     *string          `json:"effective_date,omitempty"`
	EndDate           *string          `json:"end_date,omitempty"`
}

func (r *CreateAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if r.Kind != string(KindEarning) && r.Kind != string(KindDeduction) {
		errs = append(errs, validator.ValidationError{Field: "kind", Message: "must be 'earning' or 'deduction'"})
	}
	if r.CalculationMethod != string(MethodFixedAmount) && r.CalculationMethod != string(MethodPercentage) {
		errs = append(errs, validator.ValidationError{Field: "calculation_method", Message: "must be 'fixed_amount' or 'percentage'"})
	}
	if !validator.IsInSlice(r.Mode, []string{string(ModeMonthly), string(ModeHourly), string(ModeDaily), string(ModeWeekly)}) {
		errs = append(errs, validator.ValidationError{Field: "mode", Message: "must be 'monthly', 'hourly', 'daily' or 'weekly'"})
	}
	for field, amount := range map[string]*decimal.Decimal{
		"monthly_amount":  r.MonthlyAmount,
		"percentage":      r.Percentage,
		"hourly_rate":     r.HourlyRate,
		"hours_per_month": r.HoursPerMonth,
		"daily_rate":      r.DailyRate,
		"days_per_month":  r.DaysPerMonth,
		"weekly_rate":     r.WeeklyRate,
		"weeks_per_month": r.WeeksPerMonth,
	} {
		if amount != nil && amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		}
	}
	if r.EffectiveDate != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateAssignmentRequest struct {
	ID            string
	Name          *string          `json:"name,omitempty"`
	MonthlyAmount *decimal.Decimal `json:"monthly_amount,omitempty"`
	Percentage    *decimal.Decimal `json:"percentage,omitempty"`
	HourlyRate    *decimal.Decimal `json:"hourly_rate,omitempty"`
	HoursPerMonth *decimal.Decimal `json:"hours_per_month,omitempty"`
	DailyRate     *decimal.Decimal `json:"daily_rate,omitempty"`
	DaysPerMonth  *decimal.Decimal `json:"days_per_month,omitempty"`
	WeeklyRate    *decimal.Decimal `json:"weekly_rate,omitempty"`
	WeeksPerMonth *decimal.Decimal `json:"weeks_per_month,omitempty"`
	IsTaxable     *bool            `json:"is_taxable,omitempty"`
	EffectiveDate *string          `json:"effective_date,omitempty"`
	EndDate       *string          `json:"end_date,omitempty"`
	Status        *string          `json:"status,omitempty"`
}

func (r *UpdateAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "must not be empty"})
	}
	if r.Status != nil && *r.Status != string(StatusActive) && *r.Status != string(StatusInactive) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be 'active' or 'inactive'"})
	}
	for field, amount := range map[string]*decimal.Decimal{
		"monthly_amount":  r.MonthlyAmount,
		"percentage":      r.Percentage,
		"hourly_rate":     r.HourlyRate,
		"hours_per_month": r.HoursPerMonth,
		"daily_rate":      r.DailyRate,
		"days_per_month":  r.DaysPerMonth,
		"weekly_rate":     r.WeeklyRate,
		"weeks_per_month": r.WeeksPerMonth,
	} {
		if amount != nil && amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AssignmentResponse struct {
	ID                string           `json:"id"`
	EmployeeID        string           `json:"employee_id"`
	Name              string           `json:"name"`
	Kind              string           `json:"kind"`
	CalculationMethod string           `json:"calculation_method"`
	Mode              string           `json:"mode"`
	MonthlyAmount     *decimal.Decimal `json:"monthly_amount,omitempty"`
	Percentage        *decimal.Decimal `json:"percentage,omitempty"`
	HourlyRate        *decimal.Decimal `json:"hourly_rate,omitempty"`
	HoursPerMonth     *decimal.Decimal `json:"hours_per_month,omitempty"`
	DailyRate         *decimal.Decimal `json:"daily_rate,omitempty"`
	DaysPerMonth      *decimal.Decimal `json:"days_per_month,omitempty"`
	WeeklyRate        *decimal.Decimal `json:"weekly_rate,omitempty"`
	WeeksPerMonth     *decimal.Decimal `json:"weeks_per_month,omitempty"`
	IsTaxable         bool             `json:"is_taxable"`
	CalculatedAmount  decimal.Decimal  `json:"calculated_amount"`
	EffectiveDate     string           `json:"effective_date"`
	EndDate           *string          `json:"end_date,omitempty"`
	Status            string           `json:"status"`
}
