package assignment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind enum
type Kind string

const (
	KindEarning   Kind = "earning"
	KindDeduction Kind = "deduction"
)

// CalculationMethod enum, inherited from the company-level definition
type CalculationMethod string

const (
	MethodFixedAmount CalculationMethod = "fixed_amount"
	MethodPercentage  CalculationMethod = "percentage"
)

// Mode enum
type Mode string

const (
	ModeMonthly Mode = "monthly"
	ModeHourly  Mode = "hourly"
	ModeDaily   Mode = "daily"
	ModeWeekly  Mode = "weekly"
)

// Status enum
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Assignment links an employee to a company-level earning or deduction
// definition. Exactly one of the mode-specific field groups must be present:
// MonthlyAmount, one rate/quantity pair, or Percentage (monthly mode only).
// CalculatedAmount is the cached result of resolving those fields and is
// recomputed whenever they change.
type Assignment struct {
	ID                string
	EmployeeID        string
	CompanyID         string
	Name              string
	Kind              Kind
	CalculationMethod CalculationMethod
	Mode              Mode
	MonthlyAmount     *decimal.Decimal
	Percentage        *decimal.Decimal
	HourlyRate        *decimal.Decimal
	HoursPerMonth     *decimal.Decimal
	DailyRate         *decimal.Decimal
	DaysPerMonth      *decimal.Decimal
	WeeklyRate        *decimal.Decimal
	WeeksPerMonth     *decimal.Decimal
	IsTaxable         bool
	CalculatedAmount  decimal.Decimal
	EffectiveDate     time.Time
	EndDate           *time.Time
	Status            Status
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
