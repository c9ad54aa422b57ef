package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wagecore/payroll-backend-go/internal/pkg/validator"
)

// Pay periods must span 25-30 whole days and be paid out within a week of
// the period end.
const (
	MinPeriodDays     = 25
	MaxPeriodDays     = 30
	MaxPaymentLagDays = 7
	DraftExpiryDays   = 7
	PendingRejectDays = 3
)

// ========== REQUEST DTOs ==========

type InitiatePayrollRequest struct {
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
	PaymentDate string  `json:"payment_date"`
	Notes       *string `json:"notes,omitempty"`
}

func (r *InitiatePayrollRequest) Validate() error {
	return r.validateAt(time.Now())
}

func (r *InitiatePayrollRequest) validateAt(now time.Time) error {
	var errs validator.ValidationErrors

	periodStart, startOK := validator.IsValidDate(r.PeriodStart)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	periodEnd, endOK := validator.IsValidDate(r.PeriodEnd)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	paymentDate, payOK := validator.IsValidDate(r.PaymentDate)
	if !payOK {
		errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}

	if startOK && endOK {
		days := validator.DaysBetween(periodStart, periodEnd)
		if days < MinPeriodDays || days > MaxPeriodDays {
			errs = append(errs, validator.ValidationError{Field: "period_end", Message: "pay period must span 25 to 30 days"})
		}
	}
	if startOK && validator.IsFutureMonth(periodStart, now) {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must not be in a future month"})
	}
	if endOK && payOK {
		if paymentDate.Before(periodEnd) {
			errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be on or after the period end"})
		}
		if validator.DaysBetween(periodEnd, paymentDate) > MaxPaymentLagDays {
			errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be within 7 days of the period end"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SubmitPayrollRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
}

func (r *SubmitPayrollRequest) Validate() error {
	if len(r.EmployeeIDs) == 0 {
		return validator.ValidationErrors{{Field: "employee_ids", Message: "at least one employee is required"}}
	}
	return nil
}

type ApprovePayrollRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
}

func (r *ApprovePayrollRequest) Validate() error {
	if len(r.EmployeeIDs) == 0 {
		return validator.ValidationErrors{{Field: "employee_ids", Message: "at least one employee is required"}}
	}
	return nil
}

type RejectPayrollRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
	Reason      string   `json:"reason"`
}

// Validate checks the selection only; the missing-reason case is reported by
// the service as ErrRejectionReasonRequired.
func (r *RejectPayrollRequest) Validate() error {
	if len(r.EmployeeIDs) == 0 {
		return validator.ValidationErrors{{Field: "employee_ids", Message: "at least one employee is required"}}
	}
	return nil
}

type RefreshPayrollRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
}

func (r *RefreshPayrollRequest) Validate() error {
	if len(r.EmployeeIDs) == 0 {
		return validator.ValidationErrors{{Field: "employee_ids", Message: "at least one employee is required"}}
	}
	return nil
}

// ========== RESPONSE DTOs ==========

type LineItemResponse struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	IsTaxable bool            `json:"is_taxable"`
	Status    string          `json:"status"`
}

// EmployeeBreakdown carries one employee's line items plus the gross pay,
// taxable income and net pay re-derived from those items.
type EmployeeBreakdown struct {
	EmployeeID    string             `json:"employee_id"`
	EmployeeName  string             `json:"employee_name,omitempty"`
	EmployeeCode  string             `json:"employee_code,omitempty"`
	Status        string             `json:"status"`
	Items         []LineItemResponse `json:"items"`
	GrossPay      decimal.Decimal    `json:"gross_pay"`
	TaxableIncome decimal.Decimal    `json:"taxable_income"`
	NetPay        decimal.Decimal    `json:"net_pay"`
}

type BatchResponse struct {
	ID              string       `json:"id"`
	CompanyID       string       `json:"company_id"`
	PeriodStart     string       `json:"period_start"`
	PeriodEnd       string       `json:"period_end"`
	PaymentDate     string       `json:"payment_date"`
	Notes           *string      `json:"notes,omitempty"`
	RejectionReason *string      `json:"rejection_reason,omitempty"`
	ApproverID      *string      `json:"approver_id,omitempty"`
	ProcessedBy     *string      `json:"processed_by,omitempty"`
	Summary         BatchSummary `json:"summary"`
	CreatedAt       string       `json:"created_at"`
	SubmittedAt     *string      `json:"submitted_at,omitempty"`
}

type PreviewPayrollResponse struct {
	Batch     BatchResponse       `json:"batch"`
	Breakdown []EmployeeBreakdown `json:"breakdown"`
	// Skipped lists employees whose computation failed during preview or
	// refresh, with the reason. The rest of the batch proceeds.
	Skipped []SkippedEmployee `json:"skipped,omitempty"`
}

type SkippedEmployee struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

type OperationResponse struct {
	ProcessedCount int          `json:"processed_count"`
	Summary        BatchSummary `json:"summary"`
}
