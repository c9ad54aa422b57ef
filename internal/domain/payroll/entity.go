package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemStatus enum. Status is tracked per employee-per-batch-item, so one
// batch may hold employees in different states at the same time.
type LineItemStatus string

const (
	StatusDraft     LineItemStatus = "draft"
	StatusPending   LineItemStatus = "pending"
	StatusProcessed LineItemStatus = "processed"
	StatusRejected  LineItemStatus = "rejected"
	StatusExpired   LineItemStatus = "expired"
)

// LineItemType enum
type LineItemType string

const (
	ItemTypeBasicSalary LineItemType = "basic_salary"
	ItemTypeEarning     LineItemType = "earning"
	ItemTypeDeduction   LineItemType = "deduction"
	ItemTypeStatutory   LineItemType = "statutory"
	ItemTypeAllowance   LineItemType = "allowance"
)

// Statutory line-item names
const (
	ItemNameSocialSecurity = "Social Security"
	ItemNameHealthLevy     = "Health Levy"
	ItemNameHousingLevy    = "Housing Levy"
	ItemNameIncomeTax      = "Income Tax"
	ItemNameBasicSalary    = "Basic Salary"
)

// PayrollBatch - one company's payroll run for a pay period
type PayrollBatch struct {
	ID              string
	CompanyID       string
	PeriodStart     time.Time
	PeriodEnd       time.Time
	PaymentDate     time.Time
	Notes           *string
	RejectionReason *string
	RejectedBy      *string
	ApproverID      *string
	ProcessedBy     *string
	Summary         BatchSummary
	CreatedAt       time.Time
	SubmittedAt     *time.Time
	UpdatedAt       time.Time
}

// BatchSummary - aggregate totals stored as JSON on the batch, recomputed
// after every lifecycle operation
type BatchSummary struct {
	EmployeeCount   int             `json:"employee_count"`
	TotalGrossPay   decimal.Decimal `json:"total_gross_pay"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalStatutory  decimal.Decimal `json:"total_statutory"`
	TotalNetPay     decimal.Decimal `json:"total_net_pay"`
	DraftCount      int             `json:"draft_count"`
	PendingCount    int             `json:"pending_count"`
	ProcessedCount  int             `json:"processed_count"`
	RejectedCount   int             `json:"rejected_count"`
	ExpiredCount    int             `json:"expired_count"`
}

// PayrollLineItem - one amount for one employee in one batch
type PayrollLineItem struct {
	ID          string
	BatchID     string
	EmployeeID  string
	Type        LineItemType
	Name        string
	Amount      decimal.Decimal
	IsTaxable   bool
	Status      LineItemStatus
	SubmittedAt *time.Time
	ProcessedAt *time.Time
	ExpiredAt   *time.Time
	RejectedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}
