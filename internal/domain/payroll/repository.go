package payroll

import (
	"context"
	"time"
)

// PayrollRepository defines data access methods for payroll batches and line
// items. All batch reads include companyID to prevent cross-company access;
// line-item mutations are scoped by batch ID.
type PayrollRepository interface {
	// Batches
	CreateBatch(ctx context.Context, batch PayrollBatch) (PayrollBatch, error)
	GetBatchByID(ctx context.Context, id string, companyID string) (PayrollBatch, error)
	// BatchExistsForMonth reports whether the company already has a batch
	// whose period starts in the given calendar month.
	BatchExistsForMonth(ctx context.Context, companyID string, year int, month time.Month) (bool, error)
	UpdateBatchSummary(ctx context.Context, batchID string, summary BatchSummary) error
	StampBatchSubmitted(ctx context.Context, batchID string, approverID string, submittedAt time.Time) error
	StampBatchProcessed(ctx context.Context, batchID string, processedBy string) error
	StampBatchRejected(ctx context.Context, batchID string, rejectedBy string, reason string) error
	ClearBatchRejection(ctx context.Context, batchID string) error

	// Line items
	BulkCreateLineItems(ctx context.Context, items []PayrollLineItem) error
	ListLineItems(ctx context.Context, batchID string, status *LineItemStatus) ([]PayrollLineItem, error)
	// EmployeesNotInStatus returns the subset of employeeIDs that hold no
	// line item at the given status in the batch. Used for the all-or-nothing
	// precondition check.
	EmployeesNotInStatus(ctx context.Context, batchID string, employeeIDs []string, status LineItemStatus) ([]string, error)
	// UpdateLineItemsStatus flips every line item of the selected employees
	// from one status to another in a single conditional bulk update and
	// returns the number of rows affected. The WHERE status = from predicate
	// makes re-application a no-op.
	UpdateLineItemsStatus(ctx context.Context, batchID string, employeeIDs []string, from, to LineItemStatus, at time.Time) (int64, error)
	UpdateLineItemAmounts(ctx context.Context, batchID string, employeeID string, items []PayrollLineItem) error
	DeleteLineItems(ctx context.Context, batchID string, employeeIDs []string) error

	// Aggregations
	GetBatchAggregates(ctx context.Context, batchID string) (BatchSummary, error)

	// Scheduled sweeps; both are single set-based updates returning a count.
	ExpireStaleDrafts(ctx context.Context, olderThan time.Time) (int64, error)
	RejectStalePending(ctx context.Context, olderThan time.Time) (int64, error)
}
