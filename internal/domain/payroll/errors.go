package payroll

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBatchNotFound           = errors.New("payroll batch not found")
	ErrBatchAlreadyExists      = errors.New("payroll batch already exists for this company and month")
	ErrRejectionReasonRequired = errors.New("rejection reason is required")
	ErrNoEmployeesSelected     = errors.New("at least one employee must be selected")
	ErrLineItemNotFound        = errors.New("payroll line item not found")
)

// StatusConflictError reports the selected employees that hold no line item
// in the status the operation requires. The whole operation is rejected; no
// row is mutated. Required is a human-readable status description because
// refresh accepts either of two source statuses.
type StatusConflictError struct {
	Required    string
	EmployeeIDs []string
}

func (e *StatusConflictError) Error() string {
	return fmt.Sprintf("employees not in %s status: %s", e.Required, strings.Join(e.EmployeeIDs, ", "))
}

// ComputationError wraps a per-employee calculation failure. During preview
// and refresh the employee is skipped and reported; during submit and approve
// it aborts the whole call, since drafts were already guaranteed to exist.
type ComputationError struct {
	EmployeeID string
	Err        error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("payroll computation failed for employee %s: %v", e.EmployeeID, e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}
