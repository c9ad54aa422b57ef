package response

import (
	"errors"
	"net/http"

	"github.com/wagecore/payroll-backend-go/internal/domain/assignment"
	"github.com/wagecore/payroll-backend-go/internal/domain/company"
	"github.com/wagecore/payroll-backend-go/internal/domain/employee"
	"github.com/wagecore/payroll-backend-go/internal/domain/payroll"
	"github.com/wagecore/payroll-backend-go/internal/pkg/validator"
	"github.com/wagecore/payroll-backend-go/internal/service/calculation"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var cfgErr *calculation.ConfigurationError
	if errors.As(err, &cfgErr) {
		BadRequest(w, "Invalid assignment configuration", map[string]string{cfgErr.Field: cfgErr.Message})
		return
	}

	var conflictErr *payroll.StatusConflictError
	if errors.As(err, &conflictErr) {
		StatusConflict(w, "Selected employees are not in "+conflictErr.Required+" status", conflictErr.EmployeeIDs)
		return
	}

	var computationErr *payroll.ComputationError
	if errors.As(err, &computationErr) {
		BadRequest(w, computationErr.Error(), nil)
		return
	}

	switch {
	// Payroll domain errors
	case errors.Is(err, payroll.ErrBatchNotFound):
		NotFound(w, "Payroll batch not found")
	case errors.Is(err, payroll.ErrBatchAlreadyExists):
		Conflict(w, "A payroll batch already exists for this month")
	case errors.Is(err, payroll.ErrRejectionReasonRequired):
		Conflict(w, "A rejection reason is required")
	case errors.Is(err, payroll.ErrNoEmployeesSelected):
		BadRequest(w, "At least one employee must be selected", nil)
	case errors.Is(err, payroll.ErrLineItemNotFound):
		NotFound(w, "Payroll line item not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeNoBasicPay):
		BadRequest(w, "Employee has no basic salary configured", nil)
	case errors.Is(err, employee.ErrEmployeeNotActive):
		Conflict(w, "Employee is not active")

	// Assignment domain errors
	case errors.Is(err, assignment.ErrAssignmentNotFound):
		NotFound(w, "Assignment not found")

	// Company domain errors
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
