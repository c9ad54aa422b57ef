package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wagecore/payroll-backend-go/internal/domain/assignment"
	"github.com/wagecore/payroll-backend-go/internal/handler/http/response"
	"github.com/wagecore/payroll-backend-go/internal/pkg/validator"
)

type AssignmentHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type assignmentHandlerImpl struct {
	assignmentService assignment.AssignmentService
}

func NewAssignmentHandler(assignmentService assignment.AssignmentService) AssignmentHandler {
	return &assignmentHandlerImpl{assignmentService: assignmentService}
}

func (h *assignmentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if !validator.IsValidUUID(employeeID) {
		response.BadRequest(w, "Invalid employee ID", nil)
		return
	}

	var req assignment.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = employeeID

	result, err := h.assignmentService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Assignment created", result)
}

func (h *assignmentHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if !validator.IsValidUUID(employeeID) {
		response.BadRequest(w, "Invalid employee ID", nil)
		return
	}

	result, err := h.assignmentService.GetByEmployee(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *assignmentHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "assignmentID")
	if !validator.IsValidUUID(assignmentID) {
		response.BadRequest(w, "Invalid assignment ID", nil)
		return
	}

	var req assignment.UpdateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = assignmentID

	result, err := h.assignmentService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *assignmentHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "assignmentID")
	if !validator.IsValidUUID(assignmentID) {
		response.BadRequest(w, "Invalid assignment ID", nil)
		return
	}

	if err := h.assignmentService.Delete(r.Context(), assignmentID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Assignment deleted", nil)
}
