package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wagecore/payroll-backend-go/internal/domain/payroll"
	"github.com/wagecore/payroll-backend-go/internal/handler/http/response"
	"github.com/wagecore/payroll-backend-go/internal/pkg/validator"
)

type PayrollHandler interface {
	Initiate(w http.ResponseWriter, r *http.Request)
	GetBatch(w http.ResponseWriter, r *http.Request)
	GetByStatus(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func (h *payrollHandlerImpl) Initiate(w http.ResponseWriter, r *http.Request) {
	var req payroll.InitiatePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Initiate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll batch created", result)
}

func (h *payrollHandlerImpl) GetBatch(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")
	if !validator.IsValidUUID(batchID) {
		response.BadRequest(w, "Invalid batch ID", nil)
		return
	}

	result, err := h.payrollService.GetBatch(r.Context(), batchID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetByStatus(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")
	if !validator.IsValidUUID(batchID) {
		response.BadRequest(w, "Invalid batch ID", nil)
		return
	}

	status := payroll.LineItemStatus(r.URL.Query().Get("status"))
	switch status {
	case payroll.StatusDraft, payroll.StatusPending, payroll.StatusProcessed,
		payroll.StatusRejected, payroll.StatusExpired:
	default:
		response.BadRequest(w, "Invalid status", map[string]string{
			"status": "must be one of draft, pending, processed, rejected, expired",
		})
		return
	}

	result, err := h.payrollService.GetByStatus(r.Context(), batchID, status)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")
	if !validator.IsValidUUID(batchID) {
		response.BadRequest(w, "Invalid batch ID", nil)
		return
	}

	var req payroll.SubmitPayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Submit(r.Context(), batchID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll submitted for approval", result)
}

func (h *payrollHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")
	if !validator.IsValidUUID(batchID) {
		response.BadRequest(w, "Invalid batch ID", nil)
		return
	}

	var req payroll.ApprovePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Approve(r.Context(), batchID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll approved", result)
}

func (h *payrollHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")
	if !validator.IsValidUUID(batchID) {
		response.BadRequest(w, "Invalid batch ID", nil)
		return
	}

	var req payroll.RejectPayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Reject(r.Context(), batchID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll rejected", result)
}

func (h *payrollHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")
	if !validator.IsValidUUID(batchID) {
		response.BadRequest(w, "Invalid batch ID", nil)
		return
	}

	var req payroll.RefreshPayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Refresh(r.Context(), batchID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll line items refreshed", result)
}
