package http

import (
	"net/http"

	"github.com/wagecore/payroll-backend-go/internal/domain/company"
	"github.com/wagecore/payroll-backend-go/internal/handler/http/response"
)

type CompanyHandler interface {
	GetProfile(w http.ResponseWriter, r *http.Request)
}

type companyHandlerImpl struct {
	companyService company.CompanyService
}

func NewCompanyHandler(companyService company.CompanyService) CompanyHandler {
	return &companyHandlerImpl{companyService: companyService}
}

func (h *companyHandlerImpl) GetProfile(w http.ResponseWriter, r *http.Request) {
	result, err := h.companyService.GetProfile(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
