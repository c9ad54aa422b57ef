package company

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/wagecore/payroll-backend-go/internal/domain/company"
)

type CompanyServiceImpl struct {
	companyRepo company.CompanyRepository
}

func NewCompanyService(companyRepo company.CompanyRepository) company.CompanyService {
	return &CompanyServiceImpl{companyRepo: companyRepo}
}

func (s *CompanyServiceImpl) GetProfile(ctx context.Context) (company.CompanyResponse, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return company.CompanyResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return company.CompanyResponse{}, fmt.Errorf("company_id claim is missing or invalid")
	}

	c, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return company.CompanyResponse{}, err
	}

	return company.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Username:  c.Username,
		Address:   c.Address,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}, nil
}
