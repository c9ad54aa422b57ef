package assignment

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/wagecore/payroll-backend-go/internal/domain/assignment"
	"github.com/wagecore/payroll-backend-go/internal/domain/employee"
	"github.com/wagecore/payroll-backend-go/internal/pkg/database"
	"github.com/wagecore/payroll-backend-go/internal/service/calculation"
)

type AssignmentServiceImpl struct {
	db             *database.DB
	assignmentRepo assignment.AssignmentRepository
	employeeRepo   employee.EmployeeRepository
}

func NewAssignmentService(
	db *database.DB,
	assignmentRepo assignment.AssignmentRepository,
	employeeRepo employee.EmployeeRepository,
) assignment.AssignmentService {
	return &AssignmentServiceImpl{
		db:             db,
		assignmentRepo: assignmentRepo,
		employeeRepo:   employeeRepo,
	}
}

// Helper to get company_id and user_id from JWT context
func getClaimsFromContext(ctx context.Context) (companyID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	userID, _ = claims["user_id"].(string)

	return companyID, userID, nil
}

func (s *AssignmentServiceImpl) Create(ctx context.Context, req assignment.CreateAssignmentRequest) (assignment.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return assignment.AssignmentResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return assignment.AssignmentResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return assignment.AssignmentResponse{}, err
	}
	if emp.BasicSalary == nil {
		return assignment.AssignmentResponse{}, employee.ErrEmployeeNoBasicPay
	}

	now := time.Now()
	a := assignment.Assignment{
		ID:                uuid.Must(uuid.NewV7()).String(),
		EmployeeID:        emp.ID,
		CompanyID:         companyID,
		Name:              req.Name,
		Kind:              assignment.Kind(req.Kind),
		CalculationMethod: assignment.CalculationMethod(req.CalculationMethod),
		Mode:              assignment.Mode(req.Mode),
		MonthlyAmount:     req.MonthlyAmount,
		Percentage:        req.Percentage,
		HourlyRate:        req.HourlyRate,
		HoursPerMonth:     req.HoursPerMonth,
		DailyRate:         req.DailyRate,
		DaysPerMonth:      req.DaysPerMonth,
		WeeklyRate:        req.WeeklyRate,
		WeeksPerMonth:     req.WeeksPerMonth,
		IsTaxable:         true,
		EffectiveDate:     now,
		Status:            assignment.StatusActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if req.IsTaxable != nil {
		a.IsTaxable = *req.IsTaxable
	}
	if req.EffectiveDate != nil {
		a.EffectiveDate, _ = time.Parse("2006-01-02", *req.EffectiveDate)
	}
	if req.EndDate != nil {
		endDate, _ := time.Parse("2006-01-02", *req.EndDate)
		a.EndDate = &endDate
	}

	// Save hook: the cached amount is resolved through the same function the
	// payroll engine uses, so both sites accept and reject identically.
	amount, err := calculation.ResolveAssignmentAmount(a, *emp.BasicSalary)
	if err != nil {
		return assignment.AssignmentResponse{}, err
	}
	a.CalculatedAmount = amount

	created, err := s.assignmentRepo.Create(ctx, a)
	if err != nil {
		return assignment.AssignmentResponse{}, fmt.Errorf("failed to create assignment: %w", err)
	}

	return toAssignmentResponse(created), nil
}

func (s *AssignmentServiceImpl) GetByEmployee(ctx context.Context, employeeID string) ([]assignment.AssignmentResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, employeeID, companyID); err != nil {
		return nil, err
	}

	assignments, err := s.assignmentRepo.GetByEmployeeID(ctx, employeeID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}

	responses := make([]assignment.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		responses = append(responses, toAssignmentResponse(a))
	}
	return responses, nil
}

func (s *AssignmentServiceImpl) Update(ctx context.Context, req assignment.UpdateAssignmentRequest) (assignment.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return assignment.AssignmentResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return assignment.AssignmentResponse{}, err
	}

	a, err := s.assignmentRepo.GetByID(ctx, req.ID, companyID)
	if err != nil {
		return assignment.AssignmentResponse{}, err
	}

	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.MonthlyAmount != nil {
		a.MonthlyAmount = req.MonthlyAmount
	}
	if req.Percentage != nil {
		a.Percentage = req.Percentage
	}
	if req.HourlyRate != nil {
		a.HourlyRate = req.HourlyRate
	}
	if req.HoursPerMonth != nil {
		a.HoursPerMonth = req.HoursPerMonth
	}
	if req.DailyRate != nil {
		a.DailyRate = req.DailyRate
	}
	if req.DaysPerMonth != nil {
		a.DaysPerMonth = req.DaysPerMonth
	}
	if req.WeeklyRate != nil {
		a.WeeklyRate = req.WeeklyRate
	}
	if req.WeeksPerMonth != nil {
		a.WeeksPerMonth = req.WeeksPerMonth
	}
	if req.IsTaxable != nil {
		a.IsTaxable = *req.IsTaxable
	}
	if req.EffectiveDate != nil {
		a.EffectiveDate, _ = time.Parse("2006-01-02", *req.EffectiveDate)
	}
	if req.EndDate != nil {
		endDate, _ := time.Parse("2006-01-02", *req.EndDate)
		a.EndDate = &endDate
	}
	if req.Status != nil {
		a.Status = assignment.Status(*req.Status)
	}

	emp, err := s.employeeRepo.GetByID(ctx, a.EmployeeID, companyID)
	if err != nil {
		return assignment.AssignmentResponse{}, err
	}
	if emp.BasicSalary == nil {
		return assignment.AssignmentResponse{}, employee.ErrEmployeeNoBasicPay
	}

	amount, err := calculation.ResolveAssignmentAmount(a, *emp.BasicSalary)
	if err != nil {
		return assignment.AssignmentResponse{}, err
	}
	a.CalculatedAmount = amount
	a.UpdatedAt = time.Now()

	updated, err := s.assignmentRepo.Update(ctx, a)
	if err != nil {
		return assignment.AssignmentResponse{}, fmt.Errorf("failed to update assignment: %w", err)
	}

	return toAssignmentResponse(updated), nil
}

func (s *AssignmentServiceImpl) Delete(ctx context.Context, id string) error {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	return s.assignmentRepo.Delete(ctx, id, companyID)
}

func toAssignmentResponse(a assignment.Assignment) assignment.AssignmentResponse {
	resp := assignment.AssignmentResponse{
		ID:                a.ID,
		EmployeeID:        a.EmployeeID,
		Name:              a.Name,
		Kind:              string(a.Kind),
		CalculationMethod: string(a.CalculationMethod),
		Mode:              string(a.Mode),
		MonthlyAmount:     a.MonthlyAmount,
		Percentage:        a.Percentage,
		HourlyRate:        a.HourlyRate,
		HoursPerMonth:     a.HoursPerMonth,
		DailyRate:         a.DailyRate,
		DaysPerMonth:      a.DaysPerMonth,
		WeeklyRate:        a.WeeklyRate,
		WeeksPerMonth:     a.WeeksPerMonth,
		IsTaxable:         a.IsTaxable,
		CalculatedAmount:  a.CalculatedAmount,
		EffectiveDate:     a.EffectiveDate.Format("2006-01-02"),
		Status:            string(a.Status),
	}
	if a.EndDate != nil {
		endDate := a.EndDate.Format("2006-01-02")
		resp.EndDate = &endDate
	}
	return resp
}
