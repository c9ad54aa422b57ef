package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/wagecore/payroll-backend-go/internal/domain/assignment"
	"github.com/wagecore/payroll-backend-go/internal/pkg/database"
)

type assignmentRepository struct {
	db *database.DB
}

func NewAssignmentRepository(db *database.DB) assignment.AssignmentRepository {
	return &assignmentRepository{db: db}
}

const assignmentColumns = `
	id, employee_id, company_id, name, kind, calculation_method, mode,
	monthly_amount, percentage, hourly_rate, hours_per_month,
	daily_rate, days_per_month, weekly_rate, weeks_per_month,
	is_taxable, calculated_amount, effective_date, end_date, status,
	created_at, updated_at
`

func scanAssignment(row pgx.Row) (assignment.Assignment, error) {
	var a assignment.Assignment
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.CompanyID, &a.Name, &a.Kind, &a.CalculationMethod, &a.Mode,
		&a.MonthlyAmount, &a.Percentage, &a.HourlyRate, &a.HoursPerMonth,
		&a.DailyRate, &a.DaysPerMonth, &a.WeeklyRate, &a.WeeksPerMonth,
		&a.IsTaxable, &a.CalculatedAmount, &a.EffectiveDate, &a.EndDate, &a.Status,
		&a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func (r *assignmentRepository) Create(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employee_assignments (
			id, employee_id, company_id, name, kind, calculation_method, mode,
			monthly_amount, percentage, hourly_rate, hours_per_month,
			daily_rate, days_per_month, weekly_rate, weeks_per_month,
			is_taxable, calculated_amount, effective_date, end_date, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING ` + assignmentColumns

	created, err := scanAssignment(q.QueryRow(ctx, query,
		a.ID, a.EmployeeID, a.CompanyID, a.Name, a.Kind, a.CalculationMethod, a.Mode,
		a.MonthlyAmount, a.Percentage, a.HourlyRate, a.HoursPerMonth,
		a.DailyRate, a.DaysPerMonth, a.WeeklyRate, a.WeeksPerMonth,
		a.IsTaxable, a.CalculatedAmount, a.EffectiveDate, a.EndDate, a.Status,
		a.CreatedAt, a.UpdatedAt,
	))
	if err != nil {
		return assignment.Assignment{}, fmt.Errorf("failed to create assignment: %w", err)
	}

	return created, nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id string, companyID string) (assignment.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + assignmentColumns + `
		FROM employee_assignments
		WHERE id = $1 AND company_id = $2
	`

	a, err := scanAssignment(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return assignment.Assignment{}, assignment.ErrAssignmentNotFound
		}
		return assignment.Assignment{}, fmt.Errorf("failed to get assignment: %w", err)
	}

	return a, nil
}

func (r *assignmentRepository) GetByEmployeeID(ctx context.Context, employeeID string, companyID string) ([]assignment.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + assignmentColumns + `
		FROM employee_assignments
		WHERE employee_id = $1 AND company_id = $2
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, employeeID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}
	defer rows.Close()

	return collectAssignments(rows)
}

func (r *assignmentRepository) GetActiveForPeriod(ctx context.Context, employeeID string, companyID string, periodStart, periodEnd time.Time, kind assignment.Kind) ([]assignment.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	// Effective window overlaps [periodStart, periodEnd]; a NULL end date
	// means open-ended.
	query := `
		SELECT ` + assignmentColumns + `
		FROM employee_assignments
		WHERE employee_id = $1 AND company_id = $2 AND kind = $3
		  AND status = 'active'
		  AND effective_date <= $5
		  AND (end_date IS NULL OR end_date >= $4)
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, employeeID, companyID, kind, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to get active assignments: %w", err)
	}
	defer rows.Close()

	return collectAssignments(rows)
}

func (r *assignmentRepository) Update(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employee_assignments SET
			name = $3, monthly_amount = $4, percentage = $5,
			hourly_rate = $6, hours_per_month = $7,
			daily_rate = $8, days_per_month = $9,
			weekly_rate = $10, weeks_per_month = $11,
			is_taxable = $12, calculated_amount = $13,
			effective_date = $14, end_date = $15, status = $16,
			updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING ` + assignmentColumns

	updated, err := scanAssignment(q.QueryRow(ctx, query,
		a.ID, a.CompanyID, a.Name, a.MonthlyAmount, a.Percentage,
		a.HourlyRate, a.HoursPerMonth,
		a.DailyRate, a.DaysPerMonth,
		a.WeeklyRate, a.WeeksPerMonth,
		a.IsTaxable, a.CalculatedAmount,
		a.EffectiveDate, a.EndDate, a.Status,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return assignment.Assignment{}, assignment.ErrAssignmentNotFound
		}
		return assignment.Assignment{}, fmt.Errorf("failed to update assignment: %w", err)
	}

	return updated, nil
}

func (r *assignmentRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employee_assignments WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return assignment.ErrAssignmentNotFound
	}
	return nil
}

func collectAssignments(rows pgx.Rows) ([]assignment.Assignment, error) {
	var assignments []assignment.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
