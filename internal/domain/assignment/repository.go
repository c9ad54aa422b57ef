package assignment

import (
	"context"
	"time"
)

// AssignmentRepository defines data access methods for employee earning and
// deduction assignments. All methods include companyID to prevent
// cross-company data access.
type AssignmentRepository interface {
	Create(ctx context.Context, a Assignment) (Assignment, error)
	GetByID(ctx context.Context, id string, companyID string) (Assignment, error)
	GetByEmployeeID(ctx context.Context, employeeID string, companyID string) ([]Assignment, error)
	// GetActiveForPeriod returns active assignments of the given kind whose
	// effective window overlaps [periodStart, periodEnd].
	GetActiveForPeriod(ctx context.Context, employeeID string, companyID string, periodStart, periodEnd time.Time, kind Kind) ([]Assignment, error)
	Update(ctx context.Context, a Assignment) (Assignment, error)
	Delete(ctx context.Context, id string, companyID string) error
}
