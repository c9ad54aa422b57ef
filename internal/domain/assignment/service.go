package assignment

import "context"

type AssignmentService interface {
	Create(ctx context.Context, req CreateAssignmentRequest) (AssignmentResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]AssignmentResponse, error)
	Update(ctx context.Context, req UpdateAssignmentRequest) (AssignmentResponse, error)
	Delete(ctx context.Context, id string) error
}
