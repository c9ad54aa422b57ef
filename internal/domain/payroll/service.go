package payroll

import "context"

type PayrollService interface {
	Initiate(ctx context.Context, req InitiatePayrollRequest) (PreviewPayrollResponse, error)
	GetBatch(ctx context.Context, batchID string) (BatchResponse, error)
	GetByStatus(ctx context.Context, batchID string, status LineItemStatus) ([]EmployeeBreakdown, error)
	Submit(ctx context.Context, batchID string, req SubmitPayrollRequest) (OperationResponse, error)
	Approve(ctx context.Context, batchID string, req ApprovePayrollRequest) (OperationResponse, error)
	Reject(ctx context.Context, batchID string, req RejectPayrollRequest) (OperationResponse, error)
	Refresh(ctx context.Context, batchID string, req RefreshPayrollRequest) (PreviewPayrollResponse, error)
}
