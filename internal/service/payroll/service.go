package payroll

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/wagecore/payroll-backend-go/internal/domain/employee"
	"github.com/wagecore/payroll-backend-go/internal/domain/payroll"
	"github.com/wagecore/payroll-backend-go/internal/pkg/database"
	"github.com/wagecore/payroll-backend-go/internal/pkg/validator"
	"github.com/wagecore/payroll-backend-go/internal/repository/postgresql"
	"github.com/wagecore/payroll-backend-go/internal/service/calculation"
	"golang.org/x/sync/errgroup"
)

// Employees are computed in parallel; each computation is independent of the
// others.
const maxConcurrentComputations = 10

type PayrollServiceImpl struct {
	db           *database.DB
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	engine       *calculation.Engine
}

func NewPayrollService(
	db *database.DB,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	engine *calculation.Engine,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		db:           db,
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		engine:       engine,
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

// ========== INITIATE / PREVIEW ==========

func (s *PayrollServiceImpl) Initiate(ctx context.Context, req payroll.InitiatePayrollRequest) (payroll.PreviewPayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PreviewPayrollResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PreviewPayrollResponse{}, err
	}

	periodStart, _ := time.Parse("2006-01-02", req.PeriodStart)
	periodEnd, _ := time.Parse("2006-01-02", req.PeriodEnd)
	paymentDate, _ := time.Parse("2006-01-02", req.PaymentDate)

	exists, err := s.payrollRepo.BatchExistsForMonth(ctx, companyID, periodStart.Year(), periodStart.Month())
	if err != nil {
		return payroll.PreviewPayrollResponse{}, fmt.Errorf("failed to check existing batches: %w", err)
	}
	if exists {
		return payroll.PreviewPayrollResponse{}, payroll.ErrBatchAlreadyExists
	}

	employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return payroll.PreviewPayrollResponse{}, fmt.Errorf("failed to get active employees: %w", err)
	}

	results, skipped, err := s.computeAll(ctx, employees, periodStart, periodEnd, true)
	if err != nil {
		return payroll.PreviewPayrollResponse{}, err
	}

	now := time.Now()
	batch := payroll.PayrollBatch{
		ID:          uuid.Must(uuid.NewV7()).String(),
		CompanyID:   companyID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		PaymentDate: paymentDate,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var summary payroll.BatchSummary
	err = s.withTx(ctx, func(txCtx context.Context) error {
		created, err := s.payrollRepo.CreateBatch(txCtx, batch)
		if err != nil {
			return fmt.Errorf("failed to create batch: %w", err)
		}
		batch = created

		var items []payroll.PayrollLineItem
		for _, result := range results {
			items = append(items, buildLineItems(batch.ID, result, now)...)
		}
		if len(items) > 0 {
			if err := s.payrollRepo.BulkCreateLineItems(txCtx, items); err != nil {
				return fmt.Errorf("failed to create line items: %w", err)
			}
		}

		summary, err = s.refreshSummary(txCtx, batch.ID)
		return err
	})
	if err != nil {
		return payroll.PreviewPayrollResponse{}, err
	}

	batch.Summary = summary
	return payroll.PreviewPayrollResponse{
		Batch:     toBatchResponse(batch),
		Breakdown: breakdownFromResults(results, employees, payroll.StatusDraft),
		Skipped:   skipped,
	}, nil
}

// ========== READS ==========

func (s *PayrollServiceImpl) GetBatch(ctx context.Context, batchID string) (payroll.BatchResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.BatchResponse{}, err
	}

	batch, err := s.payrollRepo.GetBatchByID(ctx, batchID, companyID)
	if err != nil {
		return payroll.BatchResponse{}, err
	}

	return toBatchResponse(batch), nil
}

func (s *PayrollServiceImpl) GetByStatus(ctx context.Context, batchID string, status payroll.LineItemStatus) ([]payroll.EmployeeBreakdown, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.payrollRepo.GetBatchByID(ctx, batchID, companyID); err != nil {
		return nil, err
	}

	items, err := s.payrollRepo.ListLineItems(ctx, batchID, &status)
	if err != nil {
		return nil, fmt.Errorf("failed to list line items: %w", err)
	}

	return breakdownFromItems(items), nil
}

// ========== LIFECYCLE TRANSITIONS ==========

func (s *PayrollServiceImpl) Submit(ctx context.Context, batchID string, req payroll.SubmitPayrollRequest) (payroll.OperationResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.OperationResponse{}, err
	}

	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.OperationResponse{}, err
	}

	batch, err := s.payrollRepo.GetBatchByID(ctx, batchID, companyID)
	if err != nil {
		return payroll.OperationResponse{}, err
	}

	if err := s.requireStatus(ctx, batchID, req.EmployeeIDs, payroll.StatusDraft); err != nil {
		return payroll.OperationResponse{}, err
	}

	employees, err := s.employeeRepo.GetByIDs(ctx, req.EmployeeIDs, companyID)
	if err != nil {
		return payroll.OperationResponse{}, fmt.Errorf("failed to get employees: %w", err)
	}
	if len(employees) != len(req.EmployeeIDs) {
		return payroll.OperationResponse{}, employee.ErrEmployeeNotFound
	}

	// Drafts are recomputed before the flip so the pending amounts reflect
	// current assignment data. A computation failure here is a data-integrity
	// fault: the drafts were already proven to exist.
	results, _, err := s.computeAll(ctx, employees, batch.PeriodStart, batch.PeriodEnd, false)
	if err != nil {
		return payroll.OperationResponse{}, err
	}

	now := time.Now()
	var summary payroll.BatchSummary
	err = s.withTx(ctx, func(txCtx context.Context) error {
		for _, result := range results {
			items := buildLineItems(batchID, result, now)
			if err := s.payrollRepo.UpdateLineItemAmounts(txCtx, batchID, result.EmployeeID, items); err != nil {
				return fmt.Errorf("failed to update line item amounts: %w", err)
			}
		}

		if err := s.flipStatus(txCtx, batchID, req.EmployeeIDs, payroll.StatusDraft, payroll.StatusPending, now); err != nil {
			return err
		}

		if err := s.payrollRepo.StampBatchSubmitted(txCtx, batchID, userID, now); err != nil {
			return fmt.Errorf("failed to stamp batch submission: %w", err)
		}

		summary, err = s.refreshSummary(txCtx, batchID)
		return err
	})
	if err != nil {
		return payroll.OperationResponse{}, err
	}

	return payroll.OperationResponse{ProcessedCount: len(req.EmployeeIDs), Summary: summary}, nil
}

func (s *PayrollServiceImpl) Approve(ctx context.Context, batchID string, req payroll.ApprovePayrollRequest) (payroll.OperationResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.OperationResponse{}, err
	}

	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.OperationResponse{}, err
	}

	if _, err := s.payrollRepo.GetBatchByID(ctx, batchID, companyID); err != nil {
		return payroll.OperationResponse{}, err
	}

	if err := s.requireStatus(ctx, batchID, req.EmployeeIDs, payroll.StatusPending); err != nil {
		return payroll.OperationResponse{}, err
	}

	now := time.Now()
	var summary payroll.BatchSummary
	err = s.withTx(ctx, func(txCtx context.Context) error {
		if err := s.flipStatus(txCtx, batchID, req.EmployeeIDs, payroll.StatusPending, payroll.StatusProcessed, now); err != nil {
			return err
		}

		if err := s.payrollRepo.StampBatchProcessed(txCtx, batchID, userID); err != nil {
			return fmt.Errorf("failed to stamp batch processing: %w", err)
		}

		summary, err = s.refreshSummary(txCtx, batchID)
		return err
	})
	if err != nil {
		return payroll.OperationResponse{}, err
	}

	return payroll.OperationResponse{ProcessedCount: len(req.EmployeeIDs), Summary: summary}, nil
}

func (s *PayrollServiceImpl) Reject(ctx context.Context, batchID string, req payroll.RejectPayrollRequest) (payroll.OperationResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.OperationResponse{}, err
	}
	if validator.IsEmpty(req.Reason) {
		return payroll.OperationResponse{}, payroll.ErrRejectionReasonRequired
	}

	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.OperationResponse{}, err
	}

	if _, err := s.payrollRepo.GetBatchByID(ctx, batchID, companyID); err != nil {
		return payroll.OperationResponse{}, err
	}

	if err := s.requireStatus(ctx, batchID, req.EmployeeIDs, payroll.StatusPending); err != nil {
		return payroll.OperationResponse{}, err
	}

	now := time.Now()
	var summary payroll.BatchSummary
	err = s.withTx(ctx, func(txCtx context.Context) error {
		if err := s.flipStatus(txCtx, batchID, req.EmployeeIDs, payroll.StatusPending, payroll.StatusRejected, now); err != nil {
			return err
		}

		if err := s.payrollRepo.StampBatchRejected(txCtx, batchID, userID, req.Reason); err != nil {
			return fmt.Errorf("failed to stamp batch rejection: %w", err)
		}

		summary, err = s.refreshSummary(txCtx, batchID)
		return err
	})
	if err != nil {
		return payroll.OperationResponse{}, err
	}

	return payroll.OperationResponse{ProcessedCount: len(req.EmployeeIDs), Summary: summary}, nil
}

func (s *PayrollServiceImpl) Refresh(ctx context.Context, batchID string, req payroll.RefreshPayrollRequest) (payroll.PreviewPayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PreviewPayrollResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PreviewPayrollResponse{}, err
	}

	batch, err := s.payrollRepo.GetBatchByID(ctx, batchID, companyID)
	if err != nil {
		return payroll.PreviewPayrollResponse{}, err
	}

	// Each selected employee must sit at expired or rejected.
	notExpired, err := s.payrollRepo.EmployeesNotInStatus(ctx, batchID, req.EmployeeIDs, payroll.StatusExpired)
	if err != nil {
		return payroll.PreviewPayrollResponse{}, fmt.Errorf("failed to check line item status: %w", err)
	}
	notRejected, err := s.payrollRepo.EmployeesNotInStatus(ctx, batchID, req.EmployeeIDs, payroll.StatusRejected)
	if err != nil {
		return payroll.PreviewPayrollResponse{}, fmt.Errorf("failed to check line item status: %w", err)
	}
	if conflicts := intersect(notExpired, notRejected); len(conflicts) > 0 {
		return payroll.PreviewPayrollResponse{}, &payroll.StatusConflictError{
			Required:    "expired or rejected",
			EmployeeIDs: conflicts,
		}
	}

	employees, err := s.employeeRepo.GetByIDs(ctx, req.EmployeeIDs, companyID)
	if err != nil {
		return payroll.PreviewPayrollResponse{}, fmt.Errorf("failed to get employees: %w", err)
	}
	if len(employees) != len(req.EmployeeIDs) {
		return payroll.PreviewPayrollResponse{}, employee.ErrEmployeeNotFound
	}

	results, skipped, err := s.computeAll(ctx, employees, batch.PeriodStart, batch.PeriodEnd, true)
	if err != nil {
		return payroll.PreviewPayrollResponse{}, err
	}

	refreshedIDs := make([]string, 0, len(results))
	for _, result := range results {
		refreshedIDs = append(refreshedIDs, result.EmployeeID)
	}

	now := time.Now()
	var summary payroll.BatchSummary
	err = s.withTx(ctx, func(txCtx context.Context) error {
		if len(refreshedIDs) > 0 {
			if err := s.payrollRepo.DeleteLineItems(txCtx, batchID, refreshedIDs); err != nil {
				return fmt.Errorf("failed to delete line items: %w", err)
			}

			var items []payroll.PayrollLineItem
			for _, result := range results {
				items = append(items, buildLineItems(batchID, result, now)...)
			}
			if err := s.payrollRepo.BulkCreateLineItems(txCtx, items); err != nil {
				return fmt.Errorf("failed to recreate line items: %w", err)
			}
		}

		if err := s.payrollRepo.ClearBatchRejection(txCtx, batchID); err != nil {
			return fmt.Errorf("failed to clear batch rejection: %w", err)
		}

		summary, err = s.refreshSummary(txCtx, batchID)
		return err
	})
	if err != nil {
		return payroll.PreviewPayrollResponse{}, err
	}

	batch.Summary = summary
	batch.RejectionReason = nil
	return payroll.PreviewPayrollResponse{
		Batch:     toBatchResponse(batch),
		Breakdown: breakdownFromResults(results, employees, payroll.StatusDraft),
		Skipped:   skipped,
	}, nil
}

// ========== HELPERS ==========

// withTx runs fn inside a database transaction, passing the transaction
// through the context for the repositories. A nil db (fake repositories in
// tests) runs fn directly.
func (s *PayrollServiceImpl) withTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.db == nil {
		return fn(ctx)
	}
	return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		return fn(postgresql.TxContext(ctx, tx))
	})
}

// computeAll runs the calculation engine over the employees in parallel.
// With skipFailures, per-employee configuration problems (missing basic
// salary, misconfigured assignment) remove that employee from the run and
// are reported; without it the first such problem aborts the whole call.
// Infrastructure errors always abort.
func (s *PayrollServiceImpl) computeAll(ctx context.Context, employees []employee.Employee, periodStart, periodEnd time.Time, skipFailures bool) ([]calculation.PayrollResult, []payroll.SkippedEmployee, error) {
	resultSlots := make([]*calculation.PayrollResult, len(employees))
	var (
		mu      sync.Mutex
		skipped []payroll.SkippedEmployee
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentComputations)
	for i, emp := range employees {
		g.Go(func() error {
			result, err := s.engine.ComputeEmployeePayroll(gctx, emp, periodStart, periodEnd)
			if err != nil {
				if !isPerEmployeeFailure(err) {
					return err
				}
				if !skipFailures {
					return &payroll.ComputationError{EmployeeID: emp.ID, Err: err}
				}
				mu.Lock()
				skipped = append(skipped, payroll.SkippedEmployee{EmployeeID: emp.ID, Reason: err.Error()})
				mu.Unlock()
				return nil
			}
			resultSlots[i] = &result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	results := make([]calculation.PayrollResult, 0, len(employees))
	for _, slot := range resultSlots {
		if slot != nil {
			results = append(results, *slot)
		}
	}
	return results, skipped, nil
}

// isPerEmployeeFailure reports whether the computation error is tied to one
// employee's data rather than to infrastructure.
func isPerEmployeeFailure(err error) bool {
	var cfgErr *calculation.ConfigurationError
	return errors.Is(err, employee.ErrEmployeeNoBasicPay) || errors.As(err, &cfgErr)
}

// requireStatus enforces the all-or-nothing precondition: every selected
// employee must hold line items at the required status, otherwise the call is
// rejected with the offending IDs before anything is mutated.
func (s *PayrollServiceImpl) requireStatus(ctx context.Context, batchID string, employeeIDs []string, required payroll.LineItemStatus) error {
	missing, err := s.payrollRepo.EmployeesNotInStatus(ctx, batchID, employeeIDs, required)
	if err != nil {
		return fmt.Errorf("failed to check line item status: %w", err)
	}
	if len(missing) > 0 {
		return &payroll.StatusConflictError{Required: string(required), EmployeeIDs: missing}
	}
	return nil
}

// flipStatus performs the conditional bulk transition and verifies the
// affected-row count against the rows currently at the source status, so a
// concurrent transition on an overlapping employee set cannot half-apply.
func (s *PayrollServiceImpl) flipStatus(ctx context.Context, batchID string, employeeIDs []string, from, to payroll.LineItemStatus, at time.Time) error {
	items, err := s.payrollRepo.ListLineItems(ctx, batchID, &from)
	if err != nil {
		return fmt.Errorf("failed to list line items: %w", err)
	}
	selected := make(map[string]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		selected[id] = true
	}
	expected := int64(0)
	for _, item := range items {
		if selected[item.EmployeeID] {
			expected++
		}
	}

	affected, err := s.payrollRepo.UpdateLineItemsStatus(ctx, batchID, employeeIDs, from, to, at)
	if err != nil {
		return fmt.Errorf("failed to update line item status: %w", err)
	}
	if affected != expected || affected == 0 {
		return &payroll.StatusConflictError{Required: string(from), EmployeeIDs: employeeIDs}
	}
	return nil
}

func (s *PayrollServiceImpl) refreshSummary(ctx context.Context, batchID string) (payroll.BatchSummary, error) {
	summary, err := s.payrollRepo.GetBatchAggregates(ctx, batchID)
	if err != nil {
		return payroll.BatchSummary{}, fmt.Errorf("failed to aggregate batch: %w", err)
	}
	if err := s.payrollRepo.UpdateBatchSummary(ctx, batchID, summary); err != nil {
		return payroll.BatchSummary{}, fmt.Errorf("failed to update batch summary: %w", err)
	}
	return summary, nil
}

// buildLineItems flattens one employee's computation into draft line items:
// basic salary, each earning, each deduction and the four statutory figures.
func buildLineItems(batchID string, result calculation.PayrollResult, now time.Time) []payroll.PayrollLineItem {
	newItem := func(itemType payroll.LineItemType, name string, amount decimal.Decimal, taxable bool) payroll.PayrollLineItem {
		return payroll.PayrollLineItem{
			ID:         uuid.Must(uuid.NewV7()).String(),
			BatchID:    batchID,
			EmployeeID: result.EmployeeID,
			Type:       itemType,
			Name:       name,
			Amount:     amount,
			IsTaxable:  taxable,
			Status:     payroll.StatusDraft,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}

	items := []payroll.PayrollLineItem{
		newItem(payroll.ItemTypeBasicSalary, payroll.ItemNameBasicSalary, result.BasicSalary, true),
	}
	for _, earning := range result.Earnings {
		items = append(items, newItem(payroll.ItemTypeEarning, earning.Name, earning.Amount, earning.IsTaxable))
	}
	for _, deduction := range result.Deductions {
		items = append(items, newItem(payroll.ItemTypeDeduction, deduction.Name, deduction.Amount, deduction.IsTaxable))
	}
	items = append(items,
		newItem(payroll.ItemTypeStatutory, payroll.ItemNameSocialSecurity, result.SocialSecurity, false),
		newItem(payroll.ItemTypeStatutory, payroll.ItemNameHealthLevy, result.HealthLevy, false),
		newItem(payroll.ItemTypeStatutory, payroll.ItemNameHousingLevy, result.HousingLevy, false),
		newItem(payroll.ItemTypeStatutory, payroll.ItemNameIncomeTax, result.IncomeTax, false),
	)
	return items
}

func breakdownFromResults(results []calculation.PayrollResult, employees []employee.Employee, status payroll.LineItemStatus) []payroll.EmployeeBreakdown {
	names := make(map[string]employee.Employee, len(employees))
	for _, emp := range employees {
		names[emp.ID] = emp
	}

	breakdowns := make([]payroll.EmployeeBreakdown, 0, len(results))
	for _, result := range results {
		breakdown := payroll.EmployeeBreakdown{
			EmployeeID:    result.EmployeeID,
			Status:        string(status),
			GrossPay:      result.GrossPay,
			TaxableIncome: result.TaxableIncome,
			NetPay:        result.NetPay,
		}
		if emp, ok := names[result.EmployeeID]; ok {
			breakdown.EmployeeName = emp.FullName
			breakdown.EmployeeCode = emp.EmployeeCode
		}

		breakdown.Items = append(breakdown.Items, payroll.LineItemResponse{
			Type:      string(payroll.ItemTypeBasicSalary),
			Name:      payroll.ItemNameBasicSalary,
			Amount:    result.BasicSalary,
			IsTaxable: true,
			Status:    string(status),
		})
		for _, earning := range result.Earnings {
			breakdown.Items = append(breakdown.Items, payroll.LineItemResponse{
				Type:      string(payroll.ItemTypeEarning),
				Name:      earning.Name,
				Amount:    earning.Amount,
				IsTaxable: earning.IsTaxable,
				Status:    string(status),
			})
		}
		for _, deduction := range result.Deductions {
			breakdown.Items = append(breakdown.Items, payroll.LineItemResponse{
				Type:      string(payroll.ItemTypeDeduction),
				Name:      deduction.Name,
				Amount:    deduction.Amount,
				IsTaxable: deduction.IsTaxable,
				Status:    string(status),
			})
		}
		for _, statutory := range []struct {
			name   string
			amount decimal.Decimal
		}{
			{payroll.ItemNameSocialSecurity, result.SocialSecurity},
			{payroll.ItemNameHealthLevy, result.HealthLevy},
			{payroll.ItemNameHousingLevy, result.HousingLevy},
			{payroll.ItemNameIncomeTax, result.IncomeTax},
		} {
			breakdown.Items = append(breakdown.Items, payroll.LineItemResponse{
				Type:      string(payroll.ItemTypeStatutory),
				Name:      statutory.name,
				Amount:    statutory.amount,
				IsTaxable: false,
				Status:    string(status),
			})
		}

		breakdowns = append(breakdowns, breakdown)
	}
	return breakdowns
}

// breakdownFromItems groups stored line items per employee and re-derives
// gross pay, taxable income and net pay from them on read. The derivation
// mirrors the engine: gross = basic + earnings, taxable = gross minus the
// pre-tax statutory items, net = gross - statutory - deductions.
func breakdownFromItems(items []payroll.PayrollLineItem) []payroll.EmployeeBreakdown {
	grouped := make(map[string][]payroll.PayrollLineItem)
	var order []string
	for _, item := range items {
		if _, seen := grouped[item.EmployeeID]; !seen {
			order = append(order, item.EmployeeID)
		}
		grouped[item.EmployeeID] = append(grouped[item.EmployeeID], item)
	}

	breakdowns := make([]payroll.EmployeeBreakdown, 0, len(order))
	for _, employeeID := range order {
		employeeItems := grouped[employeeID]
		breakdown := payroll.EmployeeBreakdown{
			EmployeeID: employeeID,
			Status:     string(employeeItems[0].Status),
		}
		if employeeItems[0].EmployeeName != nil {
			breakdown.EmployeeName = *employeeItems[0].EmployeeName
		}
		if employeeItems[0].EmployeeCode != nil {
			breakdown.EmployeeCode = *employeeItems[0].EmployeeCode
		}

		var basic, earnings, deductions, statutory, incomeTax decimal.Decimal
		for _, item := range employeeItems {
			switch item.Type {
			case payroll.ItemTypeBasicSalary:
				basic = basic.Add(item.Amount)
			case payroll.ItemTypeEarning, payroll.ItemTypeAllowance:
				earnings = earnings.Add(item.Amount)
			case payroll.ItemTypeDeduction:
				deductions = deductions.Add(item.Amount)
			case payroll.ItemTypeStatutory:
				statutory = statutory.Add(item.Amount)
				if item.Name == payroll.ItemNameIncomeTax {
					incomeTax = incomeTax.Add(item.Amount)
				}
			}

			breakdown.Items = append(breakdown.Items, payroll.LineItemResponse{
				ID:        item.ID,
				Type:      string(item.Type),
				Name:      item.Name,
				Amount:    item.Amount,
				IsTaxable: item.IsTaxable,
				Status:    string(item.Status),
			})
		}

		breakdown.GrossPay = basic.Add(earnings)
		breakdown.TaxableIncome = breakdown.GrossPay.Sub(statutory.Sub(incomeTax))
		breakdown.NetPay = breakdown.GrossPay.Sub(statutory).Sub(deductions)
		breakdowns = append(breakdowns, breakdown)
	}
	return breakdowns
}

func toBatchResponse(batch payroll.PayrollBatch) payroll.BatchResponse {
	resp := payroll.BatchResponse{
		ID:              batch.ID,
		CompanyID:       batch.CompanyID,
		PeriodStart:     batch.PeriodStart.Format("2006-01-02"),
		PeriodEnd:       batch.PeriodEnd.Format("2006-01-02"),
		PaymentDate:     batch.PaymentDate.Format("2006-01-02"),
		Notes:           batch.Notes,
		RejectionReason: batch.RejectionReason,
		ApproverID:      batch.ApproverID,
		ProcessedBy:     batch.ProcessedBy,
		Summary:         batch.Summary,
		CreatedAt:       batch.CreatedAt.Format(time.RFC3339),
	}
	if batch.SubmittedAt != nil {
		submittedAt := batch.SubmittedAt.Format(time.RFC3339)
		resp.SubmittedAt = &submittedAt
	}
	return resp
}

func intersect(a, b []string) []string {
	inA := make(map[string]bool, len(a))
	for _, id := range a {
		inA[id] = true
	}
	var out []string
	for _, id := range b {
		if inA[id] {
			out = append(out, id)
		}
	}
	return out
}
