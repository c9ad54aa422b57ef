package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wagecore/payroll-backend-go/internal/config"
	"github.com/wagecore/payroll-backend-go/internal/domain/assignment"
	"github.com/wagecore/payroll-backend-go/internal/domain/employee"
	"github.com/wagecore/payroll-backend-go/internal/domain/payroll"
	"github.com/wagecore/payroll-backend-go/internal/service/calculation"
)

const (
	testCompanyID = "0198c5f0-aaaa-7000-8000-000000000001"
	testUserID    = "0198c5f0-aaaa-7000-8000-000000000002"
)

// ===== FAKES =====

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	for _, e := range r.employees {
		if e.ID == id && e.CompanyID == companyID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) GetByIDs(ctx context.Context, ids []string, companyID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, id := range ids {
		for _, e := range r.employees {
			if e.ID == id && e.CompanyID == companyID {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		if e.CompanyID == companyID && e.EmploymentStatus == employee.EmploymentStatusActive {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeAssignmentRepo struct {
	assignments map[string][]assignment.Assignment
}

func (r *fakeAssignmentRepo) Create(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	return a, nil
}

func (r *fakeAssignmentRepo) GetByID(ctx context.Context, id string, companyID string) (assignment.Assignment, error) {
	return assignment.Assignment{}, assignment.ErrAssignmentNotFound
}

func (r *fakeAssignmentRepo) GetByEmployeeID(ctx context.Context, employeeID string, companyID string) ([]assignment.Assignment, error) {
	return r.assignments[employeeID], nil
}

func (r *fakeAssignmentRepo) GetActiveForPeriod(ctx context.Context, employeeID string, companyID string, periodStart, periodEnd time.Time, kind assignment.Kind) ([]assignment.Assignment, error) {
	var out []assignment.Assignment
	for _, a := range r.assignments[employeeID] {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) Update(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	return a, nil
}

func (r *fakeAssignmentRepo) Delete(ctx context.Context, id string, companyID string) error {
	return nil
}

type fakePayrollRepo struct {
	batches map[string]*payroll.PayrollBatch
	items   []*payroll.PayrollLineItem
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{batches: make(map[string]*payroll.PayrollBatch)}
}

func (r *fakePayrollRepo) CreateBatch(ctx context.Context, batch payroll.PayrollBatch) (payroll.PayrollBatch, error) {
	stored := batch
	r.batches[batch.ID] = &stored
	return batch, nil
}

func (r *fakePayrollRepo) GetBatchByID(ctx context.Context, id string, companyID string) (payroll.PayrollBatch, error) {
	if b, ok := r.batches[id]; ok && b.CompanyID == companyID {
		return *b, nil
	}
	return payroll.PayrollBatch{}, payroll.ErrBatchNotFound
}

func (r *fakePayrollRepo) BatchExistsForMonth(ctx context.Context, companyID string, year int, month time.Month) (bool, error) {
	for _, b := range r.batches {
		if b.CompanyID == companyID && b.PeriodStart.Year() == year && b.PeriodStart.Month() == month {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePayrollRepo) UpdateBatchSummary(ctx context.Context, batchID string, summary payroll.BatchSummary) error {
	if b, ok := r.batches[batchID]; ok {
		b.Summary = summary
		return nil
	}
	return payroll.ErrBatchNotFound
}

func (r *fakePayrollRepo) StampBatchSubmitted(ctx context.Context, batchID string, approverID string, submittedAt time.Time) error {
	b := r.batches[batchID]
	b.ApproverID = &approverID
	b.SubmittedAt = &submittedAt
	return nil
}

func (r *fakePayrollRepo) StampBatchProcessed(ctx context.Context, batchID string, processedBy string) error {
	r.batches[batchID].ProcessedBy = &processedBy
	return nil
}

func (r *fakePayrollRepo) StampBatchRejected(ctx context.Context, batchID string, rejectedBy string, reason string) error {
	b := r.batches[batchID]
	b.RejectionReason = &reason
	b.RejectedBy = &rejectedBy
	return nil
}

func (r *fakePayrollRepo) ClearBatchRejection(ctx context.Context, batchID string) error {
	b := r.batches[batchID]
	b.RejectionReason = nil
	b.RejectedBy = nil
	return nil
}

func (r *fakePayrollRepo) BulkCreateLineItems(ctx context.Context, items []payroll.PayrollLineItem) error {
	for _, item := range items {
		stored := item
		r.items = append(r.items, &stored)
	}
	return nil
}

func (r *fakePayrollRepo) ListLineItems(ctx context.Context, batchID string, status *payroll.LineItemStatus) ([]payroll.PayrollLineItem, error) {
	var out []payroll.PayrollLineItem
	for _, item := range r.items {
		if item.BatchID != batchID {
			continue
		}
		if status != nil && item.Status != *status {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

func (r *fakePayrollRepo) EmployeesNotInStatus(ctx context.Context, batchID string, employeeIDs []string, status payroll.LineItemStatus) ([]string, error) {
	var missing []string
	for _, id := range employeeIDs {
		found := false
		for _, item := range r.items {
			if item.BatchID == batchID && item.EmployeeID == id && item.Status == status {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r *fakePayrollRepo) UpdateLineItemsStatus(ctx context.Context, batchID string, employeeIDs []string, from, to payroll.LineItemStatus, at time.Time) (int64, error) {
	selected := make(map[string]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		selected[id] = true
	}

	var affected int64
	for _, item := range r.items {
		if item.BatchID != batchID || !selected[item.EmployeeID] || item.Status != from {
			continue
		}
		item.Status = to
		switch to {
		case payroll.StatusPending:
			item.SubmittedAt = &at
		case payroll.StatusProcessed:
			item.ProcessedAt = &at
		case payroll.StatusExpired:
			item.ExpiredAt = &at
		case payroll.StatusRejected:
			item.RejectedAt = &at
		}
		affected++
	}
	return affected, nil
}

func (r *fakePayrollRepo) UpdateLineItemAmounts(ctx context.Context, batchID string, employeeID string, items []payroll.PayrollLineItem) error {
	for _, updated := range items {
		for _, item := range r.items {
			if item.BatchID == batchID && item.EmployeeID == employeeID &&
				item.Type == updated.Type && item.Name == updated.Name {
				item.Amount = updated.Amount
				item.IsTaxable = updated.IsTaxable
			}
		}
	}
	return nil
}

func (r *fakePayrollRepo) DeleteLineItems(ctx context.Context, batchID string, employeeIDs []string) error {
	selected := make(map[string]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		selected[id] = true
	}
	var kept []*payroll.PayrollLineItem
	for _, item := range r.items {
		if item.BatchID == batchID && selected[item.EmployeeID] {
			continue
		}
		kept = append(kept, item)
	}
	r.items = kept
	return nil
}

func (r *fakePayrollRepo) GetBatchAggregates(ctx context.Context, batchID string) (payroll.BatchSummary, error) {
	var s payroll.BatchSummary
	seen := make(map[string]bool)
	statusSeen := make(map[payroll.LineItemStatus]map[string]bool)

	for _, item := range r.items {
		if item.BatchID != batchID {
			continue
		}
		if !seen[item.EmployeeID] {
			seen[item.EmployeeID] = true
			s.EmployeeCount++
		}
		if statusSeen[item.Status] == nil {
			statusSeen[item.Status] = make(map[string]bool)
		}
		statusSeen[item.Status][item.EmployeeID] = true

		// Expired and rejected items are counted but excluded from the
		// monetary totals, matching the SQL aggregation.
		if item.Status == payroll.StatusExpired || item.Status == payroll.StatusRejected {
			continue
		}

		switch item.Type {
		case payroll.ItemTypeBasicSalary, payroll.ItemTypeEarning, payroll.ItemTypeAllowance:
			s.TotalGrossPay = s.TotalGrossPay.Add(item.Amount)
			if item.Type != payroll.ItemTypeBasicSalary {
				s.TotalEarnings = s.TotalEarnings.Add(item.Amount)
			}
		case payroll.ItemTypeDeduction:
			s.TotalDeductions = s.TotalDeductions.Add(item.Amount)
		case payroll.ItemTypeStatutory:
			s.TotalStatutory = s.TotalStatutory.Add(item.Amount)
		}
	}

	s.DraftCount = len(statusSeen[payroll.StatusDraft])
	s.PendingCount = len(statusSeen[payroll.StatusPending])
	s.ProcessedCount = len(statusSeen[payroll.StatusProcessed])
	s.RejectedCount = len(statusSeen[payroll.StatusRejected])
	s.ExpiredCount = len(statusSeen[payroll.StatusExpired])
	s.TotalNetPay = s.TotalGrossPay.Sub(s.TotalStatutory).Sub(s.TotalDeductions)
	return s, nil
}

func (r *fakePayrollRepo) ExpireStaleDrafts(ctx context.Context, olderThan time.Time) (int64, error) {
	var count int64
	for _, item := range r.items {
		if item.Status == payroll.StatusDraft && item.CreatedAt.Before(olderThan) {
			item.Status = payroll.StatusExpired
			count++
		}
	}
	return count, nil
}

func (r *fakePayrollRepo) RejectStalePending(ctx context.Context, olderThan time.Time) (int64, error) {
	var count int64
	for _, item := range r.items {
		if item.Status == payroll.StatusPending && item.SubmittedAt != nil && item.SubmittedAt.Before(olderThan) {
			item.Status = payroll.StatusRejected
			count++
		}
	}
	return count, nil
}

// ===== HELPERS =====

func authedContext(t *testing.T) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id":    testUserID,
		"company_id": testCompanyID,
		"type":       "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func testRateTable(t *testing.T) calculation.RateTable {
	t.Helper()
	table, err := calculation.RateTableFromConfig(config.StatutoryConfig{
		SocialSecurityTier1Limit: decimal.NewFromInt(8000),
		SocialSecurityTier1Rate:  decimal.NewFromFloat(0.06),
		SocialSecurityTier2Limit: decimal.NewFromInt(72000),
		SocialSecurityTier2Rate:  decimal.NewFromFloat(0.06),
		HealthLevyRate:           decimal.NewFromFloat(0.0275),
		HealthLevyMinimum:        decimal.NewFromInt(300),
		HousingLevyRate:          decimal.NewFromFloat(0.015),
		PersonalRelief:           decimal.NewFromInt(2400),
		TaxBrackets:              "24000:0.10,32333:0.25,500000:0.30,800000:0.325,inf:0.35",
	})
	require.NoError(t, err)
	return table
}

func testEmployee(code, salary string) employee.Employee {
	s := decimal.RequireFromString(salary)
	return employee.Employee{
		ID:               uuid.Must(uuid.NewV7()).String(),
		CompanyID:        testCompanyID,
		EmployeeCode:     code,
		FullName:         "Employee " + code,
		EmploymentStatus: employee.EmploymentStatusActive,
		BasicSalary:      &s,
	}
}

type testEnv struct {
	svc         payroll.PayrollService
	payrollRepo *fakePayrollRepo
	empRepo     *fakeEmployeeRepo
}

func newTestEnv(t *testing.T, employees []employee.Employee, assignments map[string][]assignment.Assignment) *testEnv {
	t.Helper()
	payrollRepo := newFakePayrollRepo()
	empRepo := &fakeEmployeeRepo{employees: employees}
	engine := calculation.NewEngine(&fakeAssignmentRepo{assignments: assignments}, testRateTable(t))

	return &testEnv{
		svc:         NewPayrollService(nil, payrollRepo, empRepo, engine),
		payrollRepo: payrollRepo,
		empRepo:     empRepo,
	}
}

// validInitiateRequest builds a request for the previous calendar month so
// the future-month rule never trips regardless of when the test runs.
func validInitiateRequest() payroll.InitiatePayrollRequest {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	end := start.AddDate(0, 0, 27)
	return payroll.InitiatePayrollRequest{
		PeriodStart: start.Format("2006-01-02"),
		PeriodEnd:   end.Format("2006-01-02"),
		PaymentDate: end.AddDate(0, 0, 3).Format("2006-01-02"),
	}
}

// ===== TESTS =====

func TestPayrollService_Initiate_CreatesDraftItems(t *testing.T) {
	t.Parallel()
	emp1 := testEmployee("EMP-001", "50000")
	emp2 := testEmployee("EMP-002", "30000")
	env := newTestEnv(t, []employee.Employee{emp1, emp2}, nil)
	ctx := authedContext(t)

	result, err := env.svc.Initiate(ctx, validInitiateRequest())
	require.NoError(t, err)

	assert.Empty(t, result.Skipped)
	require.Len(t, result.Breakdown, 2)
	assert.Equal(t, 2, result.Batch.Summary.EmployeeCount)
	assert.Equal(t, 2, result.Batch.Summary.DraftCount)
	assert.True(t, result.Batch.Summary.TotalGrossPay.Equal(decimal.NewFromInt(80000)),
		"gross %s", result.Batch.Summary.TotalGrossPay)
	// 39029.15 + 26193.75
	assert.True(t, result.Batch.Summary.TotalNetPay.Equal(decimal.RequireFromString("65222.9")),
		"net %s", result.Batch.Summary.TotalNetPay)

	// Basic salary plus four statutory items per employee, all at draft.
	items, err := env.payrollRepo.ListLineItems(ctx, result.Batch.ID, nil)
	require.NoError(t, err)
	assert.Len(t, items, 10)
	for _, item := range items {
		assert.Equal(t, payroll.StatusDraft, item.Status)
	}
}

func TestPayrollService_Initiate_DuplicateMonthRejected(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, []employee.Employee{testEmployee("EMP-001", "50000")}, nil)
	ctx := authedContext(t)

	_, err := env.svc.Initiate(ctx, validInitiateRequest())
	require.NoError(t, err)

	_, err = env.svc.Initiate(ctx, validInitiateRequest())
	assert.ErrorIs(t, err, payroll.ErrBatchAlreadyExists)
}

func TestPayrollService_Initiate_SkipsEmployeeWithoutBasicSalary(t *testing.T) {
	t.Parallel()
	emp1 := testEmployee("EMP-001", "50000")
	emp2 := testEmployee("EMP-002", "30000")
	emp2.BasicSalary = nil
	env := newTestEnv(t, []employee.Employee{emp1, emp2}, nil)
	ctx := authedContext(t)

	result, err := env.svc.Initiate(ctx, validInitiateRequest())
	require.NoError(t, err)

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, emp2.ID, result.Skipped[0].EmployeeID)
	require.Len(t, result.Breakdown, 1)
	assert.Equal(t, emp1.ID, result.Breakdown[0].EmployeeID)
}

func TestPayrollService_Submit_PartialSelection(t *testing.T) {
	t.Parallel()
	emp1 := testEmployee("EMP-001", "50000")
	emp2 := testEmployee("EMP-002", "30000")
	env := newTestEnv(t, []employee.Employee{emp1, emp2}, nil)
	ctx := authedContext(t)

	initiated, err := env.svc.Initiate(ctx, validInitiateRequest())
	require.NoError(t, err)
	batchID := initiated.Batch.ID

	result, err := env.svc.Submit(ctx, batchID, payroll.SubmitPayrollRequest{EmployeeIDs: []string{emp1.ID}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ProcessedCount)
	assert.Equal(t, 1, result.Summary.PendingCount)
	assert.Equal(t, 1, result.Summary.DraftCount)

	// Unselected employee stays at draft.
	items, err := env.payrollRepo.ListLineItems(ctx, batchID, nil)
	require.NoError(t, err)
	for _, item := range items {
		switch item.EmployeeID {
		case emp1.ID:
			assert.Equal(t, payroll.StatusPending, item.Status)
			assert.NotNil(t, item.SubmittedAt)
		case emp2.ID:
			assert.Equal(t, payroll.StatusDraft, item.Status)
		}
	}

	batch, err := env.payrollRepo.GetBatchByID(ctx, batchID, testCompanyID)
	require.NoError(t, err)
	require.NotNil(t, batch.ApproverID)
	assert.Equal(t, testUserID, *batch.ApproverID)
	assert.NotNil(t, batch.SubmittedAt)
}

func TestPayrollService_Submit_ConflictListsOffendingIDs(t *testing.T) {
	t.Parallel()
	emp1 := testEmployee("EMP-001", "50000")
	emp2 := testEmployee("EMP-002", "30000")
	env := newTestEnv(t, []employee.Employee{emp1, emp2}, nil)
	ctx := authedContext(t)

	initiated, err := env.svc.Initiate(ctx, validInitiateRequest())
	require.NoError(t, err)
	batchID := initiated.Batch.ID

	_, err = env.svc.Submit(ctx, batchID, payroll.SubmitPayrollRequest{EmployeeIDs: []string{emp1.ID}})
	require.NoError(t, err)

	// emp1 is already pending; selecting both must reject the whole call.
	_, err = env.svc.Submit(ctx, batchID, payroll.SubmitPayrollRequest{EmployeeIDs: []string{emp1.ID, emp2.ID}})
	var conflict *payroll.StatusConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{emp1.ID}, conflict.EmployeeIDs)

	// And nothing was mutated for emp2.
	draft := payroll.StatusDraft
	items, err := env.payrollRepo.ListLineItems(ctx, batchID, &draft)
	require.NoError(t, err)
	for _, item := range items {
		assert.Equal(t, emp2.ID, item.EmployeeID)
	}
}

func TestPayrollService_Approve_FlipsToProcessed(t *testing.T) {
	t.Parallel()
	emp := testEmployee("EMP-001", "50000")
	env := newTestEnv(t, []employee.Employee{emp}, nil)
	ctx := authedContext(t)

	initiated, err := env.svc.Initiate(ctx, validInitiateRequest())
	require.NoError(t, err)
	batchID := initiated.Batch.ID

	_, err = env.svc.Submit(ctx, batchID, payroll.SubmitPayrollRequest{EmployeeIDs: []string{emp.ID}})
	require.NoError(t, err)

	result, err := env.svc.Approve(ctx, batchID, payroll.ApprovePayrollRequest{EmployeeIDs: []string{emp.ID}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.ProcessedCount)

	batch, err := env.payrollRepo.GetBatchByID(ctx, batchID, testCompanyID)
	require.NoError(t, err)
	require.NotNil(t, batch.ProcessedBy)
	assert.Equal(t, testUserID, *batch.ProcessedBy)
}

func TestPayrollService_Approve_RequiresPending(t *testing.T) {
	t.Parallel()
	emp := testEmployee("EMP-001", "50000")
	env := newTestEnv(t, []employee.Employee{emp}, nil)
	ctx := authedContext(t)

	initiated, err := env.svc.Initiate(ctx, validInitiateRequest())
	require.NoError(t, err)

	// Still at draft; approval must be rejected.
	_, err = env.svc.Approve(ctx, initiated.Batch.ID, payroll.ApprovePayrollRequest{EmployeeIDs: []string{emp.ID}})
	var conflict *payroll.StatusConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, string(payroll.StatusPending), conflict.Required)
}

func TestPayrollService_Reject_RequiresReason(t *testing.T) {
	t.Parallel()
	emp := testEmployee("EMP-001", "50000")
	env := newTestEnv(t, []employee.Employee{emp}, nil)
	ctx := authedContext(t)

	initiated, err := env.svc.Initiate(ctx, validInitiateRequest())
	require.NoError(t, err)

	_, err = env.svc.Reject(ctx, initiated.Batch.ID, payroll.RejectPayrollRequest{EmployeeIDs: []string{emp.ID}})
	assert.ErrorIs(t, err, payroll.ErrRejectionReasonRequired)
}

func TestPayrollService_Reject_StampsReason(t *testing.T) {
	t.Parallel()
	emp := testEmployee("EMP-001", "50000")
	env := newTestEnv(t, []employee.Employee{emp}, nil)
	ctx := authedContext(t)

	initiated, err := env.svc.Initiate(ctx, validInitiateRequest())
	require.NoError(t, err)
	batchID := initiated.Batch.ID

	_, err = env.svc.Submit(ctx, batchID, payroll.SubmitPayrollRequest{EmployeeIDs: []string{emp.ID}})
	require.NoError(t, err)

	result, err := env.svc.Reject(ctx, batchID, payroll.RejectPayrollRequest{
		EmployeeIDs: []string{emp.ID},
		Reason:      "incorrect overtime figures",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.RejectedCount)

	// The rejected employee's amounts leave the monetary totals but the
	// headcount still records them.
	assert.True(t, result.Summary.TotalGrossPay.IsZero(), "gross %s", result.Summary.TotalGrossPay)
	assert.True(t, result.Summary.TotalNetPay.IsZero(), "net %s", result.Summary.TotalNetPay)
	assert.Equal(t, 1, result.Summary.EmployeeCount)

	batch, err := env.payrollRepo.GetBatchByID(ctx, batchID, testCompanyID)
	require.NoError(t, err)
	require.NotNil(t, batch.RejectionReason)
	assert.Equal(t, "incorrect overtime figures", *batch.RejectionReason)
}

func TestPayrollService_Refresh_RequiresExpiredOrRejected(t *testing.T) {
	t.Parallel()
	emp := testEmployee("EMP-001", "50000")
	env := newTestEnv(t, []employee.Employee{emp}, nil)
	ctx := authedContext(t)

	initiated, err := env.svc.Initiate(ctx, validInitiateRequest())
	require.NoError(t, err)

	_, err = env.svc.Refresh(ctx, initiated.Batch.ID, payroll.RefreshPayrollRequest{EmployeeIDs: []string{emp.ID}})
	var conflict *payroll.StatusConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestPayrollService_Refresh_RoundTripMatchesFreshRun(t *testing.T) {
	t.Parallel()
	emp := testEmployee("EMP-001", "50000")
	env := newTestEnv(t, []employee.Employee{emp}, nil)
	ctx := authedContext(t)

	initiated, err := env.svc.Initiate(ctx, validInitiateRequest())
	require.NoError(t, err)
	batchID := initiated.Batch.ID
	freshNet := initiated.Breakdown[0].NetPay

	_, err = env.svc.Submit(ctx, batchID, payroll.SubmitPayrollRequest{EmployeeIDs: []string{emp.ID}})
	require.NoError(t, err)
	_, err = env.svc.Reject(ctx, batchID, payroll.RejectPayrollRequest{
		EmployeeIDs: []string{emp.ID},
		Reason:      "resubmit with corrections",
	})
	require.NoError(t, err)

	refreshed, err := env.svc.Refresh(ctx, batchID, payroll.RefreshPayrollRequest{EmployeeIDs: []string{emp.ID}})
	require.NoError(t, err)
	require.Len(t, refreshed.Breakdown, 1)
	assert.True(t, refreshed.Breakdown[0].NetPay.Equal(freshNet),
		"refreshed net %s, fresh net %s", refreshed.Breakdown[0].NetPay, freshNet)
	assert.Nil(t, refreshed.Batch.RejectionReason)
	// Recreated draft items bring the amounts back into the totals.
	assert.True(t, refreshed.Batch.Summary.TotalGrossPay.Equal(decimal.NewFromInt(50000)),
		"gross %s", refreshed.Batch.Summary.TotalGrossPay)

	// The refreshed items carry through submit and approve to processed with
	// the same net pay.
	_, err = env.svc.Submit(ctx, batchID, payroll.SubmitPayrollRequest{EmployeeIDs: []string{emp.ID}})
	require.NoError(t, err)
	_, err = env.svc.Approve(ctx, batchID, payroll.ApprovePayrollRequest{EmployeeIDs: []string{emp.ID}})
	require.NoError(t, err)

	processed, err := env.svc.GetByStatus(ctx, batchID, payroll.StatusProcessed)
	require.NoError(t, err)
	require.Len(t, processed, 1)
	assert.True(t, processed[0].NetPay.Equal(freshNet),
		"processed net %s, fresh net %s", processed[0].NetPay, freshNet)
}

func TestPayrollService_GetByStatus_RederivesTotals(t *testing.T) {
	t.Parallel()
	emp := testEmployee("EMP-001", "50000")
	transport := decimal.NewFromInt(4000)
	loan := decimal.NewFromInt(2500)
	assignments := map[string][]assignment.Assignment{
		emp.ID: {
			{
				Name:              "Transport Allowance",
				Kind:              assignment.KindEarning,
				CalculationMethod: assignment.MethodFixedAmount,
				Mode:              assignment.ModeMonthly,
				MonthlyAmount:     &transport,
				IsTaxable:         true,
			},
			{
				Name:              "Staff Loan",
				Kind:              assignment.KindDeduction,
				CalculationMethod: assignment.MethodFixedAmount,
				Mode:              assignment.ModeMonthly,
				MonthlyAmount:     &loan,
			},
		},
	}
	env := newTestEnv(t, []employee.Employee{emp}, assignments)
	ctx := authedContext(t)

	initiated, err := env.svc.Initiate(ctx, validInitiateRequest())
	require.NoError(t, err)

	breakdowns, err := env.svc.GetByStatus(ctx, initiated.Batch.ID, payroll.StatusDraft)
	require.NoError(t, err)
	require.Len(t, breakdowns, 1)

	// The values derived from stored items must match what was computed at
	// write time.
	written := initiated.Breakdown[0]
	read := breakdowns[0]
	assert.True(t, read.GrossPay.Equal(written.GrossPay), "gross: read %s, written %s", read.GrossPay, written.GrossPay)
	assert.True(t, read.TaxableIncome.Equal(written.TaxableIncome), "taxable: read %s, written %s", read.TaxableIncome, written.TaxableIncome)
	assert.True(t, read.NetPay.Equal(written.NetPay), "net: read %s, written %s", read.NetPay, written.NetPay)
}

func TestPayrollService_GetBatch_NotFound(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil, nil)
	ctx := authedContext(t)

	_, err := env.svc.GetBatch(ctx, uuid.Must(uuid.NewV7()).String())
	assert.ErrorIs(t, err, payroll.ErrBatchNotFound)
}
