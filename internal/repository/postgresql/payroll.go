package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/wagecore/payroll-backend-go/internal/domain/payroll"
	"github.com/wagecore/payroll-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== BATCHES ==========

func (r *payrollRepository) CreateBatch(ctx context.Context, batch payroll.PayrollBatch) (payroll.PayrollBatch, error) {
	q := GetQuerier(ctx, r.db)

	summaryJSON, err := json.Marshal(batch.Summary)
	if err != nil {
		return payroll.PayrollBatch{}, fmt.Errorf("failed to marshal batch summary: %w", err)
	}

	query := `
		INSERT INTO payroll_batches (
			id, company_id, period_start, period_end, payment_date, notes, summary,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, company_id, period_start, period_end, payment_date, notes,
			rejection_reason, rejected_by, approver_id, processed_by, summary,
			created_at, submitted_at, updated_at
	`

	created, err := scanBatch(q.QueryRow(ctx, query,
		batch.ID, batch.CompanyID, batch.PeriodStart, batch.PeriodEnd, batch.PaymentDate,
		batch.Notes, summaryJSON, batch.CreatedAt, batch.UpdatedAt,
	))
	if err != nil {
		if strings.Contains(err.Error(), "uk_payroll_batch_company_month") {
			return payroll.PayrollBatch{}, payroll.ErrBatchAlreadyExists
		}
		return payroll.PayrollBatch{}, fmt.Errorf("failed to create payroll batch: %w", err)
	}

	return created, nil
}

func (r *payrollRepository) GetBatchByID(ctx context.Context, id string, companyID string) (payroll.PayrollBatch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, period_start, period_end, payment_date, notes,
			rejection_reason, rejected_by, approver_id, processed_by, summary,
			created_at, submitted_at, updated_at
		FROM payroll_batches
		WHERE id = $1 AND company_id = $2
	`

	batch, err := scanBatch(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollBatch{}, payroll.ErrBatchNotFound
		}
		return payroll.PayrollBatch{}, fmt.Errorf("failed to get payroll batch: %w", err)
	}

	return batch, nil
}

func (r *payrollRepository) BatchExistsForMonth(ctx context.Context, companyID string, year int, month time.Month) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM payroll_batches
			WHERE company_id = $1
			  AND EXTRACT(YEAR FROM period_start) = $2
			  AND EXTRACT(MONTH FROM period_start) = $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, companyID, year, int(month)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check batch existence: %w", err)
	}
	return exists, nil
}

func (r *payrollRepository) UpdateBatchSummary(ctx context.Context, batchID string, summary payroll.BatchSummary) error {
	q := GetQuerier(ctx, r.db)

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal batch summary: %w", err)
	}

	tag, err := q.Exec(ctx, `
		UPDATE payroll_batches SET summary = $2, updated_at = NOW() WHERE id = $1
	`, batchID, summaryJSON)
	if err != nil {
		return fmt.Errorf("failed to update batch summary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrBatchNotFound
	}
	return nil
}

func (r *payrollRepository) StampBatchSubmitted(ctx context.Context, batchID string, approverID string, submittedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE payroll_batches
		SET approver_id = $2, submitted_at = $3, updated_at = NOW()
		WHERE id = $1
	`, batchID, approverID, submittedAt)
	if err != nil {
		return fmt.Errorf("failed to stamp batch submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrBatchNotFound
	}
	return nil
}

func (r *payrollRepository) StampBatchProcessed(ctx context.Context, batchID string, processedBy string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE payroll_batches
		SET processed_by = $2, updated_at = NOW()
		WHERE id = $1
	`, batchID, processedBy)
	if err != nil {
		return fmt.Errorf("failed to stamp batch processing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrBatchNotFound
	}
	return nil
}

func (r *payrollRepository) StampBatchRejected(ctx context.Context, batchID string, rejectedBy string, reason string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE payroll_batches
		SET rejection_reason = $2, rejected_by = $3, updated_at = NOW()
		WHERE id = $1
	`, batchID, reason, rejectedBy)
	if err != nil {
		return fmt.Errorf("failed to stamp batch rejection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrBatchNotFound
	}
	return nil
}

func (r *payrollRepository) ClearBatchRejection(ctx context.Context, batchID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE payroll_batches
		SET rejection_reason = NULL, rejected_by = NULL, updated_at = NOW()
		WHERE id = $1
	`, batchID)
	if err != nil {
		return fmt.Errorf("failed to clear batch rejection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrBatchNotFound
	}
	return nil
}

func scanBatch(row pgx.Row) (payroll.PayrollBatch, error) {
	var (
		b           payroll.PayrollBatch
		summaryJSON []byte
	)
	err := row.Scan(
		&b.ID, &b.CompanyID, &b.PeriodStart, &b.PeriodEnd, &b.PaymentDate, &b.Notes,
		&b.RejectionReason, &b.RejectedBy, &b.ApproverID, &b.ProcessedBy, &summaryJSON,
		&b.CreatedAt, &b.SubmittedAt, &b.UpdatedAt,
	)
	if err != nil {
		return payroll.PayrollBatch{}, err
	}
	if len(summaryJSON) > 0 {
		if err := json.Unmarshal(summaryJSON, &b.Summary); err != nil {
			return payroll.PayrollBatch{}, fmt.Errorf("failed to unmarshal batch summary: %w", err)
		}
	}
	return b, nil
}

// ========== LINE ITEMS ==========

func (r *payrollRepository) BulkCreateLineItems(ctx context.Context, items []payroll.PayrollLineItem) error {
	if len(items) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_line_items (
			id, batch_id, employee_id, type, name, amount, is_taxable, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	for _, item := range items {
		_, err := q.Exec(ctx, query,
			item.ID, item.BatchID, item.EmployeeID, item.Type, item.Name,
			item.Amount, item.IsTaxable, item.Status, item.CreatedAt, item.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create line item: %w", err)
		}
	}
	return nil
}

func (r *payrollRepository) ListLineItems(ctx context.Context, batchID string, status *payroll.LineItemStatus) ([]payroll.PayrollLineItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT li.id, li.batch_id, li.employee_id, li.type, li.name, li.amount,
			li.is_taxable, li.status, li.submitted_at, li.processed_at,
			li.expired_at, li.rejected_at, li.created_at, li.updated_at,
			e.full_name, e.employee_code
		FROM payroll_line_items li
		JOIN employees e ON e.id = li.employee_id
		WHERE li.batch_id = $1
	`
	args := []interface{}{batchID}
	if status != nil {
		query += ` AND li.status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY e.employee_code, li.created_at, li.id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list line items: %w", err)
	}
	defer rows.Close()

	var items []payroll.PayrollLineItem
	for rows.Next() {
		var item payroll.PayrollLineItem
		err := rows.Scan(
			&item.ID, &item.BatchID, &item.EmployeeID, &item.Type, &item.Name, &item.Amount,
			&item.IsTaxable, &item.Status, &item.SubmittedAt, &item.ProcessedAt,
			&item.ExpiredAt, &item.RejectedAt, &item.CreatedAt, &item.UpdatedAt,
			&item.EmployeeName, &item.EmployeeCode,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *payrollRepository) EmployeesNotInStatus(ctx context.Context, batchID string, employeeIDs []string, status payroll.LineItemStatus) ([]string, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT sel.employee_id::text
		FROM unnest($1::uuid[]) AS sel(employee_id)
		WHERE NOT EXISTS (
			SELECT 1 FROM payroll_line_items li
			WHERE li.batch_id = $2 AND li.employee_id = sel.employee_id AND li.status = $3
		)
	`

	rows, err := q.Query(ctx, query, employeeIDs, batchID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to check employee statuses: %w", err)
	}
	defer rows.Close()

	var missing []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan employee id: %w", err)
		}
		missing = append(missing, id)
	}
	return missing, rows.Err()
}

// statusTimestampColumn maps a target status to the timestamp column stamped
// alongside the transition.
func statusTimestampColumn(to payroll.LineItemStatus) string {
	switch to {
	case payroll.StatusPending:
		return "submitted_at"
	case payroll.StatusProcessed:
		return "processed_at"
	case payroll.StatusExpired:
		return "expired_at"
	case payroll.StatusRejected:
		return "rejected_at"
	default:
		return ""
	}
}

func (r *payrollRepository) UpdateLineItemsStatus(ctx context.Context, batchID string, employeeIDs []string, from, to payroll.LineItemStatus, at time.Time) (int64, error) {
	if len(employeeIDs) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, r.db)

	// Single conditional bulk update; the status predicate makes overlapping
	// or repeated applications a no-op for already-transitioned rows.
	query := `
		UPDATE payroll_line_items
		SET status = $1, updated_at = NOW()
		WHERE batch_id = $2 AND employee_id = ANY($3) AND status = $4
	`
	args := []interface{}{to, batchID, employeeIDs, from}
	if column := statusTimestampColumn(to); column != "" {
		query = `
		UPDATE payroll_line_items
		SET status = $1, ` + column + ` = $5, updated_at = NOW()
		WHERE batch_id = $2 AND employee_id = ANY($3) AND status = $4
	`
		args = append(args, at)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update line item status: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *payrollRepository) UpdateLineItemAmounts(ctx context.Context, batchID string, employeeID string, items []payroll.PayrollLineItem) error {
	q := GetQuerier(ctx, r.db)

	// Items are matched in place by (type, name); the draft rows keep their
	// identity and status.
	query := `
		UPDATE payroll_line_items
		SET amount = $5, is_taxable = $6, updated_at = NOW()
		WHERE batch_id = $1 AND employee_id = $2 AND type = $3 AND name = $4
	`

	for _, item := range items {
		_, err := q.Exec(ctx, query, batchID, employeeID, item.Type, item.Name, item.Amount, item.IsTaxable)
		if err != nil {
			return fmt.Errorf("failed to update line item amount: %w", err)
		}
	}
	return nil
}

func (r *payrollRepository) DeleteLineItems(ctx context.Context, batchID string, employeeIDs []string) error {
	if len(employeeIDs) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		DELETE FROM payroll_line_items
		WHERE batch_id = $1 AND employee_id = ANY($2)
	`, batchID, employeeIDs)
	if err != nil {
		return fmt.Errorf("failed to delete line items: %w", err)
	}
	return nil
}

// ========== AGGREGATIONS ==========

// GetBatchAggregates recomputes the batch summary from its line items. The
// monetary totals cover draft, pending and processed items only; expired and
// rejected employees stay in the per-status counts but drop out of the sums
// until a refresh recreates their items.
func (r *payrollRepository) GetBatchAggregates(ctx context.Context, batchID string) (payroll.BatchSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(DISTINCT employee_id),
			COALESCE(SUM(amount) FILTER (WHERE type IN ('basic_salary', 'earning', 'allowance') AND status NOT IN ('expired', 'rejected')), 0),
			COALESCE(SUM(amount) FILTER (WHERE type IN ('earning', 'allowance') AND status NOT IN ('expired', 'rejected')), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'deduction' AND status NOT IN ('expired', 'rejected')), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'statutory' AND status NOT IN ('expired', 'rejected')), 0),
			COUNT(DISTINCT employee_id) FILTER (WHERE status = 'draft'),
			COUNT(DISTINCT employee_id) FILTER (WHERE status = 'pending'),
			COUNT(DISTINCT employee_id) FILTER (WHERE status = 'processed'),
			COUNT(DISTINCT employee_id) FILTER (WHERE status = 'rejected'),
			COUNT(DISTINCT employee_id) FILTER (WHERE status = 'expired')
		FROM payroll_line_items
		WHERE batch_id = $1
	`

	var s payroll.BatchSummary
	err := q.QueryRow(ctx, query, batchID).Scan(
		&s.EmployeeCount,
		&s.TotalGrossPay, &s.TotalEarnings, &s.TotalDeductions, &s.TotalStatutory,
		&s.DraftCount, &s.PendingCount, &s.ProcessedCount, &s.RejectedCount, &s.ExpiredCount,
	)
	if err != nil {
		return payroll.BatchSummary{}, fmt.Errorf("failed to aggregate batch: %w", err)
	}

	s.TotalNetPay = s.TotalGrossPay.Sub(s.TotalStatutory).Sub(s.TotalDeductions)
	return s, nil
}

// ========== SCHEDULED SWEEPS ==========

func (r *payrollRepository) ExpireStaleDrafts(ctx context.Context, olderThan time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE payroll_line_items
		SET status = 'expired', expired_at = NOW(), updated_at = NOW()
		WHERE status = 'draft' AND created_at < $1
	`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to expire stale drafts: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *payrollRepository) RejectStalePending(ctx context.Context, olderThan time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE payroll_line_items
		SET status = 'rejected', rejected_at = NOW(), updated_at = NOW()
		WHERE status = 'pending' AND submitted_at < $1
	`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to reject stale pending items: %w", err)
	}
	return tag.RowsAffected(), nil
}
