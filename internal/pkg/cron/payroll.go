package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wagecore/payroll-backend-go/internal/domain/payroll"
)

// PayrollJobs holds the time-based line item transitions: drafts left
// unsubmitted for 7 days expire, pending items awaiting approval for 3 days
// are rejected. Each rule is one set-based conditional update, so a sweep
// that overlaps its successor cannot double-transition a row.
type PayrollJobs struct {
	payrollRepo payroll.PayrollRepository
}

func NewPayrollJobs(payrollRepo payroll.PayrollRepository) *PayrollJobs {
	return &PayrollJobs{payrollRepo: payrollRepo}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("expire_stale_draft_items", 24*time.Hour, j.ExpireStaleDraftItems)
	scheduler.AddJob("auto_reject_stale_pending_items", 24*time.Hour, j.AutoRejectStalePendingItems)
}

func (j *PayrollJobs) ExpireStaleDraftItems(ctx context.Context) error {
	return j.expireStaleDraftsAt(ctx, time.Now())
}

func (j *PayrollJobs) AutoRejectStalePendingItems(ctx context.Context) error {
	return j.rejectStalePendingAt(ctx, time.Now())
}

func (j *PayrollJobs) expireStaleDraftsAt(ctx context.Context, now time.Time) error {
	cutoff := now.Add(-time.Duration(payroll.DraftExpiryDays) * 24 * time.Hour)

	count, err := j.payrollRepo.ExpireStaleDrafts(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to expire stale drafts: %w", err)
	}

	slog.Info("Cron: Expired stale draft line items", "count", count)
	return nil
}

func (j *PayrollJobs) rejectStalePendingAt(ctx context.Context, now time.Time) error {
	cutoff := now.Add(-time.Duration(payroll.PendingRejectDays) * 24 * time.Hour)

	count, err := j.payrollRepo.RejectStalePending(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to reject stale pending items: %w", err)
	}

	slog.Info("Cron: Rejected stale pending line items", "count", count)
	return nil
}
