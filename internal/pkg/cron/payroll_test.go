package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wagecore/payroll-backend-go/internal/domain/payroll"
)

// sweepRecorder stubs the two sweep methods and records the cutoffs they were
// called with. The embedded interface satisfies the rest of the repository;
// those methods are never reached from the jobs.
type sweepRecorder struct {
	payroll.PayrollRepository

	expireCutoffs []time.Time
	rejectCutoffs []time.Time
	expireCount   int64
	rejectCount   int64
	expireErr     error
	rejectErr     error
}

func (r *sweepRecorder) ExpireStaleDrafts(ctx context.Context, olderThan time.Time) (int64, error) {
	r.expireCutoffs = append(r.expireCutoffs, olderThan)
	return r.expireCount, r.expireErr
}

func (r *sweepRecorder) RejectStalePending(ctx context.Context, olderThan time.Time) (int64, error) {
	r.rejectCutoffs = append(r.rejectCutoffs, olderThan)
	return r.rejectCount, r.rejectErr
}

// sweepStore keeps line items in memory with the same status-predicated
// transition semantics as the SQL sweeps, so a repeated sweep finds no rows
// left at the source status.
type sweepStore struct {
	payroll.PayrollRepository

	items     []*payroll.PayrollLineItem
	lastCount int64
}

func (r *sweepStore) ExpireStaleDrafts(ctx context.Context, olderThan time.Time) (int64, error) {
	var count int64
	for _, item := range r.items {
		if item.Status == payroll.StatusDraft && item.CreatedAt.Before(olderThan) {
			item.Status = payroll.StatusExpired
			expiredAt := time.Now()
			item.ExpiredAt = &expiredAt
			count++
		}
	}
	r.lastCount = count
	return count, nil
}

func (r *sweepStore) RejectStalePending(ctx context.Context, olderThan time.Time) (int64, error) {
	var count int64
	for _, item := range r.items {
		if item.Status == payroll.StatusPending && item.SubmittedAt != nil && item.SubmittedAt.Before(olderThan) {
			item.Status = payroll.StatusRejected
			rejectedAt := time.Now()
			item.RejectedAt = &rejectedAt
			count++
		}
	}
	r.lastCount = count
	return count, nil
}

func TestPayrollJobs_ExpireStaleDrafts_CutoffIsSevenDays(t *testing.T) {
	t.Parallel()
	repo := &sweepRecorder{expireCount: 3}
	jobs := NewPayrollJobs(repo)

	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	err := jobs.expireStaleDraftsAt(context.Background(), now)
	require.NoError(t, err)

	require.Len(t, repo.expireCutoffs, 1)
	assert.Equal(t, time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC), repo.expireCutoffs[0])
}

func TestPayrollJobs_RejectStalePending_CutoffIsThreeDays(t *testing.T) {
	t.Parallel()
	repo := &sweepRecorder{rejectCount: 1}
	jobs := NewPayrollJobs(repo)

	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	err := jobs.rejectStalePendingAt(context.Background(), now)
	require.NoError(t, err)

	require.Len(t, repo.rejectCutoffs, 1)
	assert.Equal(t, time.Date(2026, time.March, 7, 9, 0, 0, 0, time.UTC), repo.rejectCutoffs[0])
}

func TestPayrollJobs_ExpireStaleDrafts_SecondSweepIsNoOp(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	stale := &payroll.PayrollLineItem{
		Status:    payroll.StatusDraft,
		CreatedAt: now.AddDate(0, 0, -8),
	}
	fresh := &payroll.PayrollLineItem{
		Status:    payroll.StatusDraft,
		CreatedAt: now.AddDate(0, 0, -2),
	}
	repo := &sweepStore{items: []*payroll.PayrollLineItem{stale, fresh}}
	jobs := NewPayrollJobs(repo)

	require.NoError(t, jobs.expireStaleDraftsAt(context.Background(), now))
	assert.Equal(t, int64(1), repo.lastCount)
	assert.Equal(t, payroll.StatusExpired, stale.Status)
	require.NotNil(t, stale.ExpiredAt)
	assert.Equal(t, payroll.StatusDraft, fresh.Status)
	firstExpiredAt := *stale.ExpiredAt

	// A second sweep at the same instant finds no drafts past the cutoff and
	// leaves the expired row untouched.
	require.NoError(t, jobs.expireStaleDraftsAt(context.Background(), now))
	assert.Equal(t, int64(0), repo.lastCount)
	assert.Equal(t, payroll.StatusExpired, stale.Status)
	assert.Equal(t, firstExpiredAt, *stale.ExpiredAt)
	assert.Equal(t, payroll.StatusDraft, fresh.Status)
	assert.Nil(t, fresh.ExpiredAt)
}

func TestPayrollJobs_RejectStalePending_SecondSweepIsNoOp(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	staleSubmitted := now.AddDate(0, 0, -4)
	freshSubmitted := now.AddDate(0, 0, -1)
	stale := &payroll.PayrollLineItem{
		Status:      payroll.StatusPending,
		SubmittedAt: &staleSubmitted,
	}
	fresh := &payroll.PayrollLineItem{
		Status:      payroll.StatusPending,
		SubmittedAt: &freshSubmitted,
	}
	repo := &sweepStore{items: []*payroll.PayrollLineItem{stale, fresh}}
	jobs := NewPayrollJobs(repo)

	require.NoError(t, jobs.rejectStalePendingAt(context.Background(), now))
	assert.Equal(t, int64(1), repo.lastCount)
	assert.Equal(t, payroll.StatusRejected, stale.Status)
	require.NotNil(t, stale.RejectedAt)
	assert.Equal(t, payroll.StatusPending, fresh.Status)
	firstRejectedAt := *stale.RejectedAt

	require.NoError(t, jobs.rejectStalePendingAt(context.Background(), now))
	assert.Equal(t, int64(0), repo.lastCount)
	assert.Equal(t, payroll.StatusRejected, stale.Status)
	assert.Equal(t, firstRejectedAt, *stale.RejectedAt)
	assert.Equal(t, payroll.StatusPending, fresh.Status)
	assert.Nil(t, fresh.RejectedAt)
}

func TestPayrollJobs_SweepErrorIsPropagated(t *testing.T) {
	t.Parallel()
	repoErr := errors.New("connection refused")
	repo := &sweepRecorder{expireErr: repoErr, rejectErr: repoErr}
	jobs := NewPayrollJobs(repo)

	assert.ErrorIs(t, jobs.ExpireStaleDraftItems(context.Background()), repoErr)
	assert.ErrorIs(t, jobs.AutoRejectStalePendingItems(context.Background()), repoErr)
}

func TestPayrollJobs_RunOnce_OneFailureDoesNotBlockTheOther(t *testing.T) {
	t.Parallel()
	repo := &sweepRecorder{expireErr: errors.New("connection refused")}
	scheduler := NewScheduler()
	NewPayrollJobs(repo).RegisterJobs(scheduler)

	scheduler.RunOnce(context.Background())

	// The expire sweep failed but the reject sweep still ran.
	assert.Len(t, repo.expireCutoffs, 1)
	assert.Len(t, repo.rejectCutoffs, 1)
}
