package report

import (
	"context"
	"math"
	"time"

	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
)

// onTimeSample caps how many completed tasks are read back to judge
// on-time delivery.
const onTimeSample = 1000

// TaskStats are the completion numbers for tasks created in a period.
type TaskStats struct {
	PeriodStart    time.Time
	PeriodEnd      time.Time
	TotalCreated   int64
	Completed      int64
	InProgress     int64
	Overdue        int64
	OnTime         int64
	CompletionRate float64
	OnTimeRate     float64
}

//go:generate mockgen -source=report_stats_repo.go -destination=mock/report_stats_repo_mock.go -package=mock
type StatsRepository interface {
	TaskStatistics(ctx context.Context, from, to time.Time) (TaskStats, error)
}

type odooStatsRepository struct {
	client *odoo.Client
}

func NewStatsRepository(client *odoo.Client) StatsRepository {
	return &odooStatsRepository{client: client}
}

// TaskStatistics counts tasks created in [from, to) and how they fared.
// Report windows move every call, so nothing here is cached.
func (r *odooStatsRepository) TaskStatistics(ctx context.Context, from, to time.Time) (TaskStats, error) {
	stats := TaskStats{PeriodStart: from, PeriodEnd: to}

	base := func() []any {
		return []any{
			[]any{"create_date", ">=", from.Format(odoo.DateTimeLayout)},
			[]any{"create_date", "<", to.Format(odoo.DateTimeLayout)},
		}
	}

	total, err := r.client.SearchCount(ctx, odoo.ModelTask, base())
	if err != nil {
		return TaskStats{}, err
	}
	stats.TotalCreated = total

	completedDomain := append(base(), []any{"stage_id.fold", "=", true})
	completed, err := r.client.SearchCount(ctx, odoo.ModelTask, completedDomain)
	if err != nil {
		return TaskStats{}, err
	}
	stats.Completed = completed
	stats.InProgress = total - completed

	overdue, err := r.client.SearchCount(ctx, odoo.ModelTask, append(base(),
		[]any{"stage_id.fold", "=", false},
		[]any{"date_deadline", "!=", false},
		[]any{"date_deadline", "<", time.Now().UTC().Format(odoo.DateLayout)},
	))
	if err != nil {
		return TaskStats{}, err
	}
	stats.Overdue = overdue

	if completed > 0 {
		records, err := r.client.SearchRead(ctx, odoo.ModelTask, completedDomain,
			[]string{"date_deadline", "write_date"}, &odoo.QueryOptions{Limit: onTimeSample})
		if err != nil {
			return TaskStats{}, err
		}
		for _, rec := range records {
			deadline := rec.Time("date_deadline")
			finished := rec.Time("write_date")
			// No deadline counts as on time, and finishing on the deadline
			// day still counts.
			if deadline.IsZero() || !dayOf(finished).After(dayOf(deadline)) {
				stats.OnTime++
			}
		}
	}

	if total > 0 {
		stats.CompletionRate = round2(float64(completed) / float64(total) * 100)
	}
	if completed > 0 {
		stats.OnTimeRate = round2(float64(stats.OnTime) / float64(completed) * 100)
	}
	return stats, nil
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
