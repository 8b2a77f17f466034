package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Muhannad-Khaled/Ailigent/internal/attendance"
	"github.com/Muhannad-Khaled/Ailigent/internal/distribution"
	"github.com/Muhannad-Khaled/Ailigent/internal/employee"
	"github.com/Muhannad-Khaled/Ailigent/internal/events"
	"github.com/Muhannad-Khaled/Ailigent/internal/notification"
	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
	reporterrors "github.com/Muhannad-Khaled/Ailigent/internal/report/errors"
	"github.com/Muhannad-Khaled/Ailigent/internal/shared/counter"
)

const topPerformerCount = 3

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	Daily(ctx context.Context, date time.Time) (DailyReport, error)
	Weekly(ctx context.Context, weekOf time.Time) (WeeklyReport, error)
	Send(ctx context.Context, req SendReportRequest) (RunResponse, error)
	Runs(ctx context.Context, reportType string, page, pageSize int) ([]RunResponse, int64, error)
	Run(ctx context.Context, id string) (RunResponse, error)
}

type service struct {
	stats        StatsRepository
	runs         RunRepository
	counter      counter.Repository
	attendance   attendance.Service
	distribution distribution.Service
	enqueue      notification.Enqueuer
	db           *gorm.DB
	logger       *zap.Logger
	now          func() time.Time
}

func NewService(
	stats StatsRepository,
	runs RunRepository,
	seq counter.Repository,
	attendanceSvc attendance.Service,
	distributionSvc distribution.Service,
	enqueue notification.Enqueuer,
	db *gorm.DB,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{
		stats:        stats,
		runs:         runs,
		counter:      seq,
		attendance:   attendanceSvc,
		distribution: distributionSvc,
		enqueue:      enqueue,
		db:           db,
		logger:       l,
		now:          time.Now,
	}
}

func (s *service) Daily(ctx context.Context, date time.Time) (DailyReport, error) {
	report, _, _, err := s.buildDaily(ctx, date)
	return report, err
}

func (s *service) buildDaily(ctx context.Context, date time.Time) (DailyReport, time.Time, time.Time, error) {
	from := dayOf(date)
	to := from.AddDate(0, 0, 1)

	stats, err := s.stats.TaskStatistics(ctx, from, to)
	if err != nil {
		s.logger.Error("task statistics failed", zap.Error(err))
		return DailyReport{}, from, to, err
	}
	att, err := s.attendance.DailySummary(ctx, from, 0)
	if err != nil {
		s.logger.Error("attendance summary failed", zap.Error(err))
		return DailyReport{}, from, to, err
	}

	report := DailyReport{
		Date:           from.Format(odoo.DateLayout),
		TasksCreated:   stats.TotalCreated,
		TasksCompleted: stats.Completed,
		OverdueCount:   stats.Overdue,
		CompletionRate: stats.CompletionRate,
		TeamAttendance: att,
		Highlights:     dailyHighlights(stats, att),
	}
	return report, from, to, nil
}

func (s *service) Weekly(ctx context.Context, weekOf time.Time) (WeeklyReport, error) {
	report, _, _, err := s.buildWeekly(ctx, weekOf)
	return report, err
}

func (s *service) buildWeekly(ctx context.Context, weekOf time.Time) (WeeklyReport, time.Time, time.Time, error) {
	from := mondayOf(weekOf)
	to := from.AddDate(0, 0, 7)

	stats, err := s.stats.TaskStatistics(ctx, from, to)
	if err != nil {
		s.logger.Error("task statistics failed", zap.Error(err))
		return WeeklyReport{}, from, to, err
	}
	balance, err := s.distribution.WorkloadBalance(ctx)
	if err != nil {
		s.logger.Error("workload balance failed", zap.Error(err))
		return WeeklyReport{}, from, to, err
	}
	bottlenecks, err := s.distribution.AnalyzeBottlenecks(ctx)
	if err != nil {
		s.logger.Error("bottleneck analysis failed", zap.Error(err))
		return WeeklyReport{}, from, to, err
	}

	report := WeeklyReport{
		WeekStart:      from.Format(odoo.DateLayout),
		WeekEnd:        from.AddDate(0, 0, 6).Format(odoo.DateLayout),
		Statistics:     mapStats(stats),
		CompletionRate: stats.CompletionRate,
		BalanceScore:   balance.BalanceScore,
		TopPerformers:  topPerformers(balance.Workloads),
		Bottlenecks:    bottlenecks.Bottlenecks,
	}
	return report, from, to, nil
}

// Send builds the requested report, archives it with a counter-issued
// sequence and queues the email notification. The run insert and the
// outbox insert share one transaction.
func (s *service) Send(ctx context.Context, req SendReportRequest) (RunResponse, error) {
	date := s.now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse(odoo.DateLayout, req.Date)
		if err != nil {
			return RunResponse{}, reporterrors.ErrInvalidDate
		}
		date = parsed
	}

	var (
		subject string
		body    string
		from    time.Time
		to      time.Time
	)
	switch req.Type {
	case TypeDaily:
		report, f, t, err := s.buildDaily(ctx, date)
		if err != nil {
			return RunResponse{}, err
		}
		subject = fmt.Sprintf("Daily report %s", report.Date)
		body = renderDailyBody(report)
		from, to = f, t
	case TypeWeekly:
		report, f, t, err := s.buildWeekly(ctx, date)
		if err != nil {
			return RunResponse{}, err
		}
		subject = fmt.Sprintf("Weekly report %s to %s", report.WeekStart, report.WeekEnd)
		body = renderWeeklyBody(report)
		from, to = f, t
	default:
		return RunResponse{}, reporterrors.ErrInvalidType
	}

	seq, err := s.counter.Next(ctx, "report:"+req.Type)
	if err != nil {
		s.logger.Error("issue report sequence failed", zap.Error(err))
		return RunResponse{}, err
	}

	now := s.now().UTC()
	run := &ReportRun{
		Seq:         seq,
		Type:        req.Type,
		PeriodStart: from,
		PeriodEnd:   to,
		GeneratedAt: now,
		Status:      StatusQueued,
		Recipients:  strings.Join(req.Recipients, ","),
		Body:        body,
	}
	payload := events.ReportReadyEvent{
		EventType:   events.TypeReportReady,
		ReportType:  req.Type,
		PeriodStart: from.Format(odoo.DateLayout),
		PeriodEnd:   to.Format(odoo.DateLayout),
		Subject:     subject,
		Body:        body,
		Recipients:  req.Recipients,
		OccurredAt:  now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.runs.WithTx(tx).Create(ctx, run); err != nil {
			return err
		}
		return s.enqueue.Enqueue(ctx, tx, events.TypeReportReady, notification.AggregateReport, run.ID.String(), payload)
	})
	if err != nil {
		s.logger.Error("archive report run failed", zap.String("type", req.Type), zap.Error(err))
		return RunResponse{}, err
	}

	s.logger.Info("report queued",
		zap.String("type", req.Type),
		zap.Int64("seq", seq),
		zap.String("run_id", run.ID.String()),
	)
	return mapRunToResponse(*run), nil
}

func (s *service) Runs(ctx context.Context, reportType string, page, pageSize int) ([]RunResponse, int64, error) {
	if reportType != "" && reportType != TypeDaily && reportType != TypeWeekly {
		return nil, 0, reporterrors.ErrInvalidType
	}
	runs, total, err := s.runs.List(ctx, reportType, page, pageSize)
	if err != nil {
		s.logger.Error("list report runs failed", zap.Error(err))
		return nil, 0, err
	}
	resp := make([]RunResponse, len(runs))
	for i, run := range runs {
		resp[i] = mapRunToResponse(run)
	}
	return resp, total, nil
}

func (s *service) Run(ctx context.Context, id string) (RunResponse, error) {
	runID, err := uuid.Parse(id)
	if err != nil {
		return RunResponse{}, reporterrors.ErrInvalidRunID
	}
	run, err := s.runs.GetByID(ctx, runID)
	if err != nil {
		s.logger.Error("load report run failed", zap.String("run_id", id), zap.Error(err))
		return RunResponse{}, err
	}
	if run == nil {
		return RunResponse{}, reporterrors.ErrRunNotFound
	}
	return mapRunToResponse(*run), nil
}

func dailyHighlights(stats TaskStats, att attendance.DailySummaryResponse) []string {
	highlights := []string{}
	if stats.Completed > 0 {
		highlights = append(highlights, fmt.Sprintf("%d task(s) completed", stats.Completed))
	}
	if stats.Overdue > 0 {
		highlights = append(highlights, fmt.Sprintf("%d task(s) overdue need attention", stats.Overdue))
	}
	if att.AttendanceRate >= 90 {
		highlights = append(highlights, fmt.Sprintf("Attendance at %.0f%%", att.AttendanceRate))
	}
	return highlights
}

// topPerformers favors employees carrying the most work without letting
// anything slip past its deadline.
func topPerformers(workloads []employee.WorkloadResponse) []Performer {
	ranked := make([]employee.WorkloadResponse, 0, len(workloads))
	for _, w := range workloads {
		if w.AssignedTasks > 0 {
			ranked = append(ranked, w)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].OverdueTasks != ranked[j].OverdueTasks {
			return ranked[i].OverdueTasks < ranked[j].OverdueTasks
		}
		return ranked[i].AssignedTasks > ranked[j].AssignedTasks
	})
	if len(ranked) > topPerformerCount {
		ranked = ranked[:topPerformerCount]
	}

	performers := make([]Performer, len(ranked))
	for i, w := range ranked {
		performers[i] = Performer{
			EmployeeID:    w.EmployeeID,
			Name:          w.Name,
			AssignedTasks: w.AssignedTasks,
			OverdueTasks:  w.OverdueTasks,
			Utilization:   w.Utilization,
		}
	}
	return performers
}

func mapStats(stats TaskStats) TaskStatsResponse {
	return TaskStatsResponse{
		PeriodStart:    stats.PeriodStart.Format(odoo.DateLayout),
		PeriodEnd:      stats.PeriodEnd.Format(odoo.DateLayout),
		TotalCreated:   stats.TotalCreated,
		Completed:      stats.Completed,
		InProgress:     stats.InProgress,
		Overdue:        stats.Overdue,
		OnTime:         stats.OnTime,
		CompletionRate: stats.CompletionRate,
		OnTimeRate:     stats.OnTimeRate,
	}
}

func mapRunToResponse(run ReportRun) RunResponse {
	recipients := []string{}
	if run.Recipients != "" {
		recipients = strings.Split(run.Recipients, ",")
	}
	return RunResponse{
		ID:          run.ID.String(),
		Seq:         run.Seq,
		Type:        run.Type,
		PeriodStart: run.PeriodStart.Format(odoo.DateLayout),
		PeriodEnd:   run.PeriodEnd.Format(odoo.DateLayout),
		GeneratedAt: run.GeneratedAt.UTC().Format(time.RFC3339),
		Status:      run.Status,
		Recipients:  recipients,
		Body:        run.Body,
	}
}

func mondayOf(t time.Time) time.Time {
	day := dayOf(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
