package distribution

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	distributionerrors "github.com/Muhannad-Khaled/Ailigent/internal/distribution/errors"
	"github.com/Muhannad-Khaled/Ailigent/internal/employee"
	"github.com/Muhannad-Khaled/Ailigent/internal/task"
)

const (
	// BottleneckRatio is the share of open tasks a single stage may hold
	// before it counts as congested.
	BottleneckRatio = 0.30
	// HighRatio upgrades a bottleneck to high severity.
	HighRatio = 0.45
	// HighOverdueShare upgrades a bottleneck when this share of its tasks
	// is past deadline.
	HighOverdueShare = 0.25
	// BlockedRatioAlert flags the board when this share of open tasks sits
	// in a blocked kanban state.
	BlockedRatioAlert = 0.10

	SeverityNone   = "none"
	SeverityMedium = "medium"
	SeverityHigh   = "high"

	// rebalanceGap is the utilization spread, in percentage points, above
	// which a transfer between two employees is worth suggesting.
	rebalanceGap            = 20.0
	maxRebalanceSuggestions = 5

	// projectedCeiling is the utilization an assignment suggestion tries
	// to keep the receiving employee under.
	projectedCeiling = 80.0
	candidateLimit   = 10

	defaultSnapshotDays = 7
)

//go:generate mockgen -source=distribution_service.go -destination=mock/distribution_service_mock.go -package=mock
type Service interface {
	AnalyzeBottlenecks(ctx context.Context) (BottleneckReport, error)
	StageMetrics(ctx context.Context) ([]StageMetric, error)
	WorkloadBalance(ctx context.Context) (BalanceReport, error)
	RebalanceSuggestions(ctx context.Context) ([]RebalanceSuggestion, error)
	SuggestAssignee(ctx context.Context, taskID int64) (AssignmentSuggestion, error)
	Alerts(ctx context.Context, page, pageSize int) ([]AlertResponse, int64, error)
	Snapshots(ctx context.Context, days, page, pageSize int) ([]SnapshotResponse, int64, error)
}

type service struct {
	tasks     task.Repository
	employees employee.Service
	store     Repository
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(tasks task.Repository, employees employee.Service, store Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("distribution.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("distribution.service")
	}
	return &service{tasks: tasks, employees: employees, store: store, logger: l, now: time.Now}
}

func (s *service) AnalyzeBottlenecks(ctx context.Context) (BottleneckReport, error) {
	now := s.now().UTC()
	report := BottleneckReport{
		GeneratedAt:     now.Format(time.RFC3339),
		Stages:          []StageMetric{},
		Bottlenecks:     []StageMetric{},
		Severity:        SeverityNone,
		Recommendations: []string{},
	}

	metrics, open, err := s.collectStageMetrics(ctx, now)
	if err != nil {
		return BottleneckReport{}, err
	}
	report.OpenTasks = len(open)
	report.Stages = metrics
	if len(open) == 0 {
		s.persistAlerts(ctx, now, nil)
		return report, nil
	}

	blocked := 0
	for _, t := range open {
		if t.Blocked() {
			blocked++
		}
	}

	for _, m := range metrics {
		if !m.IsBottleneck {
			continue
		}
		report.Bottlenecks = append(report.Bottlenecks, m)
		severity := bottleneckSeverity(m)
		if severity == SeverityHigh || report.Severity == SeverityNone {
			report.Severity = severity
		}
		report.Recommendations = append(report.Recommendations, fmt.Sprintf(
			"Stage %q holds %.0f%% of open tasks, consider redistributing or adding reviewers",
			m.StageName, m.Ratio*100))
		if m.TaskCount > 0 && float64(m.OverdueCount)/float64(m.TaskCount) > HighOverdueShare {
			report.Recommendations = append(report.Recommendations, fmt.Sprintf(
				"%d of %d tasks in %q are overdue, prioritize clearing them",
				m.OverdueCount, m.TaskCount, m.StageName))
		}
	}

	if blockedRatio := float64(blocked) / float64(len(open)); blockedRatio > BlockedRatioAlert {
		report.Recommendations = append(report.Recommendations, fmt.Sprintf(
			"%d open tasks (%.0f%%) are blocked, review their blockers",
			blocked, blockedRatio*100))
	}

	s.persistAlerts(ctx, now, report.Bottlenecks)
	return report, nil
}

func (s *service) StageMetrics(ctx context.Context) ([]StageMetric, error) {
	metrics, _, err := s.collectStageMetrics(ctx, s.now().UTC())
	return metrics, err
}

// collectStageMetrics measures every non-terminal stage against the open
// task population.
func (s *service) collectStageMetrics(ctx context.Context, now time.Time) ([]StageMetric, []task.Task, error) {
	stages, err := s.tasks.Stages(ctx)
	if err != nil {
		s.logger.Error("list stages failed", zap.Error(err))
		return nil, nil, err
	}
	open, err := s.tasks.List(ctx, task.Filter{OpenOnly: true})
	if err != nil {
		s.logger.Error("list open tasks failed", zap.Error(err))
		return nil, nil, err
	}

	byStage := make(map[int64][]task.Task, len(stages))
	for _, t := range open {
		byStage[t.Stage.ID] = append(byStage[t.Stage.ID], t)
	}

	metrics := make([]StageMetric, 0, len(stages))
	for _, st := range stages {
		if st.Fold {
			continue
		}
		m := StageMetric{StageID: st.ID, StageName: st.Name}
		for _, t := range byStage[st.ID] {
			m.TaskCount++
			if t.OverdueAt(now) {
				m.OverdueCount++
			}
			if t.Blocked() {
				m.BlockedCount++
			}
			if !t.CreatedAt.IsZero() {
				m.AvgDaysInStage += now.Sub(t.CreatedAt).Hours() / 24
			}
		}
		if m.TaskCount > 0 {
			m.AvgDaysInStage = math.Round(m.AvgDaysInStage/float64(m.TaskCount)*10) / 10
		}
		if len(open) > 0 {
			m.Ratio = math.Round(float64(m.TaskCount)/float64(len(open))*100) / 100
		}
		m.IsBottleneck = m.Ratio > BottleneckRatio
		metrics = append(metrics, m)
	}
	return metrics, open, nil
}

func bottleneckSeverity(m StageMetric) string {
	if m.Ratio > HighRatio {
		return SeverityHigh
	}
	if m.TaskCount > 0 && float64(m.OverdueCount)/float64(m.TaskCount) > HighOverdueShare {
		return SeverityHigh
	}
	return SeverityMedium
}

// persistAlerts records the current bottleneck set and resolves alerts for
// stages that recovered. Storage trouble is logged, never surfaced, so the
// analysis itself keeps working without Postgres.
func (s *service) persistAlerts(ctx context.Context, now time.Time, bottlenecks []StageMetric) {
	active := make([]int64, 0, len(bottlenecks))
	for _, m := range bottlenecks {
		active = append(active, m.StageID)
		alert := &BottleneckAlert{
			DetectedAt: now,
			StageID:    m.StageID,
			StageName:  m.StageName,
			Ratio:      m.Ratio,
			Severity:   bottleneckSeverity(m),
		}
		if err := s.store.UpsertAlert(ctx, alert); err != nil {
			s.logger.Warn("persist bottleneck alert failed",
				zap.Int64("stage_id", m.StageID), zap.Error(err))
		}
	}
	if err := s.store.ResolveStale(ctx, active); err != nil {
		s.logger.Warn("resolve stale alerts failed", zap.Error(err))
	}
}

func (s *service) WorkloadBalance(ctx context.Context) (BalanceReport, error) {
	now := s.now().UTC()
	workloads, err := s.employees.TeamSummary(ctx, 0)
	if err != nil {
		s.logger.Error("team summary failed", zap.Error(err))
		return BalanceReport{}, err
	}

	report := BalanceReport{
		GeneratedAt:   now.Format(time.RFC3339),
		Workloads:     workloads,
		BalanceScore:  balanceScore(workloads),
		Overloaded:    []employee.WorkloadResponse{},
		Underutilized: []employee.WorkloadResponse{},
		Suggestions:   rebalance(workloads),
	}
	for _, w := range workloads {
		switch w.Status {
		case employee.StatusOverloaded:
			report.Overloaded = append(report.Overloaded, w)
		case employee.StatusUnderutilized:
			report.Underutilized = append(report.Underutilized, w)
		}
	}

	s.persistSnapshots(ctx, now, workloads)
	return report, nil
}

func (s *service) RebalanceSuggestions(ctx context.Context) ([]RebalanceSuggestion, error) {
	workloads, err := s.employees.TeamSummary(ctx, 0)
	if err != nil {
		s.logger.Error("team summary failed", zap.Error(err))
		return nil, err
	}
	return rebalance(workloads), nil
}

func (s *service) persistSnapshots(ctx context.Context, now time.Time, workloads []employee.WorkloadResponse) {
	snapshots := make([]WorkloadSnapshot, len(workloads))
	for i, w := range workloads {
		snapshots[i] = WorkloadSnapshot{
			TakenAt:      now,
			EmployeeID:   w.EmployeeID,
			EmployeeName: w.Name,
			Utilization:  w.Utilization,
			Status:       w.Status,
		}
	}
	if err := s.store.SaveSnapshots(ctx, snapshots); err != nil {
		s.logger.Warn("persist workload snapshots failed", zap.Error(err))
	}
}

// balanceScore turns the spread of utilizations into a 0..100 number where
// 100 means everyone carries the same load. Variance is taken over
// utilization percentage points.
func balanceScore(workloads []employee.WorkloadResponse) float64 {
	if len(workloads) == 0 {
		return 100
	}
	mean := 0.0
	for _, w := range workloads {
		mean += w.Utilization
	}
	mean /= float64(len(workloads))

	variance := 0.0
	for _, w := range workloads {
		d := w.Utilization - mean
		variance += d * d
	}
	variance /= float64(len(workloads))

	score := 100 - variance
	if score < 0 {
		score = 0
	}
	return math.Round(score*100) / 100
}

type rebalanceState struct {
	id        int64
	name      string
	util      float64
	remaining float64
}

// rebalance pairs the most loaded employee with the least loaded one and
// moves half the gap, repeating on the simulated result until the spread
// falls inside rebalanceGap.
func rebalance(workloads []employee.WorkloadResponse) []RebalanceSuggestion {
	suggestions := []RebalanceSuggestion{}
	if len(workloads) < 2 {
		return suggestions
	}

	sims := make([]rebalanceState, len(workloads))
	for i, w := range workloads {
		sims[i] = rebalanceState{id: w.EmployeeID, name: w.Name, util: w.Utilization, remaining: w.TotalRemainingHours}
	}

	for len(suggestions) < maxRebalanceSuggestions {
		sort.SliceStable(sims, func(i, j int) bool { return sims[i].util > sims[j].util })
		from := &sims[0]
		to := &sims[len(sims)-1]
		gap := from.util - to.util
		if gap <= rebalanceGap {
			break
		}

		gapHours := gap / 100 * employee.WeeklyCapacity
		transfer := math.Round(gapHours / 2)
		if transfer > from.remaining {
			transfer = from.remaining
		}
		if transfer <= 0 {
			break
		}

		suggestions = append(suggestions, RebalanceSuggestion{
			FromEmployeeID:  from.id,
			FromEmployee:    from.name,
			ToEmployeeID:    to.id,
			ToEmployee:      to.name,
			HoursToTransfer: transfer,
			Reason:          fmt.Sprintf("utilization gap of %.0f points", gap),
		})

		from.remaining -= transfer
		from.util = employee.Utilization(from.remaining, employee.WeeklyCapacity)
		to.remaining += transfer
		to.util = employee.Utilization(to.remaining, employee.WeeklyCapacity)
	}
	return suggestions
}

func (s *service) SuggestAssignee(ctx context.Context, taskID int64) (AssignmentSuggestion, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		s.logger.Error("load task failed", zap.Int64("task_id", taskID), zap.Error(err))
		return AssignmentSuggestion{}, err
	}
	if t == nil {
		return AssignmentSuggestion{}, distributionerrors.ErrTaskNotFound
	}

	hours := t.RemainingHours
	if hours <= 0 {
		hours = t.PlannedHours
	}

	workloads, err := s.employees.AvailableAssignees(ctx, candidateLimit)
	if err != nil {
		s.logger.Error("list assignees failed", zap.Error(err))
		return AssignmentSuggestion{}, err
	}
	if len(workloads) == 0 {
		return AssignmentSuggestion{}, distributionerrors.ErrNoCandidates
	}

	suggestion := AssignmentSuggestion{
		TaskID:     t.ID,
		TaskName:   t.Name,
		Hours:      hours,
		Candidates: make([]AssignmentCandidate, len(workloads)),
	}
	for i, w := range workloads {
		c := AssignmentCandidate{
			EmployeeID:           w.EmployeeID,
			Name:                 w.Name,
			Utilization:          w.Utilization,
			ProjectedUtilization: employee.Utilization(w.TotalRemainingHours+hours, w.WeeklyCapacity),
		}
		suggestion.Candidates[i] = c
		if suggestion.Best == nil && c.ProjectedUtilization < projectedCeiling {
			best := c
			suggestion.Best = &best
		}
	}
	// Everyone would tip past the ceiling, so the least busy absorbs it.
	if suggestion.Best == nil {
		best := suggestion.Candidates[0]
		suggestion.Best = &best
	}
	return suggestion, nil
}

func (s *service) Alerts(ctx context.Context, page, pageSize int) ([]AlertResponse, int64, error) {
	alerts, total, err := s.store.ListAlerts(ctx, page, pageSize)
	if err != nil {
		s.logger.Error("list alerts failed", zap.Error(err))
		return nil, 0, err
	}
	resp := make([]AlertResponse, len(alerts))
	for i, a := range alerts {
		resp[i] = AlertResponse{
			ID:         a.ID.String(),
			DetectedAt: a.DetectedAt.UTC().Format(time.RFC3339),
			StageID:    a.StageID,
			StageName:  a.StageName,
			Ratio:      a.Ratio,
			Severity:   a.Severity,
			Resolved:   a.Resolved,
		}
	}
	return resp, total, nil
}

func (s *service) Snapshots(ctx context.Context, days, page, pageSize int) ([]SnapshotResponse, int64, error) {
	if days <= 0 {
		days = defaultSnapshotDays
	}
	since := s.now().UTC().AddDate(0, 0, -days)
	snapshots, total, err := s.store.ListSnapshots(ctx, since, page, pageSize)
	if err != nil {
		s.logger.Error("list snapshots failed", zap.Error(err))
		return nil, 0, err
	}
	resp := make([]SnapshotResponse, len(snapshots))
	for i, sn := range snapshots {
		resp[i] = SnapshotResponse{
			ID:           sn.ID.String(),
			TakenAt:      sn.TakenAt.UTC().Format(time.RFC3339),
			EmployeeID:   sn.EmployeeID,
			EmployeeName: sn.EmployeeName,
			Utilization:  sn.Utilization,
			Status:       sn.Status,
		}
	}
	return resp, total, nil
}
