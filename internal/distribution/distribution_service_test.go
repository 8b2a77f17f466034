package distribution_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muhannad-Khaled/Ailigent/internal/distribution"
	distributionerrors "github.com/Muhannad-Khaled/Ailigent/internal/distribution/errors"
	"github.com/Muhannad-Khaled/Ailigent/internal/employee"
	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
	"github.com/Muhannad-Khaled/Ailigent/internal/task"
)

type fakeTaskRepository struct {
	listFn      func(ctx context.Context, f task.Filter) ([]task.Task, error)
	getByIDFn   func(ctx context.Context, id int64) (*task.Task, error)
	stagesFn    func(ctx context.Context) ([]task.Stage, error)
	userNamesFn func(ctx context.Context, ids []int64) (map[int64]string, error)
}

func (f *fakeTaskRepository) List(ctx context.Context, filter task.Filter) ([]task.Task, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeTaskRepository) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeTaskRepository) Create(ctx context.Context, values map[string]any) (int64, error) {
	return 0, nil
}

func (f *fakeTaskRepository) Update(ctx context.Context, id int64, values map[string]any) error {
	return nil
}

func (f *fakeTaskRepository) Stages(ctx context.Context) ([]task.Stage, error) {
	if f.stagesFn != nil {
		return f.stagesFn(ctx)
	}
	return nil, nil
}

func (f *fakeTaskRepository) UserNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	if f.userNamesFn != nil {
		return f.userNamesFn(ctx, ids)
	}
	return nil, nil
}

type fakeEmployeeService struct {
	teamSummaryFn        func(ctx context.Context, departmentID int64) ([]employee.WorkloadResponse, error)
	availableAssigneesFn func(ctx context.Context, limit int) ([]employee.WorkloadResponse, error)
}

func (f *fakeEmployeeService) List(ctx context.Context, q employee.ListEmployeesQuery) ([]employee.EmployeeResponse, error) {
	return nil, nil
}

func (f *fakeEmployeeService) GetByID(ctx context.Context, id int64) (employee.EmployeeResponse, error) {
	return employee.EmployeeResponse{}, nil
}

func (f *fakeEmployeeService) FindByEmail(ctx context.Context, email string) (employee.EmployeeResponse, error) {
	return employee.EmployeeResponse{}, nil
}

func (f *fakeEmployeeService) Workload(ctx context.Context, employeeID int64) (employee.WorkloadResponse, error) {
	return employee.WorkloadResponse{}, nil
}

func (f *fakeEmployeeService) TeamSummary(ctx context.Context, departmentID int64) ([]employee.WorkloadResponse, error) {
	if f.teamSummaryFn != nil {
		return f.teamSummaryFn(ctx, departmentID)
	}
	return nil, nil
}

func (f *fakeEmployeeService) AvailableAssignees(ctx context.Context, limit int) ([]employee.WorkloadResponse, error) {
	if f.availableAssigneesFn != nil {
		return f.availableAssigneesFn(ctx, limit)
	}
	return nil, nil
}

func (f *fakeEmployeeService) Departments(ctx context.Context) ([]employee.DepartmentResponse, error) {
	return nil, nil
}

type fakeStore struct {
	saveSnapshotsFn func(ctx context.Context, snapshots []distribution.WorkloadSnapshot) error
	upsertAlertFn   func(ctx context.Context, alert *distribution.BottleneckAlert) error
	resolveStaleFn  func(ctx context.Context, activeStageIDs []int64) error
	listAlertsFn    func(ctx context.Context, page, pageSize int) ([]distribution.BottleneckAlert, int64, error)
	listSnapshotsFn func(ctx context.Context, since time.Time, page, pageSize int) ([]distribution.WorkloadSnapshot, int64, error)
}

func (f *fakeStore) SaveSnapshots(ctx context.Context, snapshots []distribution.WorkloadSnapshot) error {
	if f.saveSnapshotsFn != nil {
		return f.saveSnapshotsFn(ctx, snapshots)
	}
	return nil
}

func (f *fakeStore) UpsertAlert(ctx context.Context, alert *distribution.BottleneckAlert) error {
	if f.upsertAlertFn != nil {
		return f.upsertAlertFn(ctx, alert)
	}
	return nil
}

func (f *fakeStore) ResolveStale(ctx context.Context, activeStageIDs []int64) error {
	if f.resolveStaleFn != nil {
		return f.resolveStaleFn(ctx, activeStageIDs)
	}
	return nil
}

func (f *fakeStore) ListAlerts(ctx context.Context, page, pageSize int) ([]distribution.BottleneckAlert, int64, error) {
	if f.listAlertsFn != nil {
		return f.listAlertsFn(ctx, page, pageSize)
	}
	return nil, 0, nil
}

func (f *fakeStore) ListSnapshots(ctx context.Context, since time.Time, page, pageSize int) ([]distribution.WorkloadSnapshot, int64, error) {
	if f.listSnapshotsFn != nil {
		return f.listSnapshotsFn(ctx, since, page, pageSize)
	}
	return nil, 0, nil
}

func openTask(stageID int64, blocked, overdue bool) task.Task {
	t := task.Task{
		Stage:     odoo.Many2One{ID: stageID},
		CreatedAt: time.Now().UTC().Add(-48 * time.Hour),
	}
	if blocked {
		t.KanbanState = "blocked"
	}
	if overdue {
		t.Deadline = time.Now().UTC().Add(-24 * time.Hour)
	}
	return t
}

func TestDistributionService_AnalyzeBottlenecks(t *testing.T) {
	ctx := context.Background()
	stages := []task.Stage{
		{ID: 1, Name: "New", Sequence: 1},
		{ID: 2, Name: "In Progress", Sequence: 2},
		{ID: 3, Name: "Review", Sequence: 3},
		{ID: 4, Name: "Done", Sequence: 4, Fold: true},
	}

	t.Run("flags congested stage and persists alert", func(t *testing.T) {
		tasks := &fakeTaskRepository{}
		store := &fakeStore{}
		svc := distribution.NewService(tasks, &fakeEmployeeService{}, store)

		tasks.stagesFn = func(ctx context.Context) ([]task.Stage, error) { return stages, nil }
		tasks.listFn = func(ctx context.Context, f task.Filter) ([]task.Task, error) {
			assert.True(t, f.OpenOnly)
			open := []task.Task{
				openTask(1, false, false), openTask(1, false, false), openTask(1, false, false),
				openTask(2, true, true), openTask(2, true, false), openTask(2, false, false),
				openTask(2, false, false), openTask(2, false, false),
				openTask(3, false, false), openTask(3, false, false),
			}
			return open, nil
		}

		var upserted []distribution.BottleneckAlert
		store.upsertAlertFn = func(ctx context.Context, alert *distribution.BottleneckAlert) error {
			upserted = append(upserted, *alert)
			return nil
		}
		var resolvedActive []int64
		store.resolveStaleFn = func(ctx context.Context, activeStageIDs []int64) error {
			resolvedActive = activeStageIDs
			return nil
		}

		report, err := svc.AnalyzeBottlenecks(ctx)
		require.NoError(t, err)

		assert.Equal(t, 10, report.OpenTasks)
		assert.Len(t, report.Stages, 3, "folded stages are excluded")
		require.Len(t, report.Bottlenecks, 1)

		hot := report.Bottlenecks[0]
		assert.Equal(t, int64(2), hot.StageID)
		assert.Equal(t, 5, hot.TaskCount)
		assert.InDelta(t, 0.5, hot.Ratio, 0.001)
		assert.Equal(t, 1, hot.OverdueCount)
		assert.Equal(t, 2, hot.BlockedCount)
		assert.True(t, hot.IsBottleneck)
		assert.InDelta(t, 2.0, hot.AvgDaysInStage, 0.11)

		assert.Equal(t, distribution.SeverityHigh, report.Severity)
		assert.Len(t, report.Recommendations, 2, "stage congestion plus blocked tasks")

		require.Len(t, upserted, 1)
		assert.Equal(t, int64(2), upserted[0].StageID)
		assert.Equal(t, distribution.SeverityHigh, upserted[0].Severity)
		assert.Equal(t, []int64{2}, resolvedActive)
	})

	t.Run("overdue share raises severity", func(t *testing.T) {
		tasks := &fakeTaskRepository{}
		svc := distribution.NewService(tasks, &fakeEmployeeService{}, &fakeStore{})

		tasks.stagesFn = func(ctx context.Context) ([]task.Stage, error) { return stages, nil }
		tasks.listFn = func(ctx context.Context, f task.Filter) ([]task.Task, error) {
			open := []task.Task{
				openTask(1, false, true), openTask(1, false, true), openTask(1, false, false),
				openTask(1, false, false),
				openTask(2, false, false), openTask(2, false, false), openTask(2, false, false),
				openTask(3, false, false), openTask(3, false, false), openTask(3, false, false),
			}
			return open, nil
		}

		report, err := svc.AnalyzeBottlenecks(ctx)
		require.NoError(t, err)

		require.Len(t, report.Bottlenecks, 1)
		assert.Equal(t, int64(1), report.Bottlenecks[0].StageID)
		assert.InDelta(t, 0.4, report.Bottlenecks[0].Ratio, 0.001)
		assert.Equal(t, distribution.SeverityHigh, report.Severity, "half the stage is overdue")
	})

	t.Run("no open tasks yields empty report", func(t *testing.T) {
		tasks := &fakeTaskRepository{}
		store := &fakeStore{}
		svc := distribution.NewService(tasks, &fakeEmployeeService{}, store)

		tasks.stagesFn = func(ctx context.Context) ([]task.Stage, error) { return stages, nil }
		tasks.listFn = func(ctx context.Context, f task.Filter) ([]task.Task, error) { return nil, nil }

		upserts := 0
		store.upsertAlertFn = func(ctx context.Context, alert *distribution.BottleneckAlert) error {
			upserts++
			return nil
		}
		var resolvedActive []int64
		resolveCalled := false
		store.resolveStaleFn = func(ctx context.Context, activeStageIDs []int64) error {
			resolveCalled = true
			resolvedActive = activeStageIDs
			return nil
		}

		report, err := svc.AnalyzeBottlenecks(ctx)
		require.NoError(t, err)

		assert.Equal(t, 0, report.OpenTasks)
		assert.Empty(t, report.Bottlenecks)
		assert.Equal(t, distribution.SeverityNone, report.Severity)
		assert.Empty(t, report.Recommendations)
		assert.Equal(t, 0, upserts)
		assert.True(t, resolveCalled, "recovered board resolves lingering alerts")
		assert.Empty(t, resolvedActive)
	})
}

func workload(id int64, name string, utilization, remaining float64) employee.WorkloadResponse {
	return employee.WorkloadResponse{
		EmployeeID:          id,
		Name:                name,
		TotalRemainingHours: remaining,
		WeeklyCapacity:      employee.WeeklyCapacity,
		Utilization:         utilization,
		Status:              employee.WorkloadStatus(utilization),
	}
}

func TestDistributionService_WorkloadBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("scores spread and buckets statuses", func(t *testing.T) {
		employees := &fakeEmployeeService{}
		store := &fakeStore{}
		svc := distribution.NewService(&fakeTaskRepository{}, employees, store)

		employees.teamSummaryFn = func(ctx context.Context, departmentID int64) ([]employee.WorkloadResponse, error) {
			assert.Zero(t, departmentID, "balance looks at the whole company")
			return []employee.WorkloadResponse{
				workload(1, "Amira", 85, 34),
				workload(2, "Omar", 65, 26),
				workload(3, "Lina", 45, 18),
			}, nil
		}

		var saved []distribution.WorkloadSnapshot
		store.saveSnapshotsFn = func(ctx context.Context, snapshots []distribution.WorkloadSnapshot) error {
			saved = snapshots
			return nil
		}

		report, err := svc.WorkloadBalance(ctx)
		require.NoError(t, err)

		// mean 65, variance (400+0+400)/3 = 266.67, floored at zero
		assert.Equal(t, 0.0, report.BalanceScore)
		require.Len(t, report.Overloaded, 1)
		assert.Equal(t, "Amira", report.Overloaded[0].Name)
		require.Len(t, report.Underutilized, 1)
		assert.Equal(t, "Lina", report.Underutilized[0].Name)

		require.Len(t, report.Suggestions, 1)
		s := report.Suggestions[0]
		assert.Equal(t, "Amira", s.FromEmployee)
		assert.Equal(t, "Lina", s.ToEmployee)
		assert.Equal(t, 8.0, s.HoursToTransfer, "half of the 40-point gap in hours")

		require.Len(t, saved, 3)
		assert.Equal(t, int64(1), saved[0].EmployeeID)
		assert.Equal(t, employee.StatusOverloaded, saved[0].Status)
		assert.False(t, saved[0].TakenAt.IsZero())
	})

	t.Run("tight spread scores high", func(t *testing.T) {
		employees := &fakeEmployeeService{}
		svc := distribution.NewService(&fakeTaskRepository{}, employees, &fakeStore{})

		employees.teamSummaryFn = func(ctx context.Context, departmentID int64) ([]employee.WorkloadResponse, error) {
			return []employee.WorkloadResponse{
				workload(1, "Amira", 70, 28),
				workload(2, "Omar", 62, 24.8),
				workload(3, "Lina", 60, 24),
			}, nil
		}

		report, err := svc.WorkloadBalance(ctx)
		require.NoError(t, err)

		// mean 64, variance (36+4+16)/3 = 18.67
		assert.InDelta(t, 81.33, report.BalanceScore, 0.01)
		assert.Empty(t, report.Overloaded)
		assert.Empty(t, report.Underutilized)
		assert.Empty(t, report.Suggestions)
	})

	t.Run("empty team scores a hundred", func(t *testing.T) {
		employees := &fakeEmployeeService{}
		svc := distribution.NewService(&fakeTaskRepository{}, employees, &fakeStore{})

		employees.teamSummaryFn = func(ctx context.Context, departmentID int64) ([]employee.WorkloadResponse, error) {
			return []employee.WorkloadResponse{}, nil
		}

		report, err := svc.WorkloadBalance(ctx)
		require.NoError(t, err)
		assert.Equal(t, 100.0, report.BalanceScore)
		assert.Empty(t, report.Suggestions)
	})

	t.Run("snapshot store failure does not fail the report", func(t *testing.T) {
		employees := &fakeEmployeeService{}
		store := &fakeStore{}
		svc := distribution.NewService(&fakeTaskRepository{}, employees, store)

		employees.teamSummaryFn = func(ctx context.Context, departmentID int64) ([]employee.WorkloadResponse, error) {
			return []employee.WorkloadResponse{workload(1, "Amira", 70, 28)}, nil
		}
		store.saveSnapshotsFn = func(ctx context.Context, snapshots []distribution.WorkloadSnapshot) error {
			return assert.AnError
		}

		report, err := svc.WorkloadBalance(ctx)
		require.NoError(t, err)
		assert.Len(t, report.Workloads, 1)
	})
}

func TestDistributionService_RebalanceSuggestions(t *testing.T) {
	ctx := context.Background()

	t.Run("transfers half the gap until spread closes", func(t *testing.T) {
		employees := &fakeEmployeeService{}
		svc := distribution.NewService(&fakeTaskRepository{}, employees, &fakeStore{})

		employees.teamSummaryFn = func(ctx context.Context, departmentID int64) ([]employee.WorkloadResponse, error) {
			return []employee.WorkloadResponse{
				workload(1, "Amira", 90, 36),
				workload(2, "Omar", 10, 4),
			}, nil
		}

		suggestions, err := svc.RebalanceSuggestions(ctx)
		require.NoError(t, err)

		require.Len(t, suggestions, 1)
		assert.Equal(t, int64(1), suggestions[0].FromEmployeeID)
		assert.Equal(t, int64(2), suggestions[0].ToEmployeeID)
		assert.Equal(t, 16.0, suggestions[0].HoursToTransfer)
		assert.Contains(t, suggestions[0].Reason, "80 points")
	})

	t.Run("spread inside threshold suggests nothing", func(t *testing.T) {
		employees := &fakeEmployeeService{}
		svc := distribution.NewService(&fakeTaskRepository{}, employees, &fakeStore{})

		employees.teamSummaryFn = func(ctx context.Context, departmentID int64) ([]employee.WorkloadResponse, error) {
			return []employee.WorkloadResponse{
				workload(1, "Amira", 60, 24),
				workload(2, "Omar", 45, 18),
			}, nil
		}

		suggestions, err := svc.RebalanceSuggestions(ctx)
		require.NoError(t, err)
		assert.Empty(t, suggestions)
	})

	t.Run("single employee suggests nothing", func(t *testing.T) {
		employees := &fakeEmployeeService{}
		svc := distribution.NewService(&fakeTaskRepository{}, employees, &fakeStore{})

		employees.teamSummaryFn = func(ctx context.Context, departmentID int64) ([]employee.WorkloadResponse, error) {
			return []employee.WorkloadResponse{workload(1, "Amira", 95, 38)}, nil
		}

		suggestions, err := svc.RebalanceSuggestions(ctx)
		require.NoError(t, err)
		assert.Empty(t, suggestions)
	})
}

func TestDistributionService_SuggestAssignee(t *testing.T) {
	ctx := context.Background()

	t.Run("picks least busy candidate under the ceiling", func(t *testing.T) {
		tasks := &fakeTaskRepository{}
		employees := &fakeEmployeeService{}
		svc := distribution.NewService(tasks, employees, &fakeStore{})

		tasks.getByIDFn = func(ctx context.Context, id int64) (*task.Task, error) {
			assert.Equal(t, int64(5), id)
			return &task.Task{ID: 5, Name: "Fix login timeout", RemainingHours: 8}, nil
		}
		employees.availableAssigneesFn = func(ctx context.Context, limit int) ([]employee.WorkloadResponse, error) {
			assert.Equal(t, 10, limit)
			return []employee.WorkloadResponse{
				workload(2, "Omar", 20, 8),
				workload(3, "Lina", 70, 28),
			}, nil
		}

		suggestion, err := svc.SuggestAssignee(ctx, 5)
		require.NoError(t, err)

		assert.Equal(t, int64(5), suggestion.TaskID)
		assert.Equal(t, 8.0, suggestion.Hours)
		require.Len(t, suggestion.Candidates, 2)
		assert.InDelta(t, 40.0, suggestion.Candidates[0].ProjectedUtilization, 0.01)
		assert.InDelta(t, 90.0, suggestion.Candidates[1].ProjectedUtilization, 0.01)
		require.NotNil(t, suggestion.Best)
		assert.Equal(t, int64(2), suggestion.Best.EmployeeID)
	})

	t.Run("everyone over the ceiling falls back to least busy", func(t *testing.T) {
		tasks := &fakeTaskRepository{}
		employees := &fakeEmployeeService{}
		svc := distribution.NewService(tasks, employees, &fakeStore{})

		tasks.getByIDFn = func(ctx context.Context, id int64) (*task.Task, error) {
			return &task.Task{ID: 9, Name: "Migrate database", RemainingHours: 20}, nil
		}
		employees.availableAssigneesFn = func(ctx context.Context, limit int) ([]employee.WorkloadResponse, error) {
			return []employee.WorkloadResponse{
				workload(2, "Omar", 70, 28),
				workload(3, "Lina", 75, 30),
			}, nil
		}

		suggestion, err := svc.SuggestAssignee(ctx, 9)
		require.NoError(t, err)
		require.NotNil(t, suggestion.Best)
		assert.Equal(t, int64(2), suggestion.Best.EmployeeID)
		assert.InDelta(t, 120.0, suggestion.Best.ProjectedUtilization, 0.01)
	})

	t.Run("zero remaining falls back to planned hours", func(t *testing.T) {
		tasks := &fakeTaskRepository{}
		employees := &fakeEmployeeService{}
		svc := distribution.NewService(tasks, employees, &fakeStore{})

		tasks.getByIDFn = func(ctx context.Context, id int64) (*task.Task, error) {
			return &task.Task{ID: 7, Name: "Draft rollout plan", PlannedHours: 12}, nil
		}
		employees.availableAssigneesFn = func(ctx context.Context, limit int) ([]employee.WorkloadResponse, error) {
			return []employee.WorkloadResponse{workload(2, "Omar", 10, 4)}, nil
		}

		suggestion, err := svc.SuggestAssignee(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, 12.0, suggestion.Hours)
		assert.InDelta(t, 40.0, suggestion.Candidates[0].ProjectedUtilization, 0.01)
	})

	t.Run("missing task maps to not found", func(t *testing.T) {
		tasks := &fakeTaskRepository{}
		svc := distribution.NewService(tasks, &fakeEmployeeService{}, &fakeStore{})

		tasks.getByIDFn = func(ctx context.Context, id int64) (*task.Task, error) { return nil, nil }

		_, err := svc.SuggestAssignee(ctx, 404)
		assert.ErrorIs(t, err, distributionerrors.ErrTaskNotFound)
	})

	t.Run("no candidates is a conflict", func(t *testing.T) {
		tasks := &fakeTaskRepository{}
		employees := &fakeEmployeeService{}
		svc := distribution.NewService(tasks, employees, &fakeStore{})

		tasks.getByIDFn = func(ctx context.Context, id int64) (*task.Task, error) {
			return &task.Task{ID: 5, Name: "Fix login timeout", RemainingHours: 8}, nil
		}
		employees.availableAssigneesFn = func(ctx context.Context, limit int) ([]employee.WorkloadResponse, error) {
			return nil, nil
		}

		_, err := svc.SuggestAssignee(ctx, 5)
		assert.ErrorIs(t, err, distributionerrors.ErrNoCandidates)
	})
}

func TestDistributionService_History(t *testing.T) {
	ctx := context.Background()

	t.Run("alerts map and forward pagination", func(t *testing.T) {
		store := &fakeStore{}
		svc := distribution.NewService(&fakeTaskRepository{}, &fakeEmployeeService{}, store)

		detected := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
		store.listAlertsFn = func(ctx context.Context, page, pageSize int) ([]distribution.BottleneckAlert, int64, error) {
			assert.Equal(t, 2, page)
			assert.Equal(t, 5, pageSize)
			return []distribution.BottleneckAlert{{
				DetectedAt: detected,
				StageID:    2,
				StageName:  "In Progress",
				Ratio:      0.52,
				Severity:   distribution.SeverityHigh,
			}}, 7, nil
		}

		alerts, total, err := svc.Alerts(ctx, 2, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(7), total)
		require.Len(t, alerts, 1)
		assert.Equal(t, "2026-08-20T09:30:00Z", alerts[0].DetectedAt)
		assert.Equal(t, "In Progress", alerts[0].StageName)
		assert.False(t, alerts[0].Resolved)
	})

	t.Run("snapshots default the window to a week", func(t *testing.T) {
		store := &fakeStore{}
		svc := distribution.NewService(&fakeTaskRepository{}, &fakeEmployeeService{}, store)

		var gotSince time.Time
		store.listSnapshotsFn = func(ctx context.Context, since time.Time, page, pageSize int) ([]distribution.WorkloadSnapshot, int64, error) {
			gotSince = since
			return []distribution.WorkloadSnapshot{{
				TakenAt:      time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC),
				EmployeeID:   3,
				EmployeeName: "Lina",
				Utilization:  45,
				Status:       employee.StatusUnderutilized,
			}}, 1, nil
		}

		snapshots, total, err := svc.Snapshots(ctx, 0, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, snapshots, 1)
		assert.Equal(t, "2026-08-24T08:00:00Z", snapshots[0].TakenAt)
		assert.Equal(t, "Lina", snapshots[0].EmployeeName)
		assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, -7), gotSince, time.Minute)
	})
}
