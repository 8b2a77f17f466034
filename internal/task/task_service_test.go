package task_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muhannad-Khaled/Ailigent/internal/employee"
	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
	"github.com/Muhannad-Khaled/Ailigent/internal/task"
	taskerrors "github.com/Muhannad-Khaled/Ailigent/internal/task/errors"
)

type fakeTaskRepository struct {
	listFn      func(ctx context.Context, f task.Filter) ([]task.Task, error)
	getByIDFn   func(ctx context.Context, id int64) (*task.Task, error)
	createFn    func(ctx context.Context, values map[string]any) (int64, error)
	updateFn    func(ctx context.Context, id int64, values map[string]any) error
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
	if f.createFn != nil {
		return f.createFn(ctx, values)
	}
	return 0, nil
}

func (f *fakeTaskRepository) Update(ctx context.Context, id int64, values map[string]any) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, values)
	}
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
	return map[int64]string{}, nil
}

type fakeEmployeeService struct {
	getByIDFn func(ctx context.Context, id int64) (employee.EmployeeResponse, error)
}

func (f *fakeEmployeeService) List(ctx context.Context, q employee.ListEmployeesQuery) ([]employee.EmployeeResponse, error) {
	return nil, nil
}
func (f *fakeEmployeeService) GetByID(ctx context.Context, id int64) (employee.EmployeeResponse, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return employee.EmployeeResponse{}, nil
}
func (f *fakeEmployeeService) FindByEmail(ctx context.Context, email string) (employee.EmployeeResponse, error) {
	return employee.EmployeeResponse{}, nil
}
func (f *fakeEmployeeService) Workload(ctx context.Context, employeeID int64) (employee.WorkloadResponse, error) {
	return employee.WorkloadResponse{}, nil
}
func (f *fakeEmployeeService) TeamSummary(ctx context.Context, departmentID int64) ([]employee.WorkloadResponse, error) {
	return nil, nil
}
func (f *fakeEmployeeService) AvailableAssignees(ctx context.Context, limit int) ([]employee.WorkloadResponse, error) {
	return nil, nil
}
func (f *fakeEmployeeService) Departments(ctx context.Context) ([]employee.DepartmentResponse, error) {
	return nil, nil
}

type serviceDeps struct {
	repo      *fakeTaskRepository
	employees *fakeEmployeeService
	service   task.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()
	repo := &fakeTaskRepository{}
	employees := &fakeEmployeeService{}
	return &serviceDeps{
		repo:      repo,
		employees: employees,
		service:   task.NewService(repo, employees),
	}
}

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success with assignee", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.employees.getByIDFn = func(ctx context.Context, id int64) (employee.EmployeeResponse, error) {
			assert.Equal(t, int64(42), id)
			return employee.EmployeeResponse{ID: 42, Name: "Amira Hassan", UserID: 7}, nil
		}
		var captured map[string]any
		deps.repo.createFn = func(ctx context.Context, values map[string]any) (int64, error) {
			captured = values
			return 91, nil
		}
		deps.repo.getByIDFn = func(ctx context.Context, id int64) (*task.Task, error) {
			return &task.Task{ID: 91, Name: "Prepare payroll export", UserIDs: []int64{7}}, nil
		}

		resp, err := deps.service.Create(ctx, task.CreateTaskRequest{
			Name:       "Prepare payroll export",
			Deadline:   "2026-09-01",
			Priority:   odoo.PriorityHigh,
			EmployeeID: 42,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(91), resp.ID)
		assert.Equal(t, "Prepare payroll export", captured["name"])
		assert.Equal(t, "2026-09-01", captured["date_deadline"])
		assert.Equal(t, odoo.PriorityHigh, captured["priority"])
		assert.Equal(t, odoo.ReplaceIDs([]int64{7}), captured["user_ids"])
		assert.NotEmpty(t, captured["date_assign"])
	})

	t.Run("negative bad deadline", func(t *testing.T) {
		deps := setupServiceTest(t)
		_, err := deps.service.Create(ctx, task.CreateTaskRequest{Name: "x", Deadline: "01-09-2026"})
		assert.ErrorIs(t, err, taskerrors.ErrInvalidDeadline)
	})

	t.Run("negative assignee without user account", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.employees.getByIDFn = func(ctx context.Context, id int64) (employee.EmployeeResponse, error) {
			return employee.EmployeeResponse{ID: 43, UserID: 0}, nil
		}
		_, err := deps.service.Create(ctx, task.CreateTaskRequest{Name: "x", EmployeeID: 43})
		assert.ErrorIs(t, err, taskerrors.ErrAssigneeWithoutUser)
	})
}

func TestTaskService_Assign(t *testing.T) {
	ctx := context.Background()

	t.Run("success replaces assignees", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.getByIDFn = func(ctx context.Context, id int64) (*task.Task, error) {
			return &task.Task{ID: 3, Name: "Fix login page"}, nil
		}
		deps.employees.getByIDFn = func(ctx context.Context, id int64) (employee.EmployeeResponse, error) {
			return employee.EmployeeResponse{ID: 42, UserID: 7}, nil
		}
		var captured map[string]any
		deps.repo.updateFn = func(ctx context.Context, id int64, values map[string]any) error {
			assert.Equal(t, int64(3), id)
			captured = values
			return nil
		}

		_, err := deps.service.Assign(ctx, 3, 42)
		require.NoError(t, err)
		assert.Equal(t, odoo.ReplaceIDs([]int64{7}), captured["user_ids"])
		assert.NotEmpty(t, captured["date_assign"])
	})

	t.Run("negative task not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		_, err := deps.service.Assign(ctx, 999, 42)
		assert.ErrorIs(t, err, taskerrors.ErrTaskNotFound)
	})
}

func TestTaskService_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("success moves to folded stage", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.getByIDFn = func(ctx context.Context, id int64) (*task.Task, error) {
			return &task.Task{ID: 3, Name: "Fix login page"}, nil
		}
		deps.repo.stagesFn = func(ctx context.Context) ([]task.Stage, error) {
			return []task.Stage{
				{ID: 1, Name: "New", Sequence: 1},
				{ID: 2, Name: "In Progress", Sequence: 2},
				{ID: 9, Name: "Done", Sequence: 9, Fold: true},
			}, nil
		}
		var captured map[string]any
		deps.repo.updateFn = func(ctx context.Context, id int64, values map[string]any) error {
			captured = values
			return nil
		}

		_, err := deps.service.Complete(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(9), captured["stage_id"])
	})

	t.Run("negative no terminal stage", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.getByIDFn = func(ctx context.Context, id int64) (*task.Task, error) {
			return &task.Task{ID: 3}, nil
		}
		deps.repo.stagesFn = func(ctx context.Context) ([]task.Stage, error) {
			return []task.Stage{{ID: 1, Name: "New"}}, nil
		}

		_, err := deps.service.Complete(ctx, 3)
		assert.ErrorIs(t, err, taskerrors.ErrNoTerminalStage)
	})
}

func TestTaskService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("negative empty update", func(t *testing.T) {
		deps := setupServiceTest(t)
		_, err := deps.service.Update(ctx, 3, task.UpdateTaskRequest{})
		assert.ErrorIs(t, err, taskerrors.ErrNothingToUpdate)
	})

	t.Run("negative unknown stage", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.stagesFn = func(ctx context.Context) ([]task.Stage, error) {
			return []task.Stage{{ID: 1, Name: "New"}}, nil
		}
		stageID := int64(77)
		_, err := deps.service.Update(ctx, 3, task.UpdateTaskRequest{StageID: &stageID})
		assert.ErrorIs(t, err, taskerrors.ErrInvalidStage)
	})

	t.Run("success clears deadline", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.getByIDFn = func(ctx context.Context, id int64) (*task.Task, error) {
			return &task.Task{ID: 3, Name: "Fix login page"}, nil
		}
		var captured map[string]any
		deps.repo.updateFn = func(ctx context.Context, id int64, values map[string]any) error {
			captured = values
			return nil
		}

		empty := ""
		_, err := deps.service.Update(ctx, 3, task.UpdateTaskRequest{Deadline: &empty})
		require.NoError(t, err)
		assert.Equal(t, false, captured["date_deadline"])
	})
}

func TestTaskService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("employee filter resolves user id", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.employees.getByIDFn = func(ctx context.Context, id int64) (employee.EmployeeResponse, error) {
			return employee.EmployeeResponse{ID: 42, UserID: 7}, nil
		}
		deps.repo.listFn = func(ctx context.Context, f task.Filter) ([]task.Task, error) {
			assert.Equal(t, int64(7), f.UserID)
			return []task.Task{{ID: 3, Name: "Fix login page", UserIDs: []int64{7}}}, nil
		}
		deps.repo.userNamesFn = func(ctx context.Context, ids []int64) (map[int64]string, error) {
			return map[int64]string{7: "Amira Hassan"}, nil
		}

		resp, err := deps.service.List(ctx, task.ListTasksQuery{EmployeeID: 42})
		require.NoError(t, err)
		require.Len(t, resp, 1)
		assert.Equal(t, []string{"Amira Hassan"}, resp[0].Assignees)
	})

	t.Run("employee without user yields empty list", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.employees.getByIDFn = func(ctx context.Context, id int64) (employee.EmployeeResponse, error) {
			return employee.EmployeeResponse{ID: 43, UserID: 0}, nil
		}

		resp, err := deps.service.List(ctx, task.ListTasksQuery{EmployeeID: 43})
		require.NoError(t, err)
		assert.Empty(t, resp)
	})
}

func TestTaskService_Statistics(t *testing.T) {
	deps := setupServiceTest(t)
	now := time.Now().UTC()

	deps.repo.listFn = func(ctx context.Context, f task.Filter) ([]task.Task, error) {
		return []task.Task{
			{ID: 1, Stage: odoo.Many2One{ID: 1, Name: "New"}, Priority: "1"},
			{ID: 2, Stage: odoo.Many2One{ID: 2, Name: "In Progress"}, Priority: "2", Deadline: now.Add(-48 * time.Hour)},
			{ID: 3, Stage: odoo.Many2One{ID: 9, Name: "Done"}, Priority: "1"},
			{ID: 4, Stage: odoo.Many2One{ID: 9, Name: "Done"}},
		}, nil
	}
	deps.repo.stagesFn = func(ctx context.Context) ([]task.Stage, error) {
		return []task.Stage{
			{ID: 1, Name: "New"},
			{ID: 2, Name: "In Progress"},
			{ID: 9, Name: "Done", Fold: true},
		}, nil
	}

	stats, err := deps.service.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Completed)
	assert.Equal(t, 50.0, stats.CompletionRate)
	assert.Equal(t, 1, stats.OverdueCount)
	assert.Equal(t, 2, stats.ByStage["Done"])
	assert.Equal(t, 2, stats.ByPriority["1"])
	assert.Equal(t, 1, stats.ByPriority["0"])
}

func TestTaskOverdueHelpers(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	fresh := task.Task{Deadline: now.Add(24 * time.Hour)}
	stale := task.Task{Deadline: now.Add(-4 * 24 * time.Hour)}
	undated := task.Task{}

	assert.False(t, fresh.OverdueAt(now))
	assert.True(t, stale.OverdueAt(now))
	assert.Equal(t, 4, stale.DaysOverdueAt(now))
	assert.False(t, undated.OverdueAt(now))
	assert.Equal(t, 0, undated.DaysOverdueAt(now))
}
