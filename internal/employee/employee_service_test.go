package employee_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muhannad-Khaled/Ailigent/internal/employee"
	employeeerrors "github.com/Muhannad-Khaled/Ailigent/internal/employee/errors"
	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
)

type fakeRepository struct {
	listFn              func(ctx context.Context, q employee.ListEmployeesQuery) ([]employee.Employee, error)
	getByIDFn           func(ctx context.Context, id int64) (*employee.Employee, error)
	findByEmailFn       func(ctx context.Context, email string) ([]employee.Employee, error)
	openAssignedTasksFn func(ctx context.Context) ([]employee.AssignedTask, error)
	departmentsFn       func(ctx context.Context) ([]employee.Department, error)
}

func (f *fakeRepository) List(ctx context.Context, q employee.ListEmployeesQuery) ([]employee.Employee, error) {
	if f.listFn != nil {
		return f.listFn(ctx, q)
	}
	return nil, nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id int64) (*employee.Employee, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeRepository) FindByEmail(ctx context.Context, email string) ([]employee.Employee, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (f *fakeRepository) OpenAssignedTasks(ctx context.Context) ([]employee.AssignedTask, error) {
	if f.openAssignedTasksFn != nil {
		return f.openAssignedTasksFn(ctx)
	}
	return nil, nil
}

func (f *fakeRepository) Departments(ctx context.Context) ([]employee.Department, error) {
	if f.departmentsFn != nil {
		return f.departmentsFn(ctx)
	}
	return nil, nil
}

func setupServiceTest(t *testing.T) (*fakeRepository, employee.Service) {
	t.Helper()
	repo := &fakeRepository{}
	return repo, employee.NewService(repo)
}

func TestEmployeeService_Workload(t *testing.T) {
	ctx := context.Background()

	t.Run("success sums assigned tasks", func(t *testing.T) {
		repo, svc := setupServiceTest(t)
		repo.getByIDFn = func(ctx context.Context, id int64) (*employee.Employee, error) {
			return &employee.Employee{ID: 42, Name: "Amira Hassan", UserID: 7, Active: true}, nil
		}
		repo.openAssignedTasksFn = func(ctx context.Context) ([]employee.AssignedTask, error) {
			return []employee.AssignedTask{
				{UserIDs: []int64{7}, RemainingHours: 20, Deadline: time.Now().Add(48 * time.Hour)},
				{UserIDs: []int64{7, 9}, RemainingHours: 16, Deadline: time.Now().Add(-24 * time.Hour)},
				{UserIDs: []int64{9}, RemainingHours: 40},
			}, nil
		}

		w, err := svc.Workload(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, 2, w.AssignedTasks)
		assert.Equal(t, 1, w.OverdueTasks)
		assert.Equal(t, 36.0, w.TotalRemainingHours)
		assert.Equal(t, 90.0, w.Utilization)
		assert.Equal(t, employee.StatusOverloaded, w.Status)
	})

	t.Run("no user account means no workload", func(t *testing.T) {
		repo, svc := setupServiceTest(t)
		repo.getByIDFn = func(ctx context.Context, id int64) (*employee.Employee, error) {
			return &employee.Employee{ID: 43, Name: "Omar Said", UserID: 0}, nil
		}

		w, err := svc.Workload(ctx, 43)
		require.NoError(t, err)
		assert.Equal(t, 0, w.AssignedTasks)
		assert.Equal(t, 0.0, w.Utilization)
		assert.Equal(t, employee.StatusUnderutilized, w.Status)
	})

	t.Run("negative employee not found", func(t *testing.T) {
		repo, svc := setupServiceTest(t)
		repo.getByIDFn = func(ctx context.Context, id int64) (*employee.Employee, error) {
			return nil, nil
		}

		_, err := svc.Workload(ctx, 99)
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_FindByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("success single match", func(t *testing.T) {
		repo, svc := setupServiceTest(t)
		repo.findByEmailFn = func(ctx context.Context, email string) ([]employee.Employee, error) {
			assert.Equal(t, "amira@ailigent.local", email)
			return []employee.Employee{{ID: 42, Name: "Amira Hassan", WorkEmail: "amira@ailigent.local"}}, nil
		}

		resp, err := svc.FindByEmail(ctx, "amira@ailigent.local")
		require.NoError(t, err)
		assert.Equal(t, int64(42), resp.ID)
	})

	t.Run("negative no match", func(t *testing.T) {
		repo, svc := setupServiceTest(t)
		repo.findByEmailFn = func(ctx context.Context, email string) ([]employee.Employee, error) {
			return nil, nil
		}

		_, err := svc.FindByEmail(ctx, "ghost@ailigent.local")
		assert.ErrorIs(t, err, employeeerrors.ErrEmailNotFound)
	})

	t.Run("negative ambiguous match", func(t *testing.T) {
		repo, svc := setupServiceTest(t)
		repo.findByEmailFn = func(ctx context.Context, email string) ([]employee.Employee, error) {
			return []employee.Employee{{ID: 1}, {ID: 2}}, nil
		}

		_, err := svc.FindByEmail(ctx, "a@ailigent.local")
		assert.ErrorIs(t, err, employeeerrors.ErrAmbiguousEmail)
	})

	t.Run("negative repo error passes through", func(t *testing.T) {
		repo, svc := setupServiceTest(t)
		repo.findByEmailFn = func(ctx context.Context, email string) ([]employee.Employee, error) {
			return nil, errors.New("erp unavailable")
		}

		_, err := svc.FindByEmail(ctx, "a@ailigent.local")
		assert.EqualError(t, err, "erp unavailable")
	})
}

func TestEmployeeService_AvailableAssignees(t *testing.T) {
	ctx := context.Background()
	repo, svc := setupServiceTest(t)

	repo.listFn = func(ctx context.Context, q employee.ListEmployeesQuery) ([]employee.Employee, error) {
		return []employee.Employee{
			{ID: 1, Name: "Busy", UserID: 11},
			{ID: 2, Name: "Idle", UserID: 12},
			{ID: 3, Name: "No Account", UserID: 0},
		}, nil
	}
	repo.openAssignedTasksFn = func(ctx context.Context) ([]employee.AssignedTask, error) {
		return []employee.AssignedTask{
			{UserIDs: []int64{11}, RemainingHours: 38},
			{UserIDs: []int64{12}, RemainingHours: 4},
		}, nil
	}

	candidates, err := svc.AvailableAssignees(ctx, 10)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "Idle", candidates[0].Name)
	assert.Equal(t, "Busy", candidates[1].Name)

	limited, err := svc.AvailableAssignees(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "Idle", limited[0].Name)
}

func TestEmployeeService_TeamSummary(t *testing.T) {
	ctx := context.Background()
	repo, svc := setupServiceTest(t)

	repo.listFn = func(ctx context.Context, q employee.ListEmployeesQuery) ([]employee.Employee, error) {
		assert.Equal(t, int64(5), q.DepartmentID)
		return []employee.Employee{
			{ID: 1, Name: "Light", UserID: 11},
			{ID: 2, Name: "Heavy", UserID: 12},
		}, nil
	}
	repo.openAssignedTasksFn = func(ctx context.Context) ([]employee.AssignedTask, error) {
		return []employee.AssignedTask{
			{UserIDs: []int64{11}, RemainingHours: 8},
			{UserIDs: []int64{12}, RemainingHours: 36},
		}, nil
	}

	workloads, err := svc.TeamSummary(ctx, 5)
	require.NoError(t, err)
	require.Len(t, workloads, 2)
	assert.Equal(t, "Heavy", workloads[0].Name)
	assert.Equal(t, employee.StatusOverloaded, workloads[0].Status)
	assert.Equal(t, "Light", workloads[1].Name)
	assert.Equal(t, employee.StatusUnderutilized, workloads[1].Status)
}

func TestEmployeeService_Departments(t *testing.T) {
	repo, svc := setupServiceTest(t)
	repo.departmentsFn = func(ctx context.Context) ([]employee.Department, error) {
		return []employee.Department{
			{ID: 5, Name: "Engineering", Manager: odoo.Many2One{ID: 42, Name: "Amira Hassan"}, MemberCount: 8},
		}, nil
	}

	resp, err := svc.Departments(context.Background())
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "Engineering", resp[0].Name)
	assert.Equal(t, int64(42), resp[0].ManagerID)
	assert.Equal(t, 8, resp[0].MemberCount)
}

func TestUtilization(t *testing.T) {
	assert.Equal(t, 50.0, employee.Utilization(20, 40))
	assert.Equal(t, 91.25, employee.Utilization(36.5, 40))
	assert.Equal(t, 0.0, employee.Utilization(10, 0))
}

func TestWorkloadStatus(t *testing.T) {
	assert.Equal(t, employee.StatusOverloaded, employee.WorkloadStatus(80))
	assert.Equal(t, employee.StatusBalanced, employee.WorkloadStatus(65))
	assert.Equal(t, employee.StatusUnderutilized, employee.WorkloadStatus(50))
}
