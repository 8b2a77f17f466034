package employee

import (
	"context"

	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	List(ctx context.Context, q ListEmployeesQuery) ([]Employee, error)
	GetByID(ctx context.Context, id int64) (*Employee, error)
	FindByEmail(ctx context.Context, email string) ([]Employee, error)
	OpenAssignedTasks(ctx context.Context) ([]AssignedTask, error)
	Departments(ctx context.Context) ([]Department, error)
}

type odooRepository struct {
	client *odoo.Client
	cache  *odoo.Cache
}

func NewRepository(client *odoo.Client, cache *odoo.Cache) Repository {
	return &odooRepository{client: client, cache: cache}
}

func (r *odooRepository) List(ctx context.Context, q ListEmployeesQuery) ([]Employee, error) {
	var out []Employee
	err := r.cache.GetOrFill(ctx, odoo.QueryKey("employees", q), odoo.TTLEmployees, &out,
		func(ctx context.Context) (any, error) {
			domain := []any{}
			if !q.IncludeInactive {
				domain = append(domain, []any{"active", "=", true})
			}
			if q.DepartmentID > 0 {
				domain = append(domain, []any{"department_id", "=", q.DepartmentID})
			}
			records, err := r.client.SearchRead(ctx, odoo.ModelEmployee, domain,
				odoo.EmployeeFields, &odoo.QueryOptions{Order: "name asc"})
			if err != nil {
				return nil, err
			}
			employees := make([]Employee, len(records))
			for i, rec := range records {
				employees[i] = employeeFromRecord(rec)
			}
			return employees, nil
		})
	return out, err
}

func (r *odooRepository) GetByID(ctx context.Context, id int64) (*Employee, error) {
	var out []Employee
	err := r.cache.GetOrFill(ctx, odoo.QueryKey("employees", map[string]int64{"id": id}),
		odoo.TTLEmployees, &out,
		func(ctx context.Context) (any, error) {
			records, err := r.client.Read(ctx, odoo.ModelEmployee, []int64{id}, odoo.EmployeeFields)
			if err != nil {
				return nil, err
			}
			employees := make([]Employee, len(records))
			for i, rec := range records {
				employees[i] = employeeFromRecord(rec)
			}
			return employees, nil
		})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (r *odooRepository) FindByEmail(ctx context.Context, email string) ([]Employee, error) {
	domain := []any{
		[]any{"work_email", "ilike", email},
		[]any{"active", "=", true},
	}
	records, err := r.client.SearchRead(ctx, odoo.ModelEmployee, domain, odoo.EmployeeFields, nil)
	if err != nil {
		return nil, err
	}
	employees := make([]Employee, len(records))
	for i, rec := range records {
		employees[i] = employeeFromRecord(rec)
	}
	return employees, nil
}

// OpenAssignedTasks pulls every open task with its assignees in one RPC so
// workload math never fans out per employee.
func (r *odooRepository) OpenAssignedTasks(ctx context.Context) ([]AssignedTask, error) {
	var out []AssignedTask
	err := r.cache.GetOrFill(ctx, odoo.Key("tasks", "open-assignments"), odoo.TTLTasks, &out,
		func(ctx context.Context) (any, error) {
			domain := []any{
				[]any{"stage_id.fold", "=", false},
				[]any{"user_ids", "!=", false},
			}
			fields := []string{"user_ids", "remaining_hours", "date_deadline"}
			records, err := r.client.SearchRead(ctx, odoo.ModelTask, domain, fields, nil)
			if err != nil {
				return nil, err
			}
			tasks := make([]AssignedTask, len(records))
			for i, rec := range records {
				tasks[i] = assignedTaskFromRecord(rec)
			}
			return tasks, nil
		})
	return out, err
}

func (r *odooRepository) Departments(ctx context.Context) ([]Department, error) {
	var out []Department
	err := r.cache.GetOrFill(ctx, odoo.Key("departments", "all"), odoo.TTLEmployees, &out,
		func(ctx context.Context) (any, error) {
			records, err := r.client.SearchRead(ctx, odoo.ModelDepartment, []any{},
				odoo.DepartmentFields, &odoo.QueryOptions{Order: "name asc"})
			if err != nil {
				return nil, err
			}
			departments := make([]Department, len(records))
			for i, rec := range records {
				departments[i] = Department{
					ID:          rec.Int("id"),
					Name:        rec.Str("name"),
					Manager:     rec.Rel("manager_id"),
					MemberCount: len(rec.IDs("member_ids")),
				}
			}
			return departments, nil
		})
	return out, err
}
