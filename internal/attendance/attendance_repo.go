package attendance

import (
	"context"
	"time"

	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	RecordsBetween(ctx context.Context, from, to time.Time, departmentID int64) ([]Record, error)
	RecordsForEmployee(ctx context.Context, employeeID int64, from, to time.Time) ([]Record, error)
	ActiveEmployeeCount(ctx context.Context, departmentID int64) (int64, error)
	OnLeaveCount(ctx context.Context, date time.Time, departmentID int64) (int64, error)
}

type odooRepository struct {
	client *odoo.Client
	cache  *odoo.Cache
}

func NewRepository(client *odoo.Client, cache *odoo.Cache) Repository {
	return &odooRepository{client: client, cache: cache}
}

func (r *odooRepository) RecordsBetween(ctx context.Context, from, to time.Time, departmentID int64) ([]Record, error) {
	domain := []any{
		[]any{"check_in", ">=", from.Format(odoo.DateTimeLayout)},
		[]any{"check_in", "<", to.Format(odoo.DateTimeLayout)},
	}
	if departmentID > 0 {
		domain = append(domain, []any{"employee_id.department_id", "=", departmentID})
	}
	records, err := r.client.SearchRead(ctx, odoo.ModelAttendance, domain,
		odoo.AttendanceFields, &odoo.QueryOptions{Order: "check_in asc"})
	if err != nil {
		return nil, err
	}
	out := make([]Record, len(records))
	for i, rec := range records {
		out[i] = recordFromOdoo(rec)
	}
	return out, nil
}

func (r *odooRepository) RecordsForEmployee(ctx context.Context, employeeID int64, from, to time.Time) ([]Record, error) {
	domain := []any{
		[]any{"employee_id", "=", employeeID},
		[]any{"check_in", ">=", from.Format(odoo.DateTimeLayout)},
		[]any{"check_in", "<", to.Format(odoo.DateTimeLayout)},
	}
	records, err := r.client.SearchRead(ctx, odoo.ModelAttendance, domain,
		odoo.AttendanceFields, &odoo.QueryOptions{Order: "check_in asc"})
	if err != nil {
		return nil, err
	}
	out := make([]Record, len(records))
	for i, rec := range records {
		out[i] = recordFromOdoo(rec)
	}
	return out, nil
}

func (r *odooRepository) ActiveEmployeeCount(ctx context.Context, departmentID int64) (int64, error) {
	var count int64
	key := odoo.QueryKey("employees", map[string]int64{"active-count": departmentID})
	err := r.cache.GetOrFill(ctx, key, odoo.TTLEmployees, &count,
		func(ctx context.Context) (any, error) {
			domain := []any{[]any{"active", "=", true}}
			if departmentID > 0 {
				domain = append(domain, []any{"department_id", "=", departmentID})
			}
			return r.client.SearchCount(ctx, odoo.ModelEmployee, domain)
		})
	return count, err
}

func (r *odooRepository) OnLeaveCount(ctx context.Context, date time.Time, departmentID int64) (int64, error) {
	day := date.Format(odoo.DateLayout)
	domain := []any{
		[]any{"state", "=", odoo.LeaveStateValidate},
		[]any{"date_from", "<=", day},
		[]any{"date_to", ">=", day},
	}
	if departmentID > 0 {
		domain = append(domain, []any{"employee_id.department_id", "=", departmentID})
	}
	return r.client.SearchCount(ctx, odoo.ModelLeave, domain)
}
