package leave

import (
	"context"

	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	AllocationsFor(ctx context.Context, employeeID int64) ([]Allocation, error)
	LeavesFor(ctx context.Context, employeeID int64, state string) ([]LeaveRequest, error)
	Create(ctx context.Context, values map[string]any) (int64, error)
	GetByID(ctx context.Context, id int64) (*LeaveRequest, error)
	Types(ctx context.Context) ([]LeaveType, error)
}

type odooRepository struct {
	client *odoo.Client
	cache  *odoo.Cache
}

func NewRepository(client *odoo.Client, cache *odoo.Cache) Repository {
	return &odooRepository{client: client, cache: cache}
}

func (r *odooRepository) AllocationsFor(ctx context.Context, employeeID int64) ([]Allocation, error) {
	domain := []any{
		[]any{"employee_id", "=", employeeID},
		[]any{"state", "=", odoo.LeaveStateValidate},
	}
	records, err := r.client.SearchRead(ctx, odoo.ModelLeaveAllocation, domain, odoo.AllocationFields, nil)
	if err != nil {
		return nil, err
	}
	allocations := make([]Allocation, len(records))
	for i, rec := range records {
		allocations[i] = allocationFromRecord(rec)
	}
	return allocations, nil
}

func (r *odooRepository) LeavesFor(ctx context.Context, employeeID int64, state string) ([]LeaveRequest, error) {
	domain := []any{[]any{"employee_id", "=", employeeID}}
	if state != "" {
		domain = append(domain, []any{"state", "=", state})
	}
	records, err := r.client.SearchRead(ctx, odoo.ModelLeave, domain, odoo.LeaveFields,
		&odoo.QueryOptions{Order: "date_from desc"})
	if err != nil {
		return nil, err
	}
	leaves := make([]LeaveRequest, len(records))
	for i, rec := range records {
		leaves[i] = leaveFromRecord(rec)
	}
	return leaves, nil
}

func (r *odooRepository) Create(ctx context.Context, values map[string]any) (int64, error) {
	return r.client.CreateRecord(ctx, odoo.ModelLeave, values)
}

func (r *odooRepository) GetByID(ctx context.Context, id int64) (*LeaveRequest, error) {
	records, err := r.client.Read(ctx, odoo.ModelLeave, []int64{id}, odoo.LeaveFields)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	l := leaveFromRecord(records[0])
	return &l, nil
}

func (r *odooRepository) Types(ctx context.Context) ([]LeaveType, error) {
	var out []LeaveType
	err := r.cache.GetOrFill(ctx, odoo.Key("leave-types", "all"), odoo.TTLEmployees, &out,
		func(ctx context.Context) (any, error) {
			records, err := r.client.SearchRead(ctx, odoo.ModelLeaveType, []any{},
				[]string{"id", "name"}, &odoo.QueryOptions{Order: "name asc"})
			if err != nil {
				return nil, err
			}
			types := make([]LeaveType, len(records))
			for i, rec := range records {
				types[i] = LeaveType{ID: rec.Int("id"), Name: rec.Str("name")}
			}
			return types, nil
		})
	return out, err
}
