package payroll

import (
	"context"

	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	PayslipsFor(ctx context.Context, employeeID int64, limit int) ([]Payslip, error)
	GetByID(ctx context.Context, id int64) (*Payslip, error)
	LinesFor(ctx context.Context, payslipID int64) ([]PayslipLine, error)
}

type odooRepository struct {
	client *odoo.Client
	cache  *odoo.Cache
}

func NewRepository(client *odoo.Client, cache *odoo.Cache) Repository {
	return &odooRepository{client: client, cache: cache}
}

func (r *odooRepository) PayslipsFor(ctx context.Context, employeeID int64, limit int) ([]Payslip, error) {
	var out []Payslip
	key := odoo.QueryKey("payslips", map[string]int64{"employee": employeeID, "limit": int64(limit)})
	err := r.cache.GetOrFill(ctx, key, odoo.TTLReports, &out,
		func(ctx context.Context) (any, error) {
			domain := []any{[]any{"employee_id", "=", employeeID}}
			records, err := r.client.SearchRead(ctx, odoo.ModelPayslip, domain,
				odoo.PayslipFields, &odoo.QueryOptions{Order: "date_to desc", Limit: limit})
			if err != nil {
				return nil, err
			}
			payslips := make([]Payslip, len(records))
			for i, rec := range records {
				payslips[i] = payslipFromRecord(rec)
			}
			return payslips, nil
		})
	return out, err
}

func (r *odooRepository) GetByID(ctx context.Context, id int64) (*Payslip, error) {
	records, err := r.client.Read(ctx, odoo.ModelPayslip, []int64{id}, odoo.PayslipFields)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	p := payslipFromRecord(records[0])
	return &p, nil
}

func (r *odooRepository) LinesFor(ctx context.Context, payslipID int64) ([]PayslipLine, error) {
	domain := []any{[]any{"slip_id", "=", payslipID}}
	fields := []string{"name", "code", "category_id", "total"}
	records, err := r.client.SearchRead(ctx, odoo.ModelPayslipLine, domain, fields,
		&odoo.QueryOptions{Order: "sequence asc"})
	if err != nil {
		return nil, err
	}
	lines := make([]PayslipLine, len(records))
	for i, rec := range records {
		lines[i] = lineFromRecord(rec)
	}
	return lines, nil
}
