package payroll

import (
	"context"

	"go.uber.org/zap"

	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
	payrollerrors "github.com/Muhannad-Khaled/Ailigent/internal/payroll/errors"
)

// DefaultLimit caps how many payslips a listing returns unless the caller
// asks for fewer.
const DefaultLimit = 6

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Payslips(ctx context.Context, employeeID int64, limit int) ([]PayslipResponse, error)
	GetByID(ctx context.Context, id int64) (PayslipDetailResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Payslips(ctx context.Context, employeeID int64, limit int) ([]PayslipResponse, error) {
	if employeeID <= 0 {
		return nil, payrollerrors.ErrInvalidEmployeeID
	}
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}

	payslips, err := s.repo.PayslipsFor(ctx, employeeID, limit)
	if err != nil {
		s.logger.Error("list payslips failed", zap.Int64("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	resp := make([]PayslipResponse, len(payslips))
	for i, p := range payslips {
		resp[i] = mapToResponse(p)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (PayslipDetailResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return PayslipDetailResponse{}, err
	}
	if p == nil {
		return PayslipDetailResponse{}, payrollerrors.ErrPayslipNotFound
	}

	lines, err := s.repo.LinesFor(ctx, id)
	if err != nil {
		return PayslipDetailResponse{}, err
	}

	detail := PayslipDetailResponse{PayslipResponse: mapToResponse(*p)}
	detail.Lines = make([]PayslipLineResponse, len(lines))
	for i, l := range lines {
		detail.Lines[i] = PayslipLineResponse{
			Name:     l.Name,
			Code:     l.Code,
			Category: l.Category,
			Total:    l.Total,
		}
	}
	return detail, nil
}

func mapToResponse(p Payslip) PayslipResponse {
	resp := PayslipResponse{
		ID:        p.ID,
		Name:      p.Name,
		State:     p.State,
		NetWage:   p.NetWage,
		GrossWage: p.GrossWage,
		BasicWage: p.BasicWage,
	}
	if !p.DateFrom.IsZero() {
		resp.DateFrom = p.DateFrom.Format(odoo.DateLayout)
	}
	if !p.DateTo.IsZero() {
		resp.DateTo = p.DateTo.Format(odoo.DateLayout)
	}
	return resp
}
