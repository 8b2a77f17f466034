package contract

import (
	"context"
	"time"

	"go.uber.org/zap"

	contracterrors "github.com/Muhannad-Khaled/Ailigent/internal/contract/errors"
	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
)

const (
	// DefaultWindowDays is how far ahead Expiring looks when the caller
	// does not pick a window.
	DefaultWindowDays = 30
	MaxWindowDays     = 365
)

// AlertWindows are the days-left marks at which expiry alerts fire.
var AlertWindows = []int{30, 14, 7}

//go:generate mockgen -source=contract_service.go -destination=mock/contract_service_mock.go -package=mock
type Service interface {
	Expiring(ctx context.Context, withinDays int) ([]ContractResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("contract.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("contract.service")
	}
	return &service{repo: repo, logger: l, now: time.Now}
}

func (s *service) Expiring(ctx context.Context, withinDays int) ([]ContractResponse, error) {
	if withinDays == 0 {
		withinDays = DefaultWindowDays
	}
	if withinDays < 0 || withinDays > MaxWindowDays {
		return nil, contracterrors.ErrInvalidWindow
	}

	now := s.now()
	horizon := now.AddDate(0, 0, withinDays)
	contracts, err := s.repo.ExpiringBefore(ctx, horizon)
	if err != nil {
		s.logger.Error("list expiring contracts failed", zap.Int("within_days", withinDays), zap.Error(err))
		return nil, err
	}

	resp := make([]ContractResponse, len(contracts))
	for i, c := range contracts {
		resp[i] = mapToResponse(c, now)
	}
	return resp, nil
}

func mapToResponse(c Contract, now time.Time) ContractResponse {
	resp := ContractResponse{
		ID:           c.ID,
		Name:         c.Name,
		EmployeeID:   c.Employee.ID,
		EmployeeName: c.Employee.Name,
		DateEnd:      c.DateEnd.Format(odoo.DateLayout),
		State:        c.State,
		Wage:         c.Wage,
		DaysLeft:     c.DaysLeftAt(now),
	}
	if !c.DateStart.IsZero() {
		resp.DateStart = c.DateStart.Format(odoo.DateLayout)
	}
	return resp
}
