package leave

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	leaveerrors "github.com/Muhannad-Khaled/Ailigent/internal/leave/errors"
	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Balance(ctx context.Context, employeeID int64) ([]BalanceResponse, error)
	Requests(ctx context.Context, q ListLeavesQuery) ([]RequestResponse, error)
	CreateRequest(ctx context.Context, req CreateLeaveRequest) (RequestResponse, error)
	Types(ctx context.Context) ([]LeaveTypeResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{repo: repo, logger: l}
}

// Balance nets validated allocations against validated leaves per type.
func (s *service) Balance(ctx context.Context, employeeID int64) ([]BalanceResponse, error) {
	if employeeID <= 0 {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}

	allocations, err := s.repo.AllocationsFor(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	taken, err := s.repo.LeavesFor(ctx, employeeID, odoo.LeaveStateValidate)
	if err != nil {
		return nil, err
	}

	byType := map[string]*BalanceResponse{}
	for _, a := range allocations {
		name := a.Type.Name
		if byType[name] == nil {
			byType[name] = &BalanceResponse{LeaveType: name}
		}
		byType[name].Allocated += a.Days
	}
	for _, l := range taken {
		name := l.Type.Name
		if byType[name] == nil {
			byType[name] = &BalanceResponse{LeaveType: name}
		}
		byType[name].Taken += l.Days
	}

	balances := make([]BalanceResponse, 0, len(byType))
	for _, b := range byType {
		b.Remaining = b.Allocated - b.Taken
		if b.Remaining < 0 {
			b.Remaining = 0
		}
		balances = append(balances, *b)
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].LeaveType < balances[j].LeaveType })
	return balances, nil
}

func (s *service) Requests(ctx context.Context, q ListLeavesQuery) ([]RequestResponse, error) {
	if q.EmployeeID <= 0 {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}
	leaves, err := s.repo.LeavesFor(ctx, q.EmployeeID, q.State)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) CreateRequest(ctx context.Context, req CreateLeaveRequest) (RequestResponse, error) {
	s.logger.Debug("create leave requested",
		zap.Int64("employee_id", req.EmployeeID),
		zap.Int64("leave_type_id", req.TypeID),
		zap.String("date_from", req.DateFrom),
		zap.String("date_to", req.DateTo),
	)

	from, err := parseDate(req.DateFrom)
	if err != nil {
		return RequestResponse{}, err
	}
	to, err := parseDate(req.DateTo)
	if err != nil {
		return RequestResponse{}, err
	}
	if from.After(to) {
		return RequestResponse{}, leaveerrors.ErrInvalidDateRange
	}
	if err := s.checkType(ctx, req.TypeID); err != nil {
		return RequestResponse{}, err
	}

	values := map[string]any{
		"employee_id":       req.EmployeeID,
		"holiday_status_id": req.TypeID,
		"request_date_from": from.Format(odoo.DateLayout),
		"request_date_to":   to.Format(odoo.DateLayout),
	}
	if req.Reason != "" {
		values["name"] = req.Reason
	}

	id, err := s.repo.Create(ctx, values)
	if err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return RequestResponse{}, err
	}
	s.logger.Info("create leave success",
		zap.Int64("leave_id", id),
		zap.Int64("employee_id", req.EmployeeID),
	)

	created, err := s.repo.GetByID(ctx, id)
	if err != nil || created == nil {
		// The record exists; report what we know.
		return RequestResponse{
			ID:       id,
			DateFrom: req.DateFrom,
			DateTo:   req.DateTo,
			State:    odoo.LeaveStateConfirm,
			Reason:   req.Reason,
		}, nil
	}
	return mapToResponse(*created), nil
}

func (s *service) Types(ctx context.Context) ([]LeaveTypeResponse, error) {
	types, err := s.repo.Types(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]LeaveTypeResponse, len(types))
	for i, lt := range types {
		resp[i] = LeaveTypeResponse{ID: lt.ID, Name: lt.Name}
	}
	return resp, nil
}

func (s *service) checkType(ctx context.Context, typeID int64) error {
	types, err := s.repo.Types(ctx)
	if err != nil {
		return err
	}
	for _, lt := range types {
		if lt.ID == typeID {
			return nil
		}
	}
	return leaveerrors.ErrUnknownLeaveType
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(odoo.DateLayout, v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRequest) RequestResponse {
	resp := RequestResponse{
		ID:        l.ID,
		LeaveType: l.Type.Name,
		Days:      l.Days,
		State:     l.State,
		Reason:    l.Reason,
	}
	if !l.DateFrom.IsZero() {
		resp.DateFrom = l.DateFrom.Format(odoo.DateLayout)
	}
	if !l.DateTo.IsZero() {
		resp.DateTo = l.DateTo.Format(odoo.DateLayout)
	}
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []RequestResponse {
	resp := make([]RequestResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
