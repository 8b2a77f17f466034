package employee

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	employeeerrors "github.com/Muhannad-Khaled/Ailigent/internal/employee/errors"
)

// WeeklyCapacity is the planning capacity in hours each employee is assumed
// to have per week.
const WeeklyCapacity = 40.0

const (
	StatusOverloaded    = "overloaded"
	StatusBalanced      = "balanced"
	StatusUnderutilized = "underutilized"
)

const (
	overloadedThreshold    = 80.0
	underutilizedThreshold = 50.0
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, q ListEmployeesQuery) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id int64) (EmployeeResponse, error)
	FindByEmail(ctx context.Context, email string) (EmployeeResponse, error)
	Workload(ctx context.Context, employeeID int64) (WorkloadResponse, error)
	TeamSummary(ctx context.Context, departmentID int64) ([]WorkloadResponse, error)
	AvailableAssignees(ctx context.Context, limit int) ([]WorkloadResponse, error)
	Departments(ctx context.Context) ([]DepartmentResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) List(ctx context.Context, q ListEmployeesQuery) ([]EmployeeResponse, error) {
	employees, err := s.repo.List(ctx, q)
	if err != nil {
		s.logger.Error("list employees failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(employees), nil
}

func (s *service) GetByID(ctx context.Context, id int64) (EmployeeResponse, error) {
	if id <= 0 {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	emp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, err
	}
	if emp == nil {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
	}
	return mapToResponse(*emp), nil
}

// FindByEmail resolves exactly one active employee. Zero or multiple matches
// are both rejected so account linking never guesses.
func (s *service) FindByEmail(ctx context.Context, email string) (EmployeeResponse, error) {
	matches, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return EmployeeResponse{}, err
	}
	switch len(matches) {
	case 0:
		return EmployeeResponse{}, employeeerrors.ErrEmailNotFound
	case 1:
		return mapToResponse(matches[0]), nil
	default:
		s.logger.Warn("ambiguous employee email", zap.String("email", email), zap.Int("matches", len(matches)))
		return EmployeeResponse{}, employeeerrors.ErrAmbiguousEmail
	}
}

func (s *service) Workload(ctx context.Context, employeeID int64) (WorkloadResponse, error) {
	emp, err := s.repo.GetByID(ctx, employeeID)
	if err != nil {
		return WorkloadResponse{}, err
	}
	if emp == nil {
		return WorkloadResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	tasks, err := s.repo.OpenAssignedTasks(ctx)
	if err != nil {
		return WorkloadResponse{}, err
	}
	return buildWorkload(*emp, tasks, time.Now().UTC()), nil
}

func (s *service) TeamSummary(ctx context.Context, departmentID int64) ([]WorkloadResponse, error) {
	employees, err := s.repo.List(ctx, ListEmployeesQuery{DepartmentID: departmentID})
	if err != nil {
		return nil, err
	}
	tasks, err := s.repo.OpenAssignedTasks(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	workloads := make([]WorkloadResponse, 0, len(employees))
	for _, emp := range employees {
		workloads = append(workloads, buildWorkload(emp, tasks, now))
	}
	sort.SliceStable(workloads, func(i, j int) bool {
		return workloads[i].Utilization > workloads[j].Utilization
	})
	return workloads, nil
}

// AvailableAssignees returns assignment candidates, least busy first.
// Employees without a user account cannot hold tasks and are skipped.
func (s *service) AvailableAssignees(ctx context.Context, limit int) ([]WorkloadResponse, error) {
	employees, err := s.repo.List(ctx, ListEmployeesQuery{})
	if err != nil {
		return nil, err
	}
	tasks, err := s.repo.OpenAssignedTasks(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	candidates := make([]WorkloadResponse, 0, len(employees))
	for _, emp := range employees {
		if emp.UserID == 0 {
			continue
		}
		candidates = append(candidates, buildWorkload(emp, tasks, now))
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Utilization < candidates[j].Utilization
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

func (s *service) Departments(ctx context.Context) ([]DepartmentResponse, error) {
	departments, err := s.repo.Departments(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]DepartmentResponse, len(departments))
	for i, d := range departments {
		resp[i] = DepartmentResponse{
			ID:          d.ID,
			Name:        d.Name,
			ManagerID:   d.Manager.ID,
			ManagerName: d.Manager.Name,
			MemberCount: d.MemberCount,
		}
	}
	return resp, nil
}

func buildWorkload(emp Employee, tasks []AssignedTask, now time.Time) WorkloadResponse {
	w := WorkloadResponse{
		EmployeeID:     emp.ID,
		Name:           emp.Name,
		WeeklyCapacity: WeeklyCapacity,
		Status:         StatusUnderutilized,
	}
	if emp.UserID == 0 {
		return w
	}

	for _, task := range tasks {
		if !assignedTo(task, emp.UserID) {
			continue
		}
		w.AssignedTasks++
		w.TotalRemainingHours += task.RemainingHours
		if !task.Deadline.IsZero() && task.Deadline.Before(now) {
			w.OverdueTasks++
		}
	}

	w.Utilization = Utilization(w.TotalRemainingHours, WeeklyCapacity)
	w.Status = WorkloadStatus(w.Utilization)
	return w
}

func assignedTo(task AssignedTask, userID int64) bool {
	for _, id := range task.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Utilization is remaining work over capacity as a percentage, rounded to
// two decimals. Zero capacity yields zero instead of dividing.
func Utilization(remainingHours, capacity float64) float64 {
	if capacity <= 0 {
		return 0
	}
	return math.Round(remainingHours/capacity*100*100) / 100
}

// WorkloadStatus buckets a utilization percentage.
func WorkloadStatus(utilization float64) string {
	switch {
	case utilization >= overloadedThreshold:
		return StatusOverloaded
	case utilization <= underutilizedThreshold:
		return StatusUnderutilized
	default:
		return StatusBalanced
	}
}

func mapToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             e.ID,
		Name:           e.Name,
		WorkEmail:      e.WorkEmail,
		JobTitle:       e.JobTitle,
		DepartmentID:   e.Department.ID,
		DepartmentName: e.Department.Name,
		ManagerID:      e.Manager.ID,
		ManagerName:    e.Manager.Name,
		UserID:         e.UserID,
		Active:         e.Active,
	}
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp
}
