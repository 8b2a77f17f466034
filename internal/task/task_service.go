package task

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/Muhannad-Khaled/Ailigent/internal/employee"
	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
	taskerrors "github.com/Muhannad-Khaled/Ailigent/internal/task/errors"
)

// Escalation threshold used by the overdue monitor.
const EscalationDays = 3

//go:generate mockgen -source=task_service.go -destination=mock/task_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, q ListTasksQuery) ([]TaskResponse, error)
	GetByID(ctx context.Context, id int64) (TaskResponse, error)
	Create(ctx context.Context, req CreateTaskRequest) (TaskResponse, error)
	Update(ctx context.Context, id int64, req UpdateTaskRequest) (TaskResponse, error)
	Assign(ctx context.Context, id, employeeID int64) (TaskResponse, error)
	Complete(ctx context.Context, id int64) (TaskResponse, error)
	Overdue(ctx context.Context) ([]TaskResponse, error)
	Statistics(ctx context.Context) (StatisticsResponse, error)
	Stages(ctx context.Context) ([]StageResponse, error)
}

type service struct {
	repo      Repository
	employees employee.Service
	logger    *zap.Logger
}

func NewService(repo Repository, employees employee.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("task.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("task.service")
	}
	return &service{repo: repo, employees: employees, logger: l}
}

func (s *service) List(ctx context.Context, q ListTasksQuery) ([]TaskResponse, error) {
	f := Filter{
		ProjectID:   q.ProjectID,
		StageID:     q.StageID,
		Priority:    q.Priority,
		OverdueOnly: q.OverdueOnly,
	}
	if q.EmployeeID > 0 {
		emp, err := s.employees.GetByID(ctx, q.EmployeeID)
		if err != nil {
			return nil, err
		}
		if emp.UserID == 0 {
			// No user account, nothing can be assigned.
			return []TaskResponse{}, nil
		}
		f.UserID = emp.UserID
	}

	tasks, err := s.repo.List(ctx, f)
	if err != nil {
		s.logger.Error("list tasks failed", zap.Error(err))
		return nil, err
	}
	return s.mapToListResponse(ctx, tasks), nil
}

func (s *service) GetByID(ctx context.Context, id int64) (TaskResponse, error) {
	if id <= 0 {
		return TaskResponse{}, taskerrors.ErrInvalidTaskID
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return TaskResponse{}, err
	}
	if t == nil {
		return TaskResponse{}, taskerrors.ErrTaskNotFound
	}
	return s.mapToResponse(ctx, *t), nil
}

func (s *service) Create(ctx context.Context, req CreateTaskRequest) (TaskResponse, error) {
	s.logger.Debug("create task requested",
		zap.String("name", req.Name),
		zap.Int64("project_id", req.ProjectID),
		zap.Int64("employee_id", req.EmployeeID),
	)

	values := map[string]any{"name": req.Name}
	if req.Description != "" {
		values["description"] = req.Description
	}
	if req.Priority != "" {
		values["priority"] = req.Priority
	}
	if req.ProjectID > 0 {
		values["project_id"] = req.ProjectID
	}
	if req.Deadline != "" {
		deadline, err := parseDate(req.Deadline)
		if err != nil {
			return TaskResponse{}, err
		}
		values["date_deadline"] = deadline.Format(odoo.DateLayout)
	}
	if req.EmployeeID > 0 {
		userID, err := s.resolveAssignee(ctx, req.EmployeeID)
		if err != nil {
			return TaskResponse{}, err
		}
		values["user_ids"] = odoo.ReplaceIDs([]int64{userID})
		values["date_assign"] = time.Now().UTC().Format(odoo.DateTimeLayout)
	}

	id, err := s.repo.Create(ctx, values)
	if err != nil {
		s.logger.Error("create task persist failed", zap.Error(err))
		return TaskResponse{}, err
	}
	s.logger.Info("create task success", zap.Int64("task_id", id), zap.String("name", req.Name))
	return s.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id int64, req UpdateTaskRequest) (TaskResponse, error) {
	if id <= 0 {
		return TaskResponse{}, taskerrors.ErrInvalidTaskID
	}

	values := map[string]any{}
	if req.Name != nil && *req.Name != "" {
		values["name"] = *req.Name
	}
	if req.Description != nil {
		values["description"] = *req.Description
	}
	if req.Priority != nil && *req.Priority != "" {
		values["priority"] = *req.Priority
	}
	if req.Deadline != nil {
		if *req.Deadline == "" {
			values["date_deadline"] = false
		} else {
			deadline, err := parseDate(*req.Deadline)
			if err != nil {
				return TaskResponse{}, err
			}
			values["date_deadline"] = deadline.Format(odoo.DateLayout)
		}
	}
	if req.StageID != nil {
		if err := s.checkStage(ctx, *req.StageID); err != nil {
			return TaskResponse{}, err
		}
		values["stage_id"] = *req.StageID
	}
	if len(values) == 0 {
		return TaskResponse{}, taskerrors.ErrNothingToUpdate
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return TaskResponse{}, err
	}
	if current == nil {
		return TaskResponse{}, taskerrors.ErrTaskNotFound
	}

	if err := s.repo.Update(ctx, id, values); err != nil {
		s.logger.Error("update task persist failed", zap.Int64("task_id", id), zap.Error(err))
		return TaskResponse{}, err
	}
	s.logger.Info("update task success", zap.Int64("task_id", id))
	return s.GetByID(ctx, id)
}

func (s *service) Assign(ctx context.Context, id, employeeID int64) (TaskResponse, error) {
	s.logger.Debug("assign task requested",
		zap.Int64("task_id", id),
		zap.Int64("employee_id", employeeID),
	)
	if id <= 0 {
		return TaskResponse{}, taskerrors.ErrInvalidTaskID
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return TaskResponse{}, err
	}
	if current == nil {
		return TaskResponse{}, taskerrors.ErrTaskNotFound
	}

	userID, err := s.resolveAssignee(ctx, employeeID)
	if err != nil {
		return TaskResponse{}, err
	}

	values := map[string]any{
		"user_ids":    odoo.ReplaceIDs([]int64{userID}),
		"date_assign": time.Now().UTC().Format(odoo.DateTimeLayout),
	}
	if err := s.repo.Update(ctx, id, values); err != nil {
		s.logger.Error("assign task persist failed", zap.Int64("task_id", id), zap.Error(err))
		return TaskResponse{}, err
	}
	s.logger.Info("assign task success",
		zap.Int64("task_id", id),
		zap.Int64("employee_id", employeeID),
		zap.Int64("user_id", userID),
	)
	return s.GetByID(ctx, id)
}

// Complete moves the task into the first folded stage, preferring a stage of
// the task's own project order.
func (s *service) Complete(ctx context.Context, id int64) (TaskResponse, error) {
	if id <= 0 {
		return TaskResponse{}, taskerrors.ErrInvalidTaskID
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return TaskResponse{}, err
	}
	if current == nil {
		return TaskResponse{}, taskerrors.ErrTaskNotFound
	}

	stages, err := s.repo.Stages(ctx)
	if err != nil {
		return TaskResponse{}, err
	}
	var done *Stage
	for i := range stages {
		if stages[i].Fold {
			done = &stages[i]
			break
		}
	}
	if done == nil {
		return TaskResponse{}, taskerrors.ErrNoTerminalStage
	}

	if err := s.repo.Update(ctx, id, map[string]any{"stage_id": done.ID}); err != nil {
		return TaskResponse{}, err
	}
	s.logger.Info("complete task success",
		zap.Int64("task_id", id),
		zap.String("stage", done.Name),
	)
	return s.GetByID(ctx, id)
}

func (s *service) Overdue(ctx context.Context) ([]TaskResponse, error) {
	tasks, err := s.repo.List(ctx, Filter{OverdueOnly: true})
	if err != nil {
		return nil, err
	}
	return s.mapToListResponse(ctx, tasks), nil
}

func (s *service) Statistics(ctx context.Context) (StatisticsResponse, error) {
	tasks, err := s.repo.List(ctx, Filter{})
	if err != nil {
		return StatisticsResponse{}, err
	}
	stages, err := s.repo.Stages(ctx)
	if err != nil {
		return StatisticsResponse{}, err
	}

	folded := make(map[int64]bool, len(stages))
	for _, st := range stages {
		if st.Fold {
			folded[st.ID] = true
		}
	}

	now := time.Now().UTC()
	stats := StatisticsResponse{
		Total:      len(tasks),
		ByStage:    map[string]int{},
		ByPriority: map[string]int{},
	}
	for _, t := range tasks {
		if t.Stage.Name != "" {
			stats.ByStage[t.Stage.Name]++
		}
		priority := t.Priority
		if priority == "" {
			priority = odoo.PriorityLow
		}
		stats.ByPriority[priority]++
		if folded[t.Stage.ID] {
			stats.Completed++
		} else if t.OverdueAt(now) {
			stats.OverdueCount++
		}
	}
	if stats.Total > 0 {
		stats.CompletionRate = math.Round(float64(stats.Completed)/float64(stats.Total)*100*100) / 100
	}
	return stats, nil
}

func (s *service) Stages(ctx context.Context) ([]StageResponse, error) {
	stages, err := s.repo.Stages(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]StageResponse, len(stages))
	for i, st := range stages {
		resp[i] = StageResponse{ID: st.ID, Name: st.Name, Sequence: st.Sequence, Fold: st.Fold}
	}
	return resp, nil
}

func (s *service) checkStage(ctx context.Context, stageID int64) error {
	stages, err := s.repo.Stages(ctx)
	if err != nil {
		return err
	}
	for _, st := range stages {
		if st.ID == stageID {
			return nil
		}
	}
	return taskerrors.ErrInvalidStage
}

func (s *service) resolveAssignee(ctx context.Context, employeeID int64) (int64, error) {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return 0, err
	}
	if emp.UserID == 0 {
		return 0, taskerrors.ErrAssigneeWithoutUser
	}
	return emp.UserID, nil
}

func (s *service) mapToResponse(ctx context.Context, t Task) TaskResponse {
	return s.mapToListResponse(ctx, []Task{t})[0]
}

// mapToListResponse resolves assignee display names in one lookup for the
// whole page.
func (s *service) mapToListResponse(ctx context.Context, tasks []Task) []TaskResponse {
	idSet := map[int64]struct{}{}
	for _, t := range tasks {
		for _, uid := range t.UserIDs {
			idSet[uid] = struct{}{}
		}
	}
	ids := make([]int64, 0, len(idSet))
	for uid := range idSet {
		ids = append(ids, uid)
	}

	names, err := s.repo.UserNames(ctx, ids)
	if err != nil {
		s.logger.Warn("resolve assignee names failed", zap.Error(err))
		names = map[int64]string{}
	}

	now := time.Now().UTC()
	resp := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		r := TaskResponse{
			ID:             t.ID,
			Name:           t.Name,
			Description:    t.Description,
			ProjectID:      t.Project.ID,
			ProjectName:    t.Project.Name,
			StageID:        t.Stage.ID,
			StageName:      t.Stage.Name,
			Priority:       t.Priority,
			AssigneeIDs:    t.UserIDs,
			PlannedHours:   t.PlannedHours,
			RemainingHours: t.RemainingHours,
			Blocked:        t.Blocked(),
			Overdue:        t.OverdueAt(now),
			DaysOverdue:    t.DaysOverdueAt(now),
		}
		if !t.Deadline.IsZero() {
			r.Deadline = t.Deadline.Format(odoo.DateLayout)
		}
		if !t.CreatedAt.IsZero() {
			r.CreatedAt = t.CreatedAt.Format(odoo.DateTimeLayout)
		}
		for _, uid := range t.UserIDs {
			if name := names[uid]; name != "" {
				r.Assignees = append(r.Assignees, name)
			}
		}
		resp[i] = r
	}
	return resp
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(odoo.DateLayout, v)
	if err != nil {
		return time.Time{}, taskerrors.ErrInvalidDeadline
	}
	return t, nil
}
