package task

type ListTasksQuery struct {
	ProjectID   int64  `form:"project_id"`
	StageID     int64  `form:"stage_id"`
	EmployeeID  int64  `form:"employee_id"`
	Priority    string `form:"priority" binding:"omitempty,oneof=0 1 2 3"`
	OverdueOnly bool   `form:"overdue"`
}

type CreateTaskRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Deadline    string `json:"date_deadline"`
	Priority    string `json:"priority" binding:"omitempty,oneof=0 1 2 3"`
	ProjectID   int64  `json:"project_id"`
	EmployeeID  int64  `json:"employee_id"`
}

type UpdateTaskRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Deadline    *string `json:"date_deadline"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=0 1 2 3"`
	StageID     *int64  `json:"stage_id"`
}

type AssignTaskRequest struct {
	EmployeeID int64 `json:"employee_id" binding:"required"`
}

type TaskResponse struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	ProjectID      int64    `json:"project_id,omitempty"`
	ProjectName    string   `json:"project_name,omitempty"`
	StageID        int64    `json:"stage_id,omitempty"`
	StageName      string   `json:"stage_name,omitempty"`
	Priority       string   `json:"priority"`
	Deadline       string   `json:"date_deadline,omitempty"`
	AssigneeIDs    []int64  `json:"assignee_ids,omitempty"`
	Assignees      []string `json:"assignees,omitempty"`
	PlannedHours   float64  `json:"planned_hours"`
	RemainingHours float64  `json:"remaining_hours"`
	Blocked        bool     `json:"blocked"`
	Overdue        bool     `json:"overdue"`
	DaysOverdue    int      `json:"days_overdue,omitempty"`
	CreatedAt      string   `json:"create_date,omitempty"`
}

type StageResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Sequence int    `json:"sequence"`
	Fold     bool   `json:"fold"`
}

type StatisticsResponse struct {
	Total          int            `json:"total"`
	ByStage        map[string]int `json:"by_stage"`
	ByPriority     map[string]int `json:"by_priority"`
	Completed      int            `json:"completed"`
	CompletionRate float64        `json:"completion_rate"`
	OverdueCount   int            `json:"overdue_count"`
}
