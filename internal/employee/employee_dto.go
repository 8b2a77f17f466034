package employee

type ListEmployeesQuery struct {
	DepartmentID    int64 `form:"department_id"`
	IncludeInactive bool  `form:"include_inactive"`
}

type EmployeeResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	WorkEmail      string `json:"work_email"`
	JobTitle       string `json:"job_title"`
	DepartmentID   int64  `json:"department_id,omitempty"`
	DepartmentName string `json:"department_name,omitempty"`
	ManagerID      int64  `json:"manager_id,omitempty"`
	ManagerName    string `json:"manager_name,omitempty"`
	UserID         int64  `json:"user_id,omitempty"`
	Active         bool   `json:"active"`
}

type WorkloadResponse struct {
	EmployeeID          int64   `json:"employee_id"`
	Name                string  `json:"name"`
	AssignedTasks       int     `json:"assigned_tasks"`
	OverdueTasks        int     `json:"overdue_tasks"`
	TotalRemainingHours float64 `json:"total_remaining_hours"`
	WeeklyCapacity      float64 `json:"weekly_capacity"`
	Utilization         float64 `json:"utilization"`
	Status              string  `json:"status"`
}

type DepartmentResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ManagerID   int64  `json:"manager_id,omitempty"`
	ManagerName string `json:"manager_name,omitempty"`
	MemberCount int    `json:"member_count"`
}
