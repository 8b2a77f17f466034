package distribution

import (
	"github.com/Muhannad-Khaled/Ailigent/internal/employee"
)

type StageMetric struct {
	StageID        int64   `json:"stage_id"`
	StageName      string  `json:"stage_name"`
	TaskCount      int     `json:"task_count"`
	Ratio          float64 `json:"ratio"`
	AvgDaysInStage float64 `json:"avg_days_in_stage"`
	OverdueCount   int     `json:"overdue_count"`
	BlockedCount   int     `json:"blocked_count"`
	IsBottleneck   bool    `json:"is_bottleneck"`
}

type BottleneckReport struct {
	GeneratedAt     string        `json:"generated_at"`
	OpenTasks       int           `json:"open_tasks"`
	Stages          []StageMetric `json:"stages"`
	Bottlenecks     []StageMetric `json:"bottlenecks"`
	Severity        string        `json:"severity"`
	Recommendations []string      `json:"recommendations"`
}

type BalanceReport struct {
	GeneratedAt   string                      `json:"generated_at"`
	Workloads     []employee.WorkloadResponse `json:"workloads"`
	BalanceScore  float64                     `json:"balance_score"`
	Overloaded    []employee.WorkloadResponse `json:"overloaded"`
	Underutilized []employee.WorkloadResponse `json:"underutilized"`
	Suggestions   []RebalanceSuggestion       `json:"suggestions"`
}

type RebalanceSuggestion struct {
	FromEmployeeID  int64   `json:"from_employee_id"`
	FromEmployee    string  `json:"from_employee"`
	ToEmployeeID    int64   `json:"to_employee_id"`
	ToEmployee      string  `json:"to_employee"`
	HoursToTransfer float64 `json:"hours_to_transfer"`
	Reason          string  `json:"reason"`
}

type AssignmentCandidate struct {
	EmployeeID           int64   `json:"employee_id"`
	Name                 string  `json:"name"`
	Utilization          float64 `json:"utilization"`
	ProjectedUtilization float64 `json:"projected_utilization"`
}

type AssignmentSuggestion struct {
	TaskID     int64                 `json:"task_id"`
	TaskName   string                `json:"task_name"`
	Hours      float64               `json:"hours"`
	Candidates []AssignmentCandidate `json:"candidates"`
	Best       *AssignmentCandidate  `json:"best,omitempty"`
}

type SuggestAssigneeRequest struct {
	TaskID int64 `json:"task_id" binding:"required,gt=0"`
}

type AlertResponse struct {
	ID         string  `json:"id"`
	DetectedAt string  `json:"detected_at"`
	StageID    int64   `json:"stage_id"`
	StageName  string  `json:"stage_name"`
	Ratio      float64 `json:"ratio"`
	Severity   string  `json:"severity"`
	Resolved   bool    `json:"resolved"`
}

type SnapshotResponse struct {
	ID           string  `json:"id"`
	TakenAt      string  `json:"taken_at"`
	EmployeeID   int64   `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Utilization  float64 `json:"utilization"`
	Status       string  `json:"status"`
}
