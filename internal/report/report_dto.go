package report

import (
	"github.com/Muhannad-Khaled/Ailigent/internal/attendance"
	"github.com/Muhannad-Khaled/Ailigent/internal/distribution"
)

type TaskStatsResponse struct {
	PeriodStart    string  `json:"period_start"`
	PeriodEnd      string  `json:"period_end"`
	TotalCreated   int64   `json:"total_created"`
	Completed      int64   `json:"completed"`
	InProgress     int64   `json:"in_progress"`
	Overdue        int64   `json:"overdue"`
	OnTime         int64   `json:"on_time"`
	CompletionRate float64 `json:"completion_rate"`
	OnTimeRate     float64 `json:"on_time_rate"`
}

type DailyReport struct {
	Date           string                          `json:"date"`
	TasksCreated   int64                           `json:"tasks_created"`
	TasksCompleted int64                           `json:"tasks_completed"`
	OverdueCount   int64                           `json:"overdue_count"`
	CompletionRate float64                         `json:"completion_rate"`
	TeamAttendance attendance.DailySummaryResponse `json:"team_attendance"`
	Highlights     []string                        `json:"highlights"`
}

type Performer struct {
	EmployeeID    int64   `json:"employee_id"`
	Name          string  `json:"name"`
	AssignedTasks int     `json:"assigned_tasks"`
	OverdueTasks  int     `json:"overdue_tasks"`
	Utilization   float64 `json:"utilization"`
}

type WeeklyReport struct {
	WeekStart      string                     `json:"week_start"`
	WeekEnd        string                     `json:"week_end"`
	Statistics     TaskStatsResponse          `json:"statistics"`
	CompletionRate float64                    `json:"completion_rate"`
	BalanceScore   float64                    `json:"balance_score"`
	TopPerformers  []Performer                `json:"top_performers"`
	Bottlenecks    []distribution.StageMetric `json:"bottlenecks"`
}

type SendReportRequest struct {
	Type       string   `json:"type" binding:"required,oneof=daily weekly"`
	Date       string   `json:"date" binding:"omitempty"`
	Recipients []string `json:"recipients" binding:"omitempty,dive,email"`
}

type RunResponse struct {
	ID          string   `json:"id"`
	Seq         int64    `json:"seq"`
	Type        string   `json:"type"`
	PeriodStart string   `json:"period_start"`
	PeriodEnd   string   `json:"period_end"`
	GeneratedAt string   `json:"generated_at"`
	Status      string   `json:"status"`
	Recipients  []string `json:"recipients"`
	Body        string   `json:"body"`
}
