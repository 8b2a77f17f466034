package events

import "time"

type OverdueTask struct {
	TaskID      int64  `json:"task_id"`
	Name        string `json:"name"`
	Deadline    string `json:"deadline"`
	DaysOverdue int    `json:"days_overdue"`
}

type TaskOverdueEvent struct {
	EventType    string        `json:"event_type"`
	EmployeeID   int64         `json:"employee_id"`
	EmployeeName string        `json:"employee_name"`
	Tasks        []OverdueTask `json:"tasks"`
	OccurredAt   time.Time     `json:"occurred_at"`
}
