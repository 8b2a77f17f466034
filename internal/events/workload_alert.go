package events

import "time"

type WorkloadAlertEvent struct {
	EventType    string    `json:"event_type"`
	EmployeeID   int64     `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	Utilization  float64   `json:"utilization"`
	Status       string    `json:"status"`
	OpenTasks    int       `json:"open_tasks"`
	OccurredAt   time.Time `json:"occurred_at"`
}
