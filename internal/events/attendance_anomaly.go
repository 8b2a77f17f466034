package events

import "time"

type AttendanceAnomalyEvent struct {
	EventType    string    `json:"event_type"`
	EmployeeID   int64     `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	AnomalyType  string    `json:"anomaly_type"`
	Severity     string    `json:"severity"`
	Detail       string    `json:"detail"`
	Date         string    `json:"date"`
	OccurredAt   time.Time `json:"occurred_at"`
}
