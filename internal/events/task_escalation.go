package events

import "time"

type TaskEscalationEvent struct {
	EventType    string        `json:"event_type"`
	EmployeeID   int64         `json:"employee_id"`
	EmployeeName string        `json:"employee_name"`
	ManagerID    int64         `json:"manager_id,omitempty"`
	ManagerName  string        `json:"manager_name,omitempty"`
	Tasks        []OverdueTask `json:"tasks"`
	OccurredAt   time.Time     `json:"occurred_at"`
}
