package events

import "time"

type AccountLinkedEvent struct {
	EventType    string    `json:"event_type"`
	TelegramID   int64     `json:"telegram_id"`
	Username     string    `json:"username"`
	EmployeeID   int64     `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	OccurredAt   time.Time `json:"occurred_at"`
}
