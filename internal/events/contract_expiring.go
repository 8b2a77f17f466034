package events

import "time"

type ContractExpiringEvent struct {
	EventType    string    `json:"event_type"`
	ContractID   int64     `json:"contract_id"`
	ContractName string    `json:"contract_name"`
	EmployeeID   int64     `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	DateEnd      string    `json:"date_end"`
	DaysLeft     int       `json:"days_left"`
	OccurredAt   time.Time `json:"occurred_at"`
}
