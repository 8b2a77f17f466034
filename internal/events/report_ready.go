package events

import "time"

type ReportReadyEvent struct {
	EventType   string    `json:"event_type"`
	ReportType  string    `json:"report_type"`
	PeriodStart string    `json:"period_start"`
	PeriodEnd   string    `json:"period_end"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	Recipients  []string  `json:"recipients"`
	OccurredAt  time.Time `json:"occurred_at"`
}
