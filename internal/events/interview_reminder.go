package events

import "time"

type InterviewReminderEvent struct {
	EventType     string    `json:"event_type"`
	CalendarID    int64     `json:"calendar_id"`
	ApplicantName string    `json:"applicant_name"`
	Subject       string    `json:"subject"`
	Start         string    `json:"start"`
	Attendees     []string  `json:"attendees"`
	OccurredAt    time.Time `json:"occurred_at"`
}
