package recruitment

type InterviewResponse struct {
	EventID       int64    `json:"event_id"`
	ApplicantID   int64    `json:"applicant_id"`
	ApplicantName string   `json:"applicant_name"`
	Subject       string   `json:"subject"`
	Start         string   `json:"start"`
	Stop          string   `json:"stop"`
	Attendees     []string `json:"attendees"`
}
