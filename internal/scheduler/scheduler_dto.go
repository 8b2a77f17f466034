package scheduler

import "time"

type JobResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Spec      string     `json:"spec"`
	Paused    bool       `json:"paused"`
	Running   bool       `json:"running"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	LastError string     `json:"last_error,omitempty"`
	NextRun   *time.Time `json:"next_run,omitempty"`
}
