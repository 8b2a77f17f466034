package task

import (
	"time"

	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
)

// Task is the working view of a project.task record.
type Task struct {
	ID             int64
	Name           string
	Description    string
	Project        odoo.Many2One
	Stage          odoo.Many2One
	Priority       string
	Deadline       time.Time
	AssignedAt     time.Time
	CreatedAt      time.Time
	UserIDs        []int64
	PlannedHours   float64
	RemainingHours float64
	KanbanState    string
}

func taskFromRecord(rec odoo.Record) Task {
	return Task{
		ID:             rec.Int("id"),
		Name:           rec.Str("name"),
		Description:    rec.Str("description"),
		Project:        rec.Rel("project_id"),
		Stage:          rec.Rel("stage_id"),
		Priority:       rec.Str("priority"),
		Deadline:       rec.Time("date_deadline"),
		AssignedAt:     rec.Time("date_assign"),
		CreatedAt:      rec.Time("create_date"),
		UserIDs:        rec.IDs("user_ids"),
		PlannedHours:   rec.Float("planned_hours"),
		RemainingHours: rec.Float("remaining_hours"),
		KanbanState:    rec.Str("kanban_state"),
	}
}

// Blocked reports whether the kanban state flags the task as stuck.
func (t Task) Blocked() bool { return t.KanbanState == "blocked" }

// HighPriority reports whether the priority is starred ("2") or urgent ("3").
func (t Task) HighPriority() bool {
	return t.Priority == odoo.PriorityHigh || t.Priority == odoo.PriorityUrgent
}

// OverdueAt reports whether the deadline has passed. Tasks without a
// deadline are never overdue.
func (t Task) OverdueAt(now time.Time) bool {
	return !t.Deadline.IsZero() && t.Deadline.Before(now)
}

// DaysOverdueAt is the whole days elapsed since the deadline, 0 when not
// overdue.
func (t Task) DaysOverdueAt(now time.Time) int {
	if !t.OverdueAt(now) {
		return 0
	}
	return int(now.Sub(t.Deadline).Hours() / 24)
}

// Stage is a project.task.type record. fold marks terminal columns such as
// Done and Cancelled.
type Stage struct {
	ID       int64
	Name     string
	Sequence int
	Fold     bool
}

func stageFromRecord(rec odoo.Record) Stage {
	return Stage{
		ID:       rec.Int("id"),
		Name:     rec.Str("name"),
		Sequence: int(rec.Int("sequence")),
		Fold:     rec.Bool("fold"),
	}
}
