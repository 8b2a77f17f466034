package employee

import (
	"time"

	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
)

// Employee is the directory view of an hr.employee record.
type Employee struct {
	ID         int64
	Name       string
	WorkEmail  string
	JobTitle   string
	Department odoo.Many2One
	Manager    odoo.Many2One
	UserID     int64
	Active     bool
}

func employeeFromRecord(rec odoo.Record) Employee {
	return Employee{
		ID:         rec.Int("id"),
		Name:       rec.Str("name"),
		WorkEmail:  rec.Str("work_email"),
		JobTitle:   rec.Str("job_title"),
		Department: rec.Rel("department_id"),
		Manager:    rec.Rel("parent_id"),
		UserID:     rec.Rel("user_id").ID,
		Active:     rec.Bool("active"),
	}
}

// Department is an hr.department record with its member count.
type Department struct {
	ID          int64
	Name        string
	Manager     odoo.Many2One
	MemberCount int
}

// AssignedTask is the slice of a project.task row that workload math needs.
type AssignedTask struct {
	UserIDs        []int64
	RemainingHours float64
	Deadline       time.Time
}

func assignedTaskFromRecord(rec odoo.Record) AssignedTask {
	return AssignedTask{
		UserIDs:        rec.IDs("user_ids"),
		RemainingHours: rec.Float("remaining_hours"),
		Deadline:       rec.Time("date_deadline"),
	}
}
