package leave

import (
	"time"

	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
)

// LeaveRequest is an hr.leave record.
type LeaveRequest struct {
	ID       int64
	Type     odoo.Many2One
	DateFrom time.Time
	DateTo   time.Time
	Days     float64
	State    string
	Reason   string
}

func leaveFromRecord(rec odoo.Record) LeaveRequest {
	return LeaveRequest{
		ID:       rec.Int("id"),
		Type:     rec.Rel("holiday_status_id"),
		DateFrom: rec.Time("date_from"),
		DateTo:   rec.Time("date_to"),
		Days:     rec.Float("number_of_days"),
		State:    rec.Str("state"),
		Reason:   rec.Str("name"),
	}
}

// Allocation is an hr.leave.allocation record.
type Allocation struct {
	Type  odoo.Many2One
	Days  float64
	State string
}

func allocationFromRecord(rec odoo.Record) Allocation {
	return Allocation{
		Type:  rec.Rel("holiday_status_id"),
		Days:  rec.Float("number_of_days"),
		State: rec.Str("state"),
	}
}

// LeaveType is an hr.leave.type record.
type LeaveType struct {
	ID   int64
	Name string
}
