package attendance

import (
	"time"

	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
)

// Record is an hr.attendance row.
type Record struct {
	ID          int64
	Employee    odoo.Many2One
	CheckIn     time.Time
	CheckOut    time.Time
	WorkedHours float64
}

func recordFromOdoo(rec odoo.Record) Record {
	return Record{
		ID:          rec.Int("id"),
		Employee:    rec.Rel("employee_id"),
		CheckIn:     rec.Time("check_in"),
		CheckOut:    rec.Time("check_out"),
		WorkedHours: rec.Float("worked_hours"),
	}
}

// Open reports whether the employee never checked out.
func (r Record) Open() bool { return r.CheckOut.IsZero() }
