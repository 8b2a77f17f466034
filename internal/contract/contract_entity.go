package contract

import (
	"time"

	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
)

// Contract is an hr.contract record.
type Contract struct {
	ID        int64
	Name      string
	Employee  odoo.Many2One
	DateStart time.Time
	DateEnd   time.Time
	State     string
	Wage      float64
}

func contractFromRecord(rec odoo.Record) Contract {
	return Contract{
		ID:        rec.Int("id"),
		Name:      rec.Str("name"),
		Employee:  rec.Rel("employee_id"),
		DateStart: rec.Time("date_start"),
		DateEnd:   rec.Time("date_end"),
		State:     rec.Str("state"),
		Wage:      rec.Float("wage"),
	}
}

// DaysLeftAt is the whole days until the contract ends, negative when
// already past.
func (c Contract) DaysLeftAt(now time.Time) int {
	return int(c.DateEnd.Sub(now).Hours() / 24)
}
