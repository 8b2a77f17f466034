package recruitment

import (
	"time"

	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
)

// Event is a calendar.event record attached to an applicant.
type Event struct {
	ID          int64
	Name        string
	Start       time.Time
	Stop        time.Time
	ApplicantID int64
	PartnerIDs  []int64
}

func eventFromRecord(rec odoo.Record) Event {
	return Event{
		ID:          rec.Int("id"),
		Name:        rec.Str("name"),
		Start:       rec.Time("start"),
		Stop:        rec.Time("stop"),
		ApplicantID: rec.Int("res_id"),
		PartnerIDs:  rec.IDs("partner_ids"),
	}
}
