package policy

import (
	"time"

	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
)

// Document is a company policy attachment as published in the ERP.
type Document struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	MimeType    string    `json:"mimetype,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

func fromRecord(r odoo.Record) Document {
	return Document{
		ID:          r.Int("id"),
		Name:        r.Str("name"),
		Description: r.Str("description"),
		MimeType:    r.Str("mimetype"),
		CreatedAt:   r.Time("create_date"),
	}
}
