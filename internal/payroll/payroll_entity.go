package payroll

import (
	"time"

	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
)

// Payslip is an hr.payslip record.
type Payslip struct {
	ID        int64
	Name      string
	DateFrom  time.Time
	DateTo    time.Time
	State     string
	NetWage   float64
	GrossWage float64
	BasicWage float64
}

func payslipFromRecord(rec odoo.Record) Payslip {
	return Payslip{
		ID:        rec.Int("id"),
		Name:      rec.Str("name"),
		DateFrom:  rec.Time("date_from"),
		DateTo:    rec.Time("date_to"),
		State:     rec.Str("state"),
		NetWage:   rec.Float("net_wage"),
		GrossWage: rec.Float("gross_wage"),
		BasicWage: rec.Float("basic_wage"),
	}
}

// PayslipLine is an hr.payslip.line salary rule row.
type PayslipLine struct {
	Name     string
	Code     string
	Category string
	Total    float64
}

func lineFromRecord(rec odoo.Record) PayslipLine {
	return PayslipLine{
		Name:     rec.Str("name"),
		Code:     rec.Str("code"),
		Category: rec.Rel("category_id").Name,
		Total:    rec.Float("total"),
	}
}
