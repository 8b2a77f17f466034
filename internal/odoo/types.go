package odoo

import (
	"time"
)

// Record is a raw ERP row as decoded from XML-RPC. Null columns arrive as
// boolean false, relational columns as [id, display_name] pairs, so every
// field read goes through the typed accessors below instead of plain
// assertions.
type Record map[string]any

// Many2One is a decoded relational column.
type Many2One struct {
	ID   int64
	Name string
}

// Empty reports whether the column was null.
func (m Many2One) Empty() bool { return m.ID == 0 }

// Date layouts used by the ERP wire format.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// Str returns a string column, mapping null (false) to "".
func (r Record) Str(field string) string {
	if s, ok := r[field].(string); ok {
		return s
	}
	return ""
}

// Int returns an integer column, mapping null to 0.
func (r Record) Int(field string) int64 {
	switch v := r[field].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// Float returns a float column, mapping null to 0.
func (r Record) Float(field string) float64 {
	switch v := r[field].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

// Bool returns a boolean column.
func (r Record) Bool(field string) bool {
	b, _ := r[field].(bool)
	return b
}

// Rel decodes a many2one column. Null yields the zero Many2One.
func (r Record) Rel(field string) Many2One {
	pair, ok := r[field].([]any)
	if !ok || len(pair) < 2 {
		return Many2One{}
	}
	m := Many2One{}
	switch id := pair[0].(type) {
	case int64:
		m.ID = id
	case float64:
		m.ID = int64(id)
	}
	m.Name, _ = pair[1].(string)
	return m
}

// IDs decodes a one2many or many2many column into record IDs.
func (r Record) IDs(field string) []int64 {
	raw, ok := r[field].([]any)
	if !ok {
		return nil
	}
	out := make([]int64, 0, len(raw))
	for _, v := range raw {
		switch id := v.(type) {
		case int64:
			out = append(out, id)
		case float64:
			out = append(out, int64(id))
		}
	}
	return out
}

// Time parses a datetime column, falling back to the date-only layout.
// Null or unparseable values yield the zero time.
func (r Record) Time(field string) time.Time {
	s := r.Str(field)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(DateTimeLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t
	}
	return time.Time{}
}

// ReplaceIDs builds the write command that replaces a many2many set.
func ReplaceIDs(ids []int64) []any {
	set := make([]any, len(ids))
	for i, id := range ids {
		set[i] = id
	}
	return []any{[]any{int64(6), int64(0), set}}
}

// LinkID builds the write command that adds one record to a many2many set.
func LinkID(id int64) []any {
	return []any{[]any{int64(4), id}}
}

// UnlinkID builds the write command that removes one record from a
// many2many set without deleting it.
func UnlinkID(id int64) []any {
	return []any{[]any{int64(3), id}}
}
