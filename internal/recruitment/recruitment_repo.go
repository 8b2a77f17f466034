package recruitment

import (
	"context"
	"time"

	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
)

//go:generate mockgen -source=recruitment_repo.go -destination=mock/recruitment_repo_mock.go -package=mock
type Repository interface {
	InterviewEvents(ctx context.Context, from, to time.Time) ([]Event, error)
	ApplicantNames(ctx context.Context, ids []int64) (map[int64]string, error)
	PartnerNames(ctx context.Context, ids []int64) (map[int64]string, error)
}

// Interview windows move every call, so nothing here is cached.
type odooRepository struct {
	client *odoo.Client
}

func NewRepository(client *odoo.Client) Repository {
	return &odooRepository{client: client}
}

func (r *odooRepository) InterviewEvents(ctx context.Context, from, to time.Time) ([]Event, error) {
	domain := []any{
		[]any{"res_model", "=", odoo.ModelApplicant},
		[]any{"start", ">=", from.Format(odoo.DateTimeLayout)},
		[]any{"start", "<=", to.Format(odoo.DateTimeLayout)},
	}
	records, err := r.client.SearchRead(ctx, odoo.ModelCalendarEvent, domain,
		odoo.CalendarEventFields, &odoo.QueryOptions{Order: "start asc"})
	if err != nil {
		return nil, err
	}
	events := make([]Event, len(records))
	for i, rec := range records {
		events[i] = eventFromRecord(rec)
	}
	return events, nil
}

func (r *odooRepository) ApplicantNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}
	records, err := r.client.Read(ctx, odoo.ModelApplicant, ids, []string{"partner_name"})
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(records))
	for _, rec := range records {
		names[rec.Int("id")] = rec.Str("partner_name")
	}
	return names, nil
}

func (r *odooRepository) PartnerNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}
	records, err := r.client.Read(ctx, odoo.ModelPartner, ids, []string{"name"})
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(records))
	for _, rec := range records {
		names[rec.Int("id")] = rec.Str("name")
	}
	return names, nil
}
