package policy

import (
	"context"

	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
)

// listLimit caps how many policy documents a listing pulls from the ERP.
const listLimit = 20

//go:generate mockgen -source=policy_repo.go -destination=mock/policy_repo_mock.go -package=mock
type Repository interface {
	List(ctx context.Context) ([]Document, error)
}

type odooRepository struct {
	client *odoo.Client
	cache  *odoo.Cache
}

func NewRepository(client *odoo.Client, cache *odoo.Cache) Repository {
	return &odooRepository{client: client, cache: cache}
}

// List returns policy attachments published on the employee model. Policies
// change rarely, so results sit in the cache for the directory TTL.
func (r *odooRepository) List(ctx context.Context) ([]Document, error) {
	key := odoo.Key("policies", "all")

	var docs []Document
	err := r.cache.GetOrFill(ctx, key, odoo.TTLEmployees, &docs, func(ctx context.Context) (any, error) {
		domain := []any{
			[]any{"res_model", "=", odoo.ModelEmployee},
			[]any{"name", "ilike", "policy"},
		}
		records, err := r.client.SearchRead(ctx, odoo.ModelAttachment, domain, odoo.AttachmentFields, &odoo.QueryOptions{
			Order: "name asc",
			Limit: listLimit,
		})
		if err != nil {
			return nil, err
		}

		out := make([]Document, len(records))
		for i, rec := range records {
			out[i] = fromRecord(rec)
		}
		return out, nil
	})
	return docs, err
}
