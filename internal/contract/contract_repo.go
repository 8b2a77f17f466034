package contract

import (
	"context"
	"time"

	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
)

//go:generate mockgen -source=contract_repo.go -destination=mock/contract_repo_mock.go -package=mock
type Repository interface {
	ExpiringBefore(ctx context.Context, horizon time.Time) ([]Contract, error)
}

type odooRepository struct {
	client *odoo.Client
	cache  *odoo.Cache
}

func NewRepository(client *odoo.Client, cache *odoo.Cache) Repository {
	return &odooRepository{client: client, cache: cache}
}

func (r *odooRepository) ExpiringBefore(ctx context.Context, horizon time.Time) ([]Contract, error) {
	var out []Contract
	day := horizon.Format(odoo.DateLayout)
	key := odoo.QueryKey("reports", map[string]string{"contracts-expiring": day})
	err := r.cache.GetOrFill(ctx, key, odoo.TTLReports, &out,
		func(ctx context.Context) (any, error) {
			domain := []any{
				[]any{"state", "=", odoo.ContractStateOpen},
				[]any{"date_end", "!=", false},
				[]any{"date_end", "<=", day},
			}
			records, err := r.client.SearchRead(ctx, odoo.ModelContract, domain,
				odoo.ContractFields, &odoo.QueryOptions{Order: "date_end asc"})
			if err != nil {
				return nil, err
			}
			contracts := make([]Contract, len(records))
			for i, rec := range records {
				contracts[i] = contractFromRecord(rec)
			}
			return contracts, nil
		})
	return out, err
}
