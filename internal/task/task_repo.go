package task

import (
	"context"
	"time"

	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
)

// Filter is the repository-level task query. Assignees are filtered by user
// id; the service resolves employees to users first.
type Filter struct {
	ProjectID   int64
	StageID     int64
	UserID      int64
	Priority    string
	OverdueOnly bool
	OpenOnly    bool
	Limit       int
}

//go:generate mockgen -source=task_repo.go -destination=mock/task_repo_mock.go -package=mock
type Repository interface {
	List(ctx context.Context, f Filter) ([]Task, error)
	GetByID(ctx context.Context, id int64) (*Task, error)
	Create(ctx context.Context, values map[string]any) (int64, error)
	Update(ctx context.Context, id int64, values map[string]any) error
	Stages(ctx context.Context) ([]Stage, error)
	UserNames(ctx context.Context, ids []int64) (map[int64]string, error)
}

type odooRepository struct {
	client *odoo.Client
	cache  *odoo.Cache
}

func NewRepository(client *odoo.Client, cache *odoo.Cache) Repository {
	return &odooRepository{client: client, cache: cache}
}

func (f Filter) domain(now time.Time) []any {
	domain := []any{}
	if f.ProjectID > 0 {
		domain = append(domain, []any{"project_id", "=", f.ProjectID})
	}
	if f.StageID > 0 {
		domain = append(domain, []any{"stage_id", "=", f.StageID})
	}
	if f.UserID > 0 {
		domain = append(domain, []any{"user_ids", "in", []any{f.UserID}})
	}
	if f.Priority != "" {
		domain = append(domain, []any{"priority", "=", f.Priority})
	}
	if f.OpenOnly || f.OverdueOnly {
		domain = append(domain, []any{"stage_id.fold", "=", false})
	}
	if f.OverdueOnly {
		domain = append(domain,
			[]any{"date_deadline", "!=", false},
			[]any{"date_deadline", "<", now.Format(odoo.DateLayout)},
		)
	}
	return domain
}

func (r *odooRepository) List(ctx context.Context, f Filter) ([]Task, error) {
	var out []Task
	err := r.cache.GetOrFill(ctx, odoo.QueryKey("tasks", f), odoo.TTLTasks, &out,
		func(ctx context.Context) (any, error) {
			opts := &odoo.QueryOptions{Order: "date_deadline asc, priority desc"}
			if f.Limit > 0 {
				opts.Limit = f.Limit
			}
			records, err := r.client.SearchRead(ctx, odoo.ModelTask,
				f.domain(time.Now().UTC()), odoo.TaskFields, opts)
			if err != nil {
				return nil, err
			}
			tasks := make([]Task, len(records))
			for i, rec := range records {
				tasks[i] = taskFromRecord(rec)
			}
			return tasks, nil
		})
	return out, err
}

func (r *odooRepository) GetByID(ctx context.Context, id int64) (*Task, error) {
	records, err := r.client.Read(ctx, odoo.ModelTask, []int64{id}, odoo.TaskFields)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	t := taskFromRecord(records[0])
	return &t, nil
}

func (r *odooRepository) Create(ctx context.Context, values map[string]any) (int64, error) {
	id, err := r.client.CreateRecord(ctx, odoo.ModelTask, values)
	if err != nil {
		return 0, err
	}
	_ = r.cache.InvalidateResource(ctx, "tasks")
	return id, nil
}

func (r *odooRepository) Update(ctx context.Context, id int64, values map[string]any) error {
	if err := r.client.WriteRecord(ctx, odoo.ModelTask, []int64{id}, values); err != nil {
		return err
	}
	_ = r.cache.InvalidateResource(ctx, "tasks")
	return nil
}

func (r *odooRepository) Stages(ctx context.Context) ([]Stage, error) {
	var out []Stage
	err := r.cache.GetOrFill(ctx, odoo.Key("stages", "all"), odoo.TTLEmployees, &out,
		func(ctx context.Context) (any, error) {
			records, err := r.client.SearchRead(ctx, odoo.ModelTaskStage, []any{},
				odoo.StageFields, &odoo.QueryOptions{Order: "sequence asc"})
			if err != nil {
				return nil, err
			}
			stages := make([]Stage, len(records))
			for i, rec := range records {
				stages[i] = stageFromRecord(rec)
			}
			return stages, nil
		})
	return out, err
}

func (r *odooRepository) UserNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}
	records, err := r.client.Read(ctx, odoo.ModelUser, ids, []string{"id", "name"})
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(records))
	for _, rec := range records {
		names[rec.Int("id")] = rec.Str("name")
	}
	return names, nil
}
