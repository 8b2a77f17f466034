package odoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/kolo/xmlrpc"
	"go.uber.org/zap"

	"github.com/Muhannad-Khaled/Ailigent/internal/config"
	"github.com/Muhannad-Khaled/Ailigent/internal/shared/apperror"
)

var (
	// ErrAuthFailed means the ERP rejected the configured credentials.
	ErrAuthFailed = apperror.New(apperror.CodeUpstreamError, "ERP authentication failed", http.StatusBadGateway)

	// ErrNotConnected means ExecuteKw ran before a successful Connect.
	ErrNotConnected = apperror.New(apperror.CodeUpstreamError, "ERP session is not established", http.StatusBadGateway)
)

// QueryOptions tune a search_read call.
type QueryOptions struct {
	Offset int
	Limit  int
	Order  string
}

// Client is an XML-RPC session against one ERP database. It authenticates
// lazily and keeps the resulting uid for the lifetime of the process;
// concurrent calls share the session.
type Client struct {
	cfg    config.Odoo
	common *xmlrpc.Client
	object *xmlrpc.Client
	logger *zap.Logger

	mu  sync.Mutex
	uid int64
}

// NewClient builds a client for the configured ERP endpoint. No network
// traffic happens until Connect or the first call.
func NewClient(cfg config.Odoo, logger ...*zap.Logger) (*Client, error) {
	l := zap.L().Named("odoo.client")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}

	transport := &http.Transport{
		MaxIdleConns:          10,
		ResponseHeaderTimeout: cfg.Timeout,
	}
	common, err := xmlrpc.NewClient(cfg.URL+"/xmlrpc/2/common", transport)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeUpstreamError, "invalid ERP endpoint", http.StatusBadGateway)
	}
	object, err := xmlrpc.NewClient(cfg.URL+"/xmlrpc/2/object", transport)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeUpstreamError, "invalid ERP endpoint", http.StatusBadGateway)
	}

	return &Client{cfg: cfg, common: common, object: object, logger: l}, nil
}

// call bridges the context into the blocking XML-RPC transport. The
// transport's header timeout bounds the spawned goroutine when the caller
// gives up first.
func (c *Client) call(ctx context.Context, rpc *xmlrpc.Client, method string, args []any, out any) error {
	done := make(chan error, 1)
	go func() { done <- rpc.Call(method, args, out) }()
	select {
	case <-ctx.Done():
		return apperror.Wrap(ctx.Err(), apperror.CodeUpstreamError, "ERP request cancelled", http.StatusBadGateway)
	case err := <-done:
		if err != nil {
			return wrapFault(err, method)
		}
		return nil
	}
}

func wrapFault(err error, method string) error {
	var fault xmlrpc.FaultError
	if errors.As(err, &fault) {
		return apperror.Wrap(err, apperror.CodeUpstreamError,
			fmt.Sprintf("ERP rejected %s", method), http.StatusBadGateway)
	}
	return apperror.Wrap(err, apperror.CodeUpstreamError,
		fmt.Sprintf("ERP call %s failed", method), http.StatusBadGateway)
}

// Connect authenticates against the common endpoint and stores the uid.
// It is safe to call repeatedly; an established session is reused.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.uid != 0 {
		return nil
	}

	var result any
	err := c.call(ctx, c.common, "authenticate",
		[]any{c.cfg.Database, c.cfg.Username, c.cfg.Password, map[string]any{}}, &result)
	if err != nil {
		return err
	}

	switch uid := result.(type) {
	case int64:
		c.uid = uid
	case float64:
		c.uid = int64(uid)
	default:
		// false means bad credentials
		return ErrAuthFailed
	}

	c.logger.Info("authenticated against ERP",
		zap.String("database", c.cfg.Database),
		zap.Int64("uid", c.uid))
	return nil
}

// UID returns the authenticated user id, 0 when not connected.
func (c *Client) UID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uid
}

// Version fetches the server version info from the common endpoint. It does
// not require authentication, which makes it the health probe of choice.
func (c *Client) Version(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.call(ctx, c.common, "version", []any{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExecuteKw invokes a model method through the object endpoint, connecting
// first when needed. out must be a pointer (or nil when the result is
// irrelevant).
func (c *Client) ExecuteKw(ctx context.Context, model, method string, args []any, kw map[string]any, out any) error {
	if err := c.Connect(ctx); err != nil {
		return err
	}
	if kw == nil {
		kw = map[string]any{}
	}
	if out == nil {
		var discard any
		out = &discard
	}
	params := []any{c.cfg.Database, c.UID(), c.cfg.Password, model, method, args, kw}
	return c.call(ctx, c.object, "execute_kw", params, out)
}

// SearchRead runs search_read with the given domain and field list.
func (c *Client) SearchRead(ctx context.Context, model string, domain []any, fields []string, opts *QueryOptions) ([]Record, error) {
	kw := map[string]any{"fields": fields}
	if opts != nil {
		if opts.Offset > 0 {
			kw["offset"] = opts.Offset
		}
		if opts.Limit > 0 {
			kw["limit"] = opts.Limit
		}
		if opts.Order != "" {
			kw["order"] = opts.Order
		}
	}

	var raw []map[string]any
	if err := c.ExecuteKw(ctx, model, "search_read", []any{domain}, kw, &raw); err != nil {
		return nil, err
	}
	records := make([]Record, len(raw))
	for i, row := range raw {
		records[i] = Record(row)
	}
	return records, nil
}

// Search returns the ids matching a domain.
func (c *Client) Search(ctx context.Context, model string, domain []any) ([]int64, error) {
	var raw []any
	if err := c.ExecuteKw(ctx, model, "search", []any{domain}, nil, &raw); err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(raw))
	for _, v := range raw {
		switch id := v.(type) {
		case int64:
			ids = append(ids, id)
		case float64:
			ids = append(ids, int64(id))
		}
	}
	return ids, nil
}

// SearchCount counts the records matching a domain.
func (c *Client) SearchCount(ctx context.Context, model string, domain []any) (int64, error) {
	var n any
	if err := c.ExecuteKw(ctx, model, "search_count", []any{domain}, nil, &n); err != nil {
		return 0, err
	}
	switch v := n.(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	}
	return 0, nil
}

// Read fetches the given fields for a set of ids.
func (c *Client) Read(ctx context.Context, model string, ids []int64, fields []string) ([]Record, error) {
	var raw []map[string]any
	kw := map[string]any{"fields": fields}
	if err := c.ExecuteKw(ctx, model, "read", []any{ids}, kw, &raw); err != nil {
		return nil, err
	}
	records := make([]Record, len(raw))
	for i, row := range raw {
		records[i] = Record(row)
	}
	return records, nil
}

// CreateRecord inserts one record and returns its id.
func (c *Client) CreateRecord(ctx context.Context, model string, values map[string]any) (int64, error) {
	var id any
	if err := c.ExecuteKw(ctx, model, "create", []any{values}, nil, &id); err != nil {
		return 0, err
	}
	switch v := id.(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	}
	return 0, apperror.New(apperror.CodeUpstreamError, "ERP create returned no id", http.StatusBadGateway)
}

// WriteRecord updates fields on a set of records.
func (c *Client) WriteRecord(ctx context.Context, model string, ids []int64, values map[string]any) error {
	return c.ExecuteKw(ctx, model, "write", []any{ids, values}, nil, nil)
}

// Unlink deletes records.
func (c *Client) Unlink(ctx context.Context, model string, ids []int64) error {
	return c.ExecuteKw(ctx, model, "unlink", []any{ids}, nil, nil)
}

// CallMethod invokes an arbitrary model method on a set of record ids, e.g.
// action_confirm on a leave request or send on an outgoing mail.
func (c *Client) CallMethod(ctx context.Context, model, method string, ids []int64, kw map[string]any) error {
	return c.ExecuteKw(ctx, model, method, []any{ids}, kw, nil)
}

// FieldsGet returns the model's field definitions keyed by field name.
// Useful for probing which optional modules are installed.
func (c *Client) FieldsGet(ctx context.Context, model string, fields []string) (map[string]map[string]any, error) {
	args := []any{}
	if len(fields) > 0 {
		args = append(args, fields)
	}
	var out map[string]map[string]any
	if err := c.ExecuteKw(ctx, model, "fields_get", args, map[string]any{
		"attributes": []string{"string", "type", "required"},
	}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetParam reads a system parameter, "" when unset.
func (c *Client) GetParam(ctx context.Context, key string) (string, error) {
	var out any
	err := c.ExecuteKw(ctx, ModelConfigParameter, "get_param", []any{key}, nil, &out)
	if err != nil {
		return "", err
	}
	if s, ok := out.(string); ok {
		return s, nil
	}
	// false means the key does not exist
	return "", nil
}

// SetParam stores a system parameter.
func (c *Client) SetParam(ctx context.Context, key, value string) error {
	return c.ExecuteKw(ctx, ModelConfigParameter, "set_param", []any{key, value}, nil, nil)
}

// DeleteParam removes a system parameter if present.
func (c *Client) DeleteParam(ctx context.Context, key string) error {
	ids, err := c.Search(ctx, ModelConfigParameter, []any{[]any{"key", "=", key}})
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	return c.Unlink(ctx, ModelConfigParameter, ids)
}
