package bootstrap

import "context"

// AuditLog is a lifecycle event worth keeping a trace of, such as a
// server start or shutdown.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
