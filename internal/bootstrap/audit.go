package bootstrap

import "context"

// AuditLog is a structured trail entry for operational events that must
// survive log rotation policy discussions: startups, shutdowns, policy
// reloads.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
