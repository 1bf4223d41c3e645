package observability

import (
	"context"
	"time"
)

// OperationContext identifies the request an operation belongs to. The
// request-id middleware seeds it, and the workflow engine's span wrappers
// read it back so per-node traces can be joined to the HTTP request.
type OperationContext struct {
	Service   string
	Operation string
	RequestID string
	StartTime time.Time
}

// NewOperationContext creates an operation context stamped with the current
// time.
func NewOperationContext(service, operation, requestID string) *OperationContext {
	return &OperationContext{
		Service:   service,
		Operation: operation,
		RequestID: requestID,
		StartTime: time.Now(),
	}
}

type operationContextKey struct{}

// WithOperationContext stores oc in the context.
func WithOperationContext(ctx context.Context, oc *OperationContext) context.Context {
	return context.WithValue(ctx, operationContextKey{}, oc)
}

// OperationContextFromContext returns the stored operation context, or nil.
func OperationContextFromContext(ctx context.Context) *OperationContext {
	oc, _ := ctx.Value(operationContextKey{}).(*OperationContext)
	return oc
}
