package appctx

import (
	"context"

	"qrlink/models"
)

// Context key for storing the invocation being handled
type contextKey string

const InvocationContextKey contextKey = "invocation"

// SetInvocation adds the invocation scope to the context
func SetInvocation(ctx context.Context, invocation models.Invocation) context.Context {
	return context.WithValue(ctx, InvocationContextKey, invocation)
}

// GetInvocation extracts the invocation scope from the context
func GetInvocation(ctx context.Context) (models.Invocation, bool) {
	invocation, ok := ctx.Value(InvocationContextKey).(models.Invocation)
	return invocation, ok
}
