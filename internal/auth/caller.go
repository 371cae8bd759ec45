package auth

import "context"

// Caller is the authenticated identity supplied by the outer auth layer.
// This service only consumes it.
type Caller struct {
	UserID string
}

type callerKey struct{}

func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext reports false when no caller, or one without a user id,
// was attached.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(Caller)
	if !ok || caller.UserID == "" {
		return Caller{}, false
	}
	return caller, true
}
