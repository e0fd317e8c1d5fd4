package logging

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ContextKey defines the context key type.
type ContextKey string

// ContextIDKey holds the key of the context ID.
const ContextIDKey ContextKey = "ctx_id"

// WithContextID adds a new random context ID to the context.
func WithContextID(ctx context.Context) (context.Context, error) {
	ctxID, err := uuid.NewV4()
	if err != nil {
		return nil, errors.Wrap(err, "new uuid error")
	}
	return context.WithValue(ctx, ContextIDKey, ctxID), nil
}

// ContextID returns the context ID, if set.
func ContextID(ctx context.Context) (uuid.UUID, bool) {
	ctxID, ok := ctx.Value(ContextIDKey).(uuid.UUID)
	return ctxID, ok
}

// Fields returns the log fields for the given context.
func Fields(ctx context.Context) log.Fields {
	f := log.Fields{}
	if ctxID, ok := ContextID(ctx); ok {
		f["ctx_id"] = ctxID
	}
	return f
}
