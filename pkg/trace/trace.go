package trace

import (
	"context"

	"github.com/google/uuid"
)

// HeaderName carries the trace id on HTTP requests and responses.
const HeaderName = "X-Trace-ID"

// 外部传入的 trace id 最大长度
const maxIDLen = 64

type ctxKey struct{}

// NewID returns a random UUIDv4 string.
func NewID() string {
	return uuid.New().String()
}

// Sanitize keeps a client-supplied id only if it is short and made of
// [A-Za-z0-9_-]; otherwise a fresh id is returned.
func Sanitize(id string) string {
	if id == "" || len(id) > maxIDLen {
		return NewID()
	}
	for _, r := range id {
		ok := r == '-' || r == '_' ||
			(r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !ok {
			return NewID()
		}
	}
	return id
}

func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}
