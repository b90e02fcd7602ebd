package llm

import "context"

// Tag labels a request in the request log.
type Tag struct {
	Purpose   string // e.g. "coach"
	SessionID string // the night the request is about, if any
}

type tagKey struct{}

// WithTag attaches t to requests made with ctx.
func WithTag(ctx context.Context, t Tag) context.Context {
	return context.WithValue(ctx, tagKey{}, t)
}

// TagFrom returns the tag attached to ctx. Purpose defaults to "unknown".
func TagFrom(ctx context.Context) Tag {
	t, _ := ctx.Value(tagKey{}).(Tag)
	if t.Purpose == "" {
		t.Purpose = "unknown"
	}
	return t
}
