// Package bearer scopes the PSU access token to the outbound calls of a
// single authorisation step.
//
// The engine creates a Holder per step, attaches it to the step's context,
// sets the token and clears it when the step returns. Transport reads the
// holder from each request's context, so concurrent steps never see each
// other's credentials.
package bearer

import (
	"context"
	"net/http"
	"sync"
)

// Holder carries the token for one step.
type Holder struct {
	mu    sync.RWMutex
	token string
}

// Set replaces the held token. An empty token clears it.
func (h *Holder) Set(token string) {
	h.mu.Lock()
	h.token = token
	h.mu.Unlock()
}

// Clear drops the held token.
func (h *Holder) Clear() { h.Set("") }

// Token returns the held token, "" when none.
func (h *Holder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

type ctxKey struct{}

// WithHolder attaches h to ctx.
func WithHolder(ctx context.Context, h *Holder) context.Context {
	return context.WithValue(ctx, ctxKey{}, h)
}

// FromContext returns the holder attached to ctx, or nil.
func FromContext(ctx context.Context) *Holder {
	h, _ := ctx.Value(ctxKey{}).(*Holder)
	return h
}

// Scope attaches a fresh holder carrying token to ctx. The returned release
// function clears it and must be deferred by the caller.
func Scope(ctx context.Context, token string) (context.Context, func()) {
	h := &Holder{}
	h.Set(token)
	return WithHolder(ctx, h), h.Clear
}

// Transport adds "Authorization: Bearer" from the request context's holder.
// Requests without a holder, or with an empty one, are sent unchanged.
type Transport struct {
	Base http.RoundTripper
}

// NewTransport wraps base, defaulting to http.DefaultTransport.
func NewTransport(base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	h := FromContext(req.Context())
	if h == nil {
		return t.Base.RoundTrip(req)
	}
	tok := h.Token()
	if tok == "" || req.Header.Get("Authorization") != "" {
		return t.Base.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request.
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+tok)
	return t.Base.RoundTrip(r)
}
