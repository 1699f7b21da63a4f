// Package replay remembers authorisations that reached a terminal status so
// that a stale token for them cannot be replayed against the authority.
package replay

import (
	"context"
	"time"
)

// DefaultTTL bounds how long a closed authorisation is remembered. Tokens
// older than this are rejected by the authority anyway.
const DefaultTTL = 24 * time.Hour

// Guard records closed authorisation ids.
type Guard interface {
	// Closed reports whether the authorisation was closed before.
	Closed(ctx context.Context, authorisationID string) (bool, error)
	// Close marks the authorisation as closed.
	Close(ctx context.Context, authorisationID string) error
}
