// Package idx mints resource identifiers of the form "<kind>_<ulid>", e.g.
// "auth_01JA2Z6V0N8K3F7Q5W9XYZ1234". The ULID keeps ids of one kind sortable
// by creation time; the prefix lets handlers reject an id of the wrong kind
// before touching the store.
package idx

import (
	"crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Kind is the prefix naming what an ID refers to.
type Kind string

const (
	KindOperation     Kind = "op"
	KindAuthorisation Kind = "auth"
	KindPSU           Kind = "psu"
	KindOAuthCode     Kind = "oac"
	KindRequest       Kind = "req"
)

const sep = "_"

// ID is a prefixed ULID.
type ID string

// ErrInvalid reports a malformed or wrongly prefixed id.
var ErrInvalid = errors.New("idx: invalid id")

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns an id of kind k stamped with the current time.
func New(k Kind) ID {
	return NewAt(k, time.Now().UTC())
}

// NewAt returns an id of kind k stamped with t. Ids minted within the same
// millisecond still sort in minting order.
func NewAt(k Kind, t time.Time) ID {
	mu.Lock()
	u := ulid.MustNew(ulid.Timestamp(t), entropy)
	mu.Unlock()
	return ID(string(k) + sep + u.String())
}

// Parse validates s as an id of any known form.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	prefix, raw, ok := strings.Cut(s, sep)
	if !ok || prefix == "" {
		return "", ErrInvalid
	}
	if _, err := ulid.ParseStrict(raw); err != nil {
		return "", ErrInvalid
	}
	return ID(s), nil
}

// ParseKind is Parse restricted to kind k.
func ParseKind(k Kind, s string) (ID, error) {
	id, err := Parse(s)
	if err != nil {
		return "", err
	}
	if id.Kind() != k {
		return "", ErrInvalid
	}
	return id, nil
}

// Is reports whether s is a well-formed id of kind k.
func Is(k Kind, s string) bool {
	_, err := ParseKind(k, s)
	return err == nil
}

func (id ID) String() string { return string(id) }

// Kind returns the prefix, "" for a malformed id.
func (id ID) Kind() Kind {
	prefix, _, ok := strings.Cut(string(id), sep)
	if !ok {
		return ""
	}
	return Kind(prefix)
}

// Time is the creation time embedded in the id, zero when malformed.
func (id ID) Time() time.Time {
	_, raw, ok := strings.Cut(string(id), sep)
	if !ok {
		return time.Time{}
	}
	u, err := ulid.ParseStrict(raw)
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time())
}
