package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/scaconnect/internal/ledgers/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface of the sandbox. Sub-repositories
// keep concerns apart and stop callers from nesting transactions.
type Store interface {
	PSUs() PSUs
	Operations() Operations
	Authorisations() Authorisations
	OAuthCodes() OAuthCodes

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST call Commit() or
	// Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type PSUs interface {
	GetPSUByLogin(ctx context.Context, login string) (domain.PSU, error)

	// UpsertPSU creates the PSU or replaces its PIN and methods.
	UpsertPSU(ctx context.Context, p domain.PSU) error

	IsEmpty(ctx context.Context) (bool, error)
}

type Operations interface {
	CreateOperation(ctx context.Context, op domain.Operation) error
	GetOperation(ctx context.Context, id string) (domain.Operation, error)

	// UpdateOperationStatus sets status and approvals and bumps updated_at.
	UpdateOperationStatus(ctx context.Context, id, status string, approvals int) error
}

type Authorisations interface {
	CreateAuthorisation(ctx context.Context, a domain.Authorisation) error
	GetAuthorisation(ctx context.Context, id string) (domain.Authorisation, error)

	// UpdateAuthorisation writes every mutable field of a.
	UpdateAuthorisation(ctx context.Context, a domain.Authorisation) error

	// DeleteExpiredAuthorisations removes authorisations past their expiry
	// that never reached a final status.
	DeleteExpiredAuthorisations(ctx context.Context, now time.Time) (int64, error)
}

type OAuthCodes interface {
	CreateOAuthCode(ctx context.Context, c domain.OAuthCode) error
	GetOAuthCodeByHash(ctx context.Context, hash string) (domain.OAuthCode, error)
	MarkOAuthCodeUsed(ctx context.Context, id string, at time.Time) error
	DeleteExpiredOAuthCodes(ctx context.Context, now time.Time) (int64, error)
}
