package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/scaconnect/internal/ledgers/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // caller will commit/rollback and outer DB stays open

// Ping is a no-op, the connection is held by the transaction.
func (t *txStore) Ping(ctx context.Context) error {
	return nil
}

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) PSUs() store.PSUs                     { return &psusRepo{q: t.tx} }
func (t *txStore) Operations() store.Operations         { return &operationsRepo{q: t.tx} }
func (t *txStore) Authorisations() store.Authorisations { return &authorisationsRepo{q: t.tx} }
func (t *txStore) OAuthCodes() store.OAuthCodes         { return &oauthCodesRepo{q: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // migrations are applied before any tx
