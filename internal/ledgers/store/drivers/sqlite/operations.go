package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/scaconnect/internal/ledgers/domain"
	"github.com/aussiebroadwan/scaconnect/internal/ledgers/store"
)

type operationsRepo struct {
	q querier
}

func (r *operationsRepo) CreateOperation(ctx context.Context, op domain.Operation) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO operations
			(id, type, psu_login, product, payload, status, required_approvals, approvals, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		op.ID, string(op.Type), op.PSULogin, op.Product, op.Payload, op.Status,
		max(op.RequiredApprovals, 1), op.Approvals, utc(op.CreatedAt), utc(op.UpdatedAt))
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *operationsRepo) GetOperation(ctx context.Context, id string) (domain.Operation, error) {
	var (
		op  domain.Operation
		typ string
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT id, type, psu_login, product, payload, status, required_approvals, approvals, created_at, updated_at
		FROM operations WHERE id = ?`, id,
	).Scan(&op.ID, &typ, &op.PSULogin, &op.Product, &op.Payload, &op.Status,
		&op.RequiredApprovals, &op.Approvals, &op.CreatedAt, &op.UpdatedAt)
	if err != nil {
		return domain.Operation{}, mapNotFound(err)
	}
	op.Type = domain.OperationType(typ)
	return op, nil
}

func (r *operationsRepo) UpdateOperationStatus(ctx context.Context, id, status string, approvals int) error {
	return mustAffect(r.q.ExecContext(ctx,
		`UPDATE operations SET status = ?, approvals = ?, updated_at = ? WHERE id = ?`,
		status, approvals, time.Now().UTC(), id))
}
