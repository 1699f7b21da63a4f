package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/scaconnect/internal/ledgers/domain"
	"github.com/aussiebroadwan/scaconnect/internal/ledgers/store"
)

type authorisationsRepo struct {
	q querier
}

const authorisationColumns = `id, operation_id, psu_login, status, chosen_method, otp_secret, attempts,
	confirmation_hash, expires_at, created_at, updated_at`

func (r *authorisationsRepo) CreateAuthorisation(ctx context.Context, a domain.Authorisation) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO authorisations (`+authorisationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.OperationID, a.PSULogin, string(a.Status), a.ChosenMethod, a.OTPSecret, a.Attempts,
		a.ConfirmationHash, utc(a.ExpiresAt), utc(a.CreatedAt), utc(a.UpdatedAt))
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *authorisationsRepo) GetAuthorisation(ctx context.Context, id string) (domain.Authorisation, error) {
	var (
		a      domain.Authorisation
		status string
	)
	err := r.q.QueryRowContext(ctx, `SELECT `+authorisationColumns+` FROM authorisations WHERE id = ?`, id).
		Scan(&a.ID, &a.OperationID, &a.PSULogin, &status, &a.ChosenMethod, &a.OTPSecret, &a.Attempts,
			&a.ConfirmationHash, &a.ExpiresAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Authorisation{}, mapNotFound(err)
	}
	a.Status = domain.ScaStatus(status)
	return a, nil
}

func (r *authorisationsRepo) UpdateAuthorisation(ctx context.Context, a domain.Authorisation) error {
	return mustAffect(r.q.ExecContext(ctx, `
		UPDATE authorisations SET
			psu_login = ?, status = ?, chosen_method = ?, otp_secret = ?, attempts = ?,
			confirmation_hash = ?, expires_at = ?, updated_at = ?
		WHERE id = ?`,
		a.PSULogin, string(a.Status), a.ChosenMethod, a.OTPSecret, a.Attempts,
		a.ConfirmationHash, utc(a.ExpiresAt), time.Now().UTC(), a.ID))
}

func (r *authorisationsRepo) DeleteExpiredAuthorisations(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM authorisations WHERE expires_at < ? AND status NOT IN (?, ?)`,
		utc(now), string(domain.ScaFinalised), string(domain.ScaFailed))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
