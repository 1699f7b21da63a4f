package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/scaconnect/internal/ledgers/domain"
	"github.com/aussiebroadwan/scaconnect/internal/ledgers/store"
)

type oauthCodesRepo struct {
	q querier
}

func (r *oauthCodesRepo) CreateOAuthCode(ctx context.Context, c domain.OAuthCode) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO oauth_codes
			(id, code_hash, client_id, redirect_uri, psu_login, scopes, code_challenge, code_challenge_method, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.CodeHash, c.ClientID, c.RedirectURI, c.PSULogin, strings.Join(c.Scopes, " "),
		c.CodeChallenge, c.CodeChallengeMethod, utc(c.ExpiresAt), utc(c.CreatedAt))
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *oauthCodesRepo) GetOAuthCodeByHash(ctx context.Context, hash string) (domain.OAuthCode, error) {
	var (
		c      domain.OAuthCode
		scopes string
		usedAt sql.NullTime
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT id, code_hash, client_id, redirect_uri, psu_login, scopes, code_challenge, code_challenge_method,
			expires_at, used_at, created_at
		FROM oauth_codes WHERE code_hash = ?`, hash,
	).Scan(&c.ID, &c.CodeHash, &c.ClientID, &c.RedirectURI, &c.PSULogin, &scopes, &c.CodeChallenge,
		&c.CodeChallengeMethod, &c.ExpiresAt, &usedAt, &c.CreatedAt)
	if err != nil {
		return domain.OAuthCode{}, mapNotFound(err)
	}
	c.Scopes = splitAndFilter(scopes)
	c.UsedAt = mapNullTimePtr(usedAt)
	return c, nil
}

// MarkOAuthCodeUsed only succeeds once per code.
func (r *oauthCodesRepo) MarkOAuthCodeUsed(ctx context.Context, id string, at time.Time) error {
	return mustAffect(r.q.ExecContext(ctx,
		`UPDATE oauth_codes SET used_at = ? WHERE id = ? AND used_at IS NULL`, utc(at), id))
}

func (r *oauthCodesRepo) DeleteExpiredOAuthCodes(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM oauth_codes WHERE expires_at < ?`, utc(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
