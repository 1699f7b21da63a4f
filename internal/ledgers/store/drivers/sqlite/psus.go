package sqlite

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/scaconnect/internal/ledgers/domain"
)

type psusRepo struct {
	q querier
}

func (r *psusRepo) GetPSUByLogin(ctx context.Context, login string) (domain.PSU, error) {
	var p domain.PSU
	err := r.q.QueryRowContext(ctx,
		`SELECT id, login, pin_hash, email, phone, created_at FROM psus WHERE login = ?`, login,
	).Scan(&p.ID, &p.Login, &p.PINHash, &p.Email, &p.Phone, &p.CreatedAt)
	if err != nil {
		return domain.PSU{}, mapNotFound(err)
	}

	rows, err := r.q.QueryContext(ctx,
		`SELECT id, type, description FROM sca_methods WHERE psu_id = ? ORDER BY position`, p.ID)
	if err != nil {
		return domain.PSU{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.ScaMethod
		if err := rows.Scan(&m.ID, &m.Type, &m.Description); err != nil {
			return domain.PSU{}, err
		}
		p.Methods = append(p.Methods, m)
	}
	return p, rows.Err()
}

func (r *psusRepo) UpsertPSU(ctx context.Context, p domain.PSU) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO psus (id, login, pin_hash, email, phone, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (login) DO UPDATE SET
			pin_hash = excluded.pin_hash,
			email    = excluded.email,
			phone    = excluded.phone`,
		p.ID, p.Login, p.PINHash, p.Email, p.Phone, utc(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("upsert psu: %w", err)
	}

	// The id of an existing row wins over p.ID.
	var id string
	if err := r.q.QueryRowContext(ctx, `SELECT id FROM psus WHERE login = ?`, p.Login).Scan(&id); err != nil {
		return mapNotFound(err)
	}

	if _, err := r.q.ExecContext(ctx, `DELETE FROM sca_methods WHERE psu_id = ?`, id); err != nil {
		return fmt.Errorf("replace sca methods: %w", err)
	}
	for i, m := range p.Methods {
		_, err := r.q.ExecContext(ctx,
			`INSERT INTO sca_methods (psu_id, id, type, description, position) VALUES (?, ?, ?, ?, ?)`,
			id, m.ID, m.Type, m.Description, i)
		if err != nil {
			return fmt.Errorf("insert sca method %q: %w", m.ID, err)
		}
	}
	return nil
}

func (r *psusRepo) IsEmpty(ctx context.Context) (bool, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM psus`).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}
