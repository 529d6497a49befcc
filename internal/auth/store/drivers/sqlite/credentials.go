package sqlite

import (
	"context"
	"database/sql"
)

type credentialsRepo struct {
	db *sql.DB
}

func (r *credentialsRepo) GetHash(ctx context.Context, email string) (string, error) {
	var hash string
	err := r.db.QueryRowContext(ctx,
		`SELECT password_hash FROM credentials WHERE email = ?`, email,
	).Scan(&hash)
	if err != nil {
		return "", mapNotFound(err)
	}
	return hash, nil
}

func (r *credentialsRepo) SetHash(ctx context.Context, email, hash string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO credentials (email, password_hash) VALUES (?, ?)
		ON CONFLICT (email) DO UPDATE SET password_hash = excluded.password_hash`,
		email, hash,
	)
	return err
}

func (r *credentialsRepo) Delete(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE email = ?`, email)
	return err
}
