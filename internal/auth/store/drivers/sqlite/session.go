package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/newtifi/auth/internal/auth/domain"
	"github.com/newtifi/auth/internal/auth/store"
)

// Persisted session record keys. The layout matches what the web client
// historically kept in browser storage.
const (
	keyCurrentUser = "current_user"
	keyAuthToken   = "auth_token"
)

type sessionRepo struct {
	db *sql.DB
}

// Save writes both session records in one transaction so a crash cannot
// leave a user without a token or vice versa.
func (r *sessionRepo) Save(ctx context.Context, u domain.User, t domain.Token) error {
	userJSON, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("sqlite: encode session user: %w", err)
	}
	tokenJSON, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("sqlite: encode session token: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const upsert = `
		INSERT INTO session_state (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`

	if _, err := tx.ExecContext(ctx, upsert, keyCurrentUser, string(userJSON)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, upsert, keyAuthToken, string(tokenJSON)); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *sessionRepo) Load(ctx context.Context) (domain.User, domain.Token, error) {
	userJSON, err := r.get(ctx, keyCurrentUser)
	if err != nil {
		return domain.User{}, domain.Token{}, err
	}
	tokenJSON, err := r.get(ctx, keyAuthToken)
	if err != nil {
		return domain.User{}, domain.Token{}, err
	}

	var u domain.User
	var t domain.Token
	if err := json.Unmarshal([]byte(userJSON), &u); err != nil {
		return domain.User{}, domain.Token{}, fmt.Errorf("%w: corrupt current_user record", store.ErrNotFound)
	}
	if err := json.Unmarshal([]byte(tokenJSON), &t); err != nil {
		return domain.User{}, domain.Token{}, fmt.Errorf("%w: corrupt auth_token record", store.ErrNotFound)
	}
	return u, t, nil
}

func (r *sessionRepo) Clear(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM session_state WHERE key = ?`, keyCurrentUser); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM session_state WHERE key = ?`, keyAuthToken); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *sessionRepo) get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM session_state WHERE key = ?`, key,
	).Scan(&value)
	if err != nil {
		return "", mapNotFound(err)
	}
	return value, nil
}
