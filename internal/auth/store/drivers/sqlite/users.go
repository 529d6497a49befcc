package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/newtifi/auth/internal/auth/domain"
)

type usersRepo struct {
	db *sql.DB
}

const userSelect = `SELECT id, email, name, role, permissions, profile, kpis, created_at, last_login, is_active FROM users`

func scanUser(row *sql.Row) (domain.User, error) {
	var r userRow
	err := row.Scan(
		&r.ID, &r.Email, &r.Name, &r.Role,
		&r.Permissions, &r.Profile, &r.KPIs,
		&r.CreatedAt, &r.LastLogin, &r.IsActive,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(r)
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE id = ?`, id))
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE email = ?`, email))
}

func (r *usersRepo) GetByRole(ctx context.Context, role domain.Role) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(
		ctx,
		userSelect+` WHERE role = ? ORDER BY created_at LIMIT 1`,
		string(role),
	))
}

func (r *usersRepo) Upsert(ctx context.Context, u domain.User) error {
	row, err := userColumns(u)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, role, permissions, profile, kpis, created_at, last_login, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			role = excluded.role,
			permissions = excluded.permissions,
			profile = excluded.profile,
			kpis = excluded.kpis,
			created_at = excluded.created_at,
			last_login = excluded.last_login,
			is_active = excluded.is_active`,
		row.ID, row.Email, row.Name, row.Role,
		row.Permissions, row.Profile, row.KPIs,
		row.CreatedAt, row.LastLogin, row.IsActive,
	)
	return err
}

func (r *usersRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`,
		at.UnixMilli(), id,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_active = ? WHERE id = ?`,
		active, id,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}
