package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/newtifi/auth/internal/auth/domain"
	"github.com/newtifi/auth/internal/auth/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db  *sql.DB
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Users() store.Users             { return &usersRepo{db: s.db} }
func (s *Store) Credentials() store.Credentials { return &credentialsRepo{db: s.db} }
func (s *Store) Session() store.Session         { return &sessionRepo{db: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// userRow mirrors the users table. Structured metadata is stored as JSON
// columns; timestamps as epoch milliseconds.
type userRow struct {
	ID          string
	Email       string
	Name        string
	Role        string
	Permissions string
	Profile     string
	KPIs        string
	CreatedAt   int64
	LastLogin   int64
	IsActive    bool
}

func mapUser(row userRow) (domain.User, error) {
	u := domain.User{
		ID:        row.ID,
		Email:     row.Email,
		Name:      row.Name,
		Role:      domain.Role(row.Role),
		CreatedAt: time.UnixMilli(row.CreatedAt).UTC(),
		LastLogin: time.UnixMilli(row.LastLogin).UTC(),
		IsActive:  row.IsActive,
	}
	if err := json.Unmarshal([]byte(row.Permissions), &u.Permissions); err != nil {
		return domain.User{}, fmt.Errorf("sqlite: decode permissions for %s: %w", row.ID, err)
	}
	if err := json.Unmarshal([]byte(row.Profile), &u.Profile); err != nil {
		return domain.User{}, fmt.Errorf("sqlite: decode profile for %s: %w", row.ID, err)
	}
	if err := json.Unmarshal([]byte(row.KPIs), &u.KPIs); err != nil {
		return domain.User{}, fmt.Errorf("sqlite: decode kpis for %s: %w", row.ID, err)
	}
	return u, nil
}

func userColumns(u domain.User) (userRow, error) {
	permissions, err := json.Marshal(u.Permissions)
	if err != nil {
		return userRow{}, fmt.Errorf("sqlite: encode permissions for %s: %w", u.ID, err)
	}
	profile, err := json.Marshal(u.Profile)
	if err != nil {
		return userRow{}, fmt.Errorf("sqlite: encode profile for %s: %w", u.ID, err)
	}
	kpis, err := json.Marshal(u.KPIs)
	if err != nil {
		return userRow{}, fmt.Errorf("sqlite: encode kpis for %s: %w", u.ID, err)
	}

	return userRow{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        string(u.Role),
		Permissions: string(permissions),
		Profile:     string(profile),
		KPIs:        string(kpis),
		CreatedAt:   u.CreatedAt.UnixMilli(),
		LastLogin:   u.LastLogin.UnixMilli(),
		IsActive:    u.IsActive,
	}, nil
}
