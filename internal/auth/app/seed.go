package app

import (
	"context"
	"errors"

	"github.com/newtifi/auth/pkg/cryptox"
)

// Demo credentials documented for local development. The member account is
// provisioned lazily on first sign-in; only its credential is seeded here.
const (
	demoMemberEmail    = "test@example.com"
	demoMemberPassword = "password"
	demoAdminPassword  = "B1950"
)

// seedDemo installs the demo member credential so a fresh database accepts
// the documented dev sign-in straight away. Existing hashes are not
// overwritten.
func (app *Application) seedDemo(ctx context.Context) error {
	if app.cfg.Env != "dev" {
		return errors.New("demo seeding is only allowed in dev")
	}

	if _, err := app.db.Credentials().GetHash(ctx, demoMemberEmail); err == nil {
		return nil
	}

	hash, err := cryptox.HashPassword(demoMemberPassword)
	if err != nil {
		return err
	}
	if err := app.db.Credentials().SetHash(ctx, demoMemberEmail, hash); err != nil {
		return err
	}

	app.logger.Warn("seeded demo member credential", "email", demoMemberEmail)
	return nil
}
