package cryptox_test

import (
	"path/filepath"
	"testing"

	"github.com/newtifi/auth/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	hash, err := cryptox.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.Contains(t, hash, "$argon2id$v=19$")

	require.NoError(t, cryptox.VerifyPassword("correct horse battery staple", hash))
	require.Error(t, cryptox.VerifyPassword("wrong password", hash))
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	require.Error(t, cryptox.VerifyPassword("x", "not-a-phc-string"))
	require.Error(t, cryptox.VerifyPassword("x", "$bcrypt$v=19$m=1,t=1,p=1$AAAA$BBBB"))
}

func TestHashesAreSalted(t *testing.T) {
	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	a, err := cryptox.HashPassword("same input")
	require.NoError(t, err)
	b, err := cryptox.HashPassword("same input")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
