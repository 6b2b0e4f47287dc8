package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ocppnode/backend/libs/ocpp/signature"
	"ocppnode/backend/services/networking-node/internal/auth"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestKeygen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.pem")
	keyID, err := execute(t, "", "keygen", "--method", signature.MethodEdDSA, "--out", path)
	require.NoError(t, err)

	priv, err := os.ReadFile(path)
	require.NoError(t, err)
	key, err := signature.LoadKeyPairPEM(priv)
	require.NoError(t, err)
	assert.Equal(t, key.KeyID(), keyID)
	assert.Equal(t, signature.MethodEdDSA, key.MethodName())

	pub, err := os.ReadFile(path + ".pub")
	require.NoError(t, err)
	verifier, err := signature.LoadPublicKeyPEM(pub)
	require.NoError(t, err)
	assert.Equal(t, keyID, verifier.KeyID())
}

func TestKeygenRequiresOut(t *testing.T) {
	_, err := execute(t, "", "keygen")
	require.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	hash, err := execute(t, "", "hash-password", "--cost", "4", "s3cret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))

	hash, err = execute(t, "from-stdin\n", "hash-password", "--cost", "4")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("from-stdin")))

	_, err = execute(t, "", "hash-password")
	require.Error(t, err)
	_, err = execute(t, "\n", "hash-password", "--cost", "4")
	assert.ErrorContains(t, err, "auth: empty password")
	_, err = execute(t, "", "hash-password", "--cost", "99", "s3cret")
	assert.ErrorContains(t, err, "bcrypt cost")
}

func TestToken(t *testing.T) {
	token, err := execute(t, "", "token", "--secret", "k", "--subject", "ops", "--role", "viewer")
	require.NoError(t, err)

	claims, err := auth.NewTokenService("k", 0).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, "viewer", claims.Role)

	_, err = execute(t, "", "token", "--secret", "")
	require.Error(t, err)
}
