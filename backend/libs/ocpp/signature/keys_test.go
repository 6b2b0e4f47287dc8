package signature

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allMethods = []string{MethodES256, MethodES384, MethodES512, MethodEdDSA}

func TestKeyPairSignVerify(t *testing.T) {
	for _, method := range allMethods {
		t.Run(method, func(t *testing.T) {
			key, err := GenerateKeyPair(method)
			require.NoError(t, err)
			assert.Equal(t, method, key.MethodName())
			assert.True(t, key.CanSign())

			sig, err := key.Sign([]byte("hello"))
			require.NoError(t, err)
			assert.NoError(t, key.Verify([]byte("hello"), sig))
			assert.Error(t, key.Verify([]byte("hellO"), sig))

			public := key.PublicOnly()
			assert.False(t, public.CanSign())
			assert.NoError(t, public.Verify([]byte("hello"), sig))
			_, err = public.Sign([]byte("hello"))
			assert.ErrorIs(t, err, ErrPublicOnly)
		})
	}
}

func TestKeyPEMRoundTrip(t *testing.T) {
	for _, method := range allMethods {
		t.Run(method, func(t *testing.T) {
			key, err := GenerateKeyPair(method)
			require.NoError(t, err)

			privPEM, err := MarshalPrivateKeyPEM(key)
			require.NoError(t, err)
			loaded, err := LoadKeyPairPEM(privPEM)
			require.NoError(t, err)
			assert.Equal(t, key.KeyID(), loaded.KeyID())
			assert.Equal(t, method, loaded.MethodName())

			pubPEM, err := MarshalPublicKeyPEM(key)
			require.NoError(t, err)
			public, err := LoadPublicKeyPEM(pubPEM)
			require.NoError(t, err)
			assert.Equal(t, key.KeyID(), public.KeyID())
			assert.False(t, public.CanSign())

			_, err = MarshalPrivateKeyPEM(public)
			assert.ErrorIs(t, err, ErrPublicOnly)
		})
	}
}

func TestParseKeyID(t *testing.T) {
	for _, method := range allMethods {
		key, err := GenerateKeyPair(method)
		require.NoError(t, err)

		parsed, err := ParseKeyID(key.KeyID())
		require.NoError(t, err)
		assert.Equal(t, method, parsed.MethodName())
		assert.Equal(t, key.KeyID(), parsed.KeyID())
	}

	_, err := ParseKeyID("%%%")
	assert.Error(t, err)
	_, err = ParseKeyID("aGVsbG8=")
	assert.Error(t, err)
}

func TestGenerateKeyPairUnsupported(t *testing.T) {
	_, err := GenerateKeyPair("HS256")
	assert.Error(t, err)
}

func TestFileKeyLoader(t *testing.T) {
	dir := t.TempDir()
	key, err := GenerateKeyPair(MethodES256)
	require.NoError(t, err)

	privPEM, err := MarshalPrivateKeyPEM(key)
	require.NoError(t, err)
	privPath := filepath.Join(dir, "node.pem")
	require.NoError(t, os.WriteFile(privPath, privPEM, 0o600))

	loader := FileKeyLoader{}
	loaded, err := loader.LoadPrivateKey(privPath)
	require.NoError(t, err)
	assert.True(t, loaded.CanSign())

	public, err := loader.LoadPublicKey(privPath)
	require.NoError(t, err)
	assert.False(t, public.CanSign())
	assert.Equal(t, key.KeyID(), public.KeyID())

	inline, err := loader.LoadPublicKey("keyid:" + key.KeyID())
	require.NoError(t, err)
	assert.Equal(t, key.KeyID(), inline.KeyID())

	_, err = loader.LoadPrivateKey(filepath.Join(dir, "missing.pem"))
	assert.Error(t, err)
}
