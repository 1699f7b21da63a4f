package cryptox_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/aussiebroadwan/scaconnect/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestSecretHasher(t *testing.T) {
	t.Parallel()

	h := cryptox.SecretHasher{Pepper: "test-pepper"}

	tests := []struct {
		name   string
		secret string
	}{
		{"numeric pin", "12345"},
		{"long passphrase", strings.Repeat("a", 100)},
		{"empty", ""},
		{"unicode", "пароль🔒"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.secret)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))
			require.Len(t, strings.Split(hash, "$"), 6)

			require.NoError(t, h.Verify(tt.secret, hash))
			require.ErrorIs(t, h.Verify(tt.secret+"x", hash), cryptox.ErrSecretMismatch)
		})
	}

	t.Run("salt makes hashes differ", func(t *testing.T) {
		a, err := h.Hash("12345")
		require.NoError(t, err)
		b, err := h.Hash("12345")
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})

	t.Run("pepper is part of the hash", func(t *testing.T) {
		hash, err := h.Hash("12345")
		require.NoError(t, err)

		other := cryptox.SecretHasher{Pepper: "another"}
		require.ErrorIs(t, other.Verify("12345", hash), cryptox.ErrSecretMismatch)
	})

	t.Run("malformed hash", func(t *testing.T) {
		require.ErrorIs(t, h.Verify("12345", "not-a-hash"), cryptox.ErrHashFormat)
		require.ErrorIs(t, h.Verify("12345", "$bcrypt$v=19$m=1,t=1,p=1$a$b"), cryptox.ErrHashFormat)
	})
}

func TestLoadOrCreatePepper(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "secrets", "pepper")

	first, err := cryptox.LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	// second call must return the persisted value
	second, err := cryptox.LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.Equal(t, first, second)

	ephemeral, err := cryptox.LoadOrCreatePepper("")
	require.NoError(t, err)
	require.NotEqual(t, first, ephemeral)
}
