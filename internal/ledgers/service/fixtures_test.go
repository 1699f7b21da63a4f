package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/scaconnect/internal/ledgers/store/drivers/sqlite"
	"github.com/aussiebroadwan/scaconnect/pkg/cryptox"
)

func TestLoadFixtures(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		f, err := LoadFixtures("")
		require.NoError(t, err)
		require.Len(t, f.PSUs, 3)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "psus.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
psus:
  - login: jane
    pin: "0000"
    methods:
      - id: sms-jane
        type: SMS_OTP
`), 0o600))

		f, err := LoadFixtures(path)
		require.NoError(t, err)
		require.Equal(t, "jane", f.PSUs[0].Login)
		require.Equal(t, "sms-jane", f.PSUs[0].Methods[0].ID)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFixtures(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}

func TestFixturesValidate(t *testing.T) {
	t.Parallel()

	f := &Fixtures{PSUs: []PSUFixture{
		{Login: "a", PIN: "1"},
		{Login: "a", PIN: "1"},
		{Login: "b"},
		{Login: "c", PIN: "1", Methods: []MethodFixture{{Type: "FAX"}}},
	}}
	err := f.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), `duplicate login "a"`)
	require.Contains(t, err.Error(), "login and pin are required")
	require.Contains(t, err.Error(), `unknown type "FAX"`)
	require.Contains(t, err.Error(), "id is required")
}

func TestSeedIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	hasher := cryptox.SecretHasher{Pepper: "test-pepper"}
	f, err := LoadFixtures("")
	require.NoError(t, err)

	require.NoError(t, Seed(ctx, st, hasher, f))
	require.NoError(t, Seed(ctx, st, hasher, f))

	psu, err := st.PSUs().GetPSUByLogin(ctx, "max.musterman")
	require.NoError(t, err)
	require.Len(t, psu.Methods, 3)

	require.NoError(t, hasher.Verify("12345", psu.PINHash))
}
