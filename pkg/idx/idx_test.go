package idx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/scaconnect/pkg/idx"
)

func TestNewAndParse(t *testing.T) {
	t.Parallel()

	id := idx.New(idx.KindAuthorisation)
	require.True(t, strings.HasPrefix(id.String(), "auth_"))
	require.Equal(t, idx.KindAuthorisation, id.Kind())

	parsed, err := idx.ParseKind(idx.KindAuthorisation, id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
	require.True(t, idx.Is(idx.KindAuthorisation, id.String()))
	require.False(t, idx.Is(idx.KindOperation, id.String()))
}

func TestMonotonicWithinMillisecond(t *testing.T) {
	t.Parallel()

	at := time.Unix(1700000000, 0).UTC()
	a := idx.NewAt(idx.KindOperation, at)
	b := idx.NewAt(idx.KindOperation, at)

	require.Less(t, a.String(), b.String())
	require.WithinDuration(t, at, a.Time(), time.Millisecond)
}

func TestParseRejects(t *testing.T) {
	t.Parallel()

	valid := idx.New(idx.KindPSU).String()
	for _, s := range []string{
		"",
		"   ",
		"missing",
		"psu_not-a-ulid",
		"_" + strings.TrimPrefix(valid, "psu_"),
		strings.TrimPrefix(valid, "psu_"),
	} {
		_, err := idx.Parse(s)
		require.ErrorIs(t, err, idx.ErrInvalid, s)
	}

	_, err := idx.ParseKind(idx.KindOAuthCode, valid)
	require.ErrorIs(t, err, idx.ErrInvalid)
	require.True(t, idx.ID("junk").Time().IsZero())
	require.Equal(t, idx.Kind(""), idx.ID("junk").Kind())
}
