package bearer_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aussiebroadwan/scaconnect/internal/connector/bearer"
	"github.com/stretchr/testify/require"
)

func echoAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, r.Header.Get("Authorization"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, ctx context.Context, c *http.Client, url string) string {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestTransportAttachesScopedToken(t *testing.T) {
	t.Parallel()

	srv := echoAuthServer(t)
	client := &http.Client{Transport: bearer.NewTransport(nil)}

	t.Run("no holder sends nothing", func(t *testing.T) {
		require.Empty(t, call(t, context.Background(), client, srv.URL))
	})

	t.Run("scoped token is sent and cleared", func(t *testing.T) {
		ctx, release := bearer.Scope(context.Background(), "tok-1")
		require.Equal(t, "Bearer tok-1", call(t, ctx, client, srv.URL))

		release()
		require.Empty(t, bearer.FromContext(ctx).Token())
		require.Empty(t, call(t, ctx, client, srv.URL))
	})

	t.Run("explicit header wins", func(t *testing.T) {
		ctx, release := bearer.Scope(context.Background(), "tok-1")
		defer release()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer explicit")
		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, "Bearer explicit", string(body))
	})
}

func TestConcurrentStepsAreIsolated(t *testing.T) {
	t.Parallel()

	srv := echoAuthServer(t)
	client := &http.Client{Transport: bearer.NewTransport(nil)}

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok := fmt.Sprintf("psu-%d", i)
			ctx, release := bearer.Scope(context.Background(), tok)
			defer release()

			req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
			resp, err := client.Do(req)
			if err != nil {
				t.Error(err)
				return
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			if got := string(body); got != "Bearer "+tok {
				t.Errorf("step %d saw %q", i, got)
			}
		}()
	}
	wg.Wait()
}
