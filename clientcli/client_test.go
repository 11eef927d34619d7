package clientcli_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxmanager/tbx"
	"github.com/tbxmanager/tbx/clientcli"
)

type recorded struct {
	path      string
	rawQuery  string
	login     string
	password  string
	requestID string
}

// newAPIServer serves the tbxmanager endpoints and records the last request.
func newAPIServer(t *testing.T, rec *recorded) *httptest.Server {
	t.Helper()

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/{kind}/{action}", func(w http.ResponseWriter, req *http.Request) {
			login, password, ok := req.BasicAuth()
			if !ok {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte("authentication required"))
				return
			}
			rec.path = req.URL.Path
			rec.rawQuery = req.URL.RawQuery
			rec.login = login
			rec.password = password
			rec.requestID = req.Header.Get(clientcli.RequestIDHeader)

			if chi.URLParam(req, "kind") == "missing" {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte("package not found"))
				return
			}
			_, _ = w.Write([]byte("created " + chi.URLParam(req, "kind")))
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func params(kv ...string) *tbx.Options {
	opts := tbx.NewOptions()
	for i := 0; i+1 < len(kv); i += 2 {
		opts.Set(kv[i], kv[i+1])
	}
	return opts
}

func TestNew(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		client, err := clientcli.New(&clientcli.Config{Server: "tbxmanager.com", Login: "a", Password: "b"})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("nil config", func(t *testing.T) {
		_, err := clientcli.New(nil)
		assert.ErrorIs(t, err, clientcli.ErrConfigRequired)
	})

	t.Run("empty server uses default", func(t *testing.T) {
		client, err := clientcli.New(&clientcli.Config{})
		require.NoError(t, err)
		assert.Equal(t, "http://tbxmanager.com/api/v1/versions/create", client.URL("versions/create", nil))
	})
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		server string
		want   string
	}{
		{server: "tbxmanager.com", want: "http://tbxmanager.com"},
		{server: "localhost:8080/", want: "http://localhost:8080"},
		{server: "https://tbxmanager.com", want: "https://tbxmanager.com"},
	}

	for _, tt := range tests {
		t.Run(tt.server, func(t *testing.T) {
			assert.Equal(t, tt.want, clientcli.BaseURL(tt.server))
		})
	}
}

func TestBuildQuery(t *testing.T) {
	t.Run("excludes credentials", func(t *testing.T) {
		q := clientcli.BuildQuery(params("login", "a", "password", "b", "package", "mpt", "version", "1.0"))

		parts := strings.Split(q, "&")
		assert.ElementsMatch(t, []string{"package=mpt", "version=1.0"}, parts)
		assert.NotContains(t, q, "login=")
		assert.NotContains(t, q, "password=")
	})

	t.Run("excludes extra names", func(t *testing.T) {
		q := clientcli.BuildQuery(params("package", "mpt", "server", "localhost", "json", "true"), "server", "json")
		assert.Equal(t, "package=mpt", q)
	})

	t.Run("encodes special characters", func(t *testing.T) {
		q := clientcli.BuildQuery(params("url", "http://x.org/a b.zip?x=1&y=2"))

		values, err := url.ParseQuery(q)
		require.NoError(t, err)
		assert.Equal(t, "http://x.org/a b.zip?x=1&y=2", values.Get("url"))
		assert.Len(t, values, 1)
	})

	t.Run("only credentials", func(t *testing.T) {
		assert.Empty(t, clientcli.BuildQuery(params("login", "a", "password", "b")))
	})

	t.Run("nil options", func(t *testing.T) {
		assert.Empty(t, clientcli.BuildQuery(nil))
	})
}

func TestClient_Call(t *testing.T) {
	ctx := context.Background()

	t.Run("successful call", func(t *testing.T) {
		var rec recorded
		srv := newAPIServer(t, &rec)

		client, err := clientcli.New(&clientcli.Config{Server: srv.URL, Login: "alice", Password: "pw"})
		require.NoError(t, err)

		resp, err := client.Call(ctx, "versions/create", params("login", "alice", "password", "pw", "package", "mpt", "version", "1.0"))
		require.NoError(t, err)

		assert.Equal(t, "/api/v1/versions/create", rec.path)
		assert.ElementsMatch(t, []string{"package=mpt", "version=1.0"}, strings.Split(rec.rawQuery, "&"))
		assert.Equal(t, "alice", rec.login)
		assert.Equal(t, "pw", rec.password)
		assert.NotEmpty(t, rec.requestID)
		assert.Equal(t, rec.requestID, resp.RequestID)

		assert.True(t, resp.OK())
		assert.Equal(t, "OK (200): created versions", resp.String())
	})

	t.Run("server without scheme", func(t *testing.T) {
		var rec recorded
		srv := newAPIServer(t, &rec)

		client, err := clientcli.New(&clientcli.Config{Server: strings.TrimPrefix(srv.URL, "http://"), Login: "a", Password: "b"})
		require.NoError(t, err)

		resp, err := client.Call(ctx, "links/delete", params("package", "mpt"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "/api/v1/links/delete", rec.path)
	})

	t.Run("error status is returned as response", func(t *testing.T) {
		var rec recorded
		srv := newAPIServer(t, &rec)

		client, err := clientcli.New(&clientcli.Config{Server: srv.URL, Login: "a", Password: "b"})
		require.NoError(t, err)

		resp, err := client.Call(ctx, "missing/create", params("package", "x"))
		require.NoError(t, err)
		assert.False(t, resp.OK())
		assert.Equal(t, "Not Found (404): package not found", resp.String())
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		serverURL := srv.URL
		srv.Close()

		client, err := clientcli.New(&clientcli.Config{Server: serverURL, Login: "a", Password: "b"})
		require.NoError(t, err)

		_, err = client.Call(ctx, "versions/create", params("package", "x"))
		require.Error(t, err)

		resp := clientcli.ErrorResponse(err)
		assert.Equal(t, "Error", resp.Status)
		assert.True(t, strings.HasPrefix(resp.String(), "Error (0): "))
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()

		client, err := clientcli.New(&clientcli.Config{Server: srv.URL, Login: "a", Password: "b"}, clientcli.WithTimeout(50*time.Millisecond))
		require.NoError(t, err)

		_, err = client.Call(ctx, "versions/create", nil)
		assert.Error(t, err)
	})

	t.Run("timeout does not modify a shared client", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()

		shared := &http.Client{}
		cfg := &clientcli.Config{Server: srv.URL, Login: "a", Password: "b"}

		for name, opts := range map[string][]clientcli.Option{
			"timeout first": {clientcli.WithTimeout(50 * time.Millisecond), clientcli.WithHTTPClient(shared)},
			"timeout last":  {clientcli.WithHTTPClient(shared), clientcli.WithTimeout(50 * time.Millisecond)},
		} {
			client, err := clientcli.New(cfg, opts...)
			require.NoError(t, err, name)

			_, err = client.Call(ctx, "versions/create", nil)
			assert.Error(t, err, name)
			assert.Zero(t, shared.Timeout, name)
		}
	})

	t.Run("config timeout applies to a custom client", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()

		shared := &http.Client{}
		client, err := clientcli.New(&clientcli.Config{Server: srv.URL, Login: "a", Password: "b", Timeout: 50 * time.Millisecond},
			clientcli.WithHTTPClient(shared))
		require.NoError(t, err)

		_, err = client.Call(ctx, "versions/create", nil)
		assert.Error(t, err)
		assert.Zero(t, shared.Timeout)
	})

	t.Run("missing credentials", func(t *testing.T) {
		client, err := clientcli.New(&clientcli.Config{Server: "localhost", Password: "b"})
		require.NoError(t, err)
		_, err = client.Call(ctx, "versions/create", nil)
		assert.ErrorIs(t, err, clientcli.ErrLoginRequired)

		client, err = clientcli.New(&clientcli.Config{Server: "localhost", Login: "a"})
		require.NoError(t, err)
		_, err = client.Call(ctx, "versions/create", nil)
		assert.ErrorIs(t, err, clientcli.ErrPasswordRequired)
	})
}
