package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestRequest_SuccessReturnsBodyUnchanged(t *testing.T) {
	for _, status := range []int{200, 201, 202, 203, 206, 299} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"id":"1","displayName":"Ada"}`))
		})

		got, err := Request[profile](context.Background(), c, "/auth/me", nil)

		require.NoError(t, err, "status %d", status)
		assert.Equal(t, &profile{ID: "1", DisplayName: "Ada"}, got, "status %d", status)
	}
}

func TestRequest_NoContentIgnoresBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	got, err := Request[profile](context.Background(), c, "/auth/logout", &Options{Method: http.MethodPost})

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRequest_NonSuccessReturnsHTTPError(t *testing.T) {
	tests := []struct {
		status int
		text   string
	}{
		{http.StatusUnauthorized, "Unauthorized"},
		{http.StatusForbidden, "Forbidden"},
		{http.StatusNotFound, "Not Found"},
		{http.StatusInternalServerError, "Internal Server Error"},
		{http.StatusFound, "Found"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.status == http.StatusFound {
					// A redirect without Location is handed back as-is.
					w.WriteHeader(tt.status)
					return
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"id":"ignored"}`))
			})

			got, err := Request[profile](context.Background(), c, "/auth/me", nil)

			assert.Nil(t, got)
			var httpErr *HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, tt.status, httpErr.Status)
			assert.Equal(t, tt.text, httpErr.StatusText)
		})
	}
}

func TestRequest_PrefixMethodAndHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/logout", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "yes", r.Header.Get("X-Extra"))

		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)
		w.WriteHeader(http.StatusNoContent)
	})

	_, err := Request[struct{}](context.Background(), c, "/auth/logout", &Options{
		Method:  http.MethodPost,
		Headers: map[string]string{"X-Extra": "yes"},
	})
	require.NoError(t, err)
}

func TestRequest_CallerOverridesContentType(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	})

	_, err := Request[struct{}](context.Background(), c, "/x", &Options{
		Headers: map[string]string{"Content-Type": "text/plain"},
	})
	require.NoError(t, err)
}

func TestRequest_SerializesBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var got map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, map[string]string{"title": "Lease"}, got)
		_, _ = w.Write([]byte(`{"id":"d1"}`))
	})

	got, err := Request[profile](context.Background(), c, "/documents/d1", &Options{
		Method: http.MethodPatch,
		Body:   map[string]string{"title": "Lease"},
	})
	require.NoError(t, err)
	assert.Equal(t, "d1", got.ID)
}

func TestRequest_SendsSessionCookie(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("jargoyle_session")
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "abc", cookie.Value)
		_, _ = w.Write([]byte(`{"id":"1"}`))
	}, WithSessionCookie("jargoyle_session", "abc"))

	_, err := Request[profile](context.Background(), c, "/auth/me", nil)
	require.NoError(t, err)
}

func TestRequest_StoresCookiesFromResponses(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/set" {
			http.SetCookie(w, &http.Cookie{Name: "jargoyle_session", Value: "fresh", Path: "/"})
			w.WriteHeader(http.StatusNoContent)
			return
		}
		cookie, err := r.Cookie("jargoyle_session")
		require.NoError(t, err)
		assert.Equal(t, "fresh", cookie.Value)
		w.WriteHeader(http.StatusNoContent)
	})

	_, err := Request[struct{}](context.Background(), c, "/set", nil)
	require.NoError(t, err)
	_, err = Request[struct{}](context.Background(), c, "/check", nil)
	require.NoError(t, err)
	assert.Len(t, c.Cookies(), 1)
}

func TestRequest_DecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := Request[profile](context.Background(), c, "/auth/me", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestNew_InvalidOrigin(t *testing.T) {
	_, err := New("localhost")
	assert.Error(t, err)
}

func TestNew_DoesNotModifyGivenHTTPClient(t *testing.T) {
	shared := &http.Client{}

	c, err := New("http://localhost:8080", WithHTTPClient(shared), WithTimeout(3*time.Second), WithSessionCookie("jargoyle_session", "abc"))
	require.NoError(t, err)

	assert.Zero(t, shared.Timeout)
	assert.Nil(t, shared.Jar)
	require.Len(t, c.Cookies(), 1)
	assert.Equal(t, "abc", c.Cookies()[0].Value)
}
