package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
)

type listParams struct {
	Sort  string `url:"_sort,omitempty"`
	Start int    `url:"_start"`
	End   int    `url:"_end,omitempty"`
}

func TestBuildURL(t *testing.T) {
	u, err := BuildURL("http://localhost:4533/", Request{
		Path:   "/api/album/{id}",
		Params: map[string]string{"id": "a b/c"},
		Query:  listParams{Sort: "name", Start: 0, End: 20},
	})
	require.NoError(t, err)
	parsed, err := url.Parse(u)
	require.NoError(t, err)
	assert.Equal(t, "/api/album/a b/c", parsed.Path)
	assert.Equal(t, "/api/album/a%20b%2Fc", parsed.EscapedPath())
	assert.Equal(t, url.Values{"_sort": {"name"}, "_start": {"0"}, "_end": {"20"}}, parsed.Query())
}

func TestDoPassesThroughFailureStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/song", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := New(Options{})
	resp, err := c.Do(context.Background(), srv.URL, Request{Path: "/api/song"})
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	assert.JSONEq(t, `{"error":"boom"}`, string(resp.Body))
}

func TestDoSendsJSONBodyAndHeaders(t *testing.T) {
	var got map[string]string
	var auth, contentType string
	r := chi.NewRouter()
	r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("x-nd-authorization")
		contentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("X-Total-Count", "7")
		w.Write([]byte(`{}`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := New(Options{})
	resp, err := c.Do(context.Background(), srv.URL, Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   map[string]string{"username": "u"},
		Header: http.Header{"X-Nd-Authorization": {"Bearer tok"}},
	})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, "7", resp.Header.Get("x-total-count"))
	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, map[string]string{"username": "u"}, got)
}

func TestDoCancelledIsAborted(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := New(Options{})
	_, err := c.Do(ctx, srv.URL, Request{Path: "/slow"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, mediaprovider.ErrAborted))

	var te *mediaprovider.TransportError
	assert.False(t, errors.As(err, &te))
}

func TestDoTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := New(Options{})
	_, err := c.Do(context.Background(), addr, Request{Path: "/x"})
	require.Error(t, err)
	var te *mediaprovider.TransportError
	assert.True(t, errors.As(err, &te))
	assert.False(t, errors.Is(err, mediaprovider.ErrAborted))
}

// flakyServer answers 502 to the first request on every route, then 200.
func flakyServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDoRetriesIdempotentRequests(t *testing.T) {
	var hits atomic.Int32
	srv := flakyServer(t, &hits)

	c := New(Options{RetryMax: 2, RetryWaitMin: time.Millisecond})
	resp, err := c.Do(context.Background(), srv.URL, Request{Path: "/api/song"})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, int32(2), hits.Load())
}

func TestDoNeverResendsWrites(t *testing.T) {
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			var hits atomic.Int32
			srv := flakyServer(t, &hits)

			c := New(Options{RetryMax: 2, RetryWaitMin: time.Millisecond})
			resp, err := c.Do(context.Background(), srv.URL, Request{
				Method: method,
				Path:   "/api/playlist/p1/tracks",
				Body:   map[string][]string{"ids": {"s1"}},
			})
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadGateway, resp.Status)
			assert.Equal(t, int32(1), hits.Load())
		})
	}
}
