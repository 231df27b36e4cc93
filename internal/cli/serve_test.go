package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pagedview/internal/pagination"
)

func TestRunServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out bytes.Buffer
	done := make(chan error, 1)
	handler := newServeHandler(ctx, serveOptions{posts: 12})
	go func() {
		done <- runServe(ctx, ln, handler, &out, 12)
	}()

	base := "http://" + ln.Addr().String()
	client := &http.Client{Timeout: 2 * time.Second}

	resp, err := client.Get(base + "/posts?_page=2&_limit=5")
	require.NoError(t, err)
	var items []pagination.Item
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	_ = resp.Body.Close()
	assert.Equal(t, "12", resp.Header.Get("X-Total-Count"))
	require.Len(t, items, 5)
	assert.Equal(t, 6, items[0].ID)

	resp, err = client.Get(base + "/metrics")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err = <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Contains(t, out.String(), "Serving 12 posts at http://")
}

func TestNewServeHandler_OmitTotal(t *testing.T) {
	handler := newServeHandler(context.Background(), serveOptions{posts: 3, omitTotal: true})

	req, err := http.NewRequest(http.MethodGet, "/posts?_page=1&_limit=2", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Total-Count"))
}
