package reddit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAgent = "trendfinder-test/1.0"

// newFakeReddit serves both the token endpoint and the listing endpoint.
func newFakeReddit(t *testing.T, listingStatus int, listing string) (*httptest.Server, *int32) {
	t.Helper()
	var tokenCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/access_token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&tokenCalls, 1)
		user, pass, ok := r.BasicAuth()
		if !ok || user != "id" || pass != "secret" || r.Header.Get("User-Agent") != testAgent {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"app-token","token_type":"bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/r/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer app-token" || r.Header.Get("User-Agent") != testAgent {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if r.URL.Path != "/r/golang/hot" || r.URL.Query().Get("limit") != "5" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(listingStatus)
		_, _ = io.WriteString(w, listing)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &tokenCalls
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := New(context.Background(), Config{
		ClientID:     "id",
		ClientSecret: "secret",
		UserAgent:    testAgent,
		TokenURL:     srv.URL + "/api/v1/access_token",
		APIBase:      srv.URL,
	})
	require.NoError(t, err)
	return c
}

func listingJSON(n int) string {
	children := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			children += ","
		}
		children += fmt.Sprintf(`{"kind":"t3","data":{"title":"post %d","url":"https://example.com/%d","subreddit":"golang","score":%d}}`, i, i, 100-i)
	}
	return `{"kind":"Listing","data":{"children":[` + children + `]}}`
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{UserAgent: testAgent})
	assert.Error(t, err)

	_, err = New(context.Background(), Config{ClientID: "id", ClientSecret: "s"})
	assert.Error(t, err)
}

func TestHot(t *testing.T) {
	srv, tokenCalls := newFakeReddit(t, http.StatusOK, listingJSON(5))
	c := newTestClient(t, srv)

	posts, err := c.Hot(context.Background(), "golang", 5)
	require.NoError(t, err)

	require.Len(t, posts, 5)
	assert.Equal(t, "post 0", posts[0].Title)
	assert.Equal(t, "https://example.com/0", posts[0].URL)
	assert.Equal(t, 100, posts[0].Score)
	assert.Equal(t, "post 4", posts[4].Title, "upstream order is preserved")

	// A second call reuses the cached app token.
	_, err = c.Hot(context.Background(), "golang", 5)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(tokenCalls))
}

func TestHot_TruncatesToLimit(t *testing.T) {
	srv, _ := newFakeReddit(t, http.StatusOK, listingJSON(7))
	c := newTestClient(t, srv)

	posts, err := c.Hot(context.Background(), "golang", 5)
	require.NoError(t, err)
	assert.Len(t, posts, 5)
}

func TestHot_UpstreamError(t *testing.T) {
	srv, _ := newFakeReddit(t, http.StatusServiceUnavailable, `{"message":"busy"}`)
	c := newTestClient(t, srv)

	_, err := c.Hot(context.Background(), "golang", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
