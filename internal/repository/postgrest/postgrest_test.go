package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/trendfinder/internal/apperror"
	"github.com/sakif/trendfinder/internal/model"
	"github.com/sakif/trendfinder/internal/repository"
)

var alice = repository.Caller{UserID: "user-alice", Token: "alice.jwt.token"}

// capture records the last request the fake PostgREST server saw.
type capture struct {
	method string
	path   string
	query  map[string]string
	header http.Header
	body   map[string]any
}

// newFakeStore starts an httptest server that records each request and
// answers with the given status and body.
func newFakeStore(t *testing.T, status int, respBody string) (*Client, *capture) {
	t.Helper()
	got := &capture{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.header = r.Header.Clone()
		got.query = map[string]string{}
		for k := range r.URL.Query() {
			got.query[k] = r.URL.Query().Get(k)
		}
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &got.body)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, "project-api-key", srv.Client())
	require.NoError(t, err)
	return c, got
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New("", "key", nil)
	assert.Error(t, err)

	_, err = New("https://example.supabase.co", "", nil)
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	c, got := newFakeStore(t, http.StatusOK,
		`[{"id":"b1","user_id":"user-alice","title":"T","subreddit":"golang","url":"http://x","idea":null}]`)

	bookmarks, err := c.List(context.Background(), alice, repository.ListOptions{})
	require.NoError(t, err)

	require.Len(t, bookmarks, 1)
	assert.Equal(t, "b1", bookmarks[0].ID)
	assert.Equal(t, "", bookmarks[0].Idea, "null decodes to empty")

	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/rest/v1/bookmarks", got.path)
	assert.Equal(t, "eq.user-alice", got.query["user_id"])
	assert.Equal(t, "*", got.query["select"])
	assert.Equal(t, "project-api-key", got.header.Get("apikey"))
	assert.Equal(t, "Bearer alice.jwt.token", got.header.Get("Authorization"))
}

func TestList_Projection(t *testing.T) {
	c, got := newFakeStore(t, http.StatusOK, `[]`)

	bookmarks, err := c.List(context.Background(), alice, repository.ListOptions{Columns: []string{"id", "url"}})
	require.NoError(t, err)

	assert.NotNil(t, bookmarks, "empty list must not be nil so it encodes as []")
	assert.Equal(t, "id,url", got.query["select"])
}

func TestList_UpstreamFailure(t *testing.T) {
	c, _ := newFakeStore(t, http.StatusUnauthorized, `{"message":"JWT expired"}`)

	_, err := c.List(context.Background(), alice, repository.ListOptions{})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.ErrorIs(t, err, apperror.ErrUpstream)
	assert.Equal(t, `{"message":"JWT expired"}`, appErr.Details)
}

func TestCreate(t *testing.T) {
	c, got := newFakeStore(t, http.StatusCreated,
		`[{"id":"new-id","user_id":"user-alice","title":"Foo","subreddit":null,"url":"http://x","idea":null}]`)

	b := &model.Bookmark{Title: "Foo", URL: "http://x"}
	require.NoError(t, c.Create(context.Background(), alice, b))

	assert.Equal(t, "new-id", b.ID)
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "return=representation", got.header.Get("Prefer"))
	assert.Equal(t, "user-alice", got.body["user_id"])
	assert.Equal(t, "Foo", got.body["title"])
	assert.NotContains(t, got.body, "subreddit", "empty optional columns are omitted")
	assert.NotContains(t, got.body, "idea")
}

func TestCreate_Non201(t *testing.T) {
	c, _ := newFakeStore(t, http.StatusForbidden, `new row violates row-level security policy`)

	err := c.Create(context.Background(), alice, &model.Bookmark{Title: "Foo", URL: "http://x"})
	assert.ErrorIs(t, err, apperror.ErrUpstream)
}

func TestDelete_ScopesByIDAndOwner(t *testing.T) {
	c, got := newFakeStore(t, http.StatusNoContent, ``)

	require.NoError(t, c.Delete(context.Background(), alice, "b1"))

	assert.Equal(t, http.MethodDelete, got.method)
	assert.Equal(t, "eq.b1", got.query["id"])
	assert.Equal(t, "eq.user-alice", got.query["user_id"], "delete must always filter by the caller")
	assert.Equal(t, "return=minimal", got.header.Get("Prefer"))
}

func TestDelete_Failure(t *testing.T) {
	c, _ := newFakeStore(t, http.StatusBadRequest, `{"message":"invalid input syntax for type uuid"}`)

	err := c.Delete(context.Background(), alice, "not-a-uuid")
	assert.ErrorIs(t, err, apperror.ErrUpstream)
}

func TestUpdate_SendsOnlyPatchedFields(t *testing.T) {
	c, got := newFakeStore(t, http.StatusOK, `[]`)

	idea := "write a thread"
	err := c.Update(context.Background(), alice, "b1", model.BookmarkPatch{Idea: &idea})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, got.method)
	assert.Equal(t, "eq.b1", got.query["id"])
	assert.Equal(t, "eq.user-alice", got.query["user_id"])
	assert.Equal(t, map[string]any{"idea": "write a thread"}, got.body)
}

func TestUpdate_Failure(t *testing.T) {
	c, _ := newFakeStore(t, http.StatusInternalServerError, `boom`)

	title := "x"
	err := c.Update(context.Background(), alice, "b1", model.BookmarkPatch{Title: &title})
	assert.ErrorIs(t, err, apperror.ErrUpstream)
}
