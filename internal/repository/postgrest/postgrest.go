// Package postgrest implements repository.BookmarkRepository on top of the
// auto-generated REST interface of the managed database (Supabase PostgREST).
//
// HOW POSTGREST MAPS TO SQL:
//
//	GET    /rest/v1/bookmarks?user_id=eq.U&select=id,url  → SELECT id, url ... WHERE user_id = U
//	POST   /rest/v1/bookmarks  {json row}                   → INSERT
//	PATCH  /rest/v1/bookmarks?id=eq.X&user_id=eq.U {json}   → UPDATE ... WHERE id = X AND user_id = U
//	DELETE /rest/v1/bookmarks?id=eq.X&user_id=eq.U          → DELETE ... WHERE id = X AND user_id = U
//
// The "Prefer" header controls the response shape: return=representation
// echoes the affected rows, return=minimal returns an empty body.
//
// ACCESS CONTROL:
// Every request carries two credentials:
//   - apikey: identifies the project (configured once at startup)
//   - Authorization: the CALLER's own JWT, so the database's row-level
//     security evaluates the request as that user
//
// On top of that we always add user_id=eq.<caller> ourselves, so the same
// scoping holds even if the table's policies are misconfigured.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sakif/trendfinder/internal/apperror"
	"github.com/sakif/trendfinder/internal/model"
	"github.com/sakif/trendfinder/internal/repository"
)

var _ repository.BookmarkRepository = (*Client)(nil)

const (
	table = "bookmarks"

	preferRepresentation = "return=representation"
	preferMinimal        = "return=minimal"

	// maxBody caps how much of a response we read into memory.
	maxBody = 8 << 20
)

// Client talks to one PostgREST table endpoint.
// It holds no per-request state and is safe for concurrent use.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

// New creates a Client for the project at baseURL (e.g. https://xyz.supabase.co).
// A nil httpClient gets a client with a 15 second timeout.
func New(baseURL, apiKey string, httpClient *http.Client) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("postgrest: base URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("postgrest: API key is required")
	}
	endpoint, err := url.JoinPath(baseURL, "rest", "v1", table)
	if err != nil {
		return nil, fmt.Errorf("postgrest: parsing base URL: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{endpoint: endpoint, apiKey: apiKey, http: httpClient}, nil
}

// List selects the caller's rows, optionally projecting to opts.Columns.
func (c *Client) List(ctx context.Context, caller repository.Caller, opts repository.ListOptions) ([]model.Bookmark, error) {
	q := ownerFilter(caller)
	q.Set("select", "*")
	if len(opts.Columns) > 0 {
		q.Set("select", strings.Join(opts.Columns, ","))
	}

	status, body, err := c.do(ctx, http.MethodGet, caller, q, nil, "")
	if err != nil {
		return nil, fmt.Errorf("postgrest: listing bookmarks: %w", err)
	}
	if status != http.StatusOK {
		return nil, apperror.Upstream("Failed to fetch", string(body))
	}

	bookmarks := []model.Bookmark{}
	if err := json.Unmarshal(body, &bookmarks); err != nil {
		return nil, fmt.Errorf("postgrest: decoding bookmarks: %w", err)
	}
	return bookmarks, nil
}

// insertRow is the body of an INSERT. Optional columns are omitted when
// empty so the table's defaults apply. UserID always comes from the
// verified caller, never from the request body.
type insertRow struct {
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Subreddit string `json:"subreddit,omitempty"`
	Idea      string `json:"idea,omitempty"`
}

// Create inserts b and sets b.ID from the returned representation.
func (c *Client) Create(ctx context.Context, caller repository.Caller, b *model.Bookmark) error {
	row := insertRow{
		UserID:    caller.UserID,
		Title:     b.Title,
		URL:       b.URL,
		Subreddit: b.Subreddit,
		Idea:      b.Idea,
	}

	status, body, err := c.do(ctx, http.MethodPost, caller, nil, row, preferRepresentation)
	if err != nil {
		return fmt.Errorf("postgrest: inserting bookmark: %w", err)
	}
	if status != http.StatusCreated {
		return apperror.Upstream("Failed to insert", string(body))
	}

	var inserted []model.Bookmark
	if err := json.Unmarshal(body, &inserted); err != nil {
		return fmt.Errorf("postgrest: decoding inserted bookmark: %w", err)
	}
	if len(inserted) == 0 {
		return apperror.Upstream("Failed to insert", "insert returned no rows")
	}

	*b = inserted[0]
	return nil
}

// Update patches the caller's row with the given id.
func (c *Client) Update(ctx context.Context, caller repository.Caller, id string, patch model.BookmarkPatch) error {
	q := ownerFilter(caller)
	q.Set("id", "eq."+id)

	status, body, err := c.do(ctx, http.MethodPatch, caller, q, patch, preferRepresentation)
	if err != nil {
		return fmt.Errorf("postgrest: updating bookmark %s: %w", id, err)
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return apperror.Upstream("Failed to update.", string(body))
	}
	return nil
}

// Delete removes the caller's row with the given id.
func (c *Client) Delete(ctx context.Context, caller repository.Caller, id string) error {
	q := ownerFilter(caller)
	q.Set("id", "eq."+id)

	status, body, err := c.do(ctx, http.MethodDelete, caller, q, nil, preferMinimal)
	if err != nil {
		return fmt.Errorf("postgrest: deleting bookmark %s: %w", id, err)
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return apperror.Upstream("Failed to delete.", string(body))
	}
	return nil
}

func ownerFilter(caller repository.Caller) url.Values {
	q := url.Values{}
	q.Set("user_id", "eq."+caller.UserID)
	return q
}

// do sends one request and returns the status code and (bounded) body.
// Non-2xx statuses are NOT errors here; each method decides what success means.
func (c *Client) do(ctx context.Context, method string, caller repository.Caller, q url.Values, payload any, prefer string) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encoding body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	u := c.endpoint
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+caller.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return 0, nil, fmt.Errorf("reading response: %w", err)
	}
	return resp.StatusCode, body, nil
}
