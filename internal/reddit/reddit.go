// Package reddit is a minimal read-only client for the Reddit API.
//
// It only knows how to list the "hot" posts of a subreddit, which is all the
// trending endpoint needs.
//
// APP-ONLY OAUTH:
// Reddit requires OAuth even for public reads. A script/web app can use the
// client-credentials grant: POST client_id:secret (HTTP Basic) to the token
// endpoint, get a bearer token, call oauth.reddit.com with it.
// golang.org/x/oauth2/clientcredentials does exactly that and refreshes the
// token before it expires, so this package never handles tokens itself.
//
// USER-AGENT:
// Reddit throttles or blocks generic user agents. Every request, including
// the token exchange, carries the configured User-Agent.
package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	DefaultTokenURL = "https://www.reddit.com/api/v1/access_token"
	DefaultAPIBase  = "https://oauth.reddit.com"

	defaultTimeout = 15 * time.Second
)

// Config holds the app credentials from https://www.reddit.com/prefs/apps.
// TokenURL and APIBase are only overridden in tests.
type Config struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	TokenURL     string
	APIBase      string
	// Timeout bounds each request; zero means 15 seconds.
	Timeout time.Duration
}

// Listing is one post in a subreddit listing.
type Listing struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Subreddit string `json:"subreddit"`
	Score     int    `json:"score"`
	Permalink string `json:"permalink"`
	Stickied  bool   `json:"stickied"`
}

// Client lists posts. It is safe for concurrent use.
type Client struct {
	http    *http.Client
	apiBase string
}

// New builds a Client. ctx scopes token refreshes for the client's lifetime,
// so pass a long-lived context (not a request context).
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("reddit: client id and secret are required")
	}
	if cfg.UserAgent == "" {
		return nil, errors.New("reddit: user agent is required")
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	// The oauth2 package picks its base HTTP client out of the context.
	// Putting ours there makes both the token exchange and the API calls go
	// through userAgentTransport.
	base := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &userAgentTransport{agent: cfg.UserAgent, next: http.DefaultTransport},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	httpClient := cc.Client(ctx)
	httpClient.Timeout = cfg.Timeout

	return &Client{http: httpClient, apiBase: cfg.APIBase}, nil
}

// listingResponse mirrors the parts of Reddit's Listing JSON we read:
//
//	{"kind":"Listing","data":{"children":[{"kind":"t3","data":{...post...}}]}}
type listingResponse struct {
	Data struct {
		Children []struct {
			Data Listing `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Hot returns up to limit posts from /r/<subreddit>/hot in Reddit's own order.
func (c *Client) Hot(ctx context.Context, subreddit string, limit int) ([]Listing, error) {
	u := c.apiBase + "/r/" + url.PathEscape(subreddit) + "/hot"
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("raw_json", "1") // don't HTML-escape titles and urls

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("reddit: building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reddit: listing r/%s: %w", subreddit, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("reddit: listing r/%s: status %d: %s", subreddit, resp.StatusCode, body)
	}

	var lr listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, fmt.Errorf("reddit: decoding r/%s listing: %w", subreddit, err)
	}

	posts := make([]Listing, 0, len(lr.Data.Children))
	for _, child := range lr.Data.Children {
		if len(posts) == limit {
			break
		}
		posts = append(posts, child.Data)
	}
	return posts, nil
}

// userAgentTransport sets the User-Agent header on every outgoing request.
type userAgentTransport struct {
	agent string
	next  http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	r = r.Clone(r.Context())
	r.Header.Set("User-Agent", t.agent)
	return t.next.RoundTrip(r)
}
