package model

// Post is a trending item from the content API, annotated with the caller's
// bookmark status. It is built per request and never stored.
//
// BookmarkID is a pointer so a post that isn't bookmarked encodes as
// "bookmark_id": null, which is what the frontend checks.
type Post struct {
	Title        string  `json:"title"`
	URL          string  `json:"url"`
	Subreddit    string  `json:"subreddit"`
	Score        int     `json:"score"`
	Idea         string  `json:"idea"`
	IsBookmarked bool    `json:"isBookmarked"`
	BookmarkID   *string `json:"bookmark_id"`
}
