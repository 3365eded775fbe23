package domain

import "time"

// UnknownHandle is shown when an account handle cannot be resolved.
const UnknownHandle = "someone"

// Post is a single feed post as fetched from the network.
// Posts are never edited locally.
type Post struct {
	URI          string // Canonical identifier (at://did/app.bsky.feed.post/rkey)
	CID          string
	AuthorDID    string
	AuthorHandle string
	AuthorName   string // Display name, may be empty
	CreatedAt    time.Time
	Text         string // Plain text, terminal-safe
	LikeCount    int
	RepostCount  int
	ReplyCount   int
	Reply        *ReplyRef // Nil unless this post is a reply
	RepostedBy   string    // Handle of the reposter, if the feed item is a repost
	URL          string    // Web link
	IsOwn        bool      // True if the authenticated user wrote this post
}

// ReplyRef points at the post this one replies to.
type ReplyRef struct {
	ParentURI       string
	ParentAuthorDID string
	RootURI         string
}

// IsReply reports whether the post carries a reply reference.
func (p Post) IsReply() bool {
	return p.Reply != nil && p.Reply.ParentURI != ""
}

// Author returns the display name, falling back to the handle.
func (p Post) Author() string {
	if p.AuthorName != "" {
		return p.AuthorName
	}
	return p.AuthorHandle
}

// FeedPage is one page of a cursor-paginated feed.
type FeedPage struct {
	Posts  []Post
	Cursor string // Empty when no further pages exist
}
