package bluesky

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/CrestNiraj12/skyterm/domain"
)

// Identity is the logged-in account as seen by the services.
type Identity interface {
	DID() string
	Handle() string
}

// feedService implements app.FeedSource using the Bluesky API.
type feedService struct {
	client *Client
	self   Identity
	limit  int
}

// NewFeedService creates a FeedSource backed by Bluesky.
// Posts authored by self are marked as own.
func NewFeedService(client *Client, self Identity, limit int) *feedService {
	if limit <= 0 {
		limit = 30
	}
	return &feedService{client: client, self: self, limit: limit}
}

type feedResponse struct {
	Cursor string         `json:"cursor"`
	Feed   []feedViewPost `json:"feed"`
}

type feedViewPost struct {
	Post   postView    `json:"post"`
	Reason *feedReason `json:"reason,omitempty"`
}

type feedReason struct {
	Type string       `json:"$type"`
	By   profileBasic `json:"by"`
}

type postView struct {
	URI         string       `json:"uri"`
	CID         string       `json:"cid"`
	Author      profileBasic `json:"author"`
	Record      postRecord   `json:"record"`
	LikeCount   int          `json:"likeCount"`
	RepostCount int          `json:"repostCount"`
	ReplyCount  int          `json:"replyCount"`
	IndexedAt   string       `json:"indexedAt"`
}

type profileBasic struct {
	DID         string `json:"did"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
}

type postRecord struct {
	Text      string     `json:"text"`
	CreatedAt string     `json:"createdAt"`
	Reply     *replyRefs `json:"reply,omitempty"`
}

type replyRefs struct {
	Root   strongRef `json:"root"`
	Parent strongRef `json:"parent"`
}

type strongRef struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}

const reasonRepost = "app.bsky.feed.defs#reasonRepost"

func (s *feedService) FetchTimeline(ctx context.Context, cursor string) (domain.FeedPage, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(s.limit))
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	return s.fetch(ctx, "fetching timeline", "app.bsky.feed.getTimeline", params)
}

func (s *feedService) FetchAuthorFeed(ctx context.Context, cursor string) (domain.FeedPage, error) {
	params := url.Values{}
	params.Set("actor", s.self.DID())
	params.Set("limit", strconv.Itoa(s.limit))
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	return s.fetch(ctx, "fetching author feed", "app.bsky.feed.getAuthorFeed", params)
}

func (s *feedService) fetch(ctx context.Context, op, nsid string, params url.Values) (domain.FeedPage, error) {
	data, err := s.client.Query(ctx, nsid, params)
	if err != nil {
		return domain.FeedPage{}, &domain.RemoteError{Op: op, Err: err}
	}

	var resp feedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return domain.FeedPage{}, &domain.RemoteError{Op: op, Err: fmt.Errorf("parsing feed: %w", err)}
	}

	posts := make([]domain.Post, 0, len(resp.Feed))
	for _, item := range resp.Feed {
		posts = append(posts, s.mapPost(item))
	}
	return domain.FeedPage{Posts: posts, Cursor: resp.Cursor}, nil
}

func (s *feedService) mapPost(item feedViewPost) domain.Post {
	pv := item.Post
	handle := sanitizeForTerminal(pv.Author.Handle)

	p := domain.Post{
		URI:          pv.URI,
		CID:          pv.CID,
		AuthorDID:    pv.Author.DID,
		AuthorHandle: handle,
		AuthorName:   sanitizeForTerminal(pv.Author.DisplayName),
		CreatedAt:    parseTimestamp(pv.Record.CreatedAt, pv.IndexedAt),
		Text:         sanitizeForTerminal(pv.Record.Text),
		LikeCount:    pv.LikeCount,
		RepostCount:  pv.RepostCount,
		ReplyCount:   pv.ReplyCount,
		URL:          postWebURL(handle, pv.URI),
		IsOwn:        s.self.DID() != "" && pv.Author.DID == s.self.DID(),
	}

	if r := pv.Record.Reply; r != nil && r.Parent.URI != "" {
		ref := &domain.ReplyRef{ParentURI: r.Parent.URI, RootURI: r.Root.URI}
		if u, err := parseATURI(r.Parent.URI); err == nil {
			ref.ParentAuthorDID = u.Authority
		}
		p.Reply = ref
	}

	if item.Reason != nil && item.Reason.Type == reasonRepost {
		p.RepostedBy = sanitizeForTerminal(item.Reason.By.Handle)
	}
	return p
}

// parseTimestamp reads the record's createdAt, falling back to the index time.
func parseTimestamp(values ...string) time.Time {
	for _, v := range values {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
