package aggregate

import (
	"context"
	"errors"
	"time"

	"github.com/CrestNiraj12/skyterm/domain"
)

// scriptedSource replays queued pages per view and records requested cursors.
type scriptedSource struct {
	timeline []scriptedPage
	authored []scriptedPage
	cursors  map[View][]string
}

type scriptedPage struct {
	page domain.FeedPage
	err  error
}

func newScriptedSource() *scriptedSource {
	return &scriptedSource{cursors: make(map[View][]string)}
}

func (s *scriptedSource) queue(view View, posts []domain.Post, cursor string) *scriptedSource {
	p := scriptedPage{page: domain.FeedPage{Posts: posts, Cursor: cursor}}
	if view == ViewTimeline {
		s.timeline = append(s.timeline, p)
	} else {
		s.authored = append(s.authored, p)
	}
	return s
}

func (s *scriptedSource) fail(view View, err error) *scriptedSource {
	p := scriptedPage{err: err}
	if view == ViewTimeline {
		s.timeline = append(s.timeline, p)
	} else {
		s.authored = append(s.authored, p)
	}
	return s
}

func pop(q *[]scriptedPage) (domain.FeedPage, error) {
	if len(*q) == 0 {
		return domain.FeedPage{}, errors.New("no scripted page")
	}
	p := (*q)[0]
	*q = (*q)[1:]
	return p.page, p.err
}

func (s *scriptedSource) FetchTimeline(_ context.Context, cursor string) (domain.FeedPage, error) {
	s.cursors[ViewTimeline] = append(s.cursors[ViewTimeline], cursor)
	return pop(&s.timeline)
}

func (s *scriptedSource) FetchAuthorFeed(_ context.Context, cursor string) (domain.FeedPage, error) {
	s.cursors[ViewMyPosts] = append(s.cursors[ViewMyPosts], cursor)
	return pop(&s.authored)
}

type stubPosts struct {
	err     error
	deleted []string
}

func (s *stubPosts) Delete(_ context.Context, uri string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, uri)
	return nil
}

func uri(id string) string {
	return "at://did:plc:me/app.bsky.feed.post/" + id
}

func makePost(id string) domain.Post {
	return domain.Post{
		URI:          uri(id),
		AuthorDID:    "did:plc:me",
		AuthorHandle: "me.bsky.social",
		Text:         "post " + id,
		CreatedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func makeReply(id, parentID string) domain.Post {
	p := makePost(id)
	p.Reply = &domain.ReplyRef{ParentURI: uri(parentID), RootURI: uri(parentID), ParentAuthorDID: "did:plc:me"}
	return p
}

func posts(ps ...domain.Post) []domain.Post { return ps }

// shape renders a sequence as "T:id R:id M" for compact assertions.
func shape(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		switch e.Kind {
		case KindTopLevel:
			out = append(out, "T:"+e.Post.Text[len("post "):])
		case KindReply:
			out = append(out, "R:"+e.Post.Text[len("post "):])
		case KindLoadMore:
			out = append(out, "M")
		}
	}
	return out
}

// gatedSource serves a fixed timeline whose second page is held until
// release is closed. The author feed never blocks.
type gatedSource struct {
	entered chan struct{}
	release chan struct{}
}

func newGatedSource() *gatedSource {
	return &gatedSource{entered: make(chan struct{}), release: make(chan struct{})}
}

func (s *gatedSource) FetchTimeline(ctx context.Context, cursor string) (domain.FeedPage, error) {
	if cursor == "" {
		return domain.FeedPage{Posts: posts(makePost("A")), Cursor: "c1"}, nil
	}
	close(s.entered)
	select {
	case <-s.release:
	case <-ctx.Done():
		return domain.FeedPage{}, ctx.Err()
	}
	return domain.FeedPage{Posts: posts(makePost("B"))}, nil
}

func (s *gatedSource) FetchAuthorFeed(context.Context, string) (domain.FeedPage, error) {
	return domain.FeedPage{Posts: posts(makePost("M"))}, nil
}
