package aggregate

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/CrestNiraj12/skyterm/app"
	"github.com/CrestNiraj12/skyterm/domain"
)

// viewState is the pagination state of one view.
// mu is held for the whole of an operation, network call included.
type viewState struct {
	mu      sync.Mutex
	cursor  string
	entries []Entry // Posts, then at most one trailing KindLoadMore
}

// Engine turns cursor-delimited feed pages into per-view render sequences.
type Engine struct {
	source app.FeedSource
	posts  app.PostService
	log    *log.Logger
	views  map[View]*viewState // Built once in New, never mutated.
}

// New creates an engine over the given feed source and post service.
// A nil logger discards output.
func New(source app.FeedSource, posts app.PostService, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	views := make(map[View]*viewState, len(Views))
	for _, v := range Views {
		views[v] = &viewState{}
	}
	return &Engine{
		source: source,
		posts:  posts,
		log:    logger.WithPrefix("aggregate"),
		views:  views,
	}
}

func (e *Engine) state(view View) (*viewState, error) {
	st, ok := e.views[view]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownView, view)
	}
	return st, nil
}

func (e *Engine) fetch(ctx context.Context, view View, cursor string) (domain.FeedPage, error) {
	switch view {
	case ViewTimeline:
		return e.source.FetchTimeline(ctx, cursor)
	case ViewMyPosts:
		return e.source.FetchAuthorFeed(ctx, cursor)
	default:
		return domain.FeedPage{}, fmt.Errorf("%w: %s", domain.ErrUnknownView, view)
	}
}

// LoadInitial resets the view and fills it with the first page.
// On a fetch error the view keeps its previous content and cursor, so
// HasMore may still report the old marker, and the error is returned
// unchanged.
func (e *Engine) LoadInitial(ctx context.Context, view View) ([]Entry, error) {
	st, err := e.state(view)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	page, err := e.fetch(ctx, view, "")
	if err != nil {
		e.log.Warn("initial fetch failed", "view", view, "err", err)
		return nil, err
	}

	st.cursor = ""
	st.entries = nil
	if len(page.Posts) == 0 {
		e.log.Debug("initial page empty", "view", view)
		return st.snapshot(), nil
	}

	st.entries = Merge(page.Posts)
	st.cursor = page.Cursor
	st.syncMarker()
	e.log.Debug("initial page merged", "view", view, "posts", len(page.Posts), "more", st.cursor != "")
	return st.snapshot(), nil
}

// LoadMore appends the next page of the view. Without an outstanding
// load-more marker it returns the unchanged sequence.
func (e *Engine) LoadMore(ctx context.Context, view View) ([]Entry, error) {
	st, err := e.state(view)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.hasMarker() {
		return st.snapshot(), nil
	}

	page, err := e.fetch(ctx, view, st.cursor)
	if err != nil {
		e.log.Warn("next page fetch failed", "view", view, "err", err)
		return nil, err
	}

	st.removeMarker()
	if len(page.Posts) == 0 {
		// Pagination ends here; the stale cursor would only repeat this page.
		st.cursor = ""
		e.log.Debug("next page empty", "view", view)
		return st.snapshot(), nil
	}

	st.entries = append(st.entries, Merge(page.Posts)...)
	st.cursor = page.Cursor
	st.syncMarker()
	e.log.Debug("next page merged", "view", view, "posts", len(page.Posts), "total", len(st.entries), "more", st.cursor != "")
	return st.snapshot(), nil
}

// DeletePost deletes the post remotely and, on success, drops every entry
// with that URI from the view. Replies under a deleted parent stay visible.
// A rejected remote delete returns false and leaves the view untouched; the
// only error is for an unknown view.
func (e *Engine) DeletePost(ctx context.Context, view View, uri string) (bool, error) {
	st, err := e.state(view)
	if err != nil {
		return false, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := e.posts.Delete(ctx, uri); err != nil {
		e.log.Warn("delete failed", "view", view, "uri", uri, "err", err)
		return false, nil
	}

	kept := make([]Entry, 0, len(st.entries))
	removed := 0
	for _, en := range st.entries {
		if en.IsPost() && en.Post.URI == uri {
			removed++
			continue
		}
		if en.Kind == KindReply && en.Post.Reply.ParentURI == uri {
			en.Kind = KindTopLevel
		}
		kept = append(kept, en)
	}
	st.entries = kept
	e.log.Info("post deleted", "view", view, "uri", uri, "removed", removed)
	return true, nil
}

// Sequence returns a copy of the view's current render sequence.
func (e *Engine) Sequence(view View) []Entry {
	st, err := e.state(view)
	if err != nil {
		return nil
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.snapshot()
}

// HasMore reports whether the view has a load-more marker.
func (e *Engine) HasMore(view View) bool {
	st, err := e.state(view)
	if err != nil {
		return false
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.hasMarker()
}

// Cursor returns the stored continuation token of the view, if any.
func (e *Engine) Cursor(view View) string {
	st, err := e.state(view)
	if err != nil {
		return ""
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.cursor
}

func (st *viewState) snapshot() []Entry {
	out := make([]Entry, len(st.entries))
	copy(out, st.entries)
	return out
}

func (st *viewState) hasMarker() bool {
	n := len(st.entries)
	return n > 0 && st.entries[n-1].Kind == KindLoadMore
}

func (st *viewState) removeMarker() {
	if st.hasMarker() {
		st.entries = st.entries[:len(st.entries)-1]
	}
}

func (st *viewState) syncMarker() {
	st.removeMarker()
	if st.cursor != "" {
		st.entries = append(st.entries, Entry{Kind: KindLoadMore})
	}
}
