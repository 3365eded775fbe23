package aggregate

import (
	"fmt"

	"github.com/CrestNiraj12/skyterm/domain"
)

// View identifies one of the selectable feeds.
type View int

const (
	ViewTimeline View = iota
	ViewMyPosts
)

// Views lists every view the engine manages, in tab order.
var Views = []View{ViewTimeline, ViewMyPosts}

func (v View) String() string {
	switch v {
	case ViewTimeline:
		return "timeline"
	case ViewMyPosts:
		return "my_posts"
	default:
		return fmt.Sprintf("view(%d)", int(v))
	}
}

// Title is the human label of the view ("my_posts" -> "My Posts").
func (v View) Title() string {
	switch v {
	case ViewTimeline:
		return "Timeline"
	case ViewMyPosts:
		return "My Posts"
	default:
		return v.String()
	}
}

// ParseView maps a persisted view name back to a View.
func ParseView(s string) (View, error) {
	switch s {
	case "timeline":
		return ViewTimeline, nil
	case "my_posts":
		return ViewMyPosts, nil
	default:
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownView, s)
	}
}

// Kind tags a render entry.
type Kind int

const (
	// KindTopLevel is a post shown on its own.
	KindTopLevel Kind = iota
	// KindReply is a post shown directly under its parent.
	KindReply
	// KindLoadMore is the trailing marker shown while a cursor is outstanding.
	KindLoadMore
)

// Entry is one item of a view's render sequence.
// Post is the zero value for KindLoadMore.
type Entry struct {
	Kind Kind
	Post domain.Post
}

// IsPost reports whether the entry carries a post.
func (e Entry) IsPost() bool {
	return e.Kind != KindLoadMore
}
