package bluesky

import (
	"fmt"
	"strings"

	"github.com/CrestNiraj12/skyterm/domain"
)

const postCollection = "app.bsky.feed.post"

// atURI is a parsed at://authority/collection/rkey reference.
type atURI struct {
	Authority  string
	Collection string
	RKey       string
}

func parseATURI(raw string) (atURI, error) {
	rest, ok := strings.CutPrefix(raw, "at://")
	if !ok {
		return atURI{}, fmt.Errorf("%w: %q", domain.ErrInvalidURI, raw)
	}
	parts := strings.Split(rest, "/")
	if parts[0] == "" || len(parts) > 3 {
		return atURI{}, fmt.Errorf("%w: %q", domain.ErrInvalidURI, raw)
	}
	u := atURI{Authority: parts[0]}
	if len(parts) > 1 {
		u.Collection = parts[1]
	}
	if len(parts) > 2 {
		u.RKey = parts[2]
	}
	return u, nil
}

// postWebURL links a post on the bsky.app web client.
func postWebURL(handle, uri string) string {
	u, err := parseATURI(uri)
	if err != nil || u.RKey == "" || handle == "" {
		return ""
	}
	return fmt.Sprintf("https://bsky.app/profile/%s/post/%s", handle, u.RKey)
}
