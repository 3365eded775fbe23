package aggregate

import "github.com/CrestNiraj12/skyterm/domain"

// Merge classifies one fetched page into render entries.
//
// A post whose parent is in the same page is emitted as KindReply directly
// after that parent (replies to replies follow depth-first). Every other post,
// including replies whose parent lies outside the page, is KindTopLevel in
// fetch order. Grouping never looks beyond the page. Every input post appears
// exactly once in the output.
func Merge(page []domain.Post) []Entry {
	if len(page) == 0 {
		return nil
	}

	inPage := make(map[string]struct{}, len(page))
	for _, p := range page {
		inPage[p.URI] = struct{}{}
	}

	// Parent URI -> indexes of replies in page order.
	replies := make(map[string][]int)
	for i, p := range page {
		if !p.IsReply() || p.Reply.ParentURI == p.URI {
			continue
		}
		if _, ok := inPage[p.Reply.ParentURI]; ok {
			replies[p.Reply.ParentURI] = append(replies[p.Reply.ParentURI], i)
		}
	}

	isGroupedReply := func(p domain.Post) bool {
		if !p.IsReply() || p.Reply.ParentURI == p.URI {
			return false
		}
		_, ok := inPage[p.Reply.ParentURI]
		return ok
	}

	out := make([]Entry, 0, len(page))
	emitted := make([]bool, len(page))

	var emitReplies func(parentURI string)
	emitReplies = func(parentURI string) {
		for _, idx := range replies[parentURI] {
			if emitted[idx] {
				continue
			}
			emitted[idx] = true
			out = append(out, Entry{Kind: KindReply, Post: page[idx]})
			emitReplies(page[idx].URI)
		}
	}

	for i, p := range page {
		if emitted[i] || isGroupedReply(p) {
			continue
		}
		emitted[i] = true
		out = append(out, Entry{Kind: KindTopLevel, Post: p})
		emitReplies(p.URI)
	}

	// Reply cycles never reach a top-level root; surface them on their own.
	for i, p := range page {
		if emitted[i] {
			continue
		}
		emitted[i] = true
		out = append(out, Entry{Kind: KindTopLevel, Post: p})
		emitReplies(p.URI)
	}

	return out
}
