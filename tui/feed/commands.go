package feed

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/skyterm/app/aggregate"
)

func (m Model) loadInitial() tea.Cmd {
	pager, view, seq := m.pager, m.view, m.reqSeq
	return func() tea.Msg {
		entries, err := pager.LoadInitial(context.Background(), view)
		return PageLoadedMsg{View: view, ReqSeq: seq, Entries: entries, Err: err}
	}
}

func (m Model) loadMore() tea.Cmd {
	pager, view, seq := m.pager, m.view, m.reqSeq
	return func() tea.Msg {
		entries, err := pager.LoadMore(context.Background(), view)
		return PageLoadedMsg{View: view, ReqSeq: seq, Entries: entries, Append: true, Err: err}
	}
}

func (m Model) deletePost(uri string) tea.Cmd {
	pager, view, seq := m.pager, m.view, m.reqSeq
	return func() tea.Msg {
		ok, err := pager.DeletePost(context.Background(), view, uri)
		return DeletedMsg{
			View:    view,
			ReqSeq:  seq,
			URI:     uri,
			OK:      ok,
			Entries: pager.Sequence(view),
			Err:     err,
		}
	}
}

// resolveHandles looks up parent authors of replies that are not already
// known. Parents present in the sequence are resolved in place.
func (m *Model) resolveHandles() tea.Cmd {
	byDID := make(map[string]string, len(m.entries))
	for _, en := range m.entries {
		if en.IsPost() && en.Post.AuthorHandle != "" {
			byDID[en.Post.AuthorDID] = en.Post.AuthorHandle
		}
	}

	var pending []string
	seen := make(map[string]struct{})
	for _, en := range m.entries {
		if !en.IsPost() || !en.Post.IsReply() {
			continue
		}
		did := en.Post.Reply.ParentAuthorDID
		if did == "" || did == en.Post.AuthorDID {
			continue
		}
		if _, ok := m.handles[did]; ok {
			continue
		}
		if h, ok := byDID[did]; ok {
			m.handles[did] = h
			continue
		}
		if _, ok := seen[did]; ok {
			continue
		}
		seen[did] = struct{}{}
		pending = append(pending, did)
	}
	if len(pending) == 0 || m.resolver == nil {
		return nil
	}

	resolver := m.resolver
	return func() tea.Msg {
		out := make(map[string]string, len(pending))
		for _, did := range pending {
			out[did] = resolver.ResolveHandle(context.Background(), did)
		}
		return HandlesResolvedMsg{Handles: out}
	}
}

func (m Model) openSelected() tea.Cmd {
	en, ok := m.selected()
	if !ok || !en.IsPost() || m.opener == nil {
		return nil
	}
	rawURL := en.Post.URL
	opener := m.opener
	return func() tea.Msg {
		cmd, err := opener.Cmd(rawURL)
		if err != nil {
			return StatusMsg{Text: "Cannot open this post.", IsError: true}
		}
		if err := cmd.Start(); err != nil {
			return StatusMsg{Text: "Error opening browser: " + err.Error(), IsError: true}
		}
		go func() { _ = cmd.Wait() }()
		return nil
	}
}

func statusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text, IsError: isErr} }
}

func isMarker(en aggregate.Entry) bool {
	return en.Kind == aggregate.KindLoadMore
}
