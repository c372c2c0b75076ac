package services

import (
	"sync"

	"fanpulse/internal/models"
	"fanpulse/internal/utils"
)

// MaxReplyDepth is the deepest level that still offers a reply button.
// Nesting beyond it still renders, it just cannot grow further from the
// UI. Top-level comments sit at depth 0.
const MaxReplyDepth = 3

// ThreadItem is one rendered node of the discussion tree with its
// reaction tallies and the caller's own reaction filled in.
type ThreadItem struct {
	models.Discussion
	Likes       int
	Dislikes    int
	OwnReaction string // "like", "dislike" or ""
	Initials    string
	Depth       int
	CanReply    bool
	Collapsed   bool
	Replies     []*ThreadItem
}

// HasReplies reports whether a collapse control should render at all.
func (t *ThreadItem) HasReplies() bool {
	return len(t.Replies) > 0
}

type tally struct {
	likes     int
	dislikes  int
	bySession map[string]string
}

// BuildThread assembles flat discussion and reaction rows into the
// top-level comment sequence with nested replies. Input order is kept
// as delivered by the store (created_at descending); the aggregator
// never re-sorts. Replies whose parent row is gone are unreachable from
// the top-level traversal and silently left out of the tree.
func BuildThread(discussions []models.Discussion, reactions []models.Reaction, sessionID string) []*ThreadItem {
	tallies := make(map[uint]*tally)
	for _, r := range reactions {
		t := tallies[r.DiscussionID]
		if t == nil {
			t = &tally{bySession: make(map[string]string)}
			tallies[r.DiscussionID] = t
		}
		switch r.ReactionType {
		case models.ReactionLike:
			t.likes++
		case models.ReactionDislike:
			t.dislikes++
		}
		t.bySession[r.SessionID] = r.ReactionType
	}

	children := make(map[uint][]models.Discussion)
	var topLevel []models.Discussion
	for _, d := range discussions {
		if d.ParentID == nil {
			topLevel = append(topLevel, d)
		} else {
			children[*d.ParentID] = append(children[*d.ParentID], d)
		}
	}

	var build func(d models.Discussion, depth int) *ThreadItem
	build = func(d models.Discussion, depth int) *ThreadItem {
		item := &ThreadItem{
			Discussion:  d,
			Initials:    utils.Initials(d.AuthorName),
			Depth:       depth,
			CanReply:    depth < MaxReplyDepth,
			OwnReaction: "",
		}
		if t := tallies[d.ID]; t != nil {
			item.Likes = t.likes
			item.Dislikes = t.dislikes
			item.OwnReaction = t.bySession[sessionID]
		}
		for _, child := range children[d.ID] {
			item.Replies = append(item.Replies, build(child, depth+1))
		}
		return item
	}

	items := make([]*ThreadItem, 0, len(topLevel))
	for _, d := range topLevel {
		items = append(items, build(d, 0))
	}
	return items
}

// CountThreadItems walks the tree; handy for the header badge which
// shows top-level comments only, so callers mostly use len() instead.
func CountThreadItems(items []*ThreadItem) int {
	total := 0
	for _, item := range items {
		total += 1 + CountThreadItems(item.Replies)
	}
	return total
}

// CollapseSet tracks which comments currently hide their replies. State
// is ephemeral and keyed only by comment id: collapsing a parent hides
// the subtree from rendering without touching the descendants' own
// flags.
type CollapseSet struct {
	mu  sync.Mutex
	ids map[uint]struct{}
}

func NewCollapseSet() *CollapseSet {
	return &CollapseSet{ids: make(map[uint]struct{})}
}

// Toggle flips membership for id and reports the new collapsed state.
func (s *CollapseSet) Toggle(id uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Collapsed reports whether id's replies are hidden.
func (s *CollapseSet) Collapsed(id uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// Apply stamps the collapse flags onto a built thread.
func (s *CollapseSet) Apply(items []*ThreadItem) {
	for _, item := range items {
		item.Collapsed = s.Collapsed(item.ID)
		s.Apply(item.Replies)
	}
}
