package services

import (
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"fanpulse/internal/models"
)

// memoryDiscussionRows is an in-memory stand-in for the external row store.
type memoryDiscussionRows struct {
	rows   []models.Discussion
	nextID uint
	err    error
}

func (m *memoryDiscussionRows) ListByPoll(pollID string) ([]models.Discussion, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Discussion
	for _, d := range m.rows {
		if d.PollID == pollID {
			out = append(out, d)
		}
	}
	// Newest first, like the backing store's ORDER BY created_at DESC.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memoryDiscussionRows) Insert(d *models.Discussion) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	d.ID = m.nextID
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().Add(time.Duration(m.nextID) * time.Millisecond)
	}
	m.rows = append(m.rows, *d)
	return nil
}

func (m *memoryDiscussionRows) GetByDid(did string) (*models.Discussion, error) {
	for _, d := range m.rows {
		if d.Did == did {
			found := d
			return &found, nil
		}
	}
	return nil, ErrParentUnknown
}

func newTestDiscussionStore() (*DiscussionStore, *memoryDiscussionRows) {
	rows := &memoryDiscussionRows{}
	return NewDiscussionStore(rows, NewChangeHub()), rows
}

func TestCreateTopLevelComment(t *testing.T) {
	store, _ := newTestDiscussionStore()

	created, err := store.Create("biggboss9", "Ravi", "", "Great show!", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ItemType != models.ItemTypeComment {
		t.Errorf("ItemType = %q, want comment", created.ItemType)
	}
	if created.ParentID != nil {
		t.Errorf("ParentID should be nil for a top-level comment")
	}
	if created.Did == "" {
		t.Error("Public id missing")
	}

	// The posted comment shows up in the aggregated top-level list.
	discussions, err := store.ListByPoll("biggboss9")
	if err != nil {
		t.Fatalf("ListByPoll failed: %v", err)
	}
	items := BuildThread(discussions, nil, "session-ravi")
	if len(items) != 1 || items[0].Text != "Great show!" || items[0].AuthorName != "Ravi" {
		t.Fatalf("Aggregated list missing the new comment: %+v", items)
	}
}

func TestCreateReplyDerivesItemType(t *testing.T) {
	store, _ := newTestDiscussionStore()

	parent, err := store.Create("biggboss9", "Ravi", "", "Great show!", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	reply, err := store.Create("biggboss9", "Priya", "priya@example.com", "Agreed!", &parent.ID)
	if err != nil {
		t.Fatalf("Create reply failed: %v", err)
	}
	if reply.ItemType != models.ItemTypeReply {
		t.Errorf("ItemType = %q, want reply", reply.ItemType)
	}

	discussions, _ := store.ListByPoll("biggboss9")
	items := BuildThread(discussions, nil, "s")
	if len(items) != 1 || len(items[0].Replies) != 1 || items[0].Replies[0].AuthorName != "Priya" {
		t.Fatalf("Reply not nested under its parent: %+v", items)
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	store, rows := newTestDiscussionStore()

	cases := []struct {
		name       string
		authorName string
		text       string
		wantErr    error
	}{
		{"empty author", "  ", "hello", ErrEmptyAuthor},
		{"empty text", "Ravi", "   ", ErrEmptyText},
		{"over limit", "Ravi", strings.Repeat("x", models.MaxCommentLength+1), ErrTextTooLong},
	}
	for _, tc := range cases {
		if _, err := store.Create("biggboss9", tc.authorName, "", tc.text, nil); !errors.Is(err, tc.wantErr) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.wantErr)
		}
	}
	if len(rows.rows) != 0 {
		t.Errorf("Rejected input must not reach the store, found %d rows", len(rows.rows))
	}

	// Exactly at the limit is fine.
	if _, err := store.Create("biggboss9", "Ravi", "", strings.Repeat("x", models.MaxCommentLength), nil); err != nil {
		t.Errorf("Text at the limit should be accepted: %v", err)
	}
}

func TestCreatePublishesInsertEvent(t *testing.T) {
	rows := &memoryDiscussionRows{}
	hub := NewChangeHub()
	store := NewDiscussionStore(rows, hub)

	events := make(chan ChangeEvent, 1)
	sub := hub.Subscribe(TableDiscussions, []string{EventInsert}, func(e ChangeEvent) {
		events <- e
	})
	defer sub.Unsubscribe()

	if _, err := store.Create("biggboss9", "Ravi", "", "Great show!", nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	select {
	case e := <-events:
		if e.Table != TableDiscussions || e.Event != EventInsert {
			t.Fatalf("Unexpected event %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for insert event")
	}
}

func TestListByPollScopesPartition(t *testing.T) {
	store, _ := newTestDiscussionStore()

	if _, err := store.Create("biggboss9", "Ravi", "", "Great show!", nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create("otherpoll", "Kiran", "", "Wrong partition", nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	discussions, err := store.ListByPoll("biggboss9")
	if err != nil {
		t.Fatalf("ListByPoll failed: %v", err)
	}
	if len(discussions) != 1 || discussions[0].AuthorName != "Ravi" {
		t.Fatalf("Partition leaked: %+v", discussions)
	}
}
