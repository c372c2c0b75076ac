package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"fanpulse/internal/db"
	"fanpulse/internal/models"

	"github.com/lithammer/shortuuid/v4"
	"gorm.io/gorm"
)

var (
	ErrEmptyAuthor   = errors.New("author name is required")
	ErrEmptyText     = errors.New("comment text is required")
	ErrTextTooLong   = fmt.Errorf("comment text exceeds %d characters", models.MaxCommentLength)
	ErrParentUnknown = errors.New("parent comment not found")
)

// DiscussionRows is the minimal row-store contract the gateway needs:
// filtered list, insert, lookup. Backed by Postgres in production and by
// an in-memory table in tests.
type DiscussionRows interface {
	ListByPoll(pollID string) ([]models.Discussion, error)
	Insert(d *models.Discussion) error
	GetByDid(did string) (*models.Discussion, error)
}

// DiscussionStore is the comment gateway: reads and writes discussion
// rows for one poll partition and publishes change events on writes.
type DiscussionStore struct {
	rows DiscussionRows
	hub  *ChangeHub
}

var (
	discussionStore     *DiscussionStore
	discussionStoreOnce sync.Once
)

// GetDiscussionStore returns the gateway wired to the shared DB and hub.
func GetDiscussionStore() *DiscussionStore {
	discussionStoreOnce.Do(func() {
		discussionStore = NewDiscussionStore(&gormDiscussionRows{}, GetChangeHub())
	})
	return discussionStore
}

func NewDiscussionStore(rows DiscussionRows, hub *ChangeHub) *DiscussionStore {
	return &DiscussionStore{rows: rows, hub: hub}
}

// ListByPoll returns every discussion in the partition, newest first.
func (s *DiscussionStore) ListByPoll(pollID string) ([]models.Discussion, error) {
	discussions, err := s.rows.ListByPoll(pollID)
	if err != nil {
		return nil, fmt.Errorf("list discussions: %w", err)
	}
	return discussions, nil
}

// GetByDid resolves a public discussion id.
func (s *DiscussionStore) GetByDid(did string) (*models.Discussion, error) {
	return s.rows.GetByDid(did)
}

// Create validates and inserts a comment or reply. ItemType is derived
// from the parent: nil parent means a top-level comment.
func (s *DiscussionStore) Create(pollID, authorName, authorEmail, text string, parentID *uint) (*models.Discussion, error) {
	authorName = strings.TrimSpace(authorName)
	text = strings.TrimSpace(text)

	if authorName == "" {
		return nil, ErrEmptyAuthor
	}
	if text == "" {
		return nil, ErrEmptyText
	}
	if len([]rune(text)) > models.MaxCommentLength {
		return nil, ErrTextTooLong
	}

	itemType := models.ItemTypeComment
	if parentID != nil {
		itemType = models.ItemTypeReply
	}

	discussion := &models.Discussion{
		Did:         shortuuid.New(),
		PollID:      pollID,
		AuthorName:  authorName,
		AuthorEmail: strings.TrimSpace(authorEmail),
		Text:        text,
		ParentID:    parentID,
		ItemType:    itemType,
	}

	if err := s.rows.Insert(discussion); err != nil {
		return nil, fmt.Errorf("insert discussion: %w", err)
	}

	s.hub.Publish(ChangeEvent{Table: TableDiscussions, Event: EventInsert})

	return discussion, nil
}

// gormDiscussionRows backs the gateway with the shared Postgres handle.
type gormDiscussionRows struct{}

func (r *gormDiscussionRows) ListByPoll(pollID string) ([]models.Discussion, error) {
	var discussions []models.Discussion
	err := db.DB.Where("poll_id = ?", pollID).
		Order("created_at DESC").
		Find(&discussions).Error
	return discussions, err
}

func (r *gormDiscussionRows) Insert(d *models.Discussion) error {
	return db.DB.Create(d).Error
}

func (r *gormDiscussionRows) GetByDid(did string) (*models.Discussion, error) {
	var discussion models.Discussion
	if err := db.DB.Where("did = ?", did).First(&discussion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParentUnknown
		}
		return nil, err
	}
	return &discussion, nil
}
