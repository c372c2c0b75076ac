package services

import (
	"errors"
	"fmt"
	"sync"

	"fanpulse/internal/db"
	"fanpulse/internal/models"
)

var ErrBadReactionType = errors.New("reaction type must be like or dislike")

// ReactionRows is the minimal row-store contract the toggle protocol
// needs: exact-match list, insert-one, delete-by-filter.
type ReactionRows interface {
	List(discussionID uint, sessionID, reactionType string) ([]models.Reaction, error)
	ListAll() ([]models.Reaction, error)
	Insert(r *models.Reaction) error
	// Delete removes matching rows and reports how many went away.
	Delete(discussionID uint, sessionID, reactionType string) (int64, error)
}

// ReactionStore is the like/dislike gateway. The exclusivity rule (at
// most one reaction per visitor per comment) is enforced by Toggle's
// read-then-write sequence, not by a DB constraint, so two racing
// toggles for the same pair can briefly leave inconsistent rows until
// the next refresh reconciles the display.
type ReactionStore struct {
	rows ReactionRows
	hub  *ChangeHub
}

var (
	reactionStore     *ReactionStore
	reactionStoreOnce sync.Once
)

// GetReactionStore returns the gateway wired to the shared DB and hub.
func GetReactionStore() *ReactionStore {
	reactionStoreOnce.Do(func() {
		reactionStore = NewReactionStore(&gormReactionRows{}, GetChangeHub())
	})
	return reactionStore
}

func NewReactionStore(rows ReactionRows, hub *ChangeHub) *ReactionStore {
	return &ReactionStore{rows: rows, hub: hub}
}

// ListAll returns every reaction row; tallies are computed client-side
// by the aggregator.
func (s *ReactionStore) ListAll() ([]models.Reaction, error) {
	reactions, err := s.rows.ListAll()
	if err != nil {
		return nil, fmt.Errorf("list reactions: %w", err)
	}
	return reactions, nil
}

// Toggle flips the visitor's reaction on a discussion:
//   - same type already present: delete it (back to no reaction)
//   - otherwise: delete any opposite-type row, then insert the new one
//
// Toggling like twice returns to the pre-toggle state; like then
// dislike switches type without ever holding both. Any store failure
// aborts the sequence with no partial local state; callers re-fetch
// authoritative state instead of trusting optimistic updates.
func (s *ReactionStore) Toggle(discussionID uint, sessionID, reactionType string) error {
	if reactionType != models.ReactionLike && reactionType != models.ReactionDislike {
		return ErrBadReactionType
	}

	existing, err := s.rows.List(discussionID, sessionID, reactionType)
	if err != nil {
		return fmt.Errorf("query existing reaction: %w", err)
	}

	if len(existing) > 0 {
		deleted, err := s.rows.Delete(discussionID, sessionID, reactionType)
		if err != nil {
			return fmt.Errorf("retract reaction: %w", err)
		}
		if deleted > 0 {
			s.hub.Publish(ChangeEvent{Table: TableVotes, Event: EventDelete})
		}
		return nil
	}

	deleted, err := s.rows.Delete(discussionID, sessionID, models.OppositeReaction(reactionType))
	if err != nil {
		return fmt.Errorf("remove opposite reaction: %w", err)
	}
	if deleted > 0 {
		s.hub.Publish(ChangeEvent{Table: TableVotes, Event: EventDelete})
	}

	reaction := &models.Reaction{
		DiscussionID: discussionID,
		SessionID:    sessionID,
		ReactionType: reactionType,
	}
	if err := s.rows.Insert(reaction); err != nil {
		return fmt.Errorf("insert reaction: %w", err)
	}
	s.hub.Publish(ChangeEvent{Table: TableVotes, Event: EventInsert})

	return nil
}

// gormReactionRows backs the gateway with the shared Postgres handle.
type gormReactionRows struct{}

func (r *gormReactionRows) List(discussionID uint, sessionID, reactionType string) ([]models.Reaction, error) {
	var reactions []models.Reaction
	err := db.DB.
		Where("discussion_id = ? AND session_id = ? AND reaction_type = ?", discussionID, sessionID, reactionType).
		Find(&reactions).Error
	return reactions, err
}

func (r *gormReactionRows) ListAll() ([]models.Reaction, error) {
	var reactions []models.Reaction
	err := db.DB.Find(&reactions).Error
	return reactions, err
}

func (r *gormReactionRows) Insert(reaction *models.Reaction) error {
	return db.DB.Create(reaction).Error
}

func (r *gormReactionRows) Delete(discussionID uint, sessionID, reactionType string) (int64, error) {
	result := db.DB.
		Where("discussion_id = ? AND session_id = ? AND reaction_type = ?", discussionID, sessionID, reactionType).
		Delete(&models.Reaction{})
	return result.RowsAffected, result.Error
}
