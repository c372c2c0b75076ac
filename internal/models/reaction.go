package models

import (
	"time"
)

const (
	ReactionLike    = "like"
	ReactionDislike = "dislike"
)

// Reaction rows are only ever inserted and deleted, never updated. The
// "at most one per (discussion, session)" rule lives in the toggle
// protocol, not in a DB constraint.
type Reaction struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DiscussionID uint      `gorm:"not null;index" json:"discussion_id"`
	SessionID    string    `gorm:"not null;index;size:64" json:"session_id"`
	ReactionType string    `gorm:"not null;size:16" json:"reaction_type"` // "like" or "dislike"
	CreatedAt    time.Time `json:"created_at"`
}

// OppositeReaction returns dislike for like and vice versa.
func OppositeReaction(reactionType string) string {
	if reactionType == ReactionLike {
		return ReactionDislike
	}
	return ReactionLike
}
