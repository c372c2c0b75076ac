package models

import (
	"time"
)

const (
	ItemTypeComment = "comment"
	ItemTypeReply   = "reply"
)

// MaxCommentLength is enforced both by the form and on insert; the form
// counter is not the only enforcement point.
const MaxCommentLength = 700

type Discussion struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Did         string      `gorm:"uniqueIndex;size:32;not null" json:"did"`
	PollID      string      `gorm:"not null;index" json:"poll_id"`
	AuthorName  string      `gorm:"not null" json:"author_name"`
	AuthorEmail string      `json:"author_email"`
	Text        string      `gorm:"type:text;not null" json:"text"`
	ParentID    *uint       `gorm:"index" json:"parent_id"` // Nullable for top-level comments
	Parent      *Discussion `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"parent"`
	ItemType    string      `gorm:"size:16;not null" json:"item_type"` // "comment" or "reply"
	CreatedAt   time.Time   `json:"created_at"`
}

// IsReply reports whether the record is nested under another discussion.
func (d *Discussion) IsReply() bool {
	return d.ParentID != nil
}
