package models

import (
	"time"
)

const (
	ContestantActive     = "active"
	ContestantEliminated = "eliminated"
)

type Contestant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Phone     string    `json:"phone"` // SMS voting line
	Initials  string    `gorm:"size:4" json:"initials"`
	Color     string    `json:"color"` // CSS gradient for the avatar card
	ImageURL  string    `json:"image_url"`
	Status    string    `gorm:"size:16;default:active" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
