package models

import (
	"gorm.io/gorm"
)

// Organizer is an event staff member who signed in with Discord to review
// registrations.
type Organizer struct {
	gorm.Model
	DiscordID string `gorm:"uniqueIndex"`
	Username  string
	Email     string
	Avatar    string
}
