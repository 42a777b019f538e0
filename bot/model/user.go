package model

import "time"

// EventType names a notification users can subscribe to.
type EventType string

const (
	NewMatch EventType = "new_match"
)

type UserRole int

const (
	RoleAdmin     UserRole = 1
	RoleModerator UserRole = 2
	RoleUser      UserRole = 3
)

// User is a telegram account known to the bot.
type User struct {
	ID        int
	FirstName string
	Username  string
	CreatedAt time.Time
	UpdatedAt time.Time

	Role UserRole

	Subscriptions []EventType
}
