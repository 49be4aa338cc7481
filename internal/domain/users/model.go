package users

import (
	"time"
)

type User struct {
	ID       uint    `gorm:"primaryKey"`
	Name     string  `gorm:"not null"`
	Email    string  `gorm:"not null;uniqueIndex:idx_users_email"`
	Password *string `gorm:""`
	Role     string  `gorm:"type:varchar(20);not null;default:'user'"`

	// Set by moderation. A banned user keeps editing private decks but the
	// publish flow rejects them.
	PublishBanned bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
