package models

import (
	"time"
)

// User is a borrowed identity: accounts are created and mutated by the
// external auth service, the board only reads username and email for
// display and assignment.
type User struct {
	ID        string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(100)" json:"username"`
	Email     string    `gorm:"type:varchar(100)" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) GetDisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
