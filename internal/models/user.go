package models

import "time"

// User is the identity reference every operation receives. Accounts and
// sessions are managed by the identity collaborator; this service only needs
// the id for ownership and membership checks.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
