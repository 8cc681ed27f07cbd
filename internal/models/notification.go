package models

import "time"

// ItemKindSubmission is the only item kind this service filters on; other
// kinds pass through untouched.
const ItemKindSubmission = "submission"

// Notification tells a user that something happened to an item they care
// about. The item reference is a tagged (kind, id) pair rather than a free
// pointer so filters can name the kind explicitly. Notifications are created
// by upstream collaborators; this service counts them and deletes them along
// with their submission.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ItemKind  string    `gorm:"size:32;not null;index:idx_notifications_item" json:"item_kind"`
	ItemID    uint      `gorm:"not null;index:idx_notifications_item" json:"item_id"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Alert is a site-wide message targeted at a user, consumed read-only by the
// inbox aggregation.
type Alert struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Text      string    `gorm:"type:text" json:"text"`
	Link      string    `gorm:"size:512" json:"link"`
	CreatedAt time.Time `json:"created_at"`
}
