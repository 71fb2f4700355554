package models

import (
	"time"
)

// UserMapping associates an opaque external authentication subject with
// the internal identifier used to scope warranty ownership.
//
// The mapping's own ID is the internal user id: warranties reference it
// as their owner key. LinkedUserID is a second, distinct identifier
// generated at first contact; the two are never assumed equal.
//
// Mappings are created lazily on a subject's first warranty submission,
// never updated, and never deleted (there is no offboarding flow).
type UserMapping struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	ExternalSubject string    `gorm:"uniqueIndex;size:255;not null" json:"external_subject"`
	LinkedUserID    string    `gorm:"size:36;not null" json:"linked_user_id"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for UserMapping.
func (UserMapping) TableName() string {
	return "user_mappings"
}
