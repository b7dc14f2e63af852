package model

import "time"

// User is the sole persisted entity: one record per registered email.
// SessionID is set iff the user has an active session; ResetToken is set iff
// a password reset is pending and unconsumed.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Email          string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	HashedPassword string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	SessionID      string    `json:"-" gorm:"index;size:64"`
	ResetToken     string    `json:"-" gorm:"index;size:64"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
