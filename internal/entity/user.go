package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Canonical role representation, used uniformly across auth, listings and
// the account-deletion cascade.
const (
	RoleDonor    = "donor"
	RoleReceiver = "receiver"
)

type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName      string    `gorm:"size:100;not null" json:"full_name"`
	Email         string    `gorm:"size:100;not null;index" json:"email"`
	ContactNumber string    `gorm:"size:20;not null" json:"contact_number"`
	Address       string    `gorm:"size:200;not null" json:"address"`
	Role          string    `gorm:"size:20;not null" json:"role"`
	PasswordHash  string    `gorm:"size:255;not null" json:"-"`

	ResetPasswordToken   *string    `gorm:"size:64;index" json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
