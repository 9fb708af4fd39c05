package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationTypeMedicineRequest = "medicine_request"
	NotificationTypeRequestUpdate   = "request_update"
)

// Notification is a one-way, append-only message to a user about a request
// event. Only the bulk mark-as-read operation ever mutates it.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"` // recipient
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"size:50;not null" json:"type"` // 'medicine_request' or 'request_update'
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	RequestID uuid.UUID `gorm:"type:uuid;not null" json:"request_id"`
	Status    string    `gorm:"size:20" json:"status,omitempty"` // set for request_update
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
