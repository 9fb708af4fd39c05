package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// DefaultRejectReason is stored when a donor rejects without giving one.
const DefaultRejectReason = "No reason provided"

// Request is a receiver's claim against one Donation. MedicineName and
// Strength are copied in at creation time, not referenced live, so the
// request stays self-describing after the donation leaves the active set.
type Request struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PrescriptionImage string    `gorm:"type:text;not null" json:"prescription_image"`
	DonationID        uuid.UUID `gorm:"type:uuid;not null;index" json:"donation_id"`
	MedicineName      string    `gorm:"size:120;not null" json:"medicine_name"`
	Strength          string    `gorm:"size:50" json:"strength"`
	DonorID           uuid.UUID `gorm:"type:uuid;not null;index" json:"donor_id"`
	ReceiverID        uuid.UUID `gorm:"type:uuid;not null;index" json:"receiver_id"`
	Status            string    `gorm:"size:20;not null;default:pending;index" json:"status"`
	RejectReason      string    `gorm:"type:text" json:"reject_reason,omitempty"`
	ViewedByDonor     bool      `gorm:"default:false" json:"viewed_by_donor"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Counter-party display fields, resolved on listing
	Receiver *User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
	Donor    *User `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
}

func (r *Request) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Terminal reports whether the request has received its one authoritative
// donor decision.
func (r *Request) Terminal() bool {
	return r.Status == RequestStatusApproved || r.Status == RequestStatusRejected
}
