package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DonationStatusActive  = "active"
	DonationStatusExpired = "expired"
)

// Donation is a medicine lot offered by a donor. Donor contact fields are
// snapshotted onto the row so the listing stays self-describing.
type Donation struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	DonorID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"donor_id"`
	MedicineName      string     `gorm:"size:120;not null" json:"medicine_name"`
	Quantity          string     `gorm:"size:50;not null" json:"quantity"`
	MedicineForm      string     `gorm:"size:50;not null" json:"medicine_form"`
	Strength          string     `gorm:"size:50;not null" json:"strength"`
	ManufacturingDate *time.Time `json:"manufacturing_date"`
	ExpiryDate        *time.Time `gorm:"index" json:"expiry_date"`
	DonorName         string     `gorm:"size:100;not null" json:"donor_name"`
	DonorPhoneNumber  string     `gorm:"size:20;not null" json:"donor_phone_number"`
	DonorAddress      string     `gorm:"size:200;not null" json:"donor_address"`
	Images            []string   `gorm:"serializer:json" json:"images"`
	Status            string     `gorm:"size:20;not null;default:active" json:"status"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
