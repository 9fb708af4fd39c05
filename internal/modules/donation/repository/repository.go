package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"medshare.app/backend/internal/entity"
)

type DonationRepository interface {
	Create(ctx context.Context, donation *entity.Donation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Donation, error)
	// ListByDonor returns every lot the donor ever submitted, newest first,
	// regardless of approval state. Excluding already-approved ones is the
	// visibility filter's job, applied downstream.
	ListByDonor(ctx context.Context, donorID uuid.UUID) ([]entity.Donation, error)
	ListAvailable(ctx context.Context, asOf time.Time) ([]entity.Donation, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Donation, error)
	MarkExpired(ctx context.Context, asOf time.Time) (int64, error)
	DeleteByDonor(ctx context.Context, donorID uuid.UUID) error
}

type donationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) Create(ctx context.Context, donation *entity.Donation) error {
	return r.db.WithContext(ctx).Create(donation).Error
}

func (r *donationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Donation, error) {
	var donation entity.Donation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&donation).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *donationRepository) ListByDonor(ctx context.Context, donorID uuid.UUID) ([]entity.Donation, error) {
	var donations []entity.Donation
	err := r.db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Order("created_at desc").
		Find(&donations).Error
	return donations, err
}

func (r *donationRepository) ListAvailable(ctx context.Context, asOf time.Time) ([]entity.Donation, error) {
	var donations []entity.Donation
	err := r.db.WithContext(ctx).
		Where("expiry_date >= ?", asOf).
		Order("created_at desc").
		Find(&donations).Error
	return donations, err
}

func (r *donationRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Donation, error) {
	if len(ids) == 0 {
		return []entity.Donation{}, nil
	}
	var donations []entity.Donation
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&donations).Error
	return donations, err
}

func (r *donationRepository) MarkExpired(ctx context.Context, asOf time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Donation{}).
		Where("status = ? AND expiry_date < ?", entity.DonationStatusActive, asOf).
		Update("status", entity.DonationStatusExpired)
	return res.RowsAffected, res.Error
}

func (r *donationRepository) DeleteByDonor(ctx context.Context, donorID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Delete(&entity.Donation{}).Error
}
