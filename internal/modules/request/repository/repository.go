package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"medshare.app/backend/internal/entity"
)

type RequestRepository interface {
	Create(ctx context.Context, request *entity.Request) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Request, error)
	ListByDonor(ctx context.Context, donorID uuid.UUID) ([]entity.Request, error)
	// ListByReceiver orders actionable items first: pending, then approved,
	// then rejected, ties broken by most-recent first.
	ListByReceiver(ctx context.Context, receiverID uuid.UUID) ([]entity.Request, error)
	// ApprovedDonationIDs returns the donation ids of every request currently
	// in approved status. Feeds the visibility filter.
	ApprovedDonationIDs(ctx context.Context) ([]uuid.UUID, error)
	Update(ctx context.Context, request *entity.Request) error
	CountUnviewedByDonor(ctx context.Context, donorID uuid.UUID) (int64, error)
	MarkViewedByDonor(ctx context.Context, donorID uuid.UUID) error
	DeleteByDonor(ctx context.Context, donorID uuid.UUID) error
	DeleteByReceiver(ctx context.Context, receiverID uuid.UUID) error
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, request *entity.Request) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *requestRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Request, error) {
	// Find with slice avoids "record not found" log noise from GORM's First()
	var found []entity.Request
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&found).Error
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &found[0], nil
}

func (r *requestRepository) ListByDonor(ctx context.Context, donorID uuid.UUID) ([]entity.Request, error) {
	var requests []entity.Request
	err := r.db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Order("created_at desc").
		Preload("Receiver").
		Find(&requests).Error
	return requests, err
}

func (r *requestRepository) ListByReceiver(ctx context.Context, receiverID uuid.UUID) ([]entity.Request, error) {
	var requests []entity.Request
	err := r.db.WithContext(ctx).
		Where("receiver_id = ?", receiverID).
		Order("CASE status WHEN 'pending' THEN 1 WHEN 'approved' THEN 2 WHEN 'rejected' THEN 3 ELSE 4 END, created_at desc").
		Preload("Donor").
		Find(&requests).Error
	return requests, err
}

func (r *requestRepository) ApprovedDonationIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&entity.Request{}).
		Where("status = ?", entity.RequestStatusApproved).
		Pluck("donation_id", &ids).Error
	return ids, err
}

func (r *requestRepository) Update(ctx context.Context, request *entity.Request) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *requestRepository) CountUnviewedByDonor(ctx context.Context, donorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Request{}).
		Where("donor_id = ? AND viewed_by_donor = ?", donorID, false).
		Count(&count).Error
	return count, err
}

func (r *requestRepository) MarkViewedByDonor(ctx context.Context, donorID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.Request{}).
		Where("donor_id = ? AND viewed_by_donor = ?", donorID, false).
		Update("viewed_by_donor", true).Error
}

func (r *requestRepository) DeleteByDonor(ctx context.Context, donorID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Delete(&entity.Request{}).Error
}

func (r *requestRepository) DeleteByReceiver(ctx context.Context, receiverID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("receiver_id = ?", receiverID).
		Delete(&entity.Request{}).Error
}
