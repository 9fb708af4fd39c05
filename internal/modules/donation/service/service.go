package service

import (
	"context"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"medshare.app/backend/internal/entity"
	donationDto "medshare.app/backend/internal/modules/donation/dto"
	donationRepo "medshare.app/backend/internal/modules/donation/repository"
	requestRepo "medshare.app/backend/internal/modules/request/repository"
	search "medshare.app/backend/internal/modules/search/service"
	"medshare.app/backend/pkg/apperror"
	"medshare.app/backend/pkg/storage"
)

// MinExpiryLead is how far in the future a lot must still be usable at
// submission time.
const MinExpiryLead = 14 * 24 * time.Hour

// MaxDonationImages caps photo uploads per lot.
const MaxDonationImages = 4

type DonationService interface {
	Submit(ctx context.Context, donorID uuid.UUID, in donationDto.SubmitDonationInput, images []*multipart.FileHeader) (*entity.Donation, error)
	// ListByDonor returns the donor's own lots with already-fulfilled ones
	// filtered out, so a donor never sees a donated lot as still biddable.
	ListByDonor(ctx context.Context, donorID uuid.UUID) ([]entity.Donation, error)
	// ListAvailable returns every unexpired, unfulfilled lot for the receiver
	// browse view. A non-empty query goes through the search index first.
	ListAvailable(ctx context.Context, asOf time.Time, query string) ([]entity.Donation, error)
	// SweepExpired flips lots past their expiry date to expired status. The
	// expiry-date comparison in ListAvailable is the primary enforcement and
	// does not depend on this sweep running.
	SweepExpired(ctx context.Context) (int64, error)
}

type donationService struct {
	repo         donationRepo.DonationRepository
	requestRepo  requestRepo.RequestRepository
	imageStorage storage.ImageStorage
	search       search.SearchService
}

func NewDonationService(repo donationRepo.DonationRepository, requestRepo requestRepo.RequestRepository, imageStorage storage.ImageStorage, search search.SearchService) DonationService {
	return &donationService{
		repo:         repo,
		requestRepo:  requestRepo,
		imageStorage: imageStorage,
		search:       search,
	}
}

func (s *donationService) Submit(ctx context.Context, donorID uuid.UUID, in donationDto.SubmitDonationInput, images []*multipart.FileHeader) (*entity.Donation, error) {
	manufacturingDate := parseFlexibleDate(in.ManufacturingDate)
	expiryDate := parseFlexibleDate(in.ExpiryDate)

	if expiryDate == nil {
		return nil, apperror.New(http.StatusBadRequest, "Expiry date is not a recognizable date.", apperror.ErrInvalidInput)
	}

	twoWeeksLater := time.Now().Add(MinExpiryLead)
	if !expiryDate.After(twoWeeksLater) {
		return nil, apperror.New(http.StatusBadRequest, "We do not accept medicines expiring within 2 weeks.", apperror.ErrInvalidInput)
	}

	if len(images) > MaxDonationImages {
		images = images[:MaxDonationImages]
	}

	imageURLs := make([]string, 0, len(images))
	for _, fh := range images {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		url, err := s.imageStorage.UploadImage(ctx, f, "donations", fh.Filename)
		f.Close()
		if err != nil {
			return nil, err
		}
		imageURLs = append(imageURLs, url)
	}

	donation := &entity.Donation{
		DonorID:           donorID,
		MedicineName:      in.MedicineName,
		Quantity:          in.Quantity,
		MedicineForm:      in.MedicineForm,
		Strength:          in.Strength,
		ManufacturingDate: manufacturingDate,
		ExpiryDate:        expiryDate,
		DonorName:         in.DonorName,
		DonorPhoneNumber:  in.DonorPhoneNumber,
		DonorAddress:      in.DonorAddress,
		Images:            imageURLs,
		Status:            entity.DonationStatusActive,
	}

	if err := s.repo.Create(ctx, donation); err != nil {
		return nil, err
	}

	// Index for browse search, best-effort
	if s.search != nil {
		if err := s.search.IndexDonation(donation); err != nil {
			log.Printf("Failed to index donation %s: %v", donation.ID, err)
		}
	}

	return donation, nil
}

func (s *donationService) ListByDonor(ctx context.Context, donorID uuid.UUID) ([]entity.Donation, error) {
	donations, err := s.repo.ListByDonor(ctx, donorID)
	if err != nil {
		return nil, err
	}

	approvedIDs, err := s.requestRepo.ApprovedDonationIDs(ctx)
	if err != nil {
		return nil, err
	}

	return excludeApproved(donations, approvedIDs), nil
}

func (s *donationService) ListAvailable(ctx context.Context, asOf time.Time, query string) ([]entity.Donation, error) {
	var donations []entity.Donation
	var err error

	if query != "" && s.search != nil {
		donations, err = s.searchAvailable(ctx, asOf, query)
	} else {
		donations, err = s.repo.ListAvailable(ctx, asOf)
	}
	if err != nil {
		return nil, err
	}

	approvedIDs, err := s.requestRepo.ApprovedDonationIDs(ctx)
	if err != nil {
		return nil, err
	}

	return excludeApproved(donations, approvedIDs), nil
}

func (s *donationService) searchAvailable(ctx context.Context, asOf time.Time, query string) ([]entity.Donation, error) {
	ids, err := s.search.SearchDonations(query, 50)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []entity.Donation{}, nil
	}

	donations, err := s.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Reorder rows to match search relevance and drop expired lots
	byID := make(map[uuid.UUID]entity.Donation, len(donations))
	for _, d := range donations {
		byID[d.ID] = d
	}

	ordered := make([]entity.Donation, 0, len(ids))
	for _, id := range ids {
		d, ok := byID[id]
		if !ok {
			continue
		}
		if d.ExpiryDate == nil || d.ExpiryDate.Before(asOf) {
			continue
		}
		ordered = append(ordered, d)
	}
	return ordered, nil
}

func (s *donationService) SweepExpired(ctx context.Context) (int64, error) {
	return s.repo.MarkExpired(ctx, time.Now())
}
