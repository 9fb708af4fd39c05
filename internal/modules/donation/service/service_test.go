package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"medshare.app/backend/internal/entity"
	donationDto "medshare.app/backend/internal/modules/donation/dto"
	"medshare.app/backend/pkg/apperror"
)

type fakeDonationRepo struct {
	donations []entity.Donation
}

func (f *fakeDonationRepo) Create(ctx context.Context, donation *entity.Donation) error {
	if donation.ID == uuid.Nil {
		donation.ID = uuid.New()
	}
	f.donations = append(f.donations, *donation)
	return nil
}

func (f *fakeDonationRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Donation, error) {
	for i := range f.donations {
		if f.donations[i].ID == id {
			copied := f.donations[i]
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDonationRepo) ListByDonor(ctx context.Context, donorID uuid.UUID) ([]entity.Donation, error) {
	var out []entity.Donation
	for _, d := range f.donations {
		if d.DonorID == donorID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDonationRepo) ListAvailable(ctx context.Context, asOf time.Time) ([]entity.Donation, error) {
	var out []entity.Donation
	for _, d := range f.donations {
		if d.ExpiryDate != nil && !d.ExpiryDate.Before(asOf) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDonationRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Donation, error) {
	var out []entity.Donation
	for _, d := range f.donations {
		for _, id := range ids {
			if d.ID == id {
				out = append(out, d)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeDonationRepo) MarkExpired(ctx context.Context, asOf time.Time) (int64, error) {
	var flipped int64
	for i := range f.donations {
		if f.donations[i].Status == entity.DonationStatusActive &&
			f.donations[i].ExpiryDate != nil && f.donations[i].ExpiryDate.Before(asOf) {
			f.donations[i].Status = entity.DonationStatusExpired
			flipped++
		}
	}
	return flipped, nil
}

func (f *fakeDonationRepo) DeleteByDonor(ctx context.Context, donorID uuid.UUID) error {
	kept := f.donations[:0]
	for _, d := range f.donations {
		if d.DonorID != donorID {
			kept = append(kept, d)
		}
	}
	f.donations = kept
	return nil
}

// approvedIDsRepo stubs only the visibility-filter query; everything else is
// unused by the donation service.
type approvedIDsRepo struct {
	approved []uuid.UUID
}

func (f *approvedIDsRepo) Create(ctx context.Context, request *entity.Request) error { return nil }
func (f *approvedIDsRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Request, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *approvedIDsRepo) ListByDonor(ctx context.Context, donorID uuid.UUID) ([]entity.Request, error) {
	return nil, nil
}
func (f *approvedIDsRepo) ListByReceiver(ctx context.Context, receiverID uuid.UUID) ([]entity.Request, error) {
	return nil, nil
}
func (f *approvedIDsRepo) ApprovedDonationIDs(ctx context.Context) ([]uuid.UUID, error) {
	return f.approved, nil
}
func (f *approvedIDsRepo) Update(ctx context.Context, request *entity.Request) error { return nil }
func (f *approvedIDsRepo) CountUnviewedByDonor(ctx context.Context, donorID uuid.UUID) (int64, error) {
	return 0, nil
}
func (f *approvedIDsRepo) MarkViewedByDonor(ctx context.Context, donorID uuid.UUID) error {
	return nil
}
func (f *approvedIDsRepo) DeleteByDonor(ctx context.Context, donorID uuid.UUID) error    { return nil }
func (f *approvedIDsRepo) DeleteByReceiver(ctx context.Context, receiverID uuid.UUID) error {
	return nil
}

type fakeImageStorage struct {
	uploads int
}

func (f *fakeImageStorage) UploadImage(ctx context.Context, file io.Reader, folder string, fileName string) (string, error) {
	f.uploads++
	return fmt.Sprintf("https://cdn.example/%s/%d.webp", folder, f.uploads), nil
}

func (f *fakeImageStorage) DeleteImage(ctx context.Context, fileURL string) error { return nil }

func submitInput(expiry string) donationDto.SubmitDonationInput {
	return donationDto.SubmitDonationInput{
		MedicineName:      "Paracetamol",
		Quantity:          "2 strips",
		MedicineForm:      "tablet",
		Strength:          "500mg",
		ManufacturingDate: "01-2025",
		ExpiryDate:        expiry,
		DonorName:         "Bilal Ahmed",
		DonorPhoneNumber:  "03001234567",
		DonorAddress:      "House 12, Street 4, Model Town",
	}
}

func TestSubmitRejectsUnreadableExpiry(t *testing.T) {
	svc := NewDonationService(&fakeDonationRepo{}, &approvedIDsRepo{}, &fakeImageStorage{}, nil)

	_, err := svc.Submit(context.Background(), uuid.New(), submitInput("soonish"), nil)
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSubmitRejectsNearExpiry(t *testing.T) {
	svc := NewDonationService(&fakeDonationRepo{}, &approvedIDsRepo{}, &fakeImageStorage{}, nil)

	// 10 days out is inside the two-week cutoff
	nearExpiry := time.Now().Add(10 * 24 * time.Hour).Format("02-01-2006")

	_, err := svc.Submit(context.Background(), uuid.New(), submitInput(nearExpiry), nil)
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSubmitStoresActiveDonation(t *testing.T) {
	repo := &fakeDonationRepo{}
	svc := NewDonationService(repo, &approvedIDsRepo{}, &fakeImageStorage{}, nil)

	donorID := uuid.New()
	farExpiry := time.Now().Add(90 * 24 * time.Hour).Format("02-01-2006")

	created, err := svc.Submit(context.Background(), donorID, submitInput(farExpiry), nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if created.Status != entity.DonationStatusActive {
		t.Fatalf("status = %q, want active", created.Status)
	}
	if created.DonorID != donorID {
		t.Fatalf("donor = %s, want %s", created.DonorID, donorID)
	}
	if created.ManufacturingDate == nil {
		t.Fatal("manufacturing date was not parsed")
	}
	if len(repo.donations) != 1 {
		t.Fatalf("%d donations persisted, want 1", len(repo.donations))
	}
}

func TestListAvailableHidesApprovedDonations(t *testing.T) {
	repo := &fakeDonationRepo{}
	requests := &approvedIDsRepo{}
	svc := NewDonationService(repo, requests, &fakeImageStorage{}, nil)

	future := time.Now().Add(60 * 24 * time.Hour)
	open := entity.Donation{ID: uuid.New(), DonorID: uuid.New(), ExpiryDate: &future, Status: entity.DonationStatusActive}
	claimed := entity.Donation{ID: uuid.New(), DonorID: uuid.New(), ExpiryDate: &future, Status: entity.DonationStatusActive}
	repo.donations = []entity.Donation{open, claimed}

	requests.approved = []uuid.UUID{claimed.ID}

	available, err := svc.ListAvailable(context.Background(), time.Now(), "")
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	if len(available) != 1 {
		t.Fatalf("got %d donations, want 1", len(available))
	}
	if available[0].ID != open.ID {
		t.Fatalf("wrong donation visible: %s", available[0].ID)
	}
}

func TestListAvailableHidesExpiredLots(t *testing.T) {
	repo := &fakeDonationRepo{}
	svc := NewDonationService(repo, &approvedIDsRepo{}, &fakeImageStorage{}, nil)

	past := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(60 * 24 * time.Hour)
	repo.donations = []entity.Donation{
		{ID: uuid.New(), ExpiryDate: &past, Status: entity.DonationStatusActive},
		{ID: uuid.New(), ExpiryDate: &future, Status: entity.DonationStatusActive},
	}

	available, err := svc.ListAvailable(context.Background(), time.Now(), "")
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	if len(available) != 1 {
		t.Fatalf("got %d donations, want 1", len(available))
	}
}

func TestListByDonorHidesDonatedLots(t *testing.T) {
	repo := &fakeDonationRepo{}
	requests := &approvedIDsRepo{}
	svc := NewDonationService(repo, requests, &fakeImageStorage{}, nil)

	donorID := uuid.New()
	future := time.Now().Add(60 * 24 * time.Hour)
	kept := entity.Donation{ID: uuid.New(), DonorID: donorID, ExpiryDate: &future}
	givenAway := entity.Donation{ID: uuid.New(), DonorID: donorID, ExpiryDate: &future}
	repo.donations = []entity.Donation{kept, givenAway}

	requests.approved = []uuid.UUID{givenAway.ID}

	mine, err := svc.ListByDonor(context.Background(), donorID)
	if err != nil {
		t.Fatalf("ListByDonor: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != kept.ID {
		t.Fatalf("donor view = %v, want only the unclaimed lot", mine)
	}
}

func TestSweepExpiredFlipsStatus(t *testing.T) {
	repo := &fakeDonationRepo{}
	svc := NewDonationService(repo, &approvedIDsRepo{}, &fakeImageStorage{}, nil)

	past := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(60 * 24 * time.Hour)
	repo.donations = []entity.Donation{
		{ID: uuid.New(), ExpiryDate: &past, Status: entity.DonationStatusActive},
		{ID: uuid.New(), ExpiryDate: &future, Status: entity.DonationStatusActive},
	}

	flipped, err := svc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("SweepExpired: %v", err)
	}
	if flipped != 1 {
		t.Fatalf("flipped = %d, want 1", flipped)
	}
	if repo.donations[0].Status != entity.DonationStatusExpired {
		t.Fatalf("expired lot still %q", repo.donations[0].Status)
	}
}
