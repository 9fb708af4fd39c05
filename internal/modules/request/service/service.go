package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"medshare.app/backend/internal/entity"
	notifService "medshare.app/backend/internal/modules/notification/service"
	requestDto "medshare.app/backend/internal/modules/request/dto"
	requestRepo "medshare.app/backend/internal/modules/request/repository"
	"medshare.app/backend/pkg/apperror"
)

type RequestService interface {
	// Create persists one request per donation in strict input order,
	// notifying each donor as its request is created. A failure at any index
	// aborts the rest of the batch; earlier items are not retracted.
	Create(ctx context.Context, receiverID uuid.UUID, in requestDto.CreateRequestInput) ([]entity.Request, error)
	ListForDonor(ctx context.Context, donorID uuid.UUID) ([]entity.Request, error)
	ListForReceiver(ctx context.Context, receiverID uuid.UUID) ([]entity.Request, error)
	// Decide applies the one authoritative donor decision to a pending
	// request and notifies the receiver of the outcome.
	Decide(ctx context.Context, donorID, requestID uuid.UUID, decision, reason string) (*entity.Request, error)
	CountNewRequests(ctx context.Context, donorID uuid.UUID) (int64, error)
	MarkRequestsViewed(ctx context.Context, donorID uuid.UUID) error
}

type requestService struct {
	repo          requestRepo.RequestRepository
	notifications notifService.NotificationService
}

func NewRequestService(repo requestRepo.RequestRepository, notifications notifService.NotificationService) RequestService {
	return &requestService{
		repo:          repo,
		notifications: notifications,
	}
}

func (s *requestService) Create(ctx context.Context, receiverID uuid.UUID, in requestDto.CreateRequestInput) ([]entity.Request, error) {
	if in.PrescriptionImage == "" {
		return nil, apperror.New(http.StatusBadRequest, "Prescription image required.", apperror.ErrInvalidInput)
	}

	n := len(in.DonationIDs)
	if n == 0 || len(in.MedicineNames) != n || len(in.DonorIDs) != n || len(in.Strengths) != n {
		return nil, apperror.New(http.StatusBadRequest, "Invalid bulk request data.", apperror.ErrInvalidInput)
	}

	created := make([]entity.Request, 0, n)

	// No locking against concurrent submissions for the same donation:
	// over-subscription is expected and resolved by the donor's decision.
	for i := 0; i < n; i++ {
		request := &entity.Request{
			PrescriptionImage: in.PrescriptionImage,
			DonationID:        in.DonationIDs[i],
			MedicineName:      in.MedicineNames[i],
			Strength:          in.Strengths[i],
			DonorID:           in.DonorIDs[i],
			ReceiverID:        receiverID,
			Status:            entity.RequestStatusPending,
		}

		if err := s.repo.Create(ctx, request); err != nil {
			return nil, err
		}

		message := fmt.Sprintf("A receiver has requested your medicine %q.", in.MedicineNames[i])
		if in.Strengths[i] != "" {
			message = fmt.Sprintf("A receiver has requested your medicine %q (%s).", in.MedicineNames[i], in.Strengths[i])
		}

		err := s.notifications.Notify(ctx, &entity.Notification{
			UserID:    in.DonorIDs[i],
			Message:   message,
			Type:      entity.NotificationTypeMedicineRequest,
			RequestID: request.ID,
		})
		if err != nil {
			return nil, err
		}

		created = append(created, *request)
	}

	return created, nil
}

func (s *requestService) ListForDonor(ctx context.Context, donorID uuid.UUID) ([]entity.Request, error) {
	requests, err := s.repo.ListByDonor(ctx, donorID)
	if err != nil {
		return nil, err
	}

	// A request is only meaningful while both parties exist; drop rows whose
	// receiver account has been deleted.
	valid := make([]entity.Request, 0, len(requests))
	for _, req := range requests {
		if req.Receiver == nil {
			continue
		}
		req.Receiver = displayFields(req.Receiver)
		valid = append(valid, req)
	}
	return valid, nil
}

func (s *requestService) ListForReceiver(ctx context.Context, receiverID uuid.UUID) ([]entity.Request, error) {
	requests, err := s.repo.ListByReceiver(ctx, receiverID)
	if err != nil {
		return nil, err
	}

	for i := range requests {
		if requests[i].Donor != nil {
			requests[i].Donor = displayFields(requests[i].Donor)
		}
	}
	return requests, nil
}

func (s *requestService) Decide(ctx context.Context, donorID, requestID uuid.UUID, decision, reason string) (*entity.Request, error) {
	if decision != entity.RequestStatusApproved && decision != entity.RequestStatusRejected {
		return nil, apperror.New(http.StatusBadRequest, "Invalid status.", apperror.ErrInvalidInput)
	}

	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound, "Request not found.", apperror.ErrNotFound)
		}
		return nil, err
	}

	// Only the donation's owner decides
	if request.DonorID != donorID {
		return nil, apperror.New(http.StatusForbidden, "Only the owning donor can decide this request.", apperror.ErrForbidden)
	}

	// Exactly one decision per request; re-deciding fails loudly so a second
	// notification is never emitted.
	if request.Terminal() {
		return nil, apperror.New(http.StatusBadRequest, "Request has already been decided.", apperror.ErrInvalidInput)
	}

	request.Status = decision
	if decision == entity.RequestStatusRejected {
		if reason == "" {
			reason = entity.DefaultRejectReason
		}
		request.RejectReason = reason
	}

	if err := s.repo.Update(ctx, request); err != nil {
		return nil, err
	}

	// Best-effort notification: the durable status change is never rolled
	// back if this fails.
	message := fmt.Sprintf("Your request for %q has been approved!", request.MedicineName)
	if decision == entity.RequestStatusRejected {
		message = fmt.Sprintf("Your request for %q has been rejected.", request.MedicineName)
	}

	err = s.notifications.Notify(ctx, &entity.Notification{
		UserID:    request.ReceiverID,
		Message:   message,
		Type:      entity.NotificationTypeRequestUpdate,
		RequestID: request.ID,
		Status:    decision,
	})
	if err != nil {
		log.Printf("Failed to notify receiver %s about request %s: %v", request.ReceiverID, request.ID, err)
	}

	return request, nil
}

func (s *requestService) CountNewRequests(ctx context.Context, donorID uuid.UUID) (int64, error) {
	return s.repo.CountUnviewedByDonor(ctx, donorID)
}

func (s *requestService) MarkRequestsViewed(ctx context.Context, donorID uuid.UUID) error {
	return s.repo.MarkViewedByDonor(ctx, donorID)
}

// displayFields trims a counter-party record down to what the other side is
// allowed to see.
func displayFields(u *entity.User) *entity.User {
	return &entity.User{
		ID:            u.ID,
		FullName:      u.FullName,
		ContactNumber: u.ContactNumber,
		Address:       u.Address,
	}
}
