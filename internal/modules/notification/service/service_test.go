package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"medshare.app/backend/internal/entity"
)

type fakeNotificationRepo struct {
	stored []entity.Notification
}

func (f *fakeNotificationRepo) Create(notification *entity.Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	f.stored = append(f.stored, *notification)
	return nil
}

func (f *fakeNotificationRepo) GetByUserID(userID uuid.UUID, limit int) ([]entity.Notification, error) {
	var out []entity.Notification
	// newest first
	for i := len(f.stored) - 1; i >= 0 && len(out) < limit; i-- {
		if f.stored[i].UserID == userID {
			out = append(out, f.stored[i])
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(userID uuid.UUID) error {
	for i := range f.stored {
		if f.stored[i].UserID == userID {
			f.stored[i].IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) CountUnread(userID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range f.stored {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) DeleteByUser(userID uuid.UUID) error {
	kept := f.stored[:0]
	for _, n := range f.stored {
		if n.UserID != userID {
			kept = append(kept, n)
		}
	}
	f.stored = kept
	return nil
}

func TestNotifyPersistsWithoutRedis(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, nil)

	userID := uuid.New()
	err := svc.Notify(context.Background(), &entity.Notification{
		UserID:    userID,
		Message:   "A receiver has requested your medicine \"Paracetamol\" (500mg).",
		Type:      entity.NotificationTypeMedicineRequest,
		RequestID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	count, err := svc.UnreadCount(userID)
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("unread = %d, want 1", count)
	}
}

func TestMarkAllReadIsIdempotent(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, nil)

	userID := uuid.New()
	for i := 0; i < 3; i++ {
		svc.Notify(context.Background(), &entity.Notification{
			UserID:    userID,
			Message:   "msg",
			Type:      entity.NotificationTypeRequestUpdate,
			RequestID: uuid.New(),
		})
	}

	if err := svc.MarkAllRead(userID); err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if err := svc.MarkAllRead(userID); err != nil {
		t.Fatalf("second MarkAllRead: %v", err)
	}

	count, _ := svc.UnreadCount(userID)
	if count != 0 {
		t.Fatalf("unread = %d after mark-all-read, want 0", count)
	}
}

func TestListRecentClampsLimit(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, nil)

	userID := uuid.New()
	for i := 0; i < DefaultListLimit+5; i++ {
		svc.Notify(context.Background(), &entity.Notification{
			UserID:    userID,
			Message:   "msg",
			Type:      entity.NotificationTypeMedicineRequest,
			RequestID: uuid.New(),
		})
	}

	got, err := svc.ListRecent(userID, 1000)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != DefaultListLimit {
		t.Fatalf("got %d notifications, want %d", len(got), DefaultListLimit)
	}

	got, _ = svc.ListRecent(userID, 0)
	if len(got) != DefaultListLimit {
		t.Fatalf("zero limit returned %d, want default %d", len(got), DefaultListLimit)
	}
}
