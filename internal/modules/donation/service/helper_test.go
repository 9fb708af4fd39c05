package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"medshare.app/backend/internal/entity"
)

func TestParseFlexibleDate(t *testing.T) {
	date := func(y int, m time.Month, d int) *time.Time {
		v := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &v
	}

	cases := []struct {
		name  string
		input string
		want  *time.Time
	}{
		{"day first", "15-03-2025", date(2025, time.March, 15)},
		{"year first", "2025-03-15", date(2025, time.March, 15)},
		{"month year", "03-2025", date(2025, time.March, 1)},
		{"year month", "2025/03", date(2025, time.March, 1)},
		{"dots", "15.03.2025", date(2025, time.March, 15)},
		{"spaces", "15 03 2025", date(2025, time.March, 15)},
		{"mixed separators", "2025/03-15", date(2025, time.March, 15)},
		{"padding", "  15-03-2025  ", date(2025, time.March, 15)},
		{"empty", "", nil},
		{"words", "sometime next year", nil},
		{"single number", "2025", nil},
		{"four parts", "01-02-03-2025", nil},
		{"zero month", "15-00-2025", nil},
		{"month thirteen", "15-13-2025", nil},
		{"zero day", "00-03-2025", nil},
		{"day thirty two", "32-03-2025", nil},
		{"tiny year", "15-03-999", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseFlexibleDate(tc.input)
			if tc.want == nil {
				if got != nil {
					t.Fatalf("parseFlexibleDate(%q) = %v, want nil", tc.input, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("parseFlexibleDate(%q) = nil, want %v", tc.input, tc.want)
			}
			if !got.Equal(*tc.want) {
				t.Fatalf("parseFlexibleDate(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestExcludeApproved(t *testing.T) {
	a := entity.Donation{ID: uuid.New(), MedicineName: "Paracetamol"}
	b := entity.Donation{ID: uuid.New(), MedicineName: "Amoxicillin"}
	c := entity.Donation{ID: uuid.New(), MedicineName: "Ibuprofen"}
	all := []entity.Donation{a, b, c}

	t.Run("removes only approved ids", func(t *testing.T) {
		got := excludeApproved(all, []uuid.UUID{b.ID})
		if len(got) != 2 {
			t.Fatalf("got %d donations, want 2", len(got))
		}
		if got[0].ID != a.ID || got[1].ID != c.ID {
			t.Fatalf("filtering broke input order: %v", got)
		}
	})

	t.Run("no approved ids keeps everything", func(t *testing.T) {
		got := excludeApproved(all, nil)
		if len(got) != 3 {
			t.Fatalf("got %d donations, want 3", len(got))
		}
	})

	t.Run("unrelated ids remove nothing", func(t *testing.T) {
		got := excludeApproved(all, []uuid.UUID{uuid.New(), uuid.New()})
		if len(got) != 3 {
			t.Fatalf("got %d donations, want 3", len(got))
		}
	})
}
