package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"medshare.app/backend/internal/entity"
)

var dateSeparators = regexp.MustCompile(`[.\s/-]+`)

// parseFlexibleDate normalizes the date formats donors actually type in:
// DD-MM-YYYY, YYYY-MM-DD, MM-YYYY and YYYY-MM, with '.', '/', '-' or
// whitespace as separators. The first numeric group of length 4 is treated as
// the year. An unparsable string yields nil, never an error.
func parseFlexibleDate(dateStr string) *time.Time {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return nil
	}

	normalized := dateSeparators.ReplaceAllString(dateStr, "-")
	rawParts := strings.Split(normalized, "-")

	parts := make([]string, 0, len(rawParts))
	nums := make([]int, 0, len(rawParts))
	for _, p := range rawParts {
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil
		}
		parts = append(parts, p)
		nums = append(nums, n)
	}

	var year, month, day int

	switch len(parts) {
	case 3:
		if len(parts[0]) == 4 {
			// YYYY-MM-DD
			year, month, day = nums[0], nums[1], nums[2]
		} else {
			// DD-MM-YYYY
			day, month, year = nums[0], nums[1], nums[2]
		}
	case 2:
		day = 1
		if len(parts[0]) == 4 {
			// YYYY-MM
			year, month = nums[0], nums[1]
		} else {
			// MM-YYYY
			month, year = nums[0], nums[1]
		}
	default:
		return nil
	}

	if year < 1000 || month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &t
}

// excludeApproved derives the "available" view: it removes any donation whose
// id appears among currently approved requests and preserves everything else,
// keeping the input order. Pure function, no persisted "claimed" flag to drift
// out of sync.
func excludeApproved(donations []entity.Donation, approvedIDs []uuid.UUID) []entity.Donation {
	if len(approvedIDs) == 0 {
		return donations
	}

	approved := make(map[uuid.UUID]struct{}, len(approvedIDs))
	for _, id := range approvedIDs {
		approved[id] = struct{}{}
	}

	filtered := make([]entity.Donation, 0, len(donations))
	for _, d := range donations {
		if _, ok := approved[d.ID]; ok {
			continue
		}
		filtered = append(filtered, d)
	}
	return filtered
}
