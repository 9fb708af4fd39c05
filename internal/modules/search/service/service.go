package service

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"medshare.app/backend/internal/entity"
)

const donationIndex = "donations"

// SearchService keeps the Meilisearch donations index in step with Postgres.
// Indexing is best-effort: listing stays correct without it because the
// browse view always re-reads Postgres and applies the visibility filter.
type SearchService interface {
	IndexDonation(donation *entity.Donation) error
	DeleteDonation(id string) error
	// SearchDonations returns the ids of indexed donations matching the query.
	SearchDonations(query string, limit int) ([]uuid.UUID, error)
}

type searchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *searchService) initIndexes() {
	sortableAttrs := []string{"created_at", "expiry_date"}
	_, err := s.client.Index(donationIndex).UpdateSortableAttributes(&sortableAttrs)
	if err != nil {
		log.Printf("Failed to update donations sortable attributes: %v", err)
	}

	searchableAttrs := []string{"medicine_name", "medicine_form", "strength"}
	_, err = s.client.Index(donationIndex).UpdateSearchableAttributes(&searchableAttrs)
	if err != nil {
		log.Printf("Failed to update donations searchable attributes: %v", err)
	}
}

type meiliDonationDoc struct {
	ID           string `json:"id"`
	MedicineName string `json:"medicine_name"`
	MedicineForm string `json:"medicine_form"`
	Strength     string `json:"strength"`
	Quantity     string `json:"quantity"`
	ExpiryDate   int64  `json:"expiry_date"`
	CreatedAt    int64  `json:"created_at"`
}

// cleanForIndex strips any markup from donor-entered free text before it is
// indexed.
func (s *searchService) cleanForIndex(text string) string {
	sanitized := s.sanitizer.Sanitize(text)
	return strings.Join(strings.Fields(sanitized), " ")
}

func (s *searchService) IndexDonation(donation *entity.Donation) error {
	doc := meiliDonationDoc{
		ID:           donation.ID.String(),
		MedicineName: s.cleanForIndex(donation.MedicineName),
		MedicineForm: s.cleanForIndex(donation.MedicineForm),
		Strength:     s.cleanForIndex(donation.Strength),
		Quantity:     s.cleanForIndex(donation.Quantity),
		CreatedAt:    donation.CreatedAt.Unix(),
	}
	if donation.ExpiryDate != nil {
		doc.ExpiryDate = donation.ExpiryDate.Unix()
	}

	task, err := s.client.Index(donationIndex).AddDocuments([]meiliDonationDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed donation %s, task id: %d", donation.ID, task.TaskUID)
	return nil
}

func (s *searchService) DeleteDonation(id string) error {
	_, err := s.client.Index(donationIndex).DeleteDocument(id)
	return err
}

func (s *searchService) SearchDonations(query string, limit int) ([]uuid.UUID, error) {
	if limit <= 0 {
		limit = 50
	}

	resp, err := s.client.Index(donationIndex).Search(query, &meilisearch.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("donation search failed: %w", err)
	}

	// Round-trip the hits through JSON to decode into the typed document
	raw, err := json.Marshal(resp.Hits)
	if err != nil {
		return nil, err
	}
	var docs []meiliDonationDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(docs))
	for _, doc := range docs {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func strPtr(s string) *string {
	return &s
}
