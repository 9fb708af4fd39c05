package dto

import "github.com/google/uuid"

// CreateRequestInput carries one receiver submission. A single-item request
// is normalized to arrays of length 1 before dispatch; bulk submissions keep
// their input order.
type CreateRequestInput struct {
	PrescriptionImage string
	DonationIDs       []uuid.UUID
	MedicineNames     []string
	DonorIDs          []uuid.UUID
	Strengths         []string
}

type DecideRequestInput struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}
