package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	requestDto "medshare.app/backend/internal/modules/request/dto"
	request "medshare.app/backend/internal/modules/request/service"
	"medshare.app/backend/pkg/response"
	"medshare.app/backend/pkg/storage"
	"medshare.app/backend/pkg/validator"
)

type RequestHandler struct {
	service      request.RequestService
	imageStorage storage.ImageStorage
}

func NewRequestHandler(service request.RequestService, imageStorage storage.ImageStorage) *RequestHandler {
	return &RequestHandler{service: service, imageStorage: imageStorage}
}

// Create accepts a multipart form: one prescription image plus parallel
// donationIds/medicineNames/donorIds/strengths fields. Singular fields are
// accepted too and treated as a batch of one.
func (h *RequestHandler) Create(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	fileHeader, err := c.FormFile("prescriptionImage")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prescription image required."})
		return
	}

	donationIDs, err := parseUUIDs(formValues(c, "donationIds", "donationId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid donation id."})
		return
	}
	donorIDs, err := parseUUIDs(formValues(c, "donorIds", "donorId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid donor id."})
		return
	}
	medicineNames := formValues(c, "medicineNames", "medicineName")
	strengths := formValues(c, "strengths", "strength")

	// A missing strengths field still lines up with the rest of the batch
	if len(strengths) == 0 {
		strengths = make([]string, len(donationIDs))
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	prescriptionURL, err := h.imageStorage.UploadImage(c.Request.Context(), f, "prescriptions", fileHeader.Filename)
	f.Close()
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), userID, requestDto.CreateRequestInput{
		PrescriptionImage: prescriptionURL,
		DonationIDs:       donationIDs,
		MedicineNames:     medicineNames,
		DonorIDs:          donorIDs,
		Strengths:         strengths,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Request submitted successfully!", "requests": created})
}

func (h *RequestHandler) ListForDonor(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	requests, err := h.service.ListForDonor(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

func (h *RequestHandler) ListForReceiver(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	requests, err := h.service.ListForReceiver(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

// Decide applies the donor's approve/reject decision to one request.
func (h *RequestHandler) Decide(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request id."})
		return
	}

	var req requestDto.DecideRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	updated, err := h.service.Decide(c.Request.Context(), userID, requestID, req.Status, req.Reason)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request updated successfully.", "request": updated})
}

func (h *RequestHandler) CountNew(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	count, err := h.service.CountNewRequests(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"newRequests": count})
}

func (h *RequestHandler) MarkViewed(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.MarkRequestsViewed(c.Request.Context(), userID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Requests marked as viewed."})
}

// formValues reads a repeated form field by its plural key, falling back to
// the singular key for batch-of-one clients.
func formValues(c *gin.Context, plural, singular string) []string {
	values := c.PostFormArray(plural)
	if len(values) == 0 {
		if v := c.PostForm(singular); v != "" {
			values = []string{v}
		}
	}
	return values
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
