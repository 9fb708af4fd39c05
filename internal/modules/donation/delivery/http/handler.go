package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	donationDto "medshare.app/backend/internal/modules/donation/dto"
	donation "medshare.app/backend/internal/modules/donation/service"
	"medshare.app/backend/pkg/response"
	"medshare.app/backend/pkg/validator"
)

type DonationHandler struct {
	service donation.DonationService
}

func NewDonationHandler(service donation.DonationService) *DonationHandler {
	return &DonationHandler{service: service}
}

// Submit accepts a multipart form: the medicine fields plus up to four photos
// under the "images" key.
func (h *DonationHandler) Submit(c *gin.Context) {
	var req donationDto.SubmitDonationInput
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data."})
		return
	}
	images := form.File["images"]

	created, err := h.service.Submit(c.Request.Context(), userID, req, images)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Donation submitted successfully!", "donation": created})
}

// ListMine returns the donor's own lots, minus lots already given away.
func (h *DonationHandler) ListMine(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	donations, err := h.service.ListByDonor(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, donations)
}

// ListAvailable is the receiver browse view. An optional ?q= term searches
// medicine names and donor details.
func (h *DonationHandler) ListAvailable(c *gin.Context) {
	if _, err := response.GetUserID(c); err != nil {
		response.ResponseError(c, err)
		return
	}

	donations, err := h.service.ListAvailable(c.Request.Context(), time.Now(), c.Query("q"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, donations)
}
