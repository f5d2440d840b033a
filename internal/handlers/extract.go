package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newsletter-digest-go/internal/extract"
	"newsletter-digest-go/internal/platform"
	"newsletter-digest-go/internal/validate"
)

// ExtractHTML runs platform detection, extraction, and validation on
// a posted HTML document without storing anything.
func (h *Handlers) ExtractHTML(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	detected := platform.Detect(req.SenderEmail, req.HTML)
	result := extract.Extract(detected, req.HTML)
	valid, checks := validate.Validate(result.Content)

	c.JSON(http.StatusOK, ExtractResponse{
		Platform:    string(detected),
		Title:       result.Title,
		Content:     result.Content,
		Sections:    result.Sections,
		Links:       result.Links,
		Images:      result.Images,
		NeedsReview: result.NeedsReview,
		Valid:       valid,
		Checks:      checks,
	})
}
