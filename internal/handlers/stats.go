package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetCategories returns the configured categories with display names
func (h *Handlers) GetCategories(c *gin.Context) {
	categories := h.classifier.Categories()
	responses := make([]gin.H, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, gin.H{
			"category": category,
			"label":    h.classifier.Label(category),
		})
	}
	c.JSON(http.StatusOK, responses)
}

// GetStats returns store-wide counts
func (h *Handlers) GetStats(c *gin.Context) {
	total, err := h.repo.CountTotal()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database_error", Message: "Failed to count newsletters", Code: http.StatusInternalServerError})
		return
	}
	needsReview, err := h.repo.CountNeedsReview()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database_error", Message: "Failed to count newsletters", Code: http.StatusInternalServerError})
		return
	}
	byCategory, err := h.repo.CountsByCategory()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database_error", Message: "Failed to count by category", Code: http.StatusInternalServerError})
		return
	}
	byPlatform, err := h.repo.CountsByPlatform()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database_error", Message: "Failed to count by platform", Code: http.StatusInternalServerError})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":        total,
		"needs_review": needsReview,
		"by_category":  byCategory,
		"by_platform":  byPlatform,
	})
}
