package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"newsletter-digest-go/internal/model"
	"newsletter-digest-go/internal/repository"
)

// Summarize runs the summarization pipeline over stored newsletters
// selected by the request filter and returns the digest. The call is
// synchronous and paced, so it can take minutes on a large day.
func (h *Handlers) Summarize(c *gin.Context) {
	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	filter := repository.ListFilter{
		Owner:    req.Owner,
		Category: req.Category,
		Limit:    req.Limit,
	}
	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_date", Message: "start_date must be YYYY-MM-DD", Code: http.StatusBadRequest})
			return
		}
		filter.StartDate = start
	}
	if req.EndDate != "" {
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_date", Message: "end_date must be YYYY-MM-DD", Code: http.StatusBadRequest})
			return
		}
		filter.EndDate = end
	}

	newsletters, err := h.repo.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch newsletters",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	byCategory := make(map[string][]*model.Newsletter)
	for i := range newsletters {
		n := &newsletters[i]
		byCategory[n.Category] = append(byCategory[n.Category], n)
	}

	result, err := h.orchestrator.Run(c.Request.Context(), byCategory)
	if err != nil {
		logrus.Errorf("Summarization run failed: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "summarization_error",
			Message: "Summarization run failed",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	h.metrics.LLMCalls.Add(float64(result.Usage.APICalls))
	h.metrics.LLMInputTokens.Add(float64(result.Usage.TotalInputTokens))
	h.metrics.LLMOutputTokens.Add(float64(result.Usage.TotalOutputTokens))
	h.metrics.LLMCostUSD.Add(result.Usage.TotalCost)

	c.JSON(http.StatusOK, result)
}
