package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"newsletter-digest-go/internal/repository"
)

// ListNewsletters returns stored newsletters, newest first. Owner,
// category, date window, limit, and offset come from query params.
func (h *Handlers) ListNewsletters(c *gin.Context) {
	filter := repository.ListFilter{
		Owner:    c.Query("owner"),
		Category: c.Query("category"),
	}

	if v := c.Query("start_date"); v != "" {
		start, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_date", Message: "start_date must be YYYY-MM-DD", Code: http.StatusBadRequest})
			return
		}
		filter.StartDate = start
	}
	if v := c.Query("end_date"); v != "" {
		end, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_date", Message: "end_date must be YYYY-MM-DD", Code: http.StatusBadRequest})
			return
		}
		filter.EndDate = end
	}
	if v := c.Query("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}
	if v := c.Query("offset"); v != "" {
		filter.Offset, _ = strconv.Atoi(v)
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

	responses := make([]NewsletterSummary, 0, len(newsletters))
	for i := range newsletters {
		responses = append(responses, summaryOf(&newsletters[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// GetNewsletter returns one stored newsletter with its parsed content
func (h *Handlers) GetNewsletter(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Invalid newsletter ID", Code: http.StatusBadRequest})
		return
	}

	newsletter, err := h.repo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch newsletter",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	if newsletter == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Newsletter not found", Code: http.StatusNotFound})
		return
	}

	c.JSON(http.StatusOK, NewsletterDetail{
		NewsletterSummary: summaryOf(newsletter),
		ParsedContent:     newsletter.ParsedContent,
		Sections:          newsletter.GetSections(),
		Links:             newsletter.GetLinks(),
		Images:            newsletter.GetImages(),
	})
}
