package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"newsletter-digest-go/internal/model"
)

// Repository is the persistence layer over newsletter records.
type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists one newsletter record.
func (r *Repository) Create(n *model.Newsletter) error {
	result := r.db.Create(n)
	if result.Error != nil {
		return fmt.Errorf("failed to create newsletter: %w", result.Error)
	}
	return nil
}

// ExistsByScopedID reports whether a record with the exact scoped
// identifier already exists. This is the dedup lookup: exact match
// only.
func (r *Repository) ExistsByScopedID(scopedID string) (bool, error) {
	var n model.Newsletter
	result := r.db.Select("id").Where("scoped_id = ?", scopedID).First(&n)
	if result.Error == nil {
		return true, nil
	}
	if result.Error == gorm.ErrRecordNotFound {
		return false, nil
	}
	return false, fmt.Errorf("database error checking scoped id: %w", result.Error)
}

// ListFilter narrows List results. Zero values mean no constraint.
type ListFilter struct {
	Owner     string
	Category  string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
	Offset    int
}

// List returns newsletters matching the filter, newest first.
func (r *Repository) List(filter ListFilter) ([]model.Newsletter, error) {
	query := r.db.Model(&model.Newsletter{})

	if filter.Owner != "" {
		query = query.Where("owner = ?", model.NormalizeOwner(filter.Owner))
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if !filter.StartDate.IsZero() {
		query = query.Where("received_at >= ?", filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query = query.Where("received_at <= ?", filter.EndDate)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	var newsletters []model.Newsletter
	result := query.Order("received_at DESC").Limit(limit).Offset(filter.Offset).Find(&newsletters)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list newsletters: %w", result.Error)
	}
	return newsletters, nil
}

// GetByID returns one newsletter, or nil when not found.
func (r *Repository) GetByID(id uint) (*model.Newsletter, error) {
	var n model.Newsletter
	result := r.db.First(&n, id)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get newsletter %d: %w", id, result.Error)
	}
	return &n, nil
}

// DeleteOlderThan removes records received before the cutoff and
// returns how many were deleted.
func (r *Repository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("received_at < ?", cutoff).Delete(&model.Newsletter{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old newsletters: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// CategoryCount pairs a category key with its record count.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// PlatformCount pairs a platform tag with its record count.
type PlatformCount struct {
	Platform string `json:"platform"`
	Count    int64  `json:"count"`
}

// CountsByCategory groups record counts per category.
func (r *Repository) CountsByCategory() ([]CategoryCount, error) {
	var counts []CategoryCount
	result := r.db.Model(&model.Newsletter{}).
		Select("category, count(id) as count").
		Group("category").
		Scan(&counts)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to count by category: %w", result.Error)
	}
	return counts, nil
}

// CountsByPlatform groups record counts per platform.
func (r *Repository) CountsByPlatform() ([]PlatformCount, error) {
	var counts []PlatformCount
	result := r.db.Model(&model.Newsletter{}).
		Select("platform, count(id) as count").
		Group("platform").
		Scan(&counts)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to count by platform: %w", result.Error)
	}
	return counts, nil
}

// CountTotal returns the total number of stored newsletters.
func (r *Repository) CountTotal() (int64, error) {
	var total int64
	result := r.db.Model(&model.Newsletter{}).Count(&total)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count newsletters: %w", result.Error)
	}
	return total, nil
}

// CountNeedsReview returns how many records are flagged for review.
func (r *Repository) CountNeedsReview() (int64, error) {
	var total int64
	result := r.db.Model(&model.Newsletter{}).Where("needs_review = ?", true).Count(&total)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count needs-review newsletters: %w", result.Error)
	}
	return total, nil
}
