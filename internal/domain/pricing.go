package domain

import (
	"strings"
	"time"
)

// PricingItem is one row of the pricing table shown on the site.
type PricingItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Price       string    `json:"price"`
	Description string    `json:"description"`
	Features    []string  `json:"features"`
	SortOrder   int       `json:"sortOrder"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PricingItemInput carries a create or patch payload. Nil fields on an
// update leave the stored column untouched.
type PricingItemInput struct {
	Title       *string   `json:"title"`
	Price       *string   `json:"price"`
	Description *string   `json:"description"`
	Features    *[]string `json:"features"`
	SortOrder   *int      `json:"sortOrder"`
	Active      *bool     `json:"active"`
}

// ValidateCreate checks the fields a new pricing item must carry.
// It returns a descriptive message for the response envelope.
func (in PricingItemInput) ValidateCreate() string {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return "title is required"
	}
	if in.Price == nil || strings.TrimSpace(*in.Price) == "" {
		return "price is required"
	}
	return ""
}
