package domain

import (
	"strings"
	"time"
)

// Review is one client testimonial row.
type Review struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Role      string    `json:"role"`
	Quote     string    `json:"quote"`
	Rating    int       `json:"rating"`
	AvatarURL string    `json:"avatarUrl"`
	SortOrder int       `json:"sortOrder"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReviewInput carries a create or patch payload. Nil fields on an update
// leave the stored column untouched.
type ReviewInput struct {
	Author    *string `json:"author"`
	Role      *string `json:"role"`
	Quote     *string `json:"quote"`
	Rating    *int    `json:"rating"`
	AvatarURL *string `json:"avatarUrl"`
	SortOrder *int    `json:"sortOrder"`
	Active    *bool   `json:"active"`
}

// ValidateCreate checks the fields a new review must carry.
func (in ReviewInput) ValidateCreate() string {
	if in.Author == nil || strings.TrimSpace(*in.Author) == "" {
		return "author is required"
	}
	if in.Quote == nil || strings.TrimSpace(*in.Quote) == "" {
		return "quote is required"
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return "rating must be between 1 and 5"
	}
	return ""
}
