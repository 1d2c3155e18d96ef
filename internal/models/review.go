package models

import "time"

// Review statuses
const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
	ReviewStatusHidden   = "hidden"
)

// Report statuses
const (
	ReportStatusPending   = "pending"
	ReportStatusReviewed  = "reviewed"
	ReportStatusDismissed = "dismissed"
)

// Valid report reasons
var ReportReasons = []string{"spam", "inappropriate", "fake", "offensive", "other"}

// Review represents a customer review of a salon. One review per user per salon.
type Review struct {
	ID              int64      `json:"id" db:"id"`
	SalonID         int64      `json:"salon_id" db:"salon_id"`
	UserID          int64      `json:"user_id" db:"user_id"`
	Rating          int        `json:"rating" db:"rating"`
	Title           *string    `json:"title,omitempty" db:"title"`
	Comment         *string    `json:"comment,omitempty" db:"comment"`
	Status          string     `json:"status" db:"status"`
	LikesCount      int        `json:"likes_count" db:"likes_count"`
	IsVerifiedVisit bool       `json:"is_verified_visit" db:"is_verified_visit"`
	VisitDate       *time.Time `json:"visit_date,omitempty" db:"visit_date"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`

	// Joined fields, populated by repository queries
	UserName  *string `json:"user_name,omitempty" db:"user_name"`
	SalonName *string `json:"salon_name,omitempty" db:"salon_name"`

	Images   []ReviewImage   `json:"images,omitempty" db:"-"`
	Response *ReviewResponse `json:"response,omitempty" db:"-"`
}

// ReviewImage is an image attached to a review
type ReviewImage struct {
	ID           int64  `json:"id" db:"id"`
	ReviewID     int64  `json:"review_id" db:"review_id"`
	ImageURL     string `json:"image_url" db:"image_url"`
	DisplayOrder int    `json:"display_order" db:"display_order"`
}

// ReviewReport is a user report against a review
type ReviewReport struct {
	ID          int64      `json:"id" db:"id"`
	ReviewID    int64      `json:"review_id" db:"review_id"`
	UserID      int64      `json:"user_id" db:"user_id"`
	Reason      string     `json:"reason" db:"reason"`
	Description *string    `json:"description,omitempty" db:"description"`
	Status      string     `json:"status" db:"status"`
	ReviewedBy  *int64     `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty" db:"reviewed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// ReviewResponse is a salon owner's response to a review (at most one per review)
type ReviewResponse struct {
	ID          int64     `json:"id" db:"id"`
	ReviewID    int64     `json:"review_id" db:"review_id"`
	ResponderID int64     `json:"responder_id" db:"responder_id"`
	Response    string    `json:"response" db:"response"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ReviewStats aggregates approved reviews for one salon
type ReviewStats struct {
	SalonID       int64       `json:"salon_id"`
	AverageRating float64     `json:"average_rating"`
	TotalReviews  int         `json:"total_reviews"`
	Distribution  map[int]int `json:"distribution"`
}

// CreateReviewRequest represents the request to create a review
type CreateReviewRequest struct {
	SalonID   int64      `json:"salon_id" binding:"required"`
	Rating    int        `json:"rating" binding:"required,min=1,max=5"`
	Title     *string    `json:"title,omitempty"`
	Comment   *string    `json:"comment,omitempty"`
	VisitDate *time.Time `json:"visit_date,omitempty"`
	Images    []string   `json:"images,omitempty"`
}

// UpdateReviewRequest represents the request to update an existing review.
// Nil fields are left unchanged; a non-nil Images replaces all images.
type UpdateReviewRequest struct {
	Rating    *int       `json:"rating,omitempty"`
	Title     *string    `json:"title,omitempty"`
	Comment   *string    `json:"comment,omitempty"`
	VisitDate *time.Time `json:"visit_date,omitempty"`
	Images    []string   `json:"images,omitempty"`
}

// ReportReviewRequest represents the request to report a review
type ReportReviewRequest struct {
	Reason      string  `json:"reason" binding:"required"`
	Description *string `json:"description,omitempty"`
}
