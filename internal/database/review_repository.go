package database

import (
	"database/sql"
	"fmt"

	"github.com/salonhub/salon-directory-backend/internal/models"
)

// ReviewListOptions control filtering and paging of review listings
type ReviewListOptions struct {
	Status string // empty means approved for public listings, all for admin
	SortBy string // newest, oldest, highest, lowest, helpful
	Limit  int
	Offset int
}

// ReviewRepository handles read-side database operations for reviews.
// Mutations that touch salon rating aggregates run in the review service
// transactions.
type ReviewRepository struct {
	db DB
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewColumns = `
	r.id, r.salon_id, r.user_id, r.rating, r.title, r.comment, r.status,
	r.likes_count, r.is_verified_visit, r.visit_date, r.created_at, r.updated_at,
	u.name AS user_name, s.name AS salon_name
`

// GetByID retrieves a review with user and salon names, its images and the
// owner response, or nil if it does not exist
func (r *ReviewRepository) GetByID(id int64) (*models.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM salon_reviews r
		LEFT JOIN users u ON r.user_id = u.id
		LEFT JOIN salons s ON r.salon_id = s.id
		WHERE r.id = $1
	`

	var review models.Review
	err := r.db.Get(&review, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	images := []models.ReviewImage{}
	err = r.db.Select(&images, `
		SELECT id, review_id, image_url, display_order
		FROM review_images
		WHERE review_id = $1
		ORDER BY display_order
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get review images: %w", err)
	}
	review.Images = images

	var response models.ReviewResponse
	err = r.db.Get(&response, `
		SELECT id, review_id, responder_id, response, created_at, updated_at
		FROM review_responses
		WHERE review_id = $1
	`, id)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get review response: %w", err)
	}
	if err == nil {
		review.Response = &response
	}

	return &review, nil
}

// ListBySalon retrieves reviews of a salon according to opts
func (r *ReviewRepository) ListBySalon(salonID int64, opts ReviewListOptions) ([]models.Review, error) {
	status := opts.Status
	if status == "" {
		status = models.ReviewStatusApproved
	}

	query := `
		SELECT ` + reviewColumns + `
		FROM salon_reviews r
		LEFT JOIN users u ON r.user_id = u.id
		LEFT JOIN salons s ON r.salon_id = s.id
		WHERE r.salon_id = $1 AND r.status = $2
		ORDER BY ` + orderClause(opts.SortBy) + `
		LIMIT $3 OFFSET $4
	`

	reviews := []models.Review{}
	if err := r.db.Select(&reviews, query, salonID, status, limitOf(opts), opts.Offset); err != nil {
		return nil, fmt.Errorf("failed to list salon reviews: %w", err)
	}
	return reviews, nil
}

// ListByUser retrieves all reviews written by a user, newest first
func (r *ReviewRepository) ListByUser(userID int64, opts ReviewListOptions) ([]models.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM salon_reviews r
		LEFT JOIN users u ON r.user_id = u.id
		LEFT JOIN salons s ON r.salon_id = s.id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`

	reviews := []models.Review{}
	if err := r.db.Select(&reviews, query, userID, limitOf(opts), opts.Offset); err != nil {
		return nil, fmt.Errorf("failed to list user reviews: %w", err)
	}
	return reviews, nil
}

// ListAll retrieves reviews across salons for moderation, optionally filtered
// by status
func (r *ReviewRepository) ListAll(opts ReviewListOptions) ([]models.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM salon_reviews r
		LEFT JOIN users u ON r.user_id = u.id
		LEFT JOIN salons s ON r.salon_id = s.id
	`
	args := []interface{}{}
	if opts.Status != "" {
		query += ` WHERE r.status = $1`
		args = append(args, opts.Status)
	}
	query += fmt.Sprintf(` ORDER BY r.created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limitOf(opts), opts.Offset)

	reviews := []models.Review{}
	if err := r.db.Select(&reviews, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// Stats aggregates the approved reviews of a salon
func (r *ReviewRepository) Stats(salonID int64) (*models.ReviewStats, error) {
	var agg struct {
		TotalReviews  int     `db:"total_reviews"`
		AverageRating float64 `db:"average_rating"`
	}
	err := r.db.Get(&agg, `
		SELECT COUNT(*) AS total_reviews,
		       COALESCE(AVG(rating), 0) AS average_rating
		FROM salon_reviews
		WHERE salon_id = $1 AND status = $2
	`, salonID, models.ReviewStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reviews: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT rating, COUNT(*)
		FROM salon_reviews
		WHERE salon_id = $1 AND status = $2
		GROUP BY rating
	`, salonID, models.ReviewStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating distribution: %w", err)
	}
	defer rows.Close()

	distribution := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("failed to scan rating distribution: %w", err)
		}
		distribution[rating] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.ReviewStats{
		SalonID:       salonID,
		AverageRating: agg.AverageRating,
		TotalReviews:  agg.TotalReviews,
		Distribution:  distribution,
	}, nil
}

// ListReports retrieves review reports, optionally filtered by status
func (r *ReviewRepository) ListReports(status string, limit, offset int) ([]models.ReviewReport, error) {
	query := `
		SELECT id, review_id, user_id, reason, description, status, reviewed_by, reviewed_at, created_at
		FROM review_reports
	`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	if limit <= 0 {
		limit = 20
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	reports := []models.ReviewReport{}
	if err := r.db.Select(&reports, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list review reports: %w", err)
	}
	return reports, nil
}

func orderClause(sortBy string) string {
	switch sortBy {
	case "oldest":
		return "r.created_at ASC"
	case "highest":
		return "r.rating DESC, r.created_at DESC"
	case "lowest":
		return "r.rating ASC, r.created_at DESC"
	case "helpful":
		return "r.likes_count DESC, r.created_at DESC"
	default:
		return "r.created_at DESC"
	}
}

func limitOf(opts ReviewListOptions) int {
	if opts.Limit <= 0 {
		return 20
	}
	return opts.Limit
}
