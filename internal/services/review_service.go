package services

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/salonhub/salon-directory-backend/internal/apperror"
	"github.com/salonhub/salon-directory-backend/internal/database"
	"github.com/salonhub/salon-directory-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// ReviewService handles review CRUD, moderation, likes, reports and owner
// responses. Salon rating and total_reviews are pure functions of approved
// reviews and are recomputed inside the same transaction as any mutation
// that can change review status.
type ReviewService struct {
	db   *sqlx.DB
	repo *database.ReviewRepository
	log  *logrus.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(db *sqlx.DB, repo *database.ReviewRepository, log *logrus.Logger) *ReviewService {
	return &ReviewService{db: db, repo: repo, log: log}
}

// Create writes a review for a salon. One review per user per salon. The
// verified-visit flag is derived from a redeemed coupon at that salon.
func (s *ReviewService) Create(userID int64, req *models.CreateReviewRequest) (*models.Review, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return nil, apperror.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	var existingID int64
	err = tx.Get(&existingID, `
		SELECT id FROM salon_reviews WHERE user_id = $1 AND salon_id = $2
	`, userID, req.SalonID)
	if err == nil {
		return nil, apperror.Conflict("you have already reviewed this salon", nil)
	}
	if !database.IsNoRows(err) {
		return nil, apperror.Internal("failed to check existing review", err)
	}

	var salonID int64
	err = tx.Get(&salonID, `SELECT id FROM salons WHERE id = $1`, req.SalonID)
	if database.IsNoRows(err) {
		return nil, apperror.NotFound("salon not found", nil)
	}
	if err != nil {
		return nil, apperror.Internal("failed to check salon", err)
	}

	var verifiedVisit bool
	err = tx.Get(&verifiedVisit, `
		SELECT EXISTS (
			SELECT 1
			FROM coupon_redemptions cr
			JOIN coupons c ON cr.coupon_id = c.id
			WHERE c.salon_id = $1 AND cr.customer_id = $2 AND cr.status = $3
		)
	`, req.SalonID, userID, models.RedemptionStatusRedeemed)
	if err != nil {
		return nil, apperror.Internal("failed to check verified visit", err)
	}

	var reviewID int64
	err = tx.QueryRowx(`
		INSERT INTO salon_reviews (salon_id, user_id, rating, title, comment, visit_date, is_verified_visit, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, req.SalonID, userID, req.Rating, req.Title, req.Comment, req.VisitDate,
		verifiedVisit, models.ReviewStatusApproved).Scan(&reviewID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperror.Conflict("you have already reviewed this salon", err)
		}
		return nil, apperror.Internal("failed to create review", err)
	}

	if err := replaceReviewImages(tx, reviewID, req.Images); err != nil {
		return nil, err
	}
	if err := updateSalonRating(tx, req.SalonID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Internal("failed to commit review", err)
	}

	s.log.WithFields(logrus.Fields{
		"review_id": reviewID,
		"salon_id":  req.SalonID,
		"user_id":   userID,
		"verified":  verifiedVisit,
	}).Info("Review created")

	return s.GetByID(reviewID)
}

// Update modifies the caller's own review. Nil fields are left unchanged; a
// non-nil image list replaces all images.
func (s *ReviewService) Update(userID, reviewID int64, req *models.UpdateReviewRequest) (*models.Review, error) {
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return nil, apperror.Validation("rating must be between 1 and 5", nil)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, apperror.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	var review models.Review
	err = tx.Get(&review, `
		SELECT id, salon_id, user_id, rating, title, comment, status,
		       likes_count, is_verified_visit, visit_date, created_at, updated_at
		FROM salon_reviews
		WHERE id = $1 AND user_id = $2
	`, reviewID, userID)
	if database.IsNoRows(err) {
		return nil, apperror.NotFound("review not found or you do not have permission to edit it", nil)
	}
	if err != nil {
		return nil, apperror.Internal("failed to load review", err)
	}

	rating := review.Rating
	if req.Rating != nil {
		rating = *req.Rating
	}
	title := review.Title
	if req.Title != nil {
		title = req.Title
	}
	comment := review.Comment
	if req.Comment != nil {
		comment = req.Comment
	}
	visitDate := review.VisitDate
	if req.VisitDate != nil {
		visitDate = req.VisitDate
	}

	if _, err := tx.Exec(`
		UPDATE salon_reviews
		SET rating = $2, title = $3, comment = $4, visit_date = $5, updated_at = NOW()
		WHERE id = $1
	`, reviewID, rating, title, comment, visitDate); err != nil {
		return nil, apperror.Internal("failed to update review", err)
	}

	if req.Images != nil {
		if _, err := tx.Exec(`DELETE FROM review_images WHERE review_id = $1`, reviewID); err != nil {
			return nil, apperror.Internal("failed to clear review images", err)
		}
		if err := replaceReviewImages(tx, reviewID, req.Images); err != nil {
			return nil, err
		}
	}

	if err := updateSalonRating(tx, review.SalonID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, apperror.Internal("failed to commit review update", err)
	}

	return s.GetByID(reviewID)
}

// Delete removes a review. Admins can delete any review, users only their own.
func (s *ReviewService) Delete(userID, reviewID int64, isAdmin bool) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return apperror.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	var review struct {
		SalonID int64 `db:"salon_id"`
		UserID  int64 `db:"user_id"`
	}
	err = tx.Get(&review, `SELECT salon_id, user_id FROM salon_reviews WHERE id = $1`, reviewID)
	if database.IsNoRows(err) {
		return apperror.NotFound("review not found", nil)
	}
	if err != nil {
		return apperror.Internal("failed to load review", err)
	}

	if !isAdmin && review.UserID != userID {
		return apperror.Forbidden("you do not have permission to delete this review", nil)
	}

	// Images, likes, reports and responses go with the review via FK cascade
	if _, err := tx.Exec(`DELETE FROM salon_reviews WHERE id = $1`, reviewID); err != nil {
		return apperror.Internal("failed to delete review", err)
	}
	if err := updateSalonRating(tx, review.SalonID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperror.Internal("failed to commit review deletion", err)
	}

	s.log.WithFields(logrus.Fields{"review_id": reviewID, "admin": isAdmin}).Info("Review deleted")
	return nil
}

// GetByID returns one review with its images and owner response
func (s *ReviewService) GetByID(reviewID int64) (*models.Review, error) {
	review, err := s.repo.GetByID(reviewID)
	if err != nil {
		return nil, apperror.Internal("failed to get review", err)
	}
	if review == nil {
		return nil, apperror.NotFound("review not found", nil)
	}
	return review, nil
}

// ListBySalon returns the approved reviews of a salon
func (s *ReviewService) ListBySalon(salonID int64, opts database.ReviewListOptions) ([]models.Review, error) {
	reviews, err := s.repo.ListBySalon(salonID, opts)
	if err != nil {
		return nil, apperror.Internal("failed to list salon reviews", err)
	}
	return reviews, nil
}

// ListByUser returns the reviews written by one user
func (s *ReviewService) ListByUser(userID int64, opts database.ReviewListOptions) ([]models.Review, error) {
	reviews, err := s.repo.ListByUser(userID, opts)
	if err != nil {
		return nil, apperror.Internal("failed to list user reviews", err)
	}
	return reviews, nil
}

// ListAll returns reviews across salons for moderation
func (s *ReviewService) ListAll(opts database.ReviewListOptions) ([]models.Review, error) {
	reviews, err := s.repo.ListAll(opts)
	if err != nil {
		return nil, apperror.Internal("failed to list reviews", err)
	}
	return reviews, nil
}

// Stats returns the aggregate rating figures for one salon
func (s *ReviewService) Stats(salonID int64) (*models.ReviewStats, error) {
	stats, err := s.repo.Stats(salonID)
	if err != nil {
		return nil, apperror.Internal("failed to compute review stats", err)
	}
	return stats, nil
}

// ToggleLike likes a review, or removes the caller's existing like.
// Returns true when the review ends up liked.
func (s *ReviewService) ToggleLike(userID, reviewID int64) (bool, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return false, apperror.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	var exists int64
	err = tx.Get(&exists, `SELECT id FROM salon_reviews WHERE id = $1`, reviewID)
	if database.IsNoRows(err) {
		return false, apperror.NotFound("review not found", nil)
	}
	if err != nil {
		return false, apperror.Internal("failed to load review", err)
	}

	result, err := tx.Exec(`
		DELETE FROM review_likes WHERE review_id = $1 AND user_id = $2
	`, reviewID, userID)
	if err != nil {
		return false, apperror.Internal("failed to toggle like", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return false, apperror.Internal("failed to toggle like", err)
	}

	liked := removed == 0
	if liked {
		if _, err := tx.Exec(`
			INSERT INTO review_likes (review_id, user_id) VALUES ($1, $2)
		`, reviewID, userID); err != nil {
			return false, apperror.Internal("failed to record like", err)
		}
		_, err = tx.Exec(`UPDATE salon_reviews SET likes_count = likes_count + 1 WHERE id = $1`, reviewID)
	} else {
		_, err = tx.Exec(`
			UPDATE salon_reviews SET likes_count = GREATEST(likes_count - 1, 0) WHERE id = $1
		`, reviewID)
	}
	if err != nil {
		return false, apperror.Internal("failed to update like count", err)
	}

	if err := tx.Commit(); err != nil {
		return false, apperror.Internal("failed to commit like toggle", err)
	}
	return liked, nil
}

// Report files a report against a review. One report per user per review.
func (s *ReviewService) Report(userID, reviewID int64, req *models.ReportReviewRequest) (*models.ReviewReport, error) {
	if !validReportReason(req.Reason) {
		return nil, apperror.Validation(fmt.Sprintf("invalid report reason %q", req.Reason), nil)
	}

	var exists int64
	err := s.db.Get(&exists, `SELECT id FROM salon_reviews WHERE id = $1`, reviewID)
	if database.IsNoRows(err) {
		return nil, apperror.NotFound("review not found", nil)
	}
	if err != nil {
		return nil, apperror.Internal("failed to load review", err)
	}

	var report models.ReviewReport
	err = s.db.QueryRowx(`
		INSERT INTO review_reports (review_id, user_id, reason, description, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, review_id, user_id, reason, description, status, reviewed_by, reviewed_at, created_at
	`, reviewID, userID, req.Reason, req.Description, models.ReportStatusPending).StructScan(&report)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperror.Conflict("you have already reported this review", err)
		}
		return nil, apperror.Internal("failed to report review", err)
	}
	return &report, nil
}

// Moderate sets the moderation status of a review and recomputes the salon
// aggregates, since only approved reviews count toward them
func (s *ReviewService) Moderate(reviewID int64, status string) (*models.Review, error) {
	if status != models.ReviewStatusApproved && status != models.ReviewStatusRejected && status != models.ReviewStatusHidden {
		return nil, apperror.Validation(fmt.Sprintf("invalid moderation status %q", status), nil)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, apperror.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	var salonID int64
	err = tx.Get(&salonID, `SELECT salon_id FROM salon_reviews WHERE id = $1`, reviewID)
	if database.IsNoRows(err) {
		return nil, apperror.NotFound("review not found", nil)
	}
	if err != nil {
		return nil, apperror.Internal("failed to load review", err)
	}

	if _, err := tx.Exec(`
		UPDATE salon_reviews SET status = $2, updated_at = NOW() WHERE id = $1
	`, reviewID, status); err != nil {
		return nil, apperror.Internal("failed to moderate review", err)
	}
	if err := updateSalonRating(tx, salonID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, apperror.Internal("failed to commit moderation", err)
	}

	s.log.WithFields(logrus.Fields{"review_id": reviewID, "status": status}).Info("Review moderated")
	return s.GetByID(reviewID)
}

// ListReports returns review reports for the moderation queue
func (s *ReviewService) ListReports(status string, limit, offset int) ([]models.ReviewReport, error) {
	reports, err := s.repo.ListReports(status, limit, offset)
	if err != nil {
		return nil, apperror.Internal("failed to list review reports", err)
	}
	return reports, nil
}

// HandleReport resolves a report as reviewed or dismissed
func (s *ReviewService) HandleReport(reportID, adminID int64, status string) error {
	if status != models.ReportStatusReviewed && status != models.ReportStatusDismissed {
		return apperror.Validation(fmt.Sprintf("invalid report status %q", status), nil)
	}

	result, err := s.db.Exec(`
		UPDATE review_reports
		SET status = $2, reviewed_by = $3, reviewed_at = NOW()
		WHERE id = $1
	`, reportID, status, adminID)
	if err != nil {
		return apperror.Internal("failed to handle report", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperror.Internal("failed to handle report", err)
	}
	if rows == 0 {
		return apperror.NotFound("report not found", nil)
	}
	return nil
}

// AddOwnerResponse attaches the salon owner's response to a review
func (s *ReviewService) AddOwnerResponse(responderID, reviewID int64, text string) (*models.ReviewResponse, error) {
	var exists int64
	err := s.db.Get(&exists, `SELECT id FROM salon_reviews WHERE id = $1`, reviewID)
	if database.IsNoRows(err) {
		return nil, apperror.NotFound("review not found", nil)
	}
	if err != nil {
		return nil, apperror.Internal("failed to load review", err)
	}

	var response models.ReviewResponse
	err = s.db.QueryRowx(`
		INSERT INTO review_responses (review_id, responder_id, response)
		VALUES ($1, $2, $3)
		RETURNING id, review_id, responder_id, response, created_at, updated_at
	`, reviewID, responderID, text).StructScan(&response)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperror.Conflict("this review already has a response", err)
		}
		return nil, apperror.Internal("failed to add response", err)
	}
	return &response, nil
}

// UpdateOwnerResponse edits the responder's own response
func (s *ReviewService) UpdateOwnerResponse(responderID, reviewID int64, text string) (*models.ReviewResponse, error) {
	var response models.ReviewResponse
	err := s.db.QueryRowx(`
		UPDATE review_responses
		SET response = $3, updated_at = NOW()
		WHERE review_id = $1 AND responder_id = $2
		RETURNING id, review_id, responder_id, response, created_at, updated_at
	`, reviewID, responderID, text).StructScan(&response)
	if database.IsNoRows(err) {
		return nil, apperror.NotFound("response not found", nil)
	}
	if err != nil {
		return nil, apperror.Internal("failed to update response", err)
	}
	return &response, nil
}

// DeleteOwnerResponse removes a response. Admins can remove any response.
func (s *ReviewService) DeleteOwnerResponse(responderID, reviewID int64, isAdmin bool) error {
	query := `DELETE FROM review_responses WHERE review_id = $1 AND responder_id = $2`
	args := []interface{}{reviewID, responderID}
	if isAdmin {
		query = `DELETE FROM review_responses WHERE review_id = $1`
		args = args[:1]
	}

	result, err := s.db.Exec(query, args...)
	if err != nil {
		return apperror.Internal("failed to delete response", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperror.Internal("failed to delete response", err)
	}
	if rows == 0 {
		return apperror.NotFound("response not found", nil)
	}
	return nil
}

// updateSalonRating recomputes a salon's rating and total_reviews from its
// approved reviews inside tx
func updateSalonRating(tx *sqlx.Tx, salonID int64) error {
	var agg struct {
		TotalReviews  int     `db:"total_reviews"`
		AverageRating float64 `db:"average_rating"`
	}
	err := tx.Get(&agg, `
		SELECT COUNT(*) AS total_reviews,
		       COALESCE(AVG(rating), 0) AS average_rating
		FROM salon_reviews
		WHERE salon_id = $1 AND status = $2
	`, salonID, models.ReviewStatusApproved)
	if err != nil {
		return apperror.Internal("failed to aggregate reviews", err)
	}

	if _, err := tx.Exec(`
		UPDATE salons
		SET rating = ROUND($2::numeric, 1), total_reviews = $3, updated_at = NOW()
		WHERE id = $1
	`, salonID, agg.AverageRating, agg.TotalReviews); err != nil {
		return apperror.Internal("failed to update salon rating", err)
	}
	return nil
}

func replaceReviewImages(tx *sqlx.Tx, reviewID int64, urls []string) error {
	for i, url := range urls {
		if _, err := tx.Exec(`
			INSERT INTO review_images (review_id, image_url, display_order)
			VALUES ($1, $2, $3)
		`, reviewID, url, i); err != nil {
			return apperror.Internal("failed to insert review image", err)
		}
	}
	return nil
}

func validReportReason(reason string) bool {
	for _, r := range models.ReportReasons {
		if r == reason {
			return true
		}
	}
	return false
}
