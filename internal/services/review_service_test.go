package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonhub/salon-directory-backend/internal/apperror"
	"github.com/salonhub/salon-directory-backend/internal/database"
	"github.com/salonhub/salon-directory-backend/internal/models"
)

var reviewColumns = []string{
	"id", "salon_id", "user_id", "rating", "title", "comment", "status",
	"likes_count", "is_verified_visit", "visit_date", "created_at", "updated_at",
	"user_name", "salon_name",
}

func newReviewService(db *sqlx.DB) *ReviewService {
	return NewReviewService(db, database.NewReviewRepository(db), testLogger())
}

// expectReviewFetch mocks the repository read that follows a committed mutation
func expectReviewFetch(mock sqlmock.Sqlmock, reviewID, salonID, userID int64, rating int, status string, verified bool) {
	now := time.Now()
	mock.ExpectQuery(`FROM salon_reviews r`).
		WithArgs(reviewID).
		WillReturnRows(sqlmock.NewRows(reviewColumns).AddRow(
			reviewID, salonID, userID, rating, nil, nil, status,
			0, verified, nil, now, now, "Asha", "Glow Studio",
		))
	mock.ExpectQuery(`FROM review_images`).
		WithArgs(reviewID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "review_id", "image_url", "display_order"}))
	mock.ExpectQuery(`FROM review_responses`).
		WithArgs(reviewID).
		WillReturnError(sql.ErrNoRows)
}

func TestCreateReview_Success(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newReviewService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM salon_reviews`).
		WithArgs(int64(7), int64(3)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT id FROM salons`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	// The customer redeemed a coupon at this salon: verified visit
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(3), int64(7), models.RedemptionStatusRedeemed).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`INSERT INTO salon_reviews`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs(int64(3), models.ReviewStatusApproved).
		WillReturnRows(sqlmock.NewRows([]string{"total_reviews", "average_rating"}).AddRow(5, 4.24))
	mock.ExpectExec(`UPDATE salons`).
		WithArgs(int64(3), 4.24, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	expectReviewFetch(mock, 42, 3, 7, 5, models.ReviewStatusApproved, true)

	review, err := svc.Create(7, &models.CreateReviewRequest{SalonID: 3, Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(42), review.ID)
	assert.True(t, review.IsVerifiedVisit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReview_Duplicate(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newReviewService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM salon_reviews`).
		WithArgs(int64(7), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectRollback()

	_, err := svc.Create(7, &models.CreateReviewRequest{SalonID: 3, Rating: 4})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReview_SalonNotFound(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newReviewService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM salon_reviews`).
		WithArgs(int64(7), int64(99)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT id FROM salons`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.Create(7, &models.CreateReviewRequest{SalonID: 99, Rating: 4})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateReview_RatingValidation(t *testing.T) {
	db, _ := newTestDB(t)
	svc := newReviewService(db)

	bad := 6
	_, err := svc.Update(7, 42, &models.UpdateReviewRequest{Rating: &bad})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestUpdateReview_NotOwner(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newReviewService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM salon_reviews`).
		WithArgs(int64(42), int64(8)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.Update(8, 42, &models.UpdateReviewRequest{})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReview_Forbidden(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newReviewService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT salon_id, user_id FROM salon_reviews`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"salon_id", "user_id"}).AddRow(3, 7))
	mock.ExpectRollback()

	err := svc.Delete(8, 42, false)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReview_AdminRecomputesRating(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newReviewService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT salon_id, user_id FROM salon_reviews`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"salon_id", "user_id"}).AddRow(3, 7))
	mock.ExpectExec(`DELETE FROM salon_reviews`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs(int64(3), models.ReviewStatusApproved).
		WillReturnRows(sqlmock.NewRows([]string{"total_reviews", "average_rating"}).AddRow(4, 4.5))
	mock.ExpectExec(`UPDATE salons`).
		WithArgs(int64(3), 4.5, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.Delete(99, 42, true)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModerate_InvalidStatus(t *testing.T) {
	db, _ := newTestDB(t)
	svc := newReviewService(db)

	_, err := svc.Moderate(42, "deleted")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestModerate_RejectRecomputesRating(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newReviewService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT salon_id FROM salon_reviews`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"salon_id"}).AddRow(3))
	mock.ExpectExec(`UPDATE salon_reviews SET status`).
		WithArgs(int64(42), models.ReviewStatusRejected).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// The rejected review no longer counts toward the aggregates
	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs(int64(3), models.ReviewStatusApproved).
		WillReturnRows(sqlmock.NewRows([]string{"total_reviews", "average_rating"}).AddRow(4, 4.8))
	mock.ExpectExec(`UPDATE salons`).
		WithArgs(int64(3), 4.8, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	expectReviewFetch(mock, 42, 3, 7, 1, models.ReviewStatusRejected, false)

	review, err := svc.Moderate(42, models.ReviewStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusRejected, review.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLike(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newReviewService(db)

	t.Run("Like", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM salon_reviews`).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
		mock.ExpectExec(`DELETE FROM review_likes`).
			WithArgs(int64(42), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO review_likes`).
			WithArgs(int64(42), int64(7)).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`UPDATE salon_reviews SET likes_count = likes_count \+ 1`).
			WithArgs(int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		liked, err := svc.ToggleLike(7, 42)
		require.NoError(t, err)
		assert.True(t, liked)
	})

	t.Run("Unlike", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM salon_reviews`).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
		mock.ExpectExec(`DELETE FROM review_likes`).
			WithArgs(int64(42), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE salon_reviews SET likes_count = GREATEST`).
			WithArgs(int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		liked, err := svc.ToggleLike(7, 42)
		require.NoError(t, err)
		assert.False(t, liked)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReport_InvalidReason(t *testing.T) {
	db, _ := newTestDB(t)
	svc := newReviewService(db)

	_, err := svc.Report(7, 42, &models.ReportReviewRequest{Reason: "bored"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestReport_Duplicate(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newReviewService(db)

	mock.ExpectQuery(`SELECT id FROM salon_reviews`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectQuery(`INSERT INTO review_reports`).
		WillReturnError(&pqUniqueViolation)

	_, err := svc.Report(7, 42, &models.ReportReviewRequest{Reason: models.ReportReasons[0]})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleReport(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newReviewService(db)

	t.Run("Invalid Status", func(t *testing.T) {
		err := svc.HandleReport(5, 1, "archived")
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectExec(`UPDATE review_reports`).
			WithArgs(int64(5), models.ReportStatusReviewed, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := svc.HandleReport(5, 1, models.ReportStatusReviewed)
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE review_reports`).
			WithArgs(int64(5), models.ReportStatusDismissed, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := svc.HandleReport(5, 1, models.ReportStatusDismissed)
		assert.NoError(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddOwnerResponse_Duplicate(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newReviewService(db)

	mock.ExpectQuery(`SELECT id FROM salon_reviews`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectQuery(`INSERT INTO review_responses`).
		WillReturnError(&pqUniqueViolation)

	_, err := svc.AddOwnerResponse(1, 42, "thanks for visiting")
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}
