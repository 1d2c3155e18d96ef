package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/salonhub/salon-directory-backend/internal/models"
)

// SalonRepository handles database operations for salons and their images
type SalonRepository struct {
	db *sqlx.DB
}

// NewSalonRepository creates a new SalonRepository
func NewSalonRepository(db *sqlx.DB) *SalonRepository {
	return &SalonRepository{db: db}
}

// Create inserts a salon and its initial images in one transaction
func (r *SalonRepository) Create(salon *models.Salon, images []string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO salons (
			city_id, name, owner_name, email, phone, address,
			services, is_active, opening_time, closing_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, rating, total_reviews, created_at, updated_at
	`

	err = tx.QueryRowx(query,
		salon.CityID, salon.Name, salon.OwnerName, salon.Email, salon.Phone, salon.Address,
		salon.Services, salon.IsActive, salon.OpeningTime, salon.ClosingTime,
	).Scan(&salon.ID, &salon.Rating, &salon.TotalReviews, &salon.CreatedAt, &salon.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create salon: %w", err)
	}

	for _, url := range images {
		if _, err := tx.Exec(
			`INSERT INTO salon_images (salon_id, image_url) VALUES ($1, $2)`,
			salon.ID, url,
		); err != nil {
			return fmt.Errorf("failed to insert salon image: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	salon.Images = images
	return nil
}

// GetByID retrieves a salon with its images, or nil if it does not exist
func (r *SalonRepository) GetByID(id int64) (*models.Salon, error) {
	query := `
		SELECT id, city_id, name, owner_name, email, phone, address,
		       services, rating, total_reviews, is_active,
		       opening_time, closing_time, created_at, updated_at
		FROM salons
		WHERE id = $1
	`

	var salon models.Salon
	err := r.db.Get(&salon, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get salon: %w", err)
	}

	urls, err := r.imageURLs([]int64{id})
	if err != nil {
		return nil, err
	}
	salon.Images = urls[id]
	if salon.Images == nil {
		salon.Images = []string{}
	}
	return &salon, nil
}

// List retrieves all salons with their images, optionally filtered by city
func (r *SalonRepository) List(cityID *int64) ([]models.Salon, error) {
	query := `
		SELECT id, city_id, name, owner_name, email, phone, address,
		       services, rating, total_reviews, is_active,
		       opening_time, closing_time, created_at, updated_at
		FROM salons
	`
	args := []interface{}{}
	if cityID != nil {
		query += ` WHERE city_id = $1`
		args = append(args, *cityID)
	}
	query += ` ORDER BY name`

	salons := []models.Salon{}
	if err := r.db.Select(&salons, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list salons: %w", err)
	}
	if len(salons) == 0 {
		return salons, nil
	}

	ids := make([]int64, 0, len(salons))
	for _, s := range salons {
		ids = append(ids, s.ID)
	}
	urls, err := r.imageURLs(ids)
	if err != nil {
		return nil, err
	}
	for i := range salons {
		salons[i].Images = urls[salons[i].ID]
		if salons[i].Images == nil {
			salons[i].Images = []string{}
		}
	}
	return salons, nil
}

// Update applies non-nil fields of req and optionally replaces images
func (r *SalonRepository) Update(id int64, req *models.UpdateSalonRequest) (bool, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	idx := 2

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.OwnerName != nil {
		add("owner_name", *req.OwnerName)
	}
	if req.Email != nil {
		add("email", *req.Email)
	}
	if req.Phone != nil {
		add("phone", *req.Phone)
	}
	if req.Address != nil {
		add("address", *req.Address)
	}
	if req.CityID != nil {
		add("city_id", *req.CityID)
	}
	if req.Services != nil {
		add("services", models.StringList(req.Services))
	}
	if req.OpeningTime != nil {
		add("opening_time", *req.OpeningTime)
	}
	if req.ClosingTime != nil {
		add("closing_time", *req.ClosingTime)
	}

	query := fmt.Sprintf(`UPDATE salons SET %s WHERE id = $1`, strings.Join(sets, ", "))
	result, err := r.db.Exec(query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update salon: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows == 0 {
		return false, nil
	}

	if req.Images != nil {
		if err := r.ReplaceImages(id, req.Images); err != nil {
			return false, err
		}
	}
	return true, nil
}

// ReplaceImages removes all images of a salon and inserts the given URLs
func (r *SalonRepository) ReplaceImages(salonID int64, urls []string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM salon_images WHERE salon_id = $1`, salonID); err != nil {
		return fmt.Errorf("failed to delete salon images: %w", err)
	}
	for _, url := range urls {
		if _, err := tx.Exec(
			`INSERT INTO salon_images (salon_id, image_url) VALUES ($1, $2)`,
			salonID, url,
		); err != nil {
			return fmt.Errorf("failed to insert salon image: %w", err)
		}
	}
	return tx.Commit()
}

// AddImage attaches a single image to a salon
func (r *SalonRepository) AddImage(salonID int64, url, imageType string, isPrimary bool) (*models.SalonImage, error) {
	query := `
		INSERT INTO salon_images (salon_id, image_url, is_primary, type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, salon_id, image_url, is_primary, type, created_at
	`

	var img models.SalonImage
	if err := r.db.Get(&img, query, salonID, url, isPrimary, imageType); err != nil {
		return nil, fmt.Errorf("failed to add salon image: %w", err)
	}
	return &img, nil
}

// ListImageURLs returns the stored image URLs for one salon
func (r *SalonRepository) ListImageURLs(salonID int64) ([]string, error) {
	urls, err := r.imageURLs([]int64{salonID})
	if err != nil {
		return nil, err
	}
	if urls[salonID] == nil {
		return []string{}, nil
	}
	return urls[salonID], nil
}

// SetActive flips the active flag on a salon
func (r *SalonRepository) SetActive(id int64, active bool) (bool, error) {
	result, err := r.db.Exec(
		`UPDATE salons SET is_active = $2, updated_at = NOW() WHERE id = $1`,
		id, active,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update salon status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// Delete removes a salon. Images and dependent rows go with it via FK cascade.
func (r *SalonRepository) Delete(id int64) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM salons WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete salon: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *SalonRepository) imageURLs(salonIDs []int64) (map[int64][]string, error) {
	query, args, err := sqlx.In(
		`SELECT salon_id, image_url FROM salon_images WHERE salon_id IN (?) ORDER BY id`,
		salonIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build image query: %w", err)
	}
	query = r.db.Rebind(query)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query salon images: %w", err)
	}
	defer rows.Close()

	urls := make(map[int64][]string)
	for rows.Next() {
		var salonID int64
		var url string
		if err := rows.Scan(&salonID, &url); err != nil {
			return nil, fmt.Errorf("failed to scan salon image: %w", err)
		}
		urls[salonID] = append(urls[salonID], url)
	}
	return urls, rows.Err()
}
