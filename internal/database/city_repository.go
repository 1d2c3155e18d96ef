package database

import (
	"database/sql"
	"fmt"

	"github.com/salonhub/salon-directory-backend/internal/models"
)

// CityRepository handles database operations for the cities table
type CityRepository struct {
	db DB
}

// NewCityRepository creates a new CityRepository
func NewCityRepository(db DB) *CityRepository {
	return &CityRepository{db: db}
}

// Create inserts a new city
func (r *CityRepository) Create(name string) (*models.City, error) {
	query := `
		INSERT INTO cities (name, is_active)
		VALUES ($1, true)
		RETURNING id, name, is_active, created_at, updated_at
	`

	var city models.City
	if err := r.db.Get(&city, query, name); err != nil {
		return nil, err
	}
	return &city, nil
}

// GetByID retrieves a city by ID, or nil if it does not exist
func (r *CityRepository) GetByID(id int64) (*models.City, error) {
	query := `
		SELECT id, name, is_active, created_at, updated_at
		FROM cities
		WHERE id = $1
	`

	var city models.City
	err := r.db.Get(&city, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get city: %w", err)
	}
	return &city, nil
}

// GetByName retrieves a city by name, or nil if it does not exist
func (r *CityRepository) GetByName(name string) (*models.City, error) {
	query := `
		SELECT id, name, is_active, created_at, updated_at
		FROM cities
		WHERE name = $1
	`

	var city models.City
	err := r.db.Get(&city, query, name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get city by name: %w", err)
	}
	return &city, nil
}

// List retrieves all cities
func (r *CityRepository) List() ([]models.City, error) {
	query := `
		SELECT id, name, is_active, created_at, updated_at
		FROM cities
		ORDER BY name
	`

	cities := []models.City{}
	if err := r.db.Select(&cities, query); err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	return cities, nil
}

// SetActive flips the soft-enable flag on a city
func (r *CityRepository) SetActive(id int64, active bool) (bool, error) {
	query := `
		UPDATE cities
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, id, active)
	if err != nil {
		return false, fmt.Errorf("failed to update city status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// Delete hard-deletes a city. Salons referencing it are removed by FK cascade.
func (r *CityRepository) Delete(id int64) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM cities WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete city: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
