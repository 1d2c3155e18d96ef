package models

import "time"

// Salon represents a salon listing that belongs to a city
type Salon struct {
	ID           int64      `json:"id" db:"id"`
	CityID       int64      `json:"city_id" db:"city_id"`
	Name         string     `json:"name" db:"name"`
	OwnerName    *string    `json:"owner_name,omitempty" db:"owner_name"`
	Email        *string    `json:"email,omitempty" db:"email"`
	Phone        string     `json:"phone" db:"phone"`
	Address      string     `json:"address" db:"address"`
	Services     StringList `json:"services" db:"services"`
	Rating       float64    `json:"rating" db:"rating"`
	TotalReviews int        `json:"total_reviews" db:"total_reviews"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	OpeningTime  *string    `json:"opening_time,omitempty" db:"opening_time"`
	ClosingTime  *string    `json:"closing_time,omitempty" db:"closing_time"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`

	// Images is populated by the repository from salon_images, not a column
	Images []string `json:"images,omitempty" db:"-"`
}

// SalonImage represents a stored image owned by a salon
type SalonImage struct {
	ID        int64     `json:"id" db:"id"`
	SalonID   int64     `json:"salon_id" db:"salon_id"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	IsPrimary bool      `json:"is_primary" db:"is_primary"`
	Type      string    `json:"type" db:"type"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateSalonRequest represents the request to create a salon
type CreateSalonRequest struct {
	Name        string   `json:"name" binding:"required"`
	OwnerName   *string  `json:"owner_name,omitempty"`
	Email       *string  `json:"email,omitempty"`
	Phone       string   `json:"phone" binding:"required"`
	Address     string   `json:"address" binding:"required"`
	CityID      int64    `json:"city_id" binding:"required"`
	Services    []string `json:"services,omitempty"`
	OpeningTime *string  `json:"opening_time,omitempty"`
	ClosingTime *string  `json:"closing_time,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// UpdateSalonRequest represents the request to update salon details.
// Nil fields are left unchanged.
type UpdateSalonRequest struct {
	Name        *string  `json:"name,omitempty"`
	OwnerName   *string  `json:"owner_name,omitempty"`
	Email       *string  `json:"email,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	Address     *string  `json:"address,omitempty"`
	CityID      *int64   `json:"city_id,omitempty"`
	Services    []string `json:"services,omitempty"`
	OpeningTime *string  `json:"opening_time,omitempty"`
	ClosingTime *string  `json:"closing_time,omitempty"`
	Images      []string `json:"images,omitempty"`
}
