package models

import "time"

// City represents a city in the salon directory catalog
type City struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateCityRequest represents the request to create a city
type CreateCityRequest struct {
	Name string `json:"name" binding:"required"`
}

// BulkCreateCitiesRequest represents the request to create multiple cities at once
type BulkCreateCitiesRequest struct {
	Names []string `json:"names" binding:"required"`
}

// BulkCreateCitiesResult summarizes the outcome of a bulk city insert
type BulkCreateCitiesResult struct {
	Created []City   `json:"created"`
	Skipped []string `json:"skipped"`
}
