package services

import (
	"strings"

	"github.com/salonhub/salon-directory-backend/internal/apperror"
	"github.com/salonhub/salon-directory-backend/internal/database"
	"github.com/salonhub/salon-directory-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// CityService manages the city catalog
type CityService struct {
	repo *database.CityRepository
	log  *logrus.Logger
}

// NewCityService creates a new CityService
func NewCityService(repo *database.CityRepository, log *logrus.Logger) *CityService {
	return &CityService{repo: repo, log: log}
}

// Create adds a city with a unique name
func (s *CityService) Create(name string) (*models.City, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.Validation("city name is required", nil)
	}

	city, err := s.repo.Create(name)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperror.Conflict("city already exists", err)
		}
		return nil, apperror.Internal("failed to create city", err)
	}

	s.log.WithField("city", city.Name).Info("City created")
	return city, nil
}

// BulkCreate adds several cities at once, skipping names that already exist
func (s *CityService) BulkCreate(names []string) (*models.BulkCreateCitiesResult, error) {
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" {
			cleaned = append(cleaned, name)
		}
	}
	if len(cleaned) == 0 {
		return nil, apperror.Validation("no valid city names provided", nil)
	}

	result := &models.BulkCreateCitiesResult{Created: []models.City{}, Skipped: []string{}}
	for _, name := range cleaned {
		city, err := s.repo.Create(name)
		if err != nil {
			if database.IsUniqueViolation(err) {
				result.Skipped = append(result.Skipped, name)
				continue
			}
			return nil, apperror.Internal("failed to create city", err)
		}
		result.Created = append(result.Created, *city)
	}
	return result, nil
}

// List returns all cities
func (s *CityService) List() ([]models.City, error) {
	cities, err := s.repo.List()
	if err != nil {
		return nil, apperror.Internal("failed to list cities", err)
	}
	return cities, nil
}

// SetActive soft-enables or soft-disables a city
func (s *CityService) SetActive(id int64, active bool) error {
	updated, err := s.repo.SetActive(id, active)
	if err != nil {
		return apperror.Internal("failed to update city status", err)
	}
	if !updated {
		return apperror.NotFound("city not found", nil)
	}
	return nil
}

// Delete hard-deletes a city
func (s *CityService) Delete(id int64) error {
	deleted, err := s.repo.Delete(id)
	if err != nil {
		return apperror.Internal("failed to delete city", err)
	}
	if !deleted {
		return apperror.NotFound("city not found", nil)
	}
	s.log.WithField("city_id", id).Info("City deleted")
	return nil
}
