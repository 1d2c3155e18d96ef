package services

import (
	"context"

	"github.com/salonhub/salon-directory-backend/internal/apperror"
	"github.com/salonhub/salon-directory-backend/internal/database"
	"github.com/salonhub/salon-directory-backend/internal/models"
	"github.com/salonhub/salon-directory-backend/pkg/storage"
	"github.com/sirupsen/logrus"
)

// SalonService manages salon listings and their images
type SalonService struct {
	repo    *database.SalonRepository
	cities  *database.CityRepository
	storage storage.Storage
	log     *logrus.Logger
}

// NewSalonService creates a new SalonService
func NewSalonService(repo *database.SalonRepository, cities *database.CityRepository, store storage.Storage, log *logrus.Logger) *SalonService {
	return &SalonService{repo: repo, cities: cities, storage: store, log: log}
}

// Create adds a salon with optional initial image URLs
func (s *SalonService) Create(req *models.CreateSalonRequest) (*models.Salon, error) {
	city, err := s.cities.GetByID(req.CityID)
	if err != nil {
		return nil, apperror.Internal("failed to check city", err)
	}
	if city == nil {
		return nil, apperror.NotFound("city not found", nil)
	}

	salon := &models.Salon{
		CityID:      req.CityID,
		Name:        req.Name,
		OwnerName:   req.OwnerName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Services:    models.StringList(req.Services),
		IsActive:    true,
		OpeningTime: req.OpeningTime,
		ClosingTime: req.ClosingTime,
	}
	if err := s.repo.Create(salon, req.Images); err != nil {
		return nil, apperror.Internal("failed to create salon", err)
	}

	s.log.WithFields(logrus.Fields{"salon_id": salon.ID, "name": salon.Name}).Info("Salon created")
	return salon, nil
}

// GetByID returns one salon with its images
func (s *SalonService) GetByID(id int64) (*models.Salon, error) {
	salon, err := s.repo.GetByID(id)
	if err != nil {
		return nil, apperror.Internal("failed to get salon", err)
	}
	if salon == nil {
		return nil, apperror.NotFound("salon not found", nil)
	}
	return salon, nil
}

// List returns salons with images, optionally filtered by city
func (s *SalonService) List(cityID *int64) ([]models.Salon, error) {
	salons, err := s.repo.List(cityID)
	if err != nil {
		return nil, apperror.Internal("failed to list salons", err)
	}
	return salons, nil
}

// Update applies the non-nil fields of req and returns the updated salon
func (s *SalonService) Update(id int64, req *models.UpdateSalonRequest) (*models.Salon, error) {
	updated, err := s.repo.Update(id, req)
	if err != nil {
		return nil, apperror.Internal("failed to update salon", err)
	}
	if !updated {
		return nil, apperror.NotFound("salon not found", nil)
	}
	return s.GetByID(id)
}

// SetActive flips a salon's active flag
func (s *SalonService) SetActive(id int64, active bool) error {
	updated, err := s.repo.SetActive(id, active)
	if err != nil {
		return apperror.Internal("failed to update salon status", err)
	}
	if !updated {
		return apperror.NotFound("salon not found", nil)
	}
	return nil
}

// Delete removes a salon, its database rows via FK cascade, and best-effort
// removes its stored image objects. Storage failures never block the delete.
func (s *SalonService) Delete(ctx context.Context, id int64) error {
	urls, err := s.repo.ListImageURLs(id)
	if err != nil {
		return apperror.Internal("failed to list salon images", err)
	}

	deleted, err := s.repo.Delete(id)
	if err != nil {
		return apperror.Internal("failed to delete salon", err)
	}
	if !deleted {
		return apperror.NotFound("salon not found", nil)
	}

	for _, url := range urls {
		if err := s.storage.Delete(ctx, url); err != nil {
			s.log.WithError(err).WithField("url", url).Warn("Failed to remove stored image")
		}
	}

	s.log.WithField("salon_id", id).Info("Salon deleted")
	return nil
}

// AttachImage stores an uploaded image for a salon and records it
func (s *SalonService) AttachImage(ctx context.Context, salonID int64, fileName string, data []byte) (*models.SalonImage, error) {
	salon, err := s.repo.GetByID(salonID)
	if err != nil {
		return nil, apperror.Internal("failed to get salon", err)
	}
	if salon == nil {
		return nil, apperror.NotFound("salon not found", nil)
	}

	url, err := s.storage.Save(ctx, salon.Name, fileName, data)
	if err != nil {
		return nil, apperror.Internal("failed to store image", err)
	}

	img, err := s.repo.AddImage(salonID, url, "gallery", false)
	if err != nil {
		// Keep storage consistent with the database on the failure path
		if derr := s.storage.Delete(ctx, url); derr != nil {
			s.log.WithError(derr).WithField("url", url).Warn("Failed to remove orphaned image")
		}
		return nil, apperror.Internal("failed to record image", err)
	}
	return img, nil
}
