package services

import (
	"github.com/salonhub/salon-directory-backend/internal/apperror"
	"github.com/salonhub/salon-directory-backend/internal/database"
	"github.com/salonhub/salon-directory-backend/internal/models"
	"github.com/salonhub/salon-directory-backend/pkg/jwt"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and profile lookup
type AuthService struct {
	users *database.UserRepository
	jwt   *jwt.Service
	log   *logrus.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users *database.UserRepository, jwtService *jwt.Service, log *logrus.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwtService, log: log}
}

// Register creates a customer account with a bcrypt-hashed password
func (s *AuthService) Register(req *models.RegisterRequest) (*models.User, error) {
	existing, err := s.users.GetByEmail(req.Email)
	if err != nil {
		return nil, apperror.Internal("failed to check existing user", err)
	}
	if existing != nil {
		return nil, apperror.Conflict("user already exists", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal("failed to hash password", err)
	}

	user, err := s.users.Create(req.Name, req.Email, string(hashed), models.RoleCustomer)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperror.Conflict("user already exists", err)
		}
		return nil, apperror.Internal("failed to create user", err)
	}

	s.log.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

// Login verifies credentials and issues an access/refresh token pair
func (s *AuthService) Login(req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.GetByEmail(req.Email)
	if err != nil {
		return nil, apperror.Internal("failed to look up user", err)
	}
	if user == nil {
		return nil, apperror.Unauthorized("invalid credentials", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("invalid credentials", nil)
	}

	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperror.Internal("failed to issue access token", err)
	}
	refreshToken, err := s.jwt.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, apperror.Internal("failed to issue refresh token", err)
	}

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *user,
	}, nil
}

// Profile returns the public fields of a user
func (s *AuthService) Profile(userID int64) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, apperror.Internal("failed to get user", err)
	}
	if user == nil {
		return nil, apperror.NotFound("user not found", nil)
	}
	return user, nil
}
