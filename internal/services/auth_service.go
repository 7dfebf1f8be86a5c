package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"subtrackr_backend/internal/auth"
	"subtrackr_backend/internal/dto"
	"subtrackr_backend/internal/logger"
	"subtrackr_backend/internal/models"
	"subtrackr_backend/internal/repositories"
	"subtrackr_backend/pkg/apperrors"
)

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	SSOLoginURL(state string) (string, error)
	SSOCallback(ctx context.Context, db *gorm.DB, code string) (*dto.AuthResponse, error)
	Me(db *gorm.DB, userID string) (*dto.UserResponse, error)

	// EnsureFirstAdmin seeds the configured admin account when the user
	// table is empty.
	EnsureFirstAdmin(db *gorm.DB, email, password string) error
}

type authService struct {
	userRepo   repositories.UserRepository
	oidcClient *auth.OIDCClient
}

// NewAuthService accepts a nil oidcClient; SSO endpoints then report
// the feature as unavailable.
func NewAuthService(userRepo repositories.UserRepository, oidcClient *auth.OIDCClient) AuthService {
	return &authService{
		userRepo:   userRepo,
		oidcClient: oidcClient,
	}
}

func (s *authService) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	if _, err := s.userRepo.FindByEmail(db, req.Email); err == nil {
		return nil, apperrors.ErrAlreadyExists(repositories.ErrUserAlreadyExists)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		Company:      req.Company,
		Role:         models.UserRoleMember,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(db, user); err != nil {
		if err == repositories.ErrUserAlreadyExists {
			return nil, apperrors.ErrAlreadyExists(err)
		}
		return nil, err
	}

	return s.issueToken(db, user)
}

func (s *authService) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.PasswordHash == "" || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.issueToken(db, user)
}

func (s *authService) SSOLoginURL(state string) (string, error) {
	if s.oidcClient == nil {
		return "", apperrors.ErrInvalidOperation("auth", "SSO is not configured")
	}
	return s.oidcClient.AuthURL(state), nil
}

// SSOCallback redeems the provider code and provisions the user on
// first login.
func (s *authService) SSOCallback(ctx context.Context, db *gorm.DB, code string) (*dto.AuthResponse, error) {
	if s.oidcClient == nil {
		return nil, apperrors.ErrInvalidOperation("auth", "SSO is not configured")
	}

	identity, err := s.oidcClient.Exchange(ctx, code)
	if err != nil {
		logger.WithError(err).Warn("sso code exchange failed")
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindBySSOSubject(db, identity.Subject)
	if err == repositories.ErrUserNotFound {
		// Link by email when the account predates SSO.
		user, err = s.userRepo.FindByEmail(db, identity.Email)
		if err == repositories.ErrUserNotFound {
			user = &models.User{
				Email:      identity.Email,
				Name:       identity.Name,
				Role:       models.UserRoleMember,
				SSOSubject: identity.Subject,
			}
			if err := s.userRepo.Create(db, user); err != nil {
				return nil, err
			}
			logger.Info("provisioned user from sso", "email", identity.Email)
		} else if err == nil {
			user.SSOSubject = identity.Subject
			if err := s.userRepo.Update(db, user); err != nil {
				return nil, err
			}
		}
	}
	if err != nil && err != repositories.ErrUserNotFound {
		return nil, err
	}

	return s.issueToken(db, user)
}

func (s *authService) Me(db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	return &dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Company:     user.Company,
		Role:        string(user.Role),
		LastLoginAt: user.LastLoginAt,
	}, nil
}

func (s *authService) EnsureFirstAdmin(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	count, err := s.userRepo.Count(db)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:        email,
		Name:         "Administrator",
		Role:         models.UserRoleAdmin,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(db, admin); err != nil {
		return err
	}
	logger.Info("seeded first admin account", "email", email)
	return nil
}

func (s *authService) issueToken(db *gorm.DB, user *models.User) (*dto.AuthResponse, error) {
	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(db, user); err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: token,
		User: dto.UserResponse{
			ID:          user.ID,
			Email:       user.Email,
			Name:        user.Name,
			Company:     user.Company,
			Role:        string(user.Role),
			LastLoginAt: user.LastLoginAt,
		},
	}, nil
}
