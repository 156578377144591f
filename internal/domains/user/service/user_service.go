package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"cinema-backend/internal/domains/user/model"
	"cinema-backend/internal/domains/user/repository"
	"cinema-backend/pkg/jwt"
	"cinema-backend/pkg/logger"
)

type UserService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	Refresh(ctx context.Context, req model.RefreshRequest) (*model.AuthResponse, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error)
}

type userService struct {
	repo       repository.UserRepository
	jwtManager *jwt.Manager
}

func NewUserService(repo repository.UserRepository, jwtManager *jwt.Manager) UserService {
	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
	}
}

// =====================================================
// REGISTER
// =====================================================

func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, model.NewUserError("USR500", "failed to hash password", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         model.RoleUser,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailExists) {
			return nil, model.NewUserError(model.ErrCodeEmailExists, "email already registered", err)
		}
		return nil, err
	}

	logger.Info("User registered", map[string]interface{}{
		"userId": user.ID.String(),
	})

	return s.buildAuthResponse(user)
}

// =====================================================
// LOGIN
// =====================================================

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			// Same error for unknown email and wrong password.
			return nil, model.NewUserError(model.ErrCodeInvalidCredentials, "invalid email or password", model.ErrInvalidCredentials)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.NewUserError(model.ErrCodeInvalidCredentials, "invalid email or password", model.ErrInvalidCredentials)
	}

	return s.buildAuthResponse(user)
}

// =====================================================
// REFRESH
// =====================================================

// Refresh exchanges a valid refresh token for a fresh token pair.
// The user is reloaded so revoked accounts or role changes take
// effect on the next rotation.
func (s *userService) Refresh(ctx context.Context, req model.RefreshRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	claims, err := s.jwtManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, model.NewUserError(model.ErrCodeInvalidCredentials, "invalid refresh token", err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, model.NewUserError(model.ErrCodeInvalidCredentials, "invalid refresh token", err)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewUserError(model.ErrCodeInvalidCredentials, "invalid refresh token", err)
		}
		return nil, err
	}

	return s.buildAuthResponse(user)
}

// =====================================================
// PROFILE
// =====================================================

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewUserError(model.ErrCodeUserNotFound, "user not found", err)
		}
		return nil, err
	}

	resp := model.ToUserResponse(user)
	return &resp, nil
}

func (s *userService) buildAuthResponse(user *model.User) (*model.AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, model.NewUserError("USR500", "failed to generate access token", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID.String())
	if err != nil {
		return nil, model.NewUserError("USR500", "failed to generate refresh token", err)
	}

	return &model.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         model.ToUserResponse(user),
	}, nil
}
