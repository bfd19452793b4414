package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/furniro/storefront/internal/config"
	apperrors "github.com/furniro/storefront/internal/errors"
	"github.com/furniro/storefront/internal/models"
	repository "github.com/furniro/storefront/internal/repositories"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RateLimiter interface {
	CheckLoginRateLimit(ctx context.Context, username string) (bool, int, int, error)
}

type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req *models.UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, req *models.ChangePasswordRequest) error
}

type userService struct {
	repo     repository.UserRepository
	limiter  RateLimiter
	security *config.Security
}

func NewUserService(repo repository.UserRepository, limiter RateLimiter, security *config.Security) UserService {
	return &userService{
		repo:     repo,
		limiter:  limiter,
		security: security,
	}
}

func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {

	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.Phone)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.InternalError("Failed to process password").WithError(err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Phone:    phone,
		Password: string(hash),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			switch repository.UniqueConstraint(err) {
			case "users_phone_key":
				return nil, apperrors.DuplicateEntryError("User with this phone number already exists").WithError(err)
			default:
				return nil, apperrors.DuplicateEntryError("User with this email already exists").WithError(err)
			}
		}

		return nil, apperrors.DatabaseError("Failed to create user").WithError(err)
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.WarnContext(ctx, "failed to record last login", slog.String("user_id", user.ID.String()), slog.String("error", err.Error()))
	}

	return s.issueToken(user)
}

func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {

	email := strings.ToLower(strings.TrimSpace(req.Email))

	allowed, _, retryAfter, err := s.limiter.CheckLoginRateLimit(ctx, email)
	if err != nil {
		// A limiter outage must not lock everyone out.
		slog.WarnContext(ctx, "login rate limiter unavailable", slog.String("error", err.Error()))
	} else if !allowed {
		return nil, apperrors.TooManyRequestsError("Too many login attempts. Please try again later.").
			WithDetail(fmt.Sprintf("Retry after %d seconds", retryAfter))
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.UnauthorizedError("Invalid email or password").WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to fetch user").WithError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.UnauthorizedError("Invalid email or password").WithError(err)
	}

	if !user.IsActive {
		return nil, apperrors.UnauthorizedError("Account has been deactivated. Please contact support.")
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.WarnContext(ctx, "failed to record last login", slog.String("user_id", user.ID.String()), slog.String("error", err.Error()))
	}

	return s.issueToken(user)
}

func (s *userService) GetProfile(ctx context.Context, id uuid.UUID) (*models.User, error) {

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundError("User not found").WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to fetch user").WithError(err)
	}

	if !user.IsActive {
		return nil, apperrors.UnauthorizedError("Account has been deactivated. Please contact support.")
	}

	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, req *models.UpdateProfileRequest) (*models.User, error) {

	user, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}

	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}

	if req.Address != nil {
		user.Address = req.Address
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundError("User not found").WithError(err)
		}

		if repository.IsUniqueViolation(err) {
			return nil, apperrors.DuplicateEntryError("User with this phone number already exists").WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to update profile").WithError(err)
	}

	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, id uuid.UUID, req *models.ChangePasswordRequest) error {

	user, err := s.GetProfile(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return apperrors.UnauthorizedError("Current password is incorrect").WithError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.InternalError("Failed to process password").WithError(err)
	}

	if err := s.repo.UpdatePassword(ctx, id, string(hash)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFoundError("User not found").WithError(err)
		}

		return apperrors.DatabaseError("Failed to update password").WithError(err)
	}

	return nil
}

func (s *userService) issueToken(user *models.User) (*models.AuthResponse, error) {

	now := time.Now()

	claims := &models.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.security.TokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.security.JWTKey))
	if err != nil {
		return nil, apperrors.InternalError("Failed to sign token").WithError(err)
	}

	// never echo the hash
	user.Password = ""

	return &models.AuthResponse{
		Token:     token,
		ExpiresIn: int(s.security.TokenTTL.Seconds()),
		User:      user,
	}, nil
}
