package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitzerlab/ordertrack/internal/config"
	"github.com/bitzerlab/ordertrack/internal/entity"
	"github.com/bitzerlab/ordertrack/internal/middleware"
	"github.com/bitzerlab/ordertrack/internal/repository"
	"github.com/golang-jwt/jwt/v5"
)

// AuthService is the development auth stub: it looks a user up by id or
// name and hands out a signed token with the admin flag baked in. There is
// no password check and no server-side session; this is not a security
// boundary.
type AuthService struct {
	userRepo *repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{userRepo: userRepo, cfg: cfg}
}

// LoginRequest identifies the user to impersonate.
type LoginRequest struct {
	UserID *int64 `json:"user_id"`
	Name   string `json:"name"`
}

// LoginResult carries the token and the user it represents.
type LoginResult struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *entity.User `json:"user"`
}

// Login resolves the requested user and issues a token.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	var (
		user *entity.User
		err  error
	)
	switch {
	case req.UserID != nil:
		user, err = s.userRepo.FindByID(ctx, *req.UserID)
	case req.Name != "":
		user, err = s.userRepo.FindByName(ctx, req.Name)
	default:
		return nil, validationf("user_id or name is required")
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, validationf("User not found")
		}
		return nil, err
	}
	if !user.Active {
		return nil, validationf("User is inactive")
	}

	expire := s.cfg.JWT.AccessTokenExpire
	if expire <= 0 {
		expire = 24 * time.Hour
	}

	now := time.Now()
	claims := middleware.Claims{
		UserID:   user.ID,
		Name:     user.Name,
		BitzerID: user.BitzerID,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.JWT.Issuer,
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &LoginResult{
		AccessToken: signed,
		ExpiresIn:   int64(expire.Seconds()),
		User:        user,
	}, nil
}

// Me returns the user behind a validated token.
func (s *AuthService) Me(ctx context.Context, userID int64) (*entity.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}
