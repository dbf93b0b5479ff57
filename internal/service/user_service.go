package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bitzerlab/ordertrack/internal/entity"
	"github.com/bitzerlab/ordertrack/internal/repository"
)

// UserService manages operator accounts (admin area).
type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserRequest is the admin POST /admin/users body.
type CreateUserRequest struct {
	Name     string `json:"name"`
	BitzerID *int64 `json:"bitzer_id"`
	IsAdmin  bool   `json:"is_admin"`
}

// UpdateUserRequest is the admin PATCH body.
type UpdateUserRequest struct {
	Name     Nullable[string] `json:"name"`
	BitzerID Nullable[int64]  `json:"bitzer_id"`
	Active   Nullable[bool]   `json:"active"`
	IsAdmin  Nullable[bool]   `json:"is_admin"`
}

// List returns users, optionally only active ones.
func (s *UserService) List(ctx context.Context, activeOnly bool) ([]entity.User, error) {
	return s.userRepo.List(ctx, activeOnly)
}

// Get returns one user by id.
func (s *UserService) Get(ctx context.Context, id int64) (*entity.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// Create inserts a new user account.
func (s *UserService) Create(ctx context.Context, req *CreateUserRequest) (*entity.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationf("Name is required")
	}

	user := &entity.User{
		Name:     name,
		BitzerID: req.BitzerID,
		Active:   true,
		IsAdmin:  req.IsAdmin,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Update applies a partial update to a user account.
func (s *UserService) Update(ctx context.Context, id int64, req *UpdateUserRequest) (*entity.User, error) {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	values := map[string]interface{}{}
	if req.Name.Set {
		if !req.Name.Valid || strings.TrimSpace(req.Name.Value) == "" {
			return nil, validationf("Name is required")
		}
		values["name"] = strings.TrimSpace(req.Name.Value)
	}
	if req.BitzerID.Set {
		values["bitzer_id"] = req.BitzerID.Ptr()
	}
	if req.Active.Set {
		if !req.Active.Valid {
			return nil, validationf("Active flag cannot be null")
		}
		values["active"] = req.Active.Value
	}
	if req.IsAdmin.Set {
		if !req.IsAdmin.Valid {
			return nil, validationf("Admin flag cannot be null")
		}
		values["is_admin"] = req.IsAdmin.Value
	}

	if len(values) > 0 {
		if err := s.userRepo.Updates(ctx, id, values); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}
	return s.userRepo.FindByID(ctx, id)
}
