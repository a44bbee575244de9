package service

import (
	"context"
	"errors"

	"restaurant-pos/internal/middleware"
	"restaurant-pos/internal/model"
	"restaurant-pos/internal/repository"
	"restaurant-pos/pkg/apperr"

	"golang.org/x/crypto/bcrypt"
)

// DTOs for request validation
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type UpdateUserRequest struct {
	Password string `json:"password" binding:"omitempty,min=6"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse returns a user without exposing the password hash.
type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// UserService defines business logic for staff accounts and login.
type UserService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	GetUserByID(ctx context.Context, id uint) (*UserResponse, error)
	ListUsers(ctx context.Context, offset, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, id uint, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, id uint, callerUsername string) error
	EnsureBootstrapAdmin(ctx context.Context, username, password string) error
}

type userService struct {
	users repository.UserRepository
	roles repository.RoleRepository
}

func NewUserService(users repository.UserRepository, roles repository.RoleRepository) UserService {
	return &userService{users: users, roles: roles}
}

func mapToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Name:      user.Name,
		CreatedAt: user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: user.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Wrap(apperr.ErrUnauthorized, "invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperr.Wrap(apperr.ErrUnauthorized, "invalid credentials")
	}

	token, err := middleware.SignToken(user.Username, user.Role, user.Name)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{Token: token, User: *mapToUserResponse(user)}, nil
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	// Role must exist in the catalog before an account can carry it.
	if _, err := s.roles.GetRoleByName(ctx, req.Role); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Wrapf(apperr.ErrValidation, "role '%s' does not exist", req.Role)
		}
		return nil, err
	}

	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
		return nil, apperr.Wrapf(apperr.ErrConflict, "username '%s' is already taken", req.Username)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: req.Username,
		Password: string(hashed),
		Role:     req.Role,
		Name:     req.Name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return mapToUserResponse(user), nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapToUserResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, offset, limit int) ([]UserResponse, int64, error) {
	users, total, err := s.users.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]UserResponse, 0, len(users))
	for i := range users {
		res = append(res, *mapToUserResponse(&users[i]))
	}
	return res, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uint, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Role != "" && req.Role != user.Role {
		if _, err := s.roles.GetRoleByName(ctx, req.Role); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return nil, apperr.Wrapf(apperr.ErrValidation, "role '%s' does not exist", req.Role)
			}
			return nil, err
		}
		user.Role = req.Role
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return mapToUserResponse(user), nil
}

// DeleteUser removes an account. Callers cannot delete themselves.
func (s *userService) DeleteUser(ctx context.Context, id uint, callerUsername string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Username == callerUsername {
		return apperr.Wrap(apperr.ErrValidation, "Cannot delete your own account")
	}
	return s.users.Delete(ctx, id)
}

// EnsureBootstrapAdmin creates the initial admin account when the user
// table is empty. No-op otherwise.
func (s *userService) EnsureBootstrapAdmin(ctx context.Context, username, password string) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.Create(ctx, &model.User{
		Username: username,
		Password: string(hashed),
		Role:     model.AdminRole,
		Name:     "Administrator",
	})
}
