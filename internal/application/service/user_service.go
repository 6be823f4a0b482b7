package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/domain/entity"
	"github.com/sangkips/library-api/internal/domain/repository"
	"github.com/sangkips/library-api/pkg/apperror"
	"github.com/sangkips/library-api/pkg/pagination"
	"golang.org/x/crypto/bcrypt"
)

// minPasswordLength is the shortest password accepted for staff users.
const minPasswordLength = 8

// UserService handles staff user management operations
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UserInput represents the create/update user input. A blank Password on
// update keeps the current one.
type UserInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

func (s *UserService) validate(ctx context.Context, input *UserInput, self uuid.UUID, creating bool) error {
	var errs fieldErrors
	if strings.TrimSpace(input.Username) == "" {
		errs.add("username", "Username is required")
	}
	if !strings.Contains(input.Email, "@") {
		errs.add("email", "A valid email is required")
	}
	if (creating || input.Password != "") && len(input.Password) < minPasswordLength {
		errs.add("password", "Password must be at least %d characters", minPasswordLength)
	}
	if err := errs.err(); err != nil {
		return err
	}

	existing, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError("Username already taken")
	}
	existing, err = s.userRepo.GetByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError("Email already registered")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// CreateUser creates a staff user with a bcrypt-hashed password
func (s *UserService) CreateUser(ctx context.Context, input *UserInput) (*entity.User, error) {
	if err := s.validate(ctx, input, uuid.Nil, true); err != nil {
		return nil, err
	}
	hashed, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		Name:     strings.TrimSpace(input.Name),
		Username: strings.TrimSpace(input.Username),
		Email:    strings.TrimSpace(input.Email),
		Password: hashed,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, storeError("failed to create user", err, "Username or email already exists")
	}
	return user, nil
}

// GetUser returns a user by ID
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// UpdateUser updates a user
func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, input *UserInput) (*entity.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, input, id, false); err != nil {
		return nil, err
	}
	user.Name = strings.TrimSpace(input.Name)
	user.Username = strings.TrimSpace(input.Username)
	user.Email = strings.TrimSpace(input.Email)
	if input.Password != "" {
		if user.Password, err = hashPassword(input.Password); err != nil {
			return nil, err
		}
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, storeError("failed to update user", err, "Username or email already exists")
	}
	return user, nil
}

// DeleteUser soft deletes a user
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}
	return storeError("failed to delete user", s.userRepo.Delete(ctx, id), "")
}

// ListUsers returns a paginated list of users
func (s *UserService) ListUsers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.User], error) {
	params.Validate()
	users, total, err := s.userRepo.List(ctx, params, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return pagination.NewPaginatedResult(users, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}
