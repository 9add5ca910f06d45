package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/stockroom-api/internal/config"
	"github.com/sangkips/stockroom-api/internal/domain/entity"
	"github.com/sangkips/stockroom-api/internal/domain/enum"
	"github.com/sangkips/stockroom-api/internal/domain/repository"
	"github.com/sangkips/stockroom-api/pkg/apperror"
	"github.com/sangkips/stockroom-api/pkg/pagination"
	"github.com/sangkips/stockroom-api/pkg/utils"
)

// UserService handles employee management operations
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers returns a paginated list of employees
func (s *UserService) ListUsers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.User], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	users, total, err := s.userRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	return pagination.NewPaginatedResult(users, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// GetUser returns a user by ID
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

// CreateUserInput represents the input for creating an employee
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// CreateUser adds an employee account
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error) {
	role, err := enum.ParseRole(input.Role)
	if err != nil {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "role", Message: "Role must be admin, cashier or planner"},
		})
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Password: hashedPassword,
		Role:     role,
		Active:   true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUserInput represents the input for changing an employee's role or status
type UpdateUserInput struct {
	ActorID uuid.UUID
	UserID  uuid.UUID
	Name    *string
	Role    *string
	Active  *bool
}

// UpdateUser changes an employee's name, role or active flag. Admins
// cannot demote or deactivate themselves.
func (s *UserService) UpdateUser(ctx context.Context, input *UpdateUserInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}

	self := input.ActorID == user.ID

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Role != nil {
		role, err := enum.ParseRole(*input.Role)
		if err != nil {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "role", Message: "Role must be admin, cashier or planner"},
			})
		}
		if self && role != user.Role {
			return nil, apperror.NewBadRequestError("You cannot change your own role")
		}
		user.Role = role
	}
	if input.Active != nil {
		if self && !*input.Active {
			return nil, apperror.NewBadRequestError("You cannot deactivate your own account")
		}
		user.Active = *input.Active
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser soft deletes a user
func (s *UserService) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return apperror.NewBadRequestError("You cannot delete your own account")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.ErrNotFound
	}

	return s.userRepo.Delete(ctx, userID)
}

// RoleInfo describes a role and what it grants
type RoleInfo struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// ListRoles returns all available roles
func (s *UserService) ListRoles() []RoleInfo {
	roles := []enum.Role{enum.RoleAdmin, enum.RoleCashier, enum.RolePlanner}
	out := make([]RoleInfo, 0, len(roles))
	for _, r := range roles {
		out = append(out, RoleInfo{Name: r.String(), Permissions: r.Permissions()})
	}
	return out
}

// EnsureAdmin creates the configured admin account if no user has that
// email yet. An empty email or password skips seeding.
func (s *UserService) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		log.Debug().Msg("admin seed skipped, ADMIN_EMAIL or ADMIN_PASSWORD not set")
		return nil
	}

	existing, err := s.userRepo.GetByEmail(ctx, strings.ToLower(cfg.Email))
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	name := cfg.Name
	if name == "" {
		name = "Administrator"
	}
	if _, err := s.CreateUser(ctx, &CreateUserInput{
		Name:     name,
		Email:    cfg.Email,
		Password: cfg.Password,
		Role:     enum.RoleAdmin.String(),
	}); err != nil {
		return err
	}

	log.Info().Str("email", cfg.Email).Msg("seeded admin user")
	return nil
}
