package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/lead-service/internal/auth"
	"github.com/spec-kit/lead-service/internal/domain"
	"github.com/spec-kit/lead-service/internal/repository"
	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

// RecordType tags the target of a super-admin hard delete.
type RecordType string

const (
	RecordTypeLead       RecordType = "lead"
	RecordTypeUser       RecordType = "user"
	RecordTypeAssignment RecordType = "assignment"
)

// AdminService covers user management and super-admin record deletion.
type AdminService struct {
	users       repository.UserRepository
	leads       repository.LeadRepository
	assignments repository.AssignmentRepository
	bcryptCost  int
}

// AdminDependencies bundles repositories for the admin service.
type AdminDependencies struct {
	UserRepo       repository.UserRepository
	LeadRepo       repository.LeadRepository
	AssignmentRepo repository.AssignmentRepository
	BcryptCost     int
}

// UserCreateInput describes the super-admin add-user form.
type UserCreateInput struct {
	Email     string
	FirstName string
	LastName  string
	Role      domain.Role
	Password  string
}

// NewAdminService constructs the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	return &AdminService{
		users:       deps.UserRepo,
		leads:       deps.LeadRepo,
		assignments: deps.AssignmentRepo,
		bcryptCost:  deps.BcryptCost,
	}
}

// ListUsers returns all login accounts.
func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// AddUser creates an account, active by default.
func (s *AdminService) AddUser(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("email and password required", nil)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: hash,
		Role:         input.Role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUserRole changes a single account's role.
func (s *AdminService) UpdateUserRole(ctx context.Context, userID string, role domain.Role) error {
	if !role.Valid() {
		return apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}
	return s.users.UpdateRole(ctx, userID, role)
}

// UpdateUserStatus flips an account's activation flag.
func (s *AdminService) UpdateUserStatus(ctx context.Context, userID string, active bool) error {
	return s.users.UpdateActive(ctx, userID, active)
}

// DeleteUser removes an account together with its realtor profile and reset
// tokens. Accounts that still own assignment rows are refused: those rows are
// the realtor's work record, and dropping them silently would lose it.
func (s *AdminService) DeleteUser(ctx context.Context, userID string) error {
	count, err := s.assignments.CountByUser(ctx, userID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.NewConflict("user has lead assignments", map[string]any{"assignments": count})
	}
	return s.users.DeleteCascade(ctx, userID)
}

// DeleteRecord dispatches a hard delete by type tag.
func (s *AdminService) DeleteRecord(ctx context.Context, recordType RecordType, id string) error {
	switch recordType {
	case RecordTypeLead:
		return s.leads.DeleteCascade(ctx, id)
	case RecordTypeUser:
		return s.DeleteUser(ctx, id)
	case RecordTypeAssignment:
		return s.assignments.Delete(ctx, id)
	default:
		return apperrors.NewValidationError("invalid record type", map[string]any{"type": recordType})
	}
}
