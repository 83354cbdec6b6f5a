package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/lead-service/internal/auth"
	"github.com/spec-kit/lead-service/internal/domain"
	"github.com/spec-kit/lead-service/internal/events"
	"github.com/spec-kit/lead-service/internal/repository"
	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

// OnboardingService registers realtors from the sales dashboard.
type OnboardingService struct {
	realtors   repository.RealtorRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// OnboardingDependencies bundles requirements for the onboarding service.
type OnboardingDependencies struct {
	RealtorRepo repository.RealtorRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
	BcryptCost  int
}

// RealtorRegisterInput describes the sales onboarding form.
type RealtorRegisterInput struct {
	AgentCode       string
	FirstName       string
	LastName        string
	PhoneNumber     string
	EmailAddress    string
	Brokerage       string
	State           string
	CentralZipCode  string
	Radius          int
	SignUpCategory  string
	TeamMembers     *int
	Password        string
	ConfirmPassword string
}

// NewOnboardingService constructs the service.
func NewOnboardingService(deps OnboardingDependencies) *OnboardingService {
	return &OnboardingService{
		realtors:   deps.RealtorRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		bcryptCost: deps.BcryptCost,
	}
}

// RegisterRealtor creates the profile and its login record in one
// transaction. The login starts inactive until support activates it.
func (s *OnboardingService) RegisterRealtor(ctx context.Context, input RealtorRegisterInput) (*domain.RealtorProfile, error) {
	if input.Password != input.ConfirmPassword {
		return nil, apperrors.NewValidationError("passwords do not match", nil)
	}
	email := strings.TrimSpace(strings.ToLower(input.EmailAddress))
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

	profile := &domain.RealtorProfile{
		AgentCode:      strings.TrimSpace(input.AgentCode),
		FirstName:      strings.TrimSpace(input.FirstName),
		LastName:       strings.TrimSpace(input.LastName),
		PhoneNumber:    strings.TrimSpace(input.PhoneNumber),
		EmailAddress:   email,
		Brokerage:      strings.TrimSpace(input.Brokerage),
		State:          strings.TrimSpace(input.State),
		CentralZipCode: strings.TrimSpace(input.CentralZipCode),
		Radius:         input.Radius,
		SignUpCategory: strings.TrimSpace(input.SignUpCategory),
		TeamMembers:    input.TeamMembers,
	}
	user := &domain.User{
		Email:        email,
		FirstName:    profile.FirstName,
		LastName:     profile.LastName,
		PasswordHash: hash,
		Role:         domain.RoleRealtor,
		IsActive:     false,
	}

	if err := s.realtors.CreateWithUser(ctx, profile, user); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventRealtorRegistered,
			Timestamp: time.Now(),
			Payload: events.RealtorRegisteredPayload{
				ProfileID: profile.ID,
				UserID:    user.ID,
				Email:     email,
			},
		})
	}
	return profile, nil
}

// ListRealtors returns profiles newest first with activation decorated from
// the linked login record.
func (s *OnboardingService) ListRealtors(ctx context.Context) ([]domain.RealtorListing, error) {
	return s.realtors.ListWithActivation(ctx)
}
