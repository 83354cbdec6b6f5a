package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/lead-service/internal/domain"
	"github.com/spec-kit/lead-service/internal/events"
	"github.com/spec-kit/lead-service/internal/repository"
	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

// AssignmentService coordinates the support assignment workflow and the
// realtor's follow-up updates.
type AssignmentService struct {
	leads       repository.LeadRepository
	users       repository.UserRepository
	assignments repository.AssignmentRepository
	dispatcher  events.Dispatcher
}

// AssignmentDependencies bundles repositories for the assignment service.
type AssignmentDependencies struct {
	LeadRepo       repository.LeadRepository
	UserRepo       repository.UserRepository
	AssignmentRepo repository.AssignmentRepository
	Dispatcher     events.Dispatcher
}

// AcceptedLead is a lead decorated with its assignment history for the
// support dashboard.
type AcceptedLead struct {
	Lead        domain.Lead
	Assignments []domain.AssignmentRecord
}

// NewAssignmentService constructs the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		leads:       deps.LeadRepo,
		users:       deps.UserRepo,
		assignments: deps.AssignmentRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// ListAcceptedLeads returns accepted leads newest first, each with who it
// was sent to and when.
func (s *AssignmentService) ListAcceptedLeads(ctx context.Context) ([]AcceptedLead, error) {
	leads, err := s.leads.ListWithFilter(ctx, repository.LeadFilter{
		Statuses: []domain.LeadStatus{domain.LeadStatusAccepted},
	})
	if err != nil {
		return nil, err
	}

	result := make([]AcceptedLead, 0, len(leads))
	for _, lead := range leads {
		records, err := s.assignments.ListByLead(ctx, lead.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, AcceptedLead{Lead: lead, Assignments: records})
	}
	return result, nil
}

// ListRealtors returns realtor users, optionally only active ones.
func (s *AssignmentService) ListRealtors(ctx context.Context, activeOnly bool) ([]domain.User, error) {
	return s.users.ListByRole(ctx, domain.RoleRealtor, activeOnly)
}

// AssignLead creates one assignment row for an accepted lead. Re-sending the
// same lead to the same realtor is legal and makes a second row.
func (s *AssignmentService) AssignLead(ctx context.Context, actor *domain.User, leadID, realtorUserID string) (*domain.LeadAssignment, error) {
	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("lead", map[string]any{"id": leadID})
		}
		return nil, err
	}
	if lead.Status != domain.LeadStatusAccepted {
		return nil, apperrors.NewConflict("lead is not accepted", map[string]any{"status": lead.Status})
	}

	realtor, err := s.users.GetByID(ctx, realtorUserID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("realtor", map[string]any{"id": realtorUserID})
		}
		return nil, err
	}
	if realtor.Role != domain.RoleRealtor {
		return nil, apperrors.NewValidationError("user is not a realtor", map[string]any{"role": realtor.Role})
	}
	if !realtor.IsActive {
		return nil, apperrors.NewConflict("realtor is inactive", nil)
	}

	assignment := &domain.LeadAssignment{
		LeadID: lead.ID,
		UserID: realtor.ID,
		Status: domain.AssignmentStatusAssigned,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:   events.EventLeadAssigned,
		LeadID: lead.ID,
		Actor:  userActor(actor),
		Payload: events.LeadAssignedPayload{
			AssignmentID:  assignment.ID,
			RealtorUserID: realtor.ID,
		},
	})
	return assignment, nil
}

// SetRealtorActive flips the activation flag on a realtor's login record.
func (s *AssignmentService) SetRealtorActive(ctx context.Context, realtorUserID string, active bool) error {
	realtor, err := s.users.GetByID(ctx, realtorUserID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("realtor", map[string]any{"id": realtorUserID})
		}
		return err
	}
	if realtor.Role != domain.RoleRealtor {
		return apperrors.NewValidationError("user is not a realtor", map[string]any{"role": realtor.Role})
	}
	return s.users.UpdateActive(ctx, realtorUserID, active)
}

// ListMyAssignments returns the caller's assignments joined with their leads.
func (s *AssignmentService) ListMyAssignments(ctx context.Context, realtorUserID string) ([]domain.AssignmentWithLead, error) {
	return s.assignments.ListByRealtorWithLead(ctx, realtorUserID)
}

// UpdateAssignment writes follow-up status and comments in one statement.
// Only the assigned realtor may touch the row.
func (s *AssignmentService) UpdateAssignment(ctx context.Context, actor *domain.User, assignmentID string, status domain.AssignmentStatus, comments string) (*domain.LeadAssignment, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid assignment status", map[string]any{"status": status})
	}
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("assignment", map[string]any{"id": assignmentID})
		}
		return nil, err
	}
	if actor == nil || assignment.UserID != actor.ID {
		return nil, apperrors.NewForbidden("assignment belongs to another realtor")
	}

	oldStatus := assignment.Status
	if err := s.assignments.UpdateFollowUp(ctx, assignmentID, status, comments); err != nil {
		return nil, err
	}
	assignment.Status = status
	assignment.Comments = comments
	s.publishEvent(ctx, events.Event{
		Type:   events.EventAssignmentUpdated,
		LeadID: assignment.LeadID,
		Actor:  userActor(actor),
		Payload: events.AssignmentUpdatedPayload{
			AssignmentID: assignment.ID,
			OldStatus:    oldStatus,
			NewStatus:    status,
			Comments:     comments,
		},
	})
	return assignment, nil
}

func (s *AssignmentService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
