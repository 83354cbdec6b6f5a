package service

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/lead-service/internal/domain"
	"github.com/spec-kit/lead-service/internal/events"
	"github.com/spec-kit/lead-service/internal/repository"
	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

const (
	leadRefAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	leadRefLength     = 4
	leadRefAttempts   = 8
	leadRefReserveTTL = time.Minute
)

// LeadRefReserver claims a generated lead ref for a short window so two
// concurrent intakes cannot race to the same ref before either row lands.
type LeadRefReserver interface {
	Reserve(ctx context.Context, ref string, ttl time.Duration) (bool, error)
}

// LeadService coordinates intake, QA review and admin edits.
type LeadService struct {
	leads      repository.LeadRepository
	reserver   LeadRefReserver
	dispatcher events.Dispatcher
}

// LeadDependencies bundles requirements for the lead service.
type LeadDependencies struct {
	LeadRepo   repository.LeadRepository
	Reserver   LeadRefReserver
	Dispatcher events.Dispatcher
}

// LeadCreateInput describes the intake form payload.
type LeadCreateInput struct {
	FirstName          string
	LastName           string
	PhoneNumber        string
	EmailAddress       string
	PropertyAddress    string
	City               string
	State              string
	ZipCode            string
	IsHomeOwner        bool
	PropertyValue      float64
	HasRealtorContract bool
}

// LeadListFilter describes dashboard listing filters.
type LeadListFilter struct {
	Statuses      []domain.LeadStatus
	SearchTerm    *string
	SubmittedFrom *time.Time
	SubmittedTo   *time.Time
	Limit         int
	Offset        int
}

// LeadUpdateInput is the admin allow-list edit. LeadRef and submission date
// are never part of it.
type LeadUpdateInput struct {
	FirstName          string
	LastName           string
	PhoneNumber        string
	EmailAddress       string
	PropertyAddress    string
	City               string
	State              string
	ZipCode            string
	IsHomeOwner        bool
	PropertyValue      float64
	HasRealtorContract bool
	Status             domain.LeadStatus
}

// NewLeadService constructs the service.
func NewLeadService(deps LeadDependencies) *LeadService {
	return &LeadService{
		leads:      deps.LeadRepo,
		reserver:   deps.Reserver,
		dispatcher: deps.Dispatcher,
	}
}

// CreateLead persists a new submission with status pending and a fresh ref.
func (s *LeadService) CreateLead(ctx context.Context, input LeadCreateInput) (*domain.Lead, error) {
	ref, err := s.nextLeadRef(ctx)
	if err != nil {
		return nil, err
	}

	lead := &domain.Lead{
		LeadRef:            ref,
		FirstName:          strings.TrimSpace(input.FirstName),
		LastName:           strings.TrimSpace(input.LastName),
		PhoneNumber:        strings.TrimSpace(input.PhoneNumber),
		EmailAddress:       strings.TrimSpace(input.EmailAddress),
		PropertyAddress:    strings.TrimSpace(input.PropertyAddress),
		City:               strings.TrimSpace(input.City),
		State:              strings.TrimSpace(input.State),
		ZipCode:            strings.TrimSpace(input.ZipCode),
		IsHomeOwner:        input.IsHomeOwner,
		PropertyValue:      input.PropertyValue,
		HasRealtorContract: input.HasRealtorContract,
		Status:             domain.LeadStatusPending,
	}

	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:   events.EventLeadCreated,
		LeadID: lead.ID,
		Payload: events.LeadCreatedPayload{
			LeadRef:       lead.LeadRef,
			City:          lead.City,
			State:         lead.State,
			PropertyValue: lead.PropertyValue,
		},
	})
	return lead, nil
}

// ListLeads returns leads ordered by submission date, newest first.
func (s *LeadService) ListLeads(ctx context.Context, filter LeadListFilter) ([]domain.Lead, error) {
	for _, status := range filter.Statuses {
		if !status.Valid() {
			return nil, apperrors.NewValidationError("invalid lead status", map[string]any{"status": status})
		}
	}
	return s.leads.ListWithFilter(ctx, repository.LeadFilter{
		Statuses:      filter.Statuses,
		SearchTerm:    filter.SearchTerm,
		SubmittedFrom: filter.SubmittedFrom,
		SubmittedTo:   filter.SubmittedTo,
		Limit:         filter.Limit,
		Offset:        filter.Offset,
	})
}

// GetLead fetches one lead.
func (s *LeadService) GetLead(ctx context.Context, id string) (*domain.Lead, error) {
	return s.leads.GetByID(ctx, id)
}

// SetStatus moves a lead to any status in the closed set. Transitions are
// unrestricted: QA and admins may revert at will.
func (s *LeadService) SetStatus(ctx context.Context, actor *domain.User, id string, status domain.LeadStatus) (*domain.Lead, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid lead status", map[string]any{"status": status})
	}
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldStatus := lead.Status
	if err := s.leads.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	lead.Status = status
	s.publishEvent(ctx, events.Event{
		Type:   events.EventLeadStatusChanged,
		LeadID: lead.ID,
		Actor:  userActor(actor),
		Payload: events.LeadStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
		},
	})
	return lead, nil
}

// SetRecording attaches or clears the QA recording URL.
func (s *LeadService) SetRecording(ctx context.Context, id, recording string) (*domain.Lead, error) {
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	value := recordingValue(recording)
	if err := s.leads.UpdateRecording(ctx, id, value); err != nil {
		return nil, err
	}
	lead.Recording = value
	return lead, nil
}

// Review writes status and recording in one statement, replacing the two
// separate writes a combined QA edit used to take.
func (s *LeadService) Review(ctx context.Context, actor *domain.User, id string, status domain.LeadStatus, recording string) (*domain.Lead, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid lead status", map[string]any{"status": status})
	}
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldStatus := lead.Status
	value := recordingValue(recording)
	if err := s.leads.UpdateReview(ctx, id, status, value); err != nil {
		return nil, err
	}
	lead.Status = status
	lead.Recording = value
	if oldStatus != status {
		s.publishEvent(ctx, events.Event{
			Type:   events.EventLeadStatusChanged,
			LeadID: lead.ID,
			Actor:  userActor(actor),
			Payload: events.LeadStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: status,
			},
		})
	}
	return lead, nil
}

// UpdateLead overwrites the editable field set of a lead.
func (s *LeadService) UpdateLead(ctx context.Context, actor *domain.User, id string, input LeadUpdateInput) (*domain.Lead, error) {
	if !input.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid lead status", map[string]any{"status": input.Status})
	}
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldStatus := lead.Status

	lead.FirstName = input.FirstName
	lead.LastName = input.LastName
	lead.PhoneNumber = input.PhoneNumber
	lead.EmailAddress = input.EmailAddress
	lead.PropertyAddress = input.PropertyAddress
	lead.City = input.City
	lead.State = input.State
	lead.ZipCode = input.ZipCode
	lead.IsHomeOwner = input.IsHomeOwner
	lead.PropertyValue = input.PropertyValue
	lead.HasRealtorContract = input.HasRealtorContract
	lead.Status = input.Status

	if err := s.leads.Update(ctx, lead); err != nil {
		return nil, err
	}
	if oldStatus != lead.Status {
		s.publishEvent(ctx, events.Event{
			Type:   events.EventLeadStatusChanged,
			LeadID: lead.ID,
			Actor:  userActor(actor),
			Payload: events.LeadStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: lead.Status,
			},
		})
	}
	return lead, nil
}

// DeleteLead removes the lead and its assignment rows together.
func (s *LeadService) DeleteLead(ctx context.Context, id string) error {
	return s.leads.DeleteCascade(ctx, id)
}

// nextLeadRef draws 4-character refs until one is both unclaimed in Redis
// and absent from the table. When Redis is unreachable the table check alone
// decides.
func (s *LeadService) nextLeadRef(ctx context.Context) (string, error) {
	for attempt := 0; attempt < leadRefAttempts; attempt++ {
		ref := generateLeadRef()
		if s.reserver != nil {
			reserved, err := s.reserver.Reserve(ctx, ref, leadRefReserveTTL)
			if err == nil && !reserved {
				continue
			}
		}
		exists, err := s.leads.ExistsByLeadRef(ctx, ref)
		if err != nil {
			return "", err
		}
		if !exists {
			return ref, nil
		}
	}
	return "", apperrors.NewConflict("could not allocate a lead reference", nil)
}

func generateLeadRef() string {
	buf := make([]byte, leadRefLength)
	for i := range buf {
		buf[i] = leadRefAlphabet[rand.Intn(len(leadRefAlphabet))]
	}
	return string(buf)
}

func recordingValue(recording string) *string {
	trimmed := strings.TrimSpace(recording)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *LeadService) publishEvent(ctx context.Context, event events.Event) {
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

func userActor(user *domain.User) events.Actor {
	if user == nil {
		return events.Actor{}
	}
	id := user.ID
	role := user.Role
	return events.Actor{UserID: &id, Role: &role}
}
