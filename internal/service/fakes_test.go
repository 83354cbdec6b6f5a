package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/lead-service/internal/domain"
	"github.com/spec-kit/lead-service/internal/events"
	"github.com/spec-kit/lead-service/internal/repository"
)

// In-memory repository fakes shared by the service tests.

type fakeLeadRepo struct {
	mu     sync.Mutex
	nextID int
	leads  map[string]*domain.Lead
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{leads: map[string]*domain.Lead{}}
}

func (r *fakeLeadRepo) Create(ctx context.Context, lead *domain.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	lead.ID = fmt.Sprintf("lead-%d", r.nextID)
	now := time.Now()
	lead.SubmissionDate = now
	lead.CreatedAt = now
	lead.UpdatedAt = now
	stored := *lead
	r.leads[lead.ID] = &stored
	return nil
}

func (r *fakeLeadRepo) Update(ctx context.Context, lead *domain.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.leads[lead.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *lead
	r.leads[lead.ID] = &stored
	return nil
}

func (r *fakeLeadRepo) UpdateStatus(ctx context.Context, id string, status domain.LeadStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.leads[id]
	if !ok {
		return pgx.ErrNoRows
	}
	lead.Status = status
	return nil
}

func (r *fakeLeadRepo) UpdateRecording(ctx context.Context, id string, recording *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.leads[id]
	if !ok {
		return pgx.ErrNoRows
	}
	lead.Recording = recording
	return nil
}

func (r *fakeLeadRepo) UpdateReview(ctx context.Context, id string, status domain.LeadStatus, recording *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.leads[id]
	if !ok {
		return pgx.ErrNoRows
	}
	lead.Status = status
	lead.Recording = recording
	return nil
}

func (r *fakeLeadRepo) DeleteCascade(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.leads[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.leads, id)
	return nil
}

func (r *fakeLeadRepo) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.leads[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *lead
	return &copied, nil
}

func (r *fakeLeadRepo) ExistsByLeadRef(ctx context.Context, leadRef string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, lead := range r.leads {
		if lead.LeadRef == leadRef {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLeadRepo) ListWithFilter(ctx context.Context, filter repository.LeadFilter) ([]domain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Lead
	for _, lead := range r.leads {
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, lead.Status) {
			continue
		}
		if filter.SearchTerm != nil {
			term := strings.ToLower(*filter.SearchTerm)
			haystack := strings.ToLower(lead.FirstName + " " + lead.LastName + " " + lead.LeadRef + " " + lead.EmailAddress)
			if !strings.Contains(haystack, term) {
				continue
			}
		}
		result = append(result, *lead)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SubmissionDate.After(result[j].SubmissionDate)
	})
	return result, nil
}

func containsStatus(statuses []domain.LeadStatus, status domain.LeadStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[string]*domain.User

	// Rows referencing users, removed alongside the user on cascade delete
	// the way the FK-ordered transaction does.
	realtors *fakeRealtorRepo
	resets   *fakeResetRepo
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Role = role
	return nil
}

func (r *fakeUserRepo) UpdateActive(ctx context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.IsActive = active
	return nil
}

func (r *fakeUserRepo) DeleteCascade(ctx context.Context, id string) error {
	r.mu.Lock()
	_, ok := r.users[id]
	r.mu.Unlock()
	if !ok {
		return pgx.ErrNoRows
	}
	if r.realtors != nil {
		r.realtors.deleteByUser(id)
	}
	if r.resets != nil {
		r.resets.deleteByUser(id)
	}
	r.mu.Lock()
	delete(r.users, id)
	r.mu.Unlock()
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(ctx context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.User
	for _, user := range r.users {
		result = append(result, *user)
	}
	return result, nil
}

func (r *fakeUserRepo) ListByRole(ctx context.Context, role domain.Role, activeOnly bool) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.User
	for _, user := range r.users {
		if user.Role != role {
			continue
		}
		if activeOnly && !user.IsActive {
			continue
		}
		result = append(result, *user)
	}
	return result, nil
}

type fakeRealtorRepo struct {
	mu       sync.Mutex
	nextID   int
	profiles map[string]*domain.RealtorProfile
	users    *fakeUserRepo
	failTx   bool
}

func newFakeRealtorRepo(users *fakeUserRepo) *fakeRealtorRepo {
	return &fakeRealtorRepo{profiles: map[string]*domain.RealtorProfile{}, users: users}
}

func (r *fakeRealtorRepo) CreateWithUser(ctx context.Context, profile *domain.RealtorProfile, user *domain.User) error {
	if r.failTx {
		return fmt.Errorf("tx aborted")
	}
	if err := r.users.Create(ctx, user); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	profile.ID = fmt.Sprintf("profile-%d", r.nextID)
	profile.UserID = user.ID
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	stored := *profile
	r.profiles[profile.ID] = &stored
	return nil
}

func (r *fakeRealtorRepo) deleteByUser(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, profile := range r.profiles {
		if profile.UserID == userID {
			delete(r.profiles, id)
		}
	}
}

func (r *fakeRealtorRepo) GetByID(ctx context.Context, id string) (*domain.RealtorProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *profile
	return &copied, nil
}

func (r *fakeRealtorRepo) ListWithActivation(ctx context.Context) ([]domain.RealtorListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.RealtorListing
	for _, profile := range r.profiles {
		listing := domain.RealtorListing{RealtorProfile: *profile}
		if user, err := r.users.GetByID(ctx, profile.UserID); err == nil {
			listing.IsActive = user.IsActive
		}
		result = append(result, listing)
	}
	return result, nil
}

type fakeAssignmentRepo struct {
	mu          sync.Mutex
	nextID      int
	assignments map[string]*domain.LeadAssignment
	users       *fakeUserRepo
}

func newFakeAssignmentRepo(users *fakeUserRepo) *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: map[string]*domain.LeadAssignment{}, users: users}
}

func (r *fakeAssignmentRepo) Create(ctx context.Context, assignment *domain.LeadAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	assignment.ID = fmt.Sprintf("assignment-%d", r.nextID)
	now := time.Now()
	assignment.SentDate = now
	assignment.CreatedAt = now
	assignment.UpdatedAt = now
	stored := *assignment
	r.assignments[assignment.ID] = &stored
	return nil
}

func (r *fakeAssignmentRepo) UpdateFollowUp(ctx context.Context, id string, status domain.AssignmentStatus, comments string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignment, ok := r.assignments[id]
	if !ok {
		return pgx.ErrNoRows
	}
	assignment.Status = status
	assignment.Comments = comments
	return nil
}

func (r *fakeAssignmentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.assignments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.assignments, id)
	return nil
}

func (r *fakeAssignmentRepo) GetByID(ctx context.Context, id string) (*domain.LeadAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignment, ok := r.assignments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *assignment
	return &copied, nil
}

func (r *fakeAssignmentRepo) ListByLead(ctx context.Context, leadID string) ([]domain.AssignmentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.AssignmentRecord
	for _, assignment := range r.assignments {
		if assignment.LeadID != leadID {
			continue
		}
		record := domain.AssignmentRecord{
			ID:       assignment.ID,
			SentDate: assignment.SentDate,
			Status:   assignment.Status,
		}
		if user, err := r.users.GetByID(ctx, assignment.UserID); err == nil {
			record.RealtorFirstName = user.FirstName
			record.RealtorLastName = user.LastName
		}
		result = append(result, record)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SentDate.After(result[j].SentDate)
	})
	return result, nil
}

func (r *fakeAssignmentRepo) ListByRealtorWithLead(ctx context.Context, userID string) ([]domain.AssignmentWithLead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.AssignmentWithLead
	for _, assignment := range r.assignments {
		if assignment.UserID != userID {
			continue
		}
		result = append(result, domain.AssignmentWithLead{LeadAssignment: *assignment})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SentDate.After(result[j].SentDate)
	})
	return result, nil
}

func (r *fakeAssignmentRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, assignment := range r.assignments {
		if assignment.UserID == userID {
			count++
		}
	}
	return count, nil
}

type fakeResetRepo struct {
	mu     sync.Mutex
	nextID int
	tokens map[string]*repository.PasswordResetToken
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: map[string]*repository.PasswordResetToken{}}
}

func (r *fakeResetRepo) Create(ctx context.Context, token *repository.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	token.ID = fmt.Sprintf("reset-%d", r.nextID)
	token.CreatedAt = time.Now()
	stored := *token
	r.tokens[token.ID] = &stored
	return nil
}

func (r *fakeResetRepo) GetByToken(ctx context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.Token == tokenStr {
			copied := *token
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeResetRepo) deleteByUser(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, token := range r.tokens {
		if token.UserID == userID {
			delete(r.tokens, id)
		}
	}
}

func (r *fakeResetRepo) MarkUsed(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	token.UsedAt = &now
	return nil
}

// fakeReserver scripts the reservation outcome per call.
type fakeReserver struct {
	mu      sync.Mutex
	calls   int
	denials int
	err     error
}

func (r *fakeReserver) Reserve(ctx context.Context, ref string, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return false, r.err
	}
	if r.calls <= r.denials {
		return false, nil
	}
	return true, nil
}

// captureDispatcher records every published event.
type captureDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *captureDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *captureDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *captureDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var result []events.Event
	for _, event := range d.events {
		if event.Type == eventType {
			result = append(result, event)
		}
	}
	return result
}
