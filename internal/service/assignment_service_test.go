package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/lead-service/internal/domain"
	"github.com/spec-kit/lead-service/internal/events"
	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

type assignmentFixture struct {
	svc         *AssignmentService
	leadSvc     *LeadService
	leads       *fakeLeadRepo
	users       *fakeUserRepo
	assignments *fakeAssignmentRepo
	dispatcher  *captureDispatcher
	support     *domain.User
	realtor     *domain.User
}

func newAssignmentFixture(t *testing.T) *assignmentFixture {
	t.Helper()
	leads := newFakeLeadRepo()
	users := newFakeUserRepo()
	assignments := newFakeAssignmentRepo(users)
	dispatcher := &captureDispatcher{}

	support := &domain.User{Email: "support@example.com", FirstName: "Sue", Role: domain.RoleSupport, IsActive: true}
	realtor := &domain.User{Email: "realtor@example.com", FirstName: "Ray", LastName: "Realtor", Role: domain.RoleRealtor, IsActive: true}
	ctx := context.Background()
	if err := users.Create(ctx, support); err != nil {
		t.Fatalf("seed support: %v", err)
	}
	if err := users.Create(ctx, realtor); err != nil {
		t.Fatalf("seed realtor: %v", err)
	}

	return &assignmentFixture{
		svc: NewAssignmentService(AssignmentDependencies{
			LeadRepo:       leads,
			UserRepo:       users,
			AssignmentRepo: assignments,
			Dispatcher:     dispatcher,
		}),
		leadSvc:     NewLeadService(LeadDependencies{LeadRepo: leads, Reserver: &fakeReserver{}, Dispatcher: dispatcher}),
		leads:       leads,
		users:       users,
		assignments: assignments,
		dispatcher:  dispatcher,
		support:     support,
		realtor:     realtor,
	}
}

func (f *assignmentFixture) acceptedLead(t *testing.T, value float64) *domain.Lead {
	t.Helper()
	ctx := context.Background()
	lead, err := f.leadSvc.CreateLead(ctx, LeadCreateInput{FirstName: "Jane", LastName: "Doe", PropertyValue: value})
	if err != nil {
		t.Fatalf("CreateLead: %v", err)
	}
	if err := f.leads.UpdateStatus(ctx, lead.ID, domain.LeadStatusAccepted); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	lead.Status = domain.LeadStatusAccepted
	return lead
}

func TestAssignLeadRequiresAcceptedStatus(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()

	pending, err := f.leadSvc.CreateLead(ctx, LeadCreateInput{FirstName: "Jane"})
	if err != nil {
		t.Fatalf("CreateLead: %v", err)
	}

	_, err = f.svc.AssignLead(ctx, f.support, pending.ID, f.realtor.ID)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "CONFLICT" {
		t.Fatalf("err = %v, want CONFLICT", err)
	}
}

func TestAssignLeadRejectsNonRealtorTarget(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()
	lead := f.acceptedLead(t, 300000)

	_, err := f.svc.AssignLead(ctx, f.support, lead.ID, f.support.ID)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("err = %v, want VALIDATION_FAILED", err)
	}
}

func TestAssignLeadRejectsInactiveRealtor(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()
	lead := f.acceptedLead(t, 300000)

	if err := f.users.UpdateActive(ctx, f.realtor.ID, false); err != nil {
		t.Fatalf("UpdateActive: %v", err)
	}
	_, err := f.svc.AssignLead(ctx, f.support, lead.ID, f.realtor.ID)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "CONFLICT" {
		t.Fatalf("err = %v, want CONFLICT", err)
	}
}

func TestAssignLeadTwiceMakesTwoRows(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()
	lead := f.acceptedLead(t, 300000)

	first, err := f.svc.AssignLead(ctx, f.support, lead.ID, f.realtor.ID)
	if err != nil {
		t.Fatalf("first assign: %v", err)
	}
	second, err := f.svc.AssignLead(ctx, f.support, lead.ID, f.realtor.ID)
	if err != nil {
		t.Fatalf("second assign: %v", err)
	}
	if first.ID == second.ID {
		t.Fatal("re-sending must create a fresh row")
	}
	count, _ := f.assignments.CountByUser(ctx, f.realtor.ID)
	if count != 2 {
		t.Errorf("rows = %d, want 2", count)
	}
}

func TestUpdateAssignmentOwnershipEnforced(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()
	lead := f.acceptedLead(t, 300000)

	assignment, err := f.svc.AssignLead(ctx, f.support, lead.ID, f.realtor.ID)
	if err != nil {
		t.Fatalf("AssignLead: %v", err)
	}

	other := &domain.User{Email: "other@example.com", Role: domain.RoleRealtor, IsActive: true}
	if err := f.users.Create(ctx, other); err != nil {
		t.Fatalf("seed other: %v", err)
	}

	_, err = f.svc.UpdateAssignment(ctx, other, assignment.ID, domain.AssignmentStatusContacted, "")
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "FORBIDDEN" {
		t.Fatalf("err = %v, want FORBIDDEN", err)
	}
}

func TestUpdateAssignmentRejectsUnknownStatus(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()
	lead := f.acceptedLead(t, 300000)

	assignment, _ := f.svc.AssignLead(ctx, f.support, lead.ID, f.realtor.ID)
	_, err := f.svc.UpdateAssignment(ctx, f.realtor, assignment.ID, "closed_won", "")
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("err = %v, want VALIDATION_FAILED", err)
	}
}

func TestSetRealtorActiveRejectsOtherRoles(t *testing.T) {
	f := newAssignmentFixture(t)

	err := f.svc.SetRealtorActive(context.Background(), f.support.ID, true)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("err = %v, want VALIDATION_FAILED", err)
	}
}

func TestListMyAssignmentsNewestSentFirst(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()
	lead := f.acceptedLead(t, 300000)

	first, err := f.svc.AssignLead(ctx, f.support, lead.ID, f.realtor.ID)
	if err != nil {
		t.Fatalf("first assign: %v", err)
	}
	second, err := f.svc.AssignLead(ctx, f.support, lead.ID, f.realtor.ID)
	if err != nil {
		t.Fatalf("second assign: %v", err)
	}

	base := time.Now()
	f.assignments.assignments[first.ID].SentDate = base
	f.assignments.assignments[second.ID].SentDate = base.Add(-time.Hour)

	mine, err := f.svc.ListMyAssignments(ctx, f.realtor.ID)
	if err != nil {
		t.Fatalf("ListMyAssignments: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("mine = %d, want 2", len(mine))
	}
	if mine[0].ID != first.ID || mine[1].ID != second.ID {
		t.Fatalf("order = [%s %s], want newest sent first", mine[0].ID, mine[1].ID)
	}
}

func TestListAcceptedLeadsDecoratesHistory(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()
	lead := f.acceptedLead(t, 300000)
	if _, err := f.svc.AssignLead(ctx, f.support, lead.ID, f.realtor.ID); err != nil {
		t.Fatalf("AssignLead: %v", err)
	}

	accepted, err := f.svc.ListAcceptedLeads(ctx)
	if err != nil {
		t.Fatalf("ListAcceptedLeads: %v", err)
	}
	if len(accepted) != 1 {
		t.Fatalf("accepted = %d, want 1", len(accepted))
	}
	records := accepted[0].Assignments
	if len(records) != 1 {
		t.Fatalf("history = %d, want 1", len(records))
	}
	if records[0].RealtorFirstName != "Ray" || records[0].RealtorLastName != "Realtor" {
		t.Errorf("record = %+v, realtor name missing", records[0])
	}
}

// Full pipeline: intake, QA accept, support assign, realtor follow-up.
func TestLeadLifecycleEndToEnd(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()
	qa := &domain.User{Email: "qa@example.com", Role: domain.RoleQA, IsActive: true}
	if err := f.users.Create(ctx, qa); err != nil {
		t.Fatalf("seed qa: %v", err)
	}

	lead, err := f.leadSvc.CreateLead(ctx, LeadCreateInput{
		FirstName:     "Jane",
		LastName:      "Doe",
		City:          "Austin",
		State:         "TX",
		IsHomeOwner:   true,
		PropertyValue: 450000,
	})
	if err != nil {
		t.Fatalf("CreateLead: %v", err)
	}
	if lead.Status != domain.LeadStatusPending {
		t.Fatalf("intake status = %q, want pending", lead.Status)
	}

	if _, err := f.leadSvc.Review(ctx, qa, lead.ID, domain.LeadStatusAccepted, "https://recordings.example.com/call"); err != nil {
		t.Fatalf("Review: %v", err)
	}

	assignment, err := f.svc.AssignLead(ctx, f.support, lead.ID, f.realtor.ID)
	if err != nil {
		t.Fatalf("AssignLead: %v", err)
	}
	if assignment.Status != domain.AssignmentStatusAssigned {
		t.Fatalf("assignment status = %q, want assigned", assignment.Status)
	}

	updated, err := f.svc.UpdateAssignment(ctx, f.realtor, assignment.ID, domain.AssignmentStatusContacted, "left voicemail, call back Tuesday")
	if err != nil {
		t.Fatalf("UpdateAssignment: %v", err)
	}
	if updated.Status != domain.AssignmentStatusContacted {
		t.Errorf("status = %q, want contacted", updated.Status)
	}

	mine, err := f.svc.ListMyAssignments(ctx, f.realtor.ID)
	if err != nil {
		t.Fatalf("ListMyAssignments: %v", err)
	}
	if len(mine) != 1 || mine[0].Comments != "left voicemail, call back Tuesday" {
		t.Fatalf("mine = %+v", mine)
	}

	for _, eventType := range []events.EventType{
		events.EventLeadCreated,
		events.EventLeadStatusChanged,
		events.EventLeadAssigned,
		events.EventAssignmentUpdated,
	} {
		if len(f.dispatcher.byType(eventType)) != 1 {
			t.Errorf("%s events = %d, want 1", eventType, len(f.dispatcher.byType(eventType)))
		}
	}
}
