package domain

import "time"

// AssignmentStatus enumerates realtor follow-up states.
type AssignmentStatus string

const (
	AssignmentStatusAssigned      AssignmentStatus = "assigned"
	AssignmentStatusContacted     AssignmentStatus = "contacted"
	AssignmentStatusNotInterested AssignmentStatus = "not_interested"
	AssignmentStatusFollowUp      AssignmentStatus = "follow_up"
)

var validAssignmentStatuses = map[AssignmentStatus]struct{}{
	AssignmentStatusAssigned:      {},
	AssignmentStatusContacted:     {},
	AssignmentStatusNotInterested: {},
	AssignmentStatusFollowUp:      {},
}

// Valid reports whether the status belongs to the closed set.
func (s AssignmentStatus) Valid() bool {
	_, ok := validAssignmentStatuses[s]
	return ok
}

// LeadAssignment records that a lead was sent to a realtor. Rows are
// append-only from the support side; duplicates for the same pair are legal.
type LeadAssignment struct {
	ID        string
	LeadID    string
	UserID    string
	SentDate  time.Time
	Status    AssignmentStatus
	Comments  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AssignmentRecord decorates an assignment with the receiving realtor's name,
// for the support dashboard's per-lead history.
type AssignmentRecord struct {
	ID               string
	RealtorFirstName string
	RealtorLastName  string
	SentDate         time.Time
	Status           AssignmentStatus
}

// AssignmentWithLead joins an assignment with its parent lead for the
// realtor dashboard.
type AssignmentWithLead struct {
	LeadAssignment
	Lead Lead
}
