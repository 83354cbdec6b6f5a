package domain

import "time"

// LeadStatus enumerates pipeline states for leads.
type LeadStatus string

const (
	LeadStatusPending    LeadStatus = "pending"
	LeadStatusAccepted   LeadStatus = "accepted"
	LeadStatusRejected   LeadStatus = "rejected"
	LeadStatusNoCoverage LeadStatus = "no_coverage"
)

var validLeadStatuses = map[LeadStatus]struct{}{
	LeadStatusPending:    {},
	LeadStatusAccepted:   {},
	LeadStatusRejected:   {},
	LeadStatusNoCoverage: {},
}

// Valid reports whether the status belongs to the closed set.
func (s LeadStatus) Valid() bool {
	_, ok := validLeadStatuses[s]
	return ok
}

// Lead is the aggregate for submitted homeowner prospects.
type Lead struct {
	ID                 string
	LeadRef            string
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
	Status             LeadStatus
	Recording          *string
	SubmissionDate     time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
