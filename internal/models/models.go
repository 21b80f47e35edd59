// Package models defines the core domain types shared across the service:
// clients, policies, timeline events, notes, and the authenticated user.
package models

import "time"

// PolicyType is the closed enumeration of policy product lines.
type PolicyType string

const (
	PolicyTypeHome                  PolicyType = "home"
	PolicyTypeAuto                  PolicyType = "auto"
	PolicyTypeLife                  PolicyType = "life"
	PolicyTypeHealth                PolicyType = "health"
	PolicyTypeBusiness              PolicyType = "business"
	PolicyTypeRenters               PolicyType = "renters"
	PolicyTypeUmbrella              PolicyType = "umbrella"
	PolicyTypeCommercialProperty    PolicyType = "commercial_property"
	PolicyTypeProfessionalLiability PolicyType = "professional_liability"
	PolicyTypeCyber                 PolicyType = "cyber"
)

// PolicyTypes lists every valid policy type.
var PolicyTypes = []PolicyType{
	PolicyTypeHome,
	PolicyTypeAuto,
	PolicyTypeLife,
	PolicyTypeHealth,
	PolicyTypeBusiness,
	PolicyTypeRenters,
	PolicyTypeUmbrella,
	PolicyTypeCommercialProperty,
	PolicyTypeProfessionalLiability,
	PolicyTypeCyber,
}

// Valid reports whether t is one of the known policy types.
func (t PolicyType) Valid() bool {
	for _, known := range PolicyTypes {
		if t == known {
			return true
		}
	}
	return false
}

// PolicyStatus is the closed enumeration of policy lifecycle states.
type PolicyStatus string

const (
	PolicyStatusActive    PolicyStatus = "active"
	PolicyStatusPending   PolicyStatus = "pending"
	PolicyStatusExpired   PolicyStatus = "expired"
	PolicyStatusCancelled PolicyStatus = "cancelled"
)

// PolicyStatuses lists every valid policy status.
var PolicyStatuses = []PolicyStatus{
	PolicyStatusActive,
	PolicyStatusPending,
	PolicyStatusExpired,
	PolicyStatusCancelled,
}

// Valid reports whether s is one of the known policy statuses.
func (s PolicyStatus) Valid() bool {
	for _, known := range PolicyStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// TimelineEventType is the closed enumeration of client history events.
type TimelineEventType string

const (
	EventMessage       TimelineEventType = "message"
	EventDocument      TimelineEventType = "document"
	EventCall          TimelineEventType = "call"
	EventEmail         TimelineEventType = "email"
	EventPolicyRenewal TimelineEventType = "policy_renewal"
	EventPolicyUpdate  TimelineEventType = "policy_update"
	EventPolicyAdded   TimelineEventType = "policy_added"
	EventPayment       TimelineEventType = "payment"
)

// TimelineEventTypes lists every valid timeline event type.
var TimelineEventTypes = []TimelineEventType{
	EventMessage,
	EventDocument,
	EventCall,
	EventEmail,
	EventPolicyRenewal,
	EventPolicyUpdate,
	EventPolicyAdded,
	EventPayment,
}

// Valid reports whether e is one of the known event types.
func (e TimelineEventType) Valid() bool {
	for _, known := range TimelineEventTypes {
		if e == known {
			return true
		}
	}
	return false
}

// Policy is a single insurance policy held by a client.
// Premium is a whole-currency amount and is never negative.
// ExpirationDate is compared at day granularity.
type Policy struct {
	ID             string       `json:"id" yaml:"id"`
	ClientID       string       `json:"client_id" yaml:"client_id"`
	Type           PolicyType   `json:"type" yaml:"type"`
	Status         PolicyStatus `json:"status" yaml:"status"`
	ExpirationDate time.Time    `json:"expiration_date" yaml:"expiration_date"`
	Premium        float64      `json:"premium" yaml:"premium"`
}

// Client is a CRM client record.
type Client struct {
	ID        string `json:"id" yaml:"id"`
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name"`
	Email     string `json:"email" yaml:"email"`
	Phone     string `json:"phone" yaml:"phone"`
}

// FullName returns "First Last".
func (c Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// TimelineItem is a single entry in a client's event history.
// Description may be empty.
type TimelineItem struct {
	ID          string            `json:"id"`
	Type        TimelineEventType `json:"type"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Date        time.Time         `json:"date"`
}

// ClientNote is a free-form annotation on a client. Notes are immutable
// once generated; UpdatedAt equals CreatedAt until an edit path exists.
type ClientNote struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthUser is the identity attached to an authenticated session.
type AuthUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
