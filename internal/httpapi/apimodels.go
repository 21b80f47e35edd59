package httpapi

import (
	"time"

	"github.com/policydesk/policydesk/internal/chart"
	"github.com/policydesk/policydesk/internal/format"
	"github.com/policydesk/policydesk/internal/models"
	"github.com/policydesk/policydesk/internal/renewal"
	"github.com/policydesk/policydesk/internal/session"
)

// LoginRequest is the body of POST /api/v1/session/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the session token plus the resulting auth state.
type LoginResponse struct {
	Token string        `json:"token"`
	State session.State `json:"state"`
}

// ClientSummary is a registry client with display-ready fields.
type ClientSummary struct {
	models.Client
	PhoneDisplay string `json:"phone_display"`
	PolicyCount  int    `json:"policy_count"`
}

// PolicyView is a policy with its formatted fields and renewal assessment.
type PolicyView struct {
	models.Policy
	TypeLabel      string             `json:"type_label"`
	StatusBadge    format.StatusBadge `json:"status_badge"`
	PremiumDisplay string             `json:"premium_display"`
	Renewal        renewal.Assessment `json:"renewal"`
}

// ClientDetailResponse is the body of GET /api/v1/clients/:id.
type ClientDetailResponse struct {
	Client   ClientSummary `json:"client"`
	Policies []PolicyView  `json:"policies"`
}

// TimelineResponse is the body of GET /api/v1/clients/:id/timeline.
type TimelineResponse struct {
	Items []models.TimelineItem `json:"items"`
}

// NotesResponse is the body of GET /api/v1/clients/:id/notes.
type NotesResponse struct {
	Notes []models.ClientNote `json:"notes"`
}

// SalesResponse is the body of GET /api/v1/analytics/sales.
type SalesResponse struct {
	Chart chart.Chart `json:"chart"`
}

// RenewalItem is one entry of GET /api/v1/renewals.
type RenewalItem struct {
	Policy         models.Policy      `json:"policy"`
	ClientName     string             `json:"client_name"`
	TypeLabel      string             `json:"type_label"`
	PremiumDisplay string             `json:"premium_display"`
	Assessment     renewal.Assessment `json:"assessment"`
}

// RenewalsResponse is the body of GET /api/v1/renewals.
type RenewalsResponse struct {
	WindowDays int           `json:"window_days"`
	AsOf       time.Time     `json:"as_of"`
	Items      []RenewalItem `json:"items"`
}

// ProblemDetail follows RFC 7807 for error responses.
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}
