// Package registry is the client-registry collaborator: read-only lookups
// over a static fixture book of clients, policies, and sales figures. The
// book is validated once at load; everything after that is in-memory and
// side-effect free.
package registry

import (
	_ "embed"
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/policydesk/policydesk/internal/chart"
	"github.com/policydesk/policydesk/internal/errors"
	"github.com/policydesk/policydesk/internal/models"
	"github.com/policydesk/policydesk/internal/renewal"
)

//go:embed book.yaml
var embeddedBook []byte

// book is the on-disk shape of the fixture.
type book struct {
	Clients      []models.Client     `yaml:"clients"`
	Policies     []models.Policy     `yaml:"policies"`
	MonthlySales chart.LabeledSeries `yaml:"monthly_sales"`
}

// Registry serves read-only client and policy lookups.
type Registry struct {
	clients    []models.Client
	clientByID map[string]models.Client
	policies   map[string][]models.Policy // keyed by client ID
	allPolicy  []models.Policy
	sales      chart.LabeledSeries
}

// Load parses and validates the embedded fixture book.
func Load() (*Registry, error) {
	return loadFrom(embeddedBook)
}

func loadFrom(raw []byte) (*Registry, error) {
	var b book
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("parsing registry book: %w", err)
	}

	r := &Registry{
		clients:    b.Clients,
		clientByID: make(map[string]models.Client, len(b.Clients)),
		policies:   make(map[string][]models.Policy),
		allPolicy:  b.Policies,
		sales:      b.MonthlySales,
	}

	for _, c := range b.Clients {
		if c.ID == "" {
			return nil, errors.NewValidationError("client.id", "", "must not be empty")
		}
		if _, dup := r.clientByID[c.ID]; dup {
			return nil, errors.NewValidationError("client.id", c.ID, "duplicate client")
		}
		r.clientByID[c.ID] = c
	}

	for _, p := range b.Policies {
		if !p.Type.Valid() {
			return nil, errors.NewValidationError("policy.type", string(p.Type), "unknown policy type")
		}
		if !p.Status.Valid() {
			return nil, errors.NewValidationError("policy.status", string(p.Status), "unknown policy status")
		}
		if p.Premium < 0 {
			return nil, errors.NewValidationError("policy.premium", p.ID, "premium must not be negative")
		}
		if _, ok := r.clientByID[p.ClientID]; !ok {
			return nil, errors.NewValidationError("policy.client_id", p.ClientID, "unknown client")
		}
		r.policies[p.ClientID] = append(r.policies[p.ClientID], p)
	}

	// Reshape validates label/data alignment and name uniqueness.
	if _, err := chart.Reshape(b.MonthlySales); err != nil {
		return nil, fmt.Errorf("validating monthly sales series: %w", err)
	}

	return r, nil
}

// Clients returns all clients in book order.
func (r *Registry) Clients() []models.Client {
	out := make([]models.Client, len(r.clients))
	copy(out, r.clients)
	return out
}

// Client looks up a single client by ID.
func (r *Registry) Client(id string) (models.Client, error) {
	c, ok := r.clientByID[id]
	if !ok {
		return models.Client{}, fmt.Errorf("client %q: %w", id, errors.ErrNotFound)
	}
	return c, nil
}

// PoliciesFor returns a client's policies in book order. An unknown client
// yields an empty slice; existence is the caller's concern.
func (r *Registry) PoliciesFor(clientID string) []models.Policy {
	src := r.policies[clientID]
	out := make([]models.Policy, len(src))
	copy(out, src)
	return out
}

// ExpiringPolicy pairs a policy with its renewal assessment.
type ExpiringPolicy struct {
	Policy     models.Policy      `json:"policy"`
	Assessment renewal.Assessment `json:"assessment"`
}

// ExpiringWithin returns active policies whose expiration falls within the
// given number of days of now, already-expired ones included, soonest
// first. Cancelled and expired-status policies are excluded; they have no
// renewal to chase.
func (r *Registry) ExpiringWithin(now time.Time, days int) []ExpiringPolicy {
	var out []ExpiringPolicy
	for _, p := range r.allPolicy {
		if p.Status != models.PolicyStatusActive && p.Status != models.PolicyStatusPending {
			continue
		}
		a := renewal.Assess(p, now)
		if a.DaysUntilExpiration <= days {
			out = append(out, ExpiringPolicy{Policy: p, Assessment: a})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Assessment.DaysUntilExpiration < out[j].Assessment.DaysUntilExpiration
	})
	return out
}

// MonthlySales returns the labeled sales series for the analytics view.
func (r *Registry) MonthlySales() chart.LabeledSeries {
	return r.sales
}
