package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/policydesk/policydesk/internal/errors"
	"github.com/policydesk/policydesk/internal/models"
	"github.com/policydesk/policydesk/internal/renewal"
)

func TestLoad_EmbeddedBook(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	clients := r.Clients()
	require.NotEmpty(t, clients)

	for _, c := range clients {
		assert.NotEmpty(t, c.ID)
		for _, p := range r.PoliciesFor(c.ID) {
			assert.True(t, p.Type.Valid())
			assert.True(t, p.Status.Valid())
			assert.GreaterOrEqual(t, p.Premium, 0.0)
			assert.Equal(t, c.ID, p.ClientID)
		}
	}
}

func TestClient_Lookup(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	first := r.Clients()[0]
	got, err := r.Client(first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	_, err = r.Client("cl-nope")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestPoliciesFor_UnknownClientIsEmpty(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	assert.Empty(t, r.PoliciesFor("cl-nope"))
}

func TestExpiringWithin_SortedSoonestFirst(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	now := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
	expiring := r.ExpiringWithin(now, 60)
	require.NotEmpty(t, expiring)

	for i, e := range expiring {
		assert.LessOrEqual(t, e.Assessment.DaysUntilExpiration, 60)
		assert.Contains(t,
			[]models.PolicyStatus{models.PolicyStatusActive, models.PolicyStatusPending},
			e.Policy.Status)
		if i > 0 {
			assert.GreaterOrEqual(t,
				e.Assessment.DaysUntilExpiration,
				expiring[i-1].Assessment.DaysUntilExpiration)
		}
	}
}

func TestExpiringWithin_TierMatchesDayCount(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	now := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
	for _, e := range r.ExpiringWithin(now, 365) {
		assert.Equal(t, renewal.Classify(e.Assessment.DaysUntilExpiration), e.Assessment.Tier)
	}
}

func TestMonthlySales_ReshapesCleanly(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	sales := r.MonthlySales()
	assert.NotEmpty(t, sales.Labels)
	require.NotEmpty(t, sales.Datasets)
	for _, d := range sales.Datasets {
		assert.Len(t, d.Data, len(sales.Labels))
	}
}

func TestLoadFrom_RejectsBadBooks(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			"unknown policy type",
			`
clients:
  - {id: c1, first_name: A, last_name: B}
policies:
  - {id: p1, client_id: c1, type: livestock, status: active, expiration_date: 2026-01-01T00:00:00Z, premium: 10}
`,
		},
		{
			"negative premium",
			`
clients:
  - {id: c1, first_name: A, last_name: B}
policies:
  - {id: p1, client_id: c1, type: auto, status: active, expiration_date: 2026-01-01T00:00:00Z, premium: -5}
`,
		},
		{
			"policy for unknown client",
			`
policies:
  - {id: p1, client_id: ghost, type: auto, status: active, expiration_date: 2026-01-01T00:00:00Z, premium: 5}
`,
		},
		{
			"misaligned sales series",
			`
monthly_sales:
  labels: [Jan, Feb]
  datasets:
    - {name: Revenue, data: [1]}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadFrom([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
