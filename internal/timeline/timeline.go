// Package timeline produces a client's event history and note list. The
// current source is a deterministic fixture generator standing in for a
// future data-source lookup; the contract callers rely on is the interface,
// not the fixture payload.
package timeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/policydesk/policydesk/internal/models"
)

// Source supplies a client's history. Implementations must be idempotent:
// the same clientID always yields the same sequences. Timeline results are
// sorted descending by date (newest first) — collaborators render in the
// order produced. Notes preserve insertion order; callers must not assume
// any createdAt ordering.
type Source interface {
	Timeline(ctx context.Context, clientID string) ([]models.TimelineItem, error)
	Notes(ctx context.Context, clientID string) ([]models.ClientNote, error)
}

// FixtureSource generates a deterministic history anchored to a fixed
// epoch. Item IDs are derived from the clientID so repeated calls agree.
type FixtureSource struct {
	epoch time.Time
}

// NewFixtureSource creates a fixture source anchored at epoch.
func NewFixtureSource(epoch time.Time) *FixtureSource {
	return &FixtureSource{epoch: epoch}
}

// itemID derives a stable UUID for the nth record of a kind for a client.
func itemID(clientID, kind string, n int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s:%s:%d", clientID, kind, n))).String()
}

// fixtureEvent is one template entry in the generated history. offset is
// subtracted from the epoch, so larger offsets are older events.
type fixtureEvent struct {
	typ         models.TimelineEventType
	title       string
	description string
	offset      time.Duration
}

var fixtureEvents = []fixtureEvent{
	{models.EventMessage, "Message received", "Asked about adding a second vehicle to the auto policy", 6 * time.Hour},
	{models.EventPayment, "Premium payment received", "", 26 * time.Hour},
	{models.EventPolicyRenewal, "Auto policy renewed", "12-month term at the existing premium", 3 * 24 * time.Hour},
	{models.EventCall, "Annual review call", "Walked through coverage levels ahead of renewal", 5 * 24 * time.Hour},
	{models.EventEmail, "Renewal reminder sent", "", 9 * 24 * time.Hour},
	{models.EventDocument, "Proof of insurance issued", "", 14 * 24 * time.Hour},
	{models.EventPolicyUpdate, "Home policy deductible changed", "Raised deductible to lower the premium", 30 * 24 * time.Hour},
	{models.EventPolicyAdded, "Umbrella policy added", "New coverage following the home purchase", 60 * 24 * time.Hour},
}

// Timeline returns the generated history for a client, newest first. The
// clientID only seeds the generated IDs for now; a real data source will
// use it as the lookup key.
func (f *FixtureSource) Timeline(_ context.Context, clientID string) ([]models.TimelineItem, error) {
	items := make([]models.TimelineItem, len(fixtureEvents))
	for i, ev := range fixtureEvents {
		items[i] = models.TimelineItem{
			ID:          itemID(clientID, "timeline", i),
			Type:        ev.typ,
			Title:       ev.title,
			Description: ev.description,
			Date:        f.epoch.Add(-ev.offset),
		}
	}

	// The template is already newest-first, but the descending order is a
	// contract invariant, not an accident of the fixture.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
	return items, nil
}

var fixtureNotes = []struct {
	content string
	offset  time.Duration
}{
	{"Prefers email over phone for anything non-urgent.", 45 * 24 * time.Hour},
	{"Shopping for cyber coverage for the consulting business — follow up in Q3.", 20 * 24 * time.Hour},
	{"Spouse handles the billing; send invoices to the shared address.", 8 * 24 * time.Hour},
}

// Notes returns the generated annotations for a client in insertion order.
func (f *FixtureSource) Notes(_ context.Context, clientID string) ([]models.ClientNote, error) {
	notes := make([]models.ClientNote, len(fixtureNotes))
	for i, n := range fixtureNotes {
		created := f.epoch.Add(-n.offset)
		notes[i] = models.ClientNote{
			ID:        itemID(clientID, "note", i),
			Content:   n.content,
			CreatedAt: created,
			UpdatedAt: created,
		}
	}
	return notes, nil
}
