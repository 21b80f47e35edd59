package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/policydesk/policydesk/internal/models"
	"github.com/policydesk/policydesk/internal/notify"
	"github.com/policydesk/policydesk/internal/registry"
	"github.com/policydesk/policydesk/internal/renewal"
)

type fakePoster struct {
	calls    int
	channels []string
	err      error
}

func (f *fakePoster) PostMessageContext(_ context.Context, channelID string, _ ...slack.MsgOption) (string, string, error) {
	f.calls++
	f.channels = append(f.channels, channelID)
	return channelID, "ts", f.err
}

func expiringFixture() []registry.ExpiringPolicy {
	exp := time.Date(2026, time.September, 4, 0, 0, 0, 0, time.UTC)
	return []registry.ExpiringPolicy{
		{
			Policy: models.Policy{
				ID:             "pol-2001",
				Type:           models.PolicyTypeAuto,
				Status:         models.PolicyStatusActive,
				ExpirationDate: exp,
				Premium:        1250,
			},
			Assessment: renewal.Assessment{DaysUntilExpiration: 4, Tier: renewal.TierCritical},
		},
		{
			Policy: models.Policy{
				ID:             "pol-2005",
				Type:           models.PolicyTypeCyber,
				Status:         models.PolicyStatusActive,
				ExpirationDate: exp.AddDate(0, 0, 20),
				Premium:        1890,
			},
			Assessment: renewal.Assessment{DaysUntilExpiration: 24, Tier: renewal.TierWarning},
		},
	}
}

func TestSendRenewalDigest_PostsToChannel(t *testing.T) {
	poster := &fakePoster{}
	n := notify.New(poster, "#renewals", zerolog.Nop())

	err := n.SendRenewalDigest(context.Background(), expiringFixture())
	require.NoError(t, err)
	assert.Equal(t, 1, poster.calls)
	assert.Equal(t, []string{"#renewals"}, poster.channels)
}

func TestSendRenewalDigest_SkipsEmptyList(t *testing.T) {
	poster := &fakePoster{}
	n := notify.New(poster, "#renewals", zerolog.Nop())

	err := n.SendRenewalDigest(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, poster.calls)
}

func TestDigestBlocks(t *testing.T) {
	blocks := notify.DigestBlocks(expiringFixture())

	// Header + divider + one section per policy.
	require.Len(t, blocks, 4)
	header, ok := blocks[0].(*slack.HeaderBlock)
	require.True(t, ok)
	assert.Contains(t, header.Text.Text, "2 policies")
}
