// Package notify posts renewal digests to Slack so the agency sees
// upcoming expirations without opening the dashboard.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"

	cerrors "github.com/policydesk/policydesk/internal/errors"
	"github.com/policydesk/policydesk/internal/format"
	"github.com/policydesk/policydesk/internal/registry"
	"github.com/policydesk/policydesk/internal/renewal"
	"github.com/policydesk/policydesk/internal/retry"
)

// Poster is the slice of the Slack client the notifier uses.
type Poster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Notifier delivers renewal digests to a Slack channel.
type Notifier struct {
	client  Poster
	channel string
	policy  retry.Policy
	logger  zerolog.Logger
}

// New creates a notifier posting to the given channel.
func New(client Poster, channel string, logger zerolog.Logger) *Notifier {
	return &Notifier{
		client:  client,
		channel: channel,
		policy:  retry.DeliveryPolicy(),
		logger:  logger.With().Str("component", "notify").Logger(),
	}
}

// SendRenewalDigest posts one message summarizing the expiring policies.
// An empty list sends nothing and returns nil. Delivery is retried with
// backoff; a final failure is returned as a DeliveryError.
func (n *Notifier) SendRenewalDigest(ctx context.Context, expiring []registry.ExpiringPolicy) error {
	if len(expiring) == 0 {
		n.logger.Debug().Msg("no expiring policies, skipping digest")
		return nil
	}

	blocks := DigestBlocks(expiring)
	err := retry.Do(ctx, n.policy, func(ctx context.Context) error {
		_, _, postErr := n.client.PostMessageContext(ctx, n.channel,
			slack.MsgOptionBlocks(blocks...),
			slack.MsgOptionText(fmt.Sprintf("%d policies need renewal attention", len(expiring)), false),
		)
		if postErr != nil {
			return &cerrors.DeliveryError{Channel: n.channel, Err: postErr}
		}
		return nil
	})
	if err != nil {
		n.logger.Error().Err(err).Int("policies", len(expiring)).Msg("renewal digest delivery failed")
		return err
	}

	n.logger.Info().Int("policies", len(expiring)).Msg("renewal digest delivered")
	return nil
}

// DigestBlocks renders the expiring policies as Block Kit blocks, grouped
// critical first (the input is already sorted soonest first).
func DigestBlocks(expiring []registry.ExpiringPolicy) []slack.Block {
	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject("plain_text",
				fmt.Sprintf("Renewals: %d policies need attention", len(expiring)), false, false),
		),
		slack.NewDividerBlock(),
	}

	for _, e := range expiring {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject("mrkdwn", digestLine(e), false, false),
			nil, nil,
		))
	}
	return blocks
}

func digestLine(e registry.ExpiringPolicy) string {
	var when string
	switch d := e.Assessment.DaysUntilExpiration; {
	case d < 0:
		when = fmt.Sprintf("expired %d days ago", -d)
	case d == 0:
		when = "expires today"
	case d == 1:
		when = "expires tomorrow"
	default:
		when = fmt.Sprintf("expires in %d days", d)
	}

	marker := "•"
	if e.Assessment.Tier == renewal.TierCritical {
		marker = "🔴"
	} else if e.Assessment.Tier == renewal.TierWarning {
		marker = "🟡"
	}

	return fmt.Sprintf("%s *%s* (`%s`) — %s, premium %s",
		marker,
		format.PolicyType(e.Policy.Type),
		e.Policy.ID,
		when,
		format.Currency(e.Policy.Premium),
	)
}
