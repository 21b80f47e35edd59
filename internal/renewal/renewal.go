// Package renewal classifies how urgently a policy needs renewal attention.
// Everything here is pure: given the same expiration date and reference
// instant the result is identical.
package renewal

import (
	"math"
	"time"

	"github.com/policydesk/policydesk/internal/models"
)

// Tier is the urgency classification of a policy's renewal timing.
type Tier string

const (
	TierCritical Tier = "critical"
	TierWarning  Tier = "warning"
	TierNormal   Tier = "normal"
)

// Thresholds for tier classification, in days until expiration.
const (
	criticalWithinDays = 7
	warningWithinDays  = 30
)

// Assessment is the urgency verdict for a single policy.
type Assessment struct {
	DaysUntilExpiration int  `json:"days_until_expiration"`
	Tier                Tier `json:"tier"`
}

// DaysUntil returns the number of calendar days from now until expiration,
// rounding fractional days to the nearest integer (halves away from zero).
// The result is negative for an expiration in the past.
func DaysUntil(expiration, now time.Time) int {
	return int(math.Round(expiration.Sub(now).Hours() / 24))
}

// Classify maps a day count to an urgency tier. Rules apply in order, first
// match wins: <=7 critical, <=30 warning, otherwise normal. A negative count
// (already expired) lands in critical intentionally; the engine does not
// distinguish overdue from imminent.
func Classify(days int) Tier {
	switch {
	case days <= criticalWithinDays:
		return TierCritical
	case days <= warningWithinDays:
		return TierWarning
	default:
		return TierNormal
	}
}

// Assess computes the renewal assessment for a policy at the given instant.
func Assess(p models.Policy, now time.Time) Assessment {
	days := DaysUntil(p.ExpirationDate, now)
	return Assessment{
		DaysUntilExpiration: days,
		Tier:                Classify(days),
	}
}
