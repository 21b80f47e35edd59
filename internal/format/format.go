// Package format maps raw domain values to locale-correct display strings.
// Every function here is pure and total over its stated domain; unmapped
// enumeration values echo the raw value rather than failing.
package format

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/policydesk/policydesk/internal/models"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency formats an amount as whole-dollar US currency with grouping
// separators: 1000.6 → "$1,001". Fractional dollars round to the nearest
// whole unit, halves away from zero.
//
// Precondition: amount is a finite number. NaN/Inf input is a caller
// contract violation; output for such values is unspecified.
func Currency(amount float64) string {
	return printer.Sprintf("$%d", int64(math.Round(amount)))
}

// PhoneNumber formats a 10-digit string as "(AAA) BBB-CCCC". Anything that
// is not exactly 10 characters long is returned unchanged; malformed input
// is a passthrough, not an error.
func PhoneNumber(digits string) string {
	if len(digits) != 10 {
		return digits
	}
	return fmt.Sprintf("(%s) %s-%s", digits[0:3], digits[3:6], digits[6:10])
}

var policyTypeLabels = map[models.PolicyType]string{
	models.PolicyTypeHome:                  "Home Insurance",
	models.PolicyTypeAuto:                  "Auto Insurance",
	models.PolicyTypeLife:                  "Life Insurance",
	models.PolicyTypeHealth:                "Health Insurance",
	models.PolicyTypeBusiness:              "Business Insurance",
	models.PolicyTypeRenters:               "Renters Insurance",
	models.PolicyTypeUmbrella:              "Umbrella Insurance",
	models.PolicyTypeCommercialProperty:    "Commercial Property",
	models.PolicyTypeProfessionalLiability: "Professional Liability",
	models.PolicyTypeCyber:                 "Cyber Insurance",
}

// PolicyType returns the human label for a policy type. Unknown values are
// echoed back verbatim so a new enum variant degrades to its raw name
// instead of breaking the view.
func PolicyType(t models.PolicyType) string {
	if label, ok := policyTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// Tone is an abstract severity token for a status badge. The UI layer maps
// tones to its palette; this package never emits literal colors.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
	ToneNeutral Tone = "neutral"
)

// StatusBadge is the display form of a policy status: a label plus a
// semantic tone.
type StatusBadge struct {
	Text string `json:"text"`
	Tone Tone   `json:"tone"`
}

var policyStatusBadges = map[models.PolicyStatus]StatusBadge{
	models.PolicyStatusActive:    {Text: "Active", Tone: ToneSuccess},
	models.PolicyStatusPending:   {Text: "Pending", Tone: ToneWarning},
	models.PolicyStatusExpired:   {Text: "Expired", Tone: ToneDanger},
	models.PolicyStatusCancelled: {Text: "Cancelled", Tone: ToneNeutral},
}

// PolicyStatus returns the badge for a policy status. Unknown values echo
// the raw value with a neutral tone.
func PolicyStatus(s models.PolicyStatus) StatusBadge {
	if badge, ok := policyStatusBadges[s]; ok {
		return badge
	}
	return StatusBadge{Text: string(s), Tone: ToneNeutral}
}
