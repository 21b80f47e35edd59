package format_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/policydesk/policydesk/internal/format"
	"github.com/policydesk/policydesk/internal/models"
)

func TestCurrency_WholeUnits(t *testing.T) {
	assert.Equal(t, "$1,000", format.Currency(1000))
	assert.Equal(t, "$1,001", format.Currency(1000.6))
	assert.Equal(t, "$0", format.Currency(0))
	assert.Equal(t, "$1,250,000", format.Currency(1250000))
}

func TestCurrency_StableOnItsOwnOutput(t *testing.T) {
	for _, amount := range []float64{0, 1.5, 999.49, 1000.6, 1250000} {
		first := format.Currency(amount)

		stripped := strings.NewReplacer("$", "", ",", "").Replace(first)
		reparsed, err := strconv.ParseFloat(stripped, 64)
		require.NoError(t, err)

		assert.Equal(t, first, format.Currency(reparsed))
	}
}

func TestCurrency_RoundsHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, "$2", format.Currency(1.5))
	assert.Equal(t, "$1", format.Currency(1.4))
	assert.Equal(t, "$-2", format.Currency(-1.5))
}

func TestPhoneNumber_TenDigits(t *testing.T) {
	assert.Equal(t, "(555) 123-4567", format.PhoneNumber("5551234567"))
}

func TestPhoneNumber_PassthroughOnBadLength(t *testing.T) {
	// Length != 10 is a passthrough, not an error.
	assert.Equal(t, "123", format.PhoneNumber("123"))
	assert.Equal(t, "", format.PhoneNumber(""))
	assert.Equal(t, "15551234567", format.PhoneNumber("15551234567"))
}

func TestPolicyType_TotalOverEnum(t *testing.T) {
	for _, pt := range models.PolicyTypes {
		label := format.PolicyType(pt)
		assert.NotEmpty(t, label, "policy type %q must map to a label", pt)
		assert.NotEqual(t, string(pt), label, "policy type %q should have a human label", pt)
	}
}

func TestPolicyType_UnknownEchoesRawValue(t *testing.T) {
	assert.Equal(t, "livestock", format.PolicyType(models.PolicyType("livestock")))
}

func TestPolicyStatus_TotalOverEnum(t *testing.T) {
	for _, ps := range models.PolicyStatuses {
		badge := format.PolicyStatus(ps)
		assert.NotEmpty(t, badge.Text, "status %q must map to a label", ps)
		assert.NotEmpty(t, badge.Tone, "status %q must map to a tone", ps)
	}
}

func TestPolicyStatus_Tones(t *testing.T) {
	assert.Equal(t, format.ToneSuccess, format.PolicyStatus(models.PolicyStatusActive).Tone)
	assert.Equal(t, format.ToneWarning, format.PolicyStatus(models.PolicyStatusPending).Tone)
	assert.Equal(t, format.ToneDanger, format.PolicyStatus(models.PolicyStatusExpired).Tone)
	assert.Equal(t, format.ToneNeutral, format.PolicyStatus(models.PolicyStatusCancelled).Tone)
}

func TestPolicyStatus_UnknownEchoesRawValue(t *testing.T) {
	badge := format.PolicyStatus(models.PolicyStatus("suspended"))
	assert.Equal(t, "suspended", badge.Text)
	assert.Equal(t, format.ToneNeutral, badge.Tone)
}
