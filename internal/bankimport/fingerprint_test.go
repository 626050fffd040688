package bankimport

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var hexDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

func fingerprintArgs() (time.Time, decimal.Decimal, string, decimal.Decimal, string) {
	date := time.Date(2025, time.August, 13, 0, 0, 0, 0, time.UTC)
	return date, decimal.RequireFromString("50.00"), "Test transaction", decimal.RequireFromString("100.00"), "org-1"
}

func TestFingerprint_Deterministic(t *testing.T) {
	date, amount, desc, balance, org := fingerprintArgs()

	h1 := Fingerprint(date, amount, desc, balance, org)
	h2 := Fingerprint(date, amount, desc, balance, org)

	assert.Equal(t, h1, h2)
	assert.Regexp(t, hexDigest, h1)
}

func TestFingerprint_SensitiveToEachField(t *testing.T) {
	date, amount, desc, balance, org := fingerprintArgs()
	base := Fingerprint(date, amount, desc, balance, org)

	assert.NotEqual(t, base, Fingerprint(date.AddDate(0, 0, 1), amount, desc, balance, org), "date")
	assert.NotEqual(t, base, Fingerprint(date, decimal.RequireFromString("50.01"), desc, balance, org), "amount")
	assert.NotEqual(t, base, Fingerprint(date, amount, "Other transaction", balance, org), "description")
	assert.NotEqual(t, base, Fingerprint(date, amount, desc, decimal.RequireFromString("99.99"), org), "balance")
}

func TestFingerprint_OrganizationIsolation(t *testing.T) {
	date, amount, desc, balance, _ := fingerprintArgs()

	h1 := Fingerprint(date, amount, desc, balance, "org-1")
	h2 := Fingerprint(date, amount, desc, balance, "org-2")

	assert.NotEqual(t, h1, h2)
}

func TestFingerprint_CanonicalDecimalForm(t *testing.T) {
	date, _, desc, balance, org := fingerprintArgs()

	// "50.00" and "50.000" are the same decimal value but different
	// canonical strings; both call sites must go through decimal.String
	a := Fingerprint(date, decimal.RequireFromString("50.00"), desc, balance, org)
	b := Fingerprint(date, decimal.RequireFromString("50.000"), desc, balance, org)

	assert.Equal(t, a, b)
}
