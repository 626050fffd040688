package bankimport

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Fingerprint derives the deduplication hash of a statement line.
//
// The contract is fixed: SHA-256 over the ISO calendar date, the canonical
// decimal amount, the raw description, the canonical decimal balance and the
// organization id, joined by "-". Import and recompute must both go through
// this function; formatting the date or amounts any other way silently
// changes fingerprints for already-imported rows.
func Fingerprint(date time.Time, amount decimal.Decimal, description string, balance decimal.Decimal, organizationID string) string {
	data := strings.Join([]string{
		date.Format("2006-01-02"),
		amount.String(),
		description,
		balance.String(),
		organizationID,
	}, "-")
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
