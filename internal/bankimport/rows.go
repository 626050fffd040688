package bankimport

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Headers names the five required statement columns. The exact strings come
// from configuration because they depend on the bank's export locale.
type Headers struct {
	Date        string
	ValueDate   string
	Amount      string
	Description string
	Balance     string
}

// DefaultHeaders returns the reference deployment's French column names.
func DefaultHeaders() Headers {
	return Headers{
		Date:        "Date",
		ValueDate:   "Date de valeur",
		Amount:      "Montant",
		Description: "Libellé",
		Balance:     "Solde",
	}
}

// List returns the header names in column order.
func (h Headers) List() []string {
	return []string{h.Date, h.ValueDate, h.Amount, h.Description, h.Balance}
}

// Line is one validated, typed statement row.
type Line struct {
	Date        time.Time
	ValueDate   time.Time
	Amount      decimal.Decimal
	Description string
	Balance     decimal.Decimal
}

// RowIssue describes one validation failure. Line is the 1-based line number
// in the uploaded file (the header row is line 1).
type RowIssue struct {
	Line    int    `json:"line"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError rejects a whole import with structured per-row detail.
// Validation is all-or-nothing: a single bad row fails the batch.
type ValidationError struct {
	Message string     `json:"message"`
	Issues  []RowIssue `json:"issues,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (%d issues)", e.Message, len(e.Issues))
}

var (
	frenchDateRe = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	amountRe     = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// ParseFrenchDate parses a strict DD/MM/YYYY date.
func ParseFrenchDate(s string) (time.Time, error) {
	if !frenchDateRe.MatchString(s) {
		return time.Time{}, fmt.Errorf("invalid date format: %q", s)
	}
	t, err := time.Parse("02/01/2006", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %q", s)
	}
	return t, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if !amountRe.MatchString(s) {
		return decimal.Decimal{}, fmt.Errorf("invalid amount: %q", s)
	}
	return decimal.NewFromString(s)
}

// ValidateRows checks header presence then converts every row to typed
// values, accumulating issues across the whole batch before failing.
func ValidateRows(rows []Row, h Headers) ([]Line, error) {
	if len(rows) == 0 {
		return nil, &ValidationError{Message: "No data found in CSV"}
	}

	first := rows[0]
	for _, name := range h.List() {
		if _, ok := first[name]; !ok {
			return nil, &ValidationError{
				Message: "CSV must contain columns: " + strings.Join(h.List(), ", "),
			}
		}
	}

	lines := make([]Line, 0, len(rows))
	var issues []RowIssue

	for i, row := range rows {
		lineNo := i + 2 // header row is line 1

		var line Line
		var err error

		if line.Date, err = ParseFrenchDate(row[h.Date]); err != nil {
			issues = append(issues, RowIssue{Line: lineNo, Field: h.Date, Message: "Invalid date format"})
		}
		if line.ValueDate, err = ParseFrenchDate(row[h.ValueDate]); err != nil {
			issues = append(issues, RowIssue{Line: lineNo, Field: h.ValueDate, Message: "Invalid date format"})
		}
		if line.Amount, err = parseAmount(row[h.Amount]); err != nil {
			issues = append(issues, RowIssue{Line: lineNo, Field: h.Amount, Message: "Invalid amount format"})
		}
		if line.Balance, err = parseAmount(row[h.Balance]); err != nil {
			issues = append(issues, RowIssue{Line: lineNo, Field: h.Balance, Message: "Invalid amount format"})
		}

		line.Description = strings.TrimSpace(row[h.Description])
		if line.Description == "" {
			issues = append(issues, RowIssue{Line: lineNo, Field: h.Description, Message: "Description is required"})
		}

		lines = append(lines, line)
	}

	if len(issues) > 0 {
		return nil, &ValidationError{Message: "Invalid CSV data", Issues: issues}
	}
	return lines, nil
}
