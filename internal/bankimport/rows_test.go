package bankimport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrenchDate(t *testing.T) {
	d, err := ParseFrenchDate("13/08/2025")
	require.NoError(t, err)

	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.August, d.Month())
	assert.Equal(t, 13, d.Day())
}

func TestParseFrenchDate_Rejects(t *testing.T) {
	for _, input := range []string{
		"",
		"2025-08-13", // ISO, wrong format
		"13-08-2025",
		"1/8/2025", // single digits
		"13/08/25",
		"32/01/2025", // day out of range
		"13/13/2025", // month out of range
		"not-a-date",
	} {
		_, err := ParseFrenchDate(input)
		assert.Error(t, err, "expected rejection for %q", input)
	}
}

func validRow() Row {
	return Row{
		"Date":           "13/08/2025",
		"Date de valeur": "13/08/2025",
		"Montant":        "50.00",
		"Libellé":        "Test transaction",
		"Solde":          "100.00",
	}
}

func TestValidateRows_TypedValues(t *testing.T) {
	lines, err := ValidateRows([]Row{validRow()}, DefaultHeaders())
	require.NoError(t, err)
	require.Len(t, lines, 1)

	assert.Equal(t, "50.00", lines[0].Amount.StringFixed(2))
	assert.Equal(t, "100.00", lines[0].Balance.StringFixed(2))
	assert.Equal(t, "Test transaction", lines[0].Description)
	assert.Equal(t, time.August, lines[0].Date.Month())
}

func TestValidateRows_NegativeAmount(t *testing.T) {
	row := validRow()
	row["Montant"] = "-50.00"

	lines, err := ValidateRows([]Row{row}, DefaultHeaders())
	require.NoError(t, err)

	assert.True(t, lines[0].Amount.IsNegative())
}

func TestValidateRows_EmptyBatch(t *testing.T) {
	_, err := ValidateRows(nil, DefaultHeaders())

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "No data found in CSV", vErr.Message)
}

func TestValidateRows_MissingHeader(t *testing.T) {
	row := validRow()
	delete(row, "Solde")

	_, err := ValidateRows([]Row{row}, DefaultHeaders())

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "CSV must contain columns")
	assert.Contains(t, vErr.Message, "Solde")
}

func TestValidateRows_InvalidAmountMessage(t *testing.T) {
	row := validRow()
	row["Montant"] = "fifty"

	_, err := ValidateRows([]Row{row}, DefaultHeaders())

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Issues, 1)
	assert.Equal(t, "Invalid amount format", vErr.Issues[0].Message)
	assert.Equal(t, "Montant", vErr.Issues[0].Field)
	assert.Equal(t, 2, vErr.Issues[0].Line)
}

func TestValidateRows_EmptyDescription(t *testing.T) {
	row := validRow()
	row["Libellé"] = "   "

	_, err := ValidateRows([]Row{row}, DefaultHeaders())

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Issues, 1)
	assert.Equal(t, "Description is required", vErr.Issues[0].Message)
}

func TestValidateRows_AllOrNothing(t *testing.T) {
	bad1 := validRow()
	bad1["Date"] = "2025-08-13"
	bad2 := validRow()
	bad2["Montant"] = "abc"

	_, err := ValidateRows([]Row{validRow(), bad1, bad2}, DefaultHeaders())

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	// both bad rows reported, good row does not rescue the batch
	assert.Len(t, vErr.Issues, 2)
	assert.Equal(t, 3, vErr.Issues[0].Line)
	assert.Equal(t, 4, vErr.Issues[1].Line)
}
