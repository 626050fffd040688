package bankimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeStatement_UTF8Passthrough(t *testing.T) {
	content := "Date,Montant,Description\n13/08/2025,50.00,Test transaction"

	result := DecodeStatement([]byte(content))

	assert.Equal(t, content, result)
}

func TestDecodeStatement_Latin1Accents(t *testing.T) {
	// "Libellé" with a bare 0xE9, as ISO-8859-1/-2 exports write it
	raw := []byte("Date,Montant,Libell\xe9,Solde\n13/08/2025,50.00,Virement,100.00")

	result := DecodeStatement(raw)

	assert.Contains(t, result, "é")
	assert.Contains(t, result, ",")
}

func TestDecodeStatement_NeverEmptyHanded(t *testing.T) {
	inputs := [][]byte{
		[]byte("no delimiters at all"),
		{0x00, 0x01, 0x02, 0xFF, 0xFE},
		[]byte("13/08/2025;50,00;paiement carte"),
	}
	for _, raw := range inputs {
		result := DecodeStatement(raw)
		assert.NotNil(t, result)
	}
}

func TestDecodeStatement_EmptyInput(t *testing.T) {
	assert.Equal(t, "", DecodeStatement(nil))
	assert.Equal(t, "", DecodeStatement([]byte{}))
}

func TestScoreTextQuality_PerfectCSV(t *testing.T) {
	score := scoreTextQuality("Date,Montant,Libellé,Solde\n13/08/2025,50.00,Virement,100.00")
	assert.Equal(t, 100, score)
}

func TestScoreTextQuality_NoDelimiter(t *testing.T) {
	withDelim := scoreTextQuality("Date Montant,Solde")
	without := scoreTextQuality("Date Montant Solde")
	assert.Greater(t, withDelim, without)
}

func TestScoreTextQuality_ReplacementCharacters(t *testing.T) {
	clean := scoreTextQuality("Date,Montant\n13/08/2025,50.00")
	mangled := scoreTextQuality("Date,Montant\n13/08/2025,50.00���")
	assert.Greater(t, clean, mangled)
}

func TestScoreTextQuality_QuestionMarkMojibake(t *testing.T) {
	clean := scoreTextQuality("abcdefghij,klmnopqrst")
	mojibake := scoreTextQuality("a?c?e?g?i?,k?m?o?q?s?")
	assert.Greater(t, clean, mojibake)
}

func TestScoreTextQuality_Empty(t *testing.T) {
	assert.Equal(t, 0, scoreTextQuality(""))
}

func TestScoreTextQuality_Bounds(t *testing.T) {
	// heavily mangled text still never leaves 0..100
	score := scoreTextQuality("��������")
	assert.GreaterOrEqual(t, score, 0)
	assert.LessOrEqual(t, score, 100)
}
