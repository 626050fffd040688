package bankimport

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Candidate encodings, in order of preference. Banking exports show up in a
// surprising range of locales, so a handful of 8-bit charsets are tried in
// addition to UTF-8 and the best-scoring decode wins.
var statementEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"iso-8859-2", charmap.ISO8859_2}, // Latin-2 (Central/Eastern Europe)
	{"utf-8", unicode.UTF8},
	{"windows-1252", charmap.Windows1252}, // CP1252 (Western Europe)
	{"iso-8859-1", charmap.ISO8859_1},     // Latin-1
	{"windows-1250", charmap.Windows1250}, // Central Europe
	{"windows-1251", charmap.Windows1251}, // Cyrillic
}

// Header tokens and banking vocabulary recognized by the quality heuristic.
var (
	knownHeaderTokens = []string{"date", "montant", "libellé", "solde", "description", "amount", "date de valeur"}
	bankingTerms      = []string{"virement", "paiement", "carte", "compte", "banque", "crédit", "débit"}
	accentedLatin     = "éèêëàâäôöùûüç"
)

// DecodeStatement converts the raw bytes of an uploaded statement into text,
// picking the candidate decode with the best quality score. It never fails: a
// perfect score short-circuits, and if no candidate scores at all the raw
// bytes are decoded as lossy UTF-8.
func DecodeStatement(raw []byte) string {
	var best string
	bestScore := -1

	for _, candidate := range statementEncodings {
		decoded, err := candidate.enc.NewDecoder().Bytes(raw)
		if err != nil {
			continue
		}
		text := string(decoded)

		score := scoreTextQuality(text)
		if score > bestScore {
			bestScore = score
			best = text
		}
		if score >= 100 {
			return text
		}
	}

	if bestScore >= 0 {
		return best
	}

	// last resort: lossy UTF-8, invalid sequences become U+FFFD
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
}

// scoreTextQuality rates a decoded statement from 0 to 100 for CSV
// plausibility. The weights mirror what broken bank exports actually look
// like: replacement characters and missing delimiters dominate, recognizable
// headers and French banking vocabulary nudge the score up.
func scoreTextQuality(text string) int {
	if text == "" {
		return 0
	}

	score := 100

	// replacement characters are the strongest mojibake signal
	score -= strings.Count(text, string(utf8.RuneError)) * 20

	// a CSV without any delimiter is not a CSV
	if !strings.ContainsAny(text, ",;") {
		score -= 50
	}

	total := utf8.RuneCountInString(text)
	nonPrintable := 0
	for _, r := range text {
		if r <= 0x08 || (r >= 0x0E && r <= 0x1F) || (r >= 0x7F && r <= 0x9F) {
			nonPrintable++
		}
	}
	if total > 0 && float64(nonPrintable)/float64(total) > 0.1 {
		score -= 30
	}

	lower := strings.ToLower(text)
	for _, token := range knownHeaderTokens {
		if strings.Contains(lower, token) {
			score += 15
			break
		}
	}

	for _, r := range lower {
		if strings.ContainsRune(accentedLatin, r) {
			score += 10
			break
		}
	}

	for _, term := range bankingTerms {
		if strings.Contains(lower, term) {
			score += 5
			break
		}
	}

	// excess question marks usually mean a transcoding already went wrong
	if total > 0 && float64(strings.Count(text, "?")) > float64(total)*0.05 {
		score -= 20
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
