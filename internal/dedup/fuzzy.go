package dedup

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"financas/internal/core"
)

// Fuzzy matches with tolerance: same tipo, valor within one cent, dates up
// to three days apart and normalized description similarity of at least
// 0.80. It is meant for OCR-derived candidates where exact keys never hit.
type Fuzzy struct {
	existing []core.Transaction
}

// NewFuzzy builds a fuzzy matcher over the existing records.
func NewFuzzy(existing []core.Transaction) *Fuzzy {
	return &Fuzzy{existing: existing}
}

const (
	maxValorDriftCents = 1
	maxDaysApart       = 3
	minSimilarity      = 0.80
)

var (
	// "parcela 3 de 12", "parcela 3/12" and a trailing "(3/12)" or "3/12".
	parcelaMarker  = regexp.MustCompile(`(?i)parcela\s*\d+\s*(?:de|/)\s*\d+`)
	trailingMarker = regexp.MustCompile(`\(?\s*\d+\s*/\s*\d+\s*\)?\s*$`)

	// Same shapes, capturing index and count, for the installment-aware
	// refinement below.
	parcelaCapture  = regexp.MustCompile(`(?i)parcela\s*(\d+)\s*(?:de|/)\s*(\d+)`)
	trailingCapture = regexp.MustCompile(`\(?\s*(\d+)\s*/\s*(\d+)\s*\)?\s*$`)

	diacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// IsDuplicate reports whether the candidate matches any existing record.
func (f *Fuzzy) IsDuplicate(c Candidate) bool {
	date, err := core.ParseDate(c.Data)
	if err != nil {
		return false
	}
	for _, t := range f.existing {
		if f.matches(c, date, t) {
			return true
		}
	}
	return false
}

func (f *Fuzzy) matches(c Candidate, date core.Date, t core.Transaction) bool {
	if c.Tipo != t.Tipo {
		return false
	}
	if diff := c.Valor.Cents - t.Valor.Cents; diff > maxValorDriftCents || diff < -maxValorDriftCents {
		return false
	}
	if date.DaysApart(t.Data) > maxDaysApart {
		return false
	}
	if Similarity(Normalize(c.Descricao), Normalize(t.Descricao)) < minSimilarity {
		return false
	}

	// A candidate that names an installment only matches the existing record
	// when the record's own marker (if it has one) names the same one.
	// A different marker means a sibling installment, not a duplicate.
	if c.InstallmentIndex != nil && c.InstallmentCount != nil {
		if idx, count, ok := installmentMarker(t.Descricao); ok {
			if idx != *c.InstallmentIndex || count != *c.InstallmentCount {
				return false
			}
		}
	}
	return true
}

// Normalize lowercases, strips diacritics, removes installment markers and
// collapses runs of whitespace.
func Normalize(s string) string {
	s = strings.ToLower(s)
	if stripped, _, err := transform.String(diacritics, s); err == nil {
		s = stripped
	}
	s = parcelaMarker.ReplaceAllString(s, " ")
	s = trailingMarker.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// Similarity scores two normalized descriptions: 1.0 when equal, 0.9 when
// one contains the other, otherwise the ratio of shared words (longer than
// two characters) to the union of both word sets.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a != "" && b != "" && (strings.Contains(a, b) || strings.Contains(b, a)) {
		return 0.9
	}
	wa, wb := wordSet(a), wordSet(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	shared := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			shared++
		}
	}
	union := len(wa) + len(wb) - shared
	return float64(shared) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		if len(w) > 2 {
			set[w] = struct{}{}
		}
	}
	return set
}

// installmentMarker extracts the index/count named by a description's
// installment marker, preferring the explicit "parcela" form.
func installmentMarker(descricao string) (index, count int, ok bool) {
	m := parcelaCapture.FindStringSubmatch(descricao)
	if m == nil {
		m = trailingCapture.FindStringSubmatch(strings.TrimSpace(descricao))
	}
	if m == nil {
		return 0, 0, false
	}
	index, err1 := strconv.Atoi(m[1])
	count, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return index, count, true
}
