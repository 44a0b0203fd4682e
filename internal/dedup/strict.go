package dedup

import "financas/internal/core"

// Strict matches on the exact key descricao|valor|calendar-day. No case,
// accent or whitespace normalization is applied: re-importing the same file
// must hit, a near-miss must not. The date part is the first ten characters
// of the submitted date, so the time-of-day of a timestamp never matters.
type Strict struct {
	keys map[string]struct{}
}

// NewStrict indexes the existing records.
func NewStrict(existing []core.Transaction) *Strict {
	s := &Strict{keys: make(map[string]struct{}, len(existing))}
	for _, t := range existing {
		s.keys[strictKey(t.Descricao, t.Valor, t.Data.String())] = struct{}{}
	}
	return s
}

// IsDuplicate reports whether the candidate's key is already indexed.
func (s *Strict) IsDuplicate(c Candidate) bool {
	_, ok := s.keys[strictKey(c.Descricao, c.Valor, c.Data)]
	return ok
}

func strictKey(descricao string, valor core.Money, data string) string {
	if len(data) > 10 {
		data = data[:10]
	}
	return descricao + "|" + valor.String() + "|" + data
}
