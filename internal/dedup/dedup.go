// Package dedup decides whether an incoming financial record is the same as
// one already on file.
//
// Two strategies exist and are not interchangeable: Strict is an exact-key
// match for the bulk re-import path, Fuzzy is a tolerance match for
// loosely-structured input such as OCR-derived candidates. Callers pick the
// strategy matching the quality of their input.
package dedup

import "financas/internal/core"

// Candidate is one incoming row under duplicate inspection. Data is the raw
// submitted date text and may still carry a time component.
type Candidate struct {
	Descricao        string
	Valor            core.Money
	Tipo             core.TransactionType
	Data             string
	InstallmentIndex *int
	InstallmentCount *int
}

// Strategy flags candidates as duplicates of the records it was built over.
type Strategy interface {
	IsDuplicate(c Candidate) bool
}
