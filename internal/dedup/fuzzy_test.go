package dedup

import (
	"testing"

	"financas/internal/core"
)

func TestFuzzyToleratesNoise(t *testing.T) {
	existing := []core.Transaction{
		existingTx("Supermercado Extra", 15000, core.Expense, core.NewDate(2024, 3, 10)),
	}
	detector := NewFuzzy(existing)

	// Diacritics/case only, one cent off, two days apart: duplicate.
	c := Candidate{
		Descricao: "supermercado extra",
		Valor:     core.NewMoney(15001),
		Tipo:      core.Expense,
		Data:      "2024-03-12",
	}
	if !detector.IsDuplicate(c) {
		t.Error("expected a fuzzy duplicate within all tolerances")
	}

	// Same pair four days apart: not a duplicate.
	c.Data = "2024-03-14"
	if detector.IsDuplicate(c) {
		t.Error("four days apart must fall outside the date tolerance")
	}
}

func TestFuzzyRejectsOutsideTolerances(t *testing.T) {
	existing := []core.Transaction{
		existingTx("Farmácia São João", 4590, core.Expense, core.NewDate(2024, 5, 2)),
	}
	detector := NewFuzzy(existing)
	base := Candidate{
		Descricao: "farmacia sao joao",
		Valor:     core.NewMoney(4590),
		Tipo:      core.Expense,
		Data:      "2024-05-03",
	}

	if !detector.IsDuplicate(base) {
		t.Fatal("base candidate should match")
	}

	diffType := base
	diffType.Tipo = core.Income
	if detector.IsDuplicate(diffType) {
		t.Error("different tipo must not match")
	}

	diffValor := base
	diffValor.Valor = core.NewMoney(4592) // two cents off
	if detector.IsDuplicate(diffValor) {
		t.Error("valor drift beyond one cent must not match")
	}

	diffDesc := base
	diffDesc.Descricao = "posto de gasolina"
	if detector.IsDuplicate(diffDesc) {
		t.Error("unrelated description must not match")
	}

	badDate := base
	badDate.Data = "not-a-date"
	if detector.IsDuplicate(badDate) {
		t.Error("an unparsable date can never match")
	}
}

func TestFuzzyInstallmentRefinement(t *testing.T) {
	existing := []core.Transaction{
		existingTx("Notebook Dell (2/6)", 50000, core.Expense, core.NewDate(2024, 4, 5)),
	}
	detector := NewFuzzy(existing)

	two, six := 2, 6
	same := Candidate{
		Descricao:        "Notebook Dell",
		Valor:            core.NewMoney(50000),
		Tipo:             core.Expense,
		Data:             "2024-04-05",
		InstallmentIndex: &two,
		InstallmentCount: &six,
	}
	if !detector.IsDuplicate(same) {
		t.Error("candidate naming the same installment must match")
	}

	three := 3
	other := same
	other.InstallmentIndex = &three
	if detector.IsDuplicate(other) {
		t.Error("a different installment of the same purchase is not a duplicate")
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Supermercado  Extra", "supermercado extra"},
		{"Farmácia São João", "farmacia sao joao"},
		{"Notebook Parcela 3 de 12", "notebook"},
		{"Notebook parcela 3/12", "notebook"},
		{"Notebook 3/12", "notebook"},
		{"Notebook (3/12)", "notebook"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"mercado central", "mercado central", 1.0},
		{"mercado central", "mercado", 0.9},
		{"posto shell avenida", "posto shell rua", 0.5}, // shared {posto,shell} of 4
		{"", "mercado", 0},
		{"ab cd", "mercado", 0}, // short words only on one side
	}
	for _, tc := range cases {
		if got := Similarity(tc.a, tc.b); got != tc.want {
			t.Errorf("Similarity(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
