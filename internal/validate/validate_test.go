package validate

import (
	"testing"

	"financas/internal/core"
)

func fields(errs []core.ValidationError) map[string]bool {
	out := make(map[string]bool, len(errs))
	for _, e := range errs {
		out[e.Field] = true
	}
	return out
}

func TestTransactionValid(t *testing.T) {
	row := core.TransactionInput{
		Descricao: "Supermercado",
		Valor:     core.NewMoney(15990),
		Tipo:      "EXPENSE",
		Data:      "2024-03-10",
	}
	if errs := Transaction(row, 0); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestTransactionMissingFields(t *testing.T) {
	errs := Transaction(core.TransactionInput{}, 3)
	got := fields(errs)
	for _, f := range []string{"descricao", "valor", "tipo", "data"} {
		if !got[f] {
			t.Errorf("expected an error on field %q, got %v", f, errs)
		}
	}
	for _, e := range errs {
		if e.Index != 3 {
			t.Errorf("error on %q has index %d, want 3", e.Field, e.Index)
		}
	}
}

func TestTransactionFieldRules(t *testing.T) {
	cases := []struct {
		name  string
		row   core.TransactionInput
		field string
	}{
		{
			name:  "zero valor",
			row:   core.TransactionInput{Descricao: "x", Valor: core.NewMoney(0), Tipo: "EXPENSE", Data: "2024-01-01"},
			field: "valor",
		},
		{
			name:  "unknown tipo",
			row:   core.TransactionInput{Descricao: "x", Valor: core.NewMoney(1), Tipo: "LOAN", Data: "2024-01-01"},
			field: "tipo",
		},
		{
			name:  "non-ISO date",
			row:   core.TransactionInput{Descricao: "x", Valor: core.NewMoney(1), Tipo: "EXPENSE", Data: "01/02/2024"},
			field: "data",
		},
		{
			name:  "bad ownership",
			row:   core.TransactionInput{Descricao: "x", Valor: core.NewMoney(1), Tipo: "EXPENSE", Data: "2024-01-01", Ownership: "SHARED"},
			field: "ownership",
		},
		{
			name:  "single installment",
			row:   core.TransactionInput{Descricao: "x", Valor: core.NewMoney(1), Tipo: "EXPENSE", Data: "2024-01-01", InstallmentCount: intPtr(1), InstallmentIndex: intPtr(1)},
			field: "installmentCount",
		},
		{
			name:  "index without count",
			row:   core.TransactionInput{Descricao: "x", Valor: core.NewMoney(1), Tipo: "EXPENSE", Data: "2024-01-01", InstallmentIndex: intPtr(2)},
			field: "installmentIndex",
		},
		{
			name:  "index above count",
			row:   core.TransactionInput{Descricao: "x", Valor: core.NewMoney(1), Tipo: "EXPENSE", Data: "2024-01-01", InstallmentCount: intPtr(3), InstallmentIndex: intPtr(4)},
			field: "installmentIndex",
		},
		{
			name:  "zero index",
			row:   core.TransactionInput{Descricao: "x", Valor: core.NewMoney(1), Tipo: "EXPENSE", Data: "2024-01-01", InstallmentCount: intPtr(3), InstallmentIndex: intPtr(0)},
			field: "installmentIndex",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := Transaction(tc.row, 0)
			if len(errs) != 1 || errs[0].Field != tc.field {
				t.Errorf("expected a single error on %q, got %v", tc.field, errs)
			}
		})
	}
}

func TestTransactionAcceptsCompletePair(t *testing.T) {
	row := core.TransactionInput{
		Descricao:        "Notebook (2/5)",
		Valor:            core.NewMoney(50000),
		Tipo:             "EXPENSE",
		Data:             "2024-02-15",
		InstallmentCount: intPtr(5),
		InstallmentIndex: intPtr(2),
	}
	if errs := Transaction(row, 0); len(errs) != 0 {
		t.Fatalf("a complete in-range pair must pass, got %v", errs)
	}
}

func TestInstallmentPair(t *testing.T) {
	base := core.TransactionInput{Descricao: "x", Valor: core.NewMoney(1), Tipo: "EXPENSE", Data: "2024-01-01"}

	if errs := InstallmentPair(base, 0); len(errs) != 0 {
		t.Fatalf("no installment fields must pass, got %v", errs)
	}

	missing := base
	missing.InstallmentCount = intPtr(5)
	errs := InstallmentPair(missing, 0)
	if len(errs) != 1 || errs[0].Field != "installmentIndex" {
		t.Errorf("count without index must fail on installmentIndex, got %v", errs)
	}

	tooLong := base
	tooLong.InstallmentCount = intPtr(49)
	tooLong.InstallmentIndex = intPtr(10)
	errs = InstallmentPair(tooLong, 0)
	if len(errs) != 1 || errs[0].Field != "installmentCount" {
		t.Errorf("count above 48 must fail on installmentCount, got %v", errs)
	}
}

func intPtr(v int) *int { return &v }

func TestTransactionAcceptsTimestampDate(t *testing.T) {
	row := core.TransactionInput{
		Descricao: "Salário",
		Valor:     core.NewMoney(500000),
		Tipo:      "INCOME",
		Data:      "2024-01-01T09:30:00Z",
	}
	if errs := Transaction(row, 0); len(errs) != 0 {
		t.Fatalf("ISO timestamps must pass the date prefix check, got %v", errs)
	}
}

func TestAccount(t *testing.T) {
	ok := core.AccountInput{Name: "Nubank", Type: "CREDIT_CARD"}
	if errs := Account(ok, 0); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	errs := Account(core.AccountInput{Name: "  ", Type: "WALLET"}, 1)
	got := fields(errs)
	if !got["name"] || !got["type"] {
		t.Errorf("expected errors on name and type, got %v", errs)
	}
}

func TestCategory(t *testing.T) {
	ok := core.CategoryInput{Name: "Mercado", Type: "EXPENSE", Cor: "#FF0000", Group: "ESSENTIAL"}
	if errs := Category(ok, 0); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	errs := Category(core.CategoryInput{Type: "TRANSFER", Group: "FUN"}, 2)
	got := fields(errs)
	for _, f := range []string{"name", "type", "cor", "group"} {
		if !got[f] {
			t.Errorf("expected an error on %q, got %v", f, errs)
		}
	}
}
