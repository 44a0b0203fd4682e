package dedup

import (
	"testing"

	"financas/internal/core"
)

func existingTx(descricao string, cents int64, tipo core.TransactionType, date core.Date) core.Transaction {
	return core.Transaction{
		Descricao: descricao,
		Valor:     core.NewMoney(cents),
		Tipo:      tipo,
		Data:      date,
	}
}

func TestStrictSameCalendarDay(t *testing.T) {
	existing := []core.Transaction{
		existingTx("Salário", 500000, core.Income, core.NewDate(2024, 1, 1)),
	}
	detector := NewStrict(existing)

	// Time-of-day on the candidate's timestamp must not matter.
	c := Candidate{Descricao: "Salário", Valor: core.NewMoney(500000), Data: "2024-01-01T18:22:41.000Z"}
	if !detector.IsDuplicate(c) {
		t.Error("identical descricao/valor on the same calendar day must be a duplicate")
	}
}

func TestStrictNoNormalization(t *testing.T) {
	detector := NewStrict([]core.Transaction{
		existingTx("Salário", 500000, core.Income, core.NewDate(2024, 1, 1)),
	})

	cases := []Candidate{
		{Descricao: "salário", Valor: core.NewMoney(500000), Data: "2024-01-01"},  // case differs
		{Descricao: "Salario", Valor: core.NewMoney(500000), Data: "2024-01-01"},  // accent differs
		{Descricao: "Salário ", Valor: core.NewMoney(500000), Data: "2024-01-01"}, // whitespace differs
		{Descricao: "Salário", Valor: core.NewMoney(500001), Data: "2024-01-01"},  // one cent off
		{Descricao: "Salário", Valor: core.NewMoney(500000), Data: "2024-01-02"},  // next day
	}
	for i, c := range cases {
		if detector.IsDuplicate(c) {
			t.Errorf("case %d: strict matching must not tolerate any difference", i)
		}
	}
}

func TestStrictValorRendering(t *testing.T) {
	// 5000.00 stored and 5000 submitted are the same key: both render "5000".
	detector := NewStrict([]core.Transaction{
		existingTx("Aluguel", 500000, core.Expense, core.NewDate(2024, 2, 5)),
	})
	c := Candidate{Descricao: "Aluguel", Valor: core.NewMoney(500000), Data: "2024-02-05"}
	if !detector.IsDuplicate(c) {
		t.Error("valor must compare by canonical rendering, not raw text")
	}
}

func TestStrictEmptySet(t *testing.T) {
	detector := NewStrict(nil)
	if detector.IsDuplicate(Candidate{Descricao: "x", Valor: core.NewMoney(1), Data: "2024-01-01"}) {
		t.Error("nothing is a duplicate of an empty record set")
	}
}
