package services

import (
	"context"
	"testing"

	"financas/internal/auth"
	"financas/internal/core"
	"financas/internal/storage"
)

var testIdentity = auth.Identity{OwnerID: "owner-1", Email: "ana@example.com"}

type capturedEvent struct {
	Operation string
	OwnerID   string
	Counts    map[string]int
}

// fakePublisher records every event instead of talking to a broker.
type fakePublisher struct {
	events []capturedEvent
}

func (f *fakePublisher) PublishReconEvent(_ context.Context, operation, ownerID string, counts map[string]int) error {
	f.events = append(f.events, capturedEvent{Operation: operation, OwnerID: ownerID, Counts: counts})
	return nil
}

func seedTransactions(t *testing.T, store storage.Store, ownerID string, txs ...core.Transaction) {
	t.Helper()
	for i := range txs {
		txs[i].OwnerID = ownerID
	}
	rows, err := storage.EncodeRows(txs)
	if err != nil {
		t.Fatalf("encode transactions: %v", err)
	}
	if _, err := store.InsertBatch(context.Background(), storage.TableTransactions, rows); err != nil {
		t.Fatalf("seed transactions: %v", err)
	}
}

func seedAccount(t *testing.T, store storage.Store, ownerID string, account core.Account) core.Account {
	t.Helper()
	account.OwnerID = ownerID
	row, err := storage.EncodeRow(account)
	if err != nil {
		t.Fatalf("encode account: %v", err)
	}
	created, err := store.InsertBatch(context.Background(), storage.TableAccounts, []storage.Row{row})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	stored, err := storage.DecodeRows[core.Account](created)
	if err != nil {
		t.Fatalf("decode account: %v", err)
	}
	return stored[0]
}

func countRows(t *testing.T, store storage.Store, table, ownerID string) int {
	t.Helper()
	rows, err := store.Query(context.Background(), table, storage.OwnerFilter(ownerID))
	if err != nil {
		t.Fatalf("query %s: %v", table, err)
	}
	return len(rows)
}

func simpleTransaction(descricao string, cents int64, day string) core.Transaction {
	date, _ := core.ParseDate(day)
	return core.Transaction{
		Descricao:    descricao,
		Valor:        core.NewMoney(cents),
		Tipo:         core.Expense,
		Data:         date,
		BillingMonth: date.FirstOfMonth(),
	}
}

func intPtr(v int) *int          { return &v }
func strPtr(v string) *string    { return &v }
