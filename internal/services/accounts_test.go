package services

import (
	"context"
	"errors"
	"testing"

	"financas/internal/core"
	"financas/internal/storage"
)

func TestDeleteUnknownAccount(t *testing.T) {
	svc := NewAccountService(storage.NewMemoryStore())

	_, err := svc.Delete(context.Background(), testIdentity, "missing", false)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteUnreferencedAccountRemovesIt(t *testing.T) {
	store := storage.NewMemoryStore()
	account := seedAccount(t, store, testIdentity.OwnerID, core.Account{Name: "Poupança", Type: core.Savings, Active: true})
	svc := NewAccountService(store)

	outcome, err := svc.Delete(context.Background(), testIdentity, account.ID, false)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !outcome.Deleted || outcome.Deactivated {
		t.Errorf("outcome = %+v, want hard delete", outcome)
	}
	if got := countRows(t, store, storage.TableAccounts, testIdentity.OwnerID); got != 0 {
		t.Errorf("store still has %d accounts", got)
	}
}

func TestDeleteReferencedAccountDeactivates(t *testing.T) {
	store := storage.NewMemoryStore()
	account := seedAccount(t, store, testIdentity.OwnerID, core.Account{Name: "Cartão", Type: core.CreditCard, Active: true})

	tx := simpleTransaction("Fatura", 89000, "2025-05-10")
	tx.AccountID = &account.ID
	seedTransactions(t, store, testIdentity.OwnerID, tx)

	svc := NewAccountService(store)
	outcome, err := svc.Delete(context.Background(), testIdentity, account.ID, false)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if outcome.Deleted || !outcome.Deactivated || outcome.Transactions != 1 {
		t.Errorf("outcome = %+v, want deactivation touching 1 transaction", outcome)
	}

	accounts, err := queryOwned[core.Account](context.Background(), store, storage.TableAccounts, testIdentity.OwnerID)
	if err != nil {
		t.Fatalf("query accounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Active {
		t.Errorf("accounts = %+v, want the account kept but inactive", accounts)
	}

	// History untouched.
	txs, err := queryOwned[core.Transaction](context.Background(), store, storage.TableTransactions, testIdentity.OwnerID)
	if err != nil {
		t.Fatalf("query transactions: %v", err)
	}
	if txs[0].AccountID == nil || *txs[0].AccountID != account.ID {
		t.Errorf("transaction accountId = %v, want still %s", txs[0].AccountID, account.ID)
	}
}

func TestForceDeleteDetachesTransactions(t *testing.T) {
	store := storage.NewMemoryStore()
	account := seedAccount(t, store, testIdentity.OwnerID, core.Account{Name: "Cartão", Type: core.CreditCard, Active: true})

	first := simpleTransaction("Fatura abril", 89000, "2025-04-10")
	first.AccountID = &account.ID
	second := simpleTransaction("Fatura maio", 91000, "2025-05-10")
	second.AccountID = &account.ID
	seedTransactions(t, store, testIdentity.OwnerID, first, second)

	svc := NewAccountService(store)
	outcome, err := svc.Delete(context.Background(), testIdentity, account.ID, true)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !outcome.Deleted || outcome.Transactions != 2 {
		t.Errorf("outcome = %+v, want hard delete touching 2 transactions", outcome)
	}
	if got := countRows(t, store, storage.TableAccounts, testIdentity.OwnerID); got != 0 {
		t.Errorf("store still has %d accounts", got)
	}

	txs, err := queryOwned[core.Transaction](context.Background(), store, storage.TableTransactions, testIdentity.OwnerID)
	if err != nil {
		t.Fatalf("query transactions: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("force delete removed transactions: %d left, want 2", len(txs))
	}
	for _, tx := range txs {
		if tx.AccountID != nil {
			t.Errorf("transaction %q still references %s", tx.Descricao, *tx.AccountID)
		}
	}
}

func TestDeleteIsOwnerScoped(t *testing.T) {
	store := storage.NewMemoryStore()
	other := seedAccount(t, store, "owner-2", core.Account{Name: "Alheia", Type: core.Checking, Active: true})
	svc := NewAccountService(store)

	_, err := svc.Delete(context.Background(), testIdentity, other.ID, true)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for another owner's account", err)
	}
	if got := countRows(t, store, storage.TableAccounts, "owner-2"); got != 1 {
		t.Errorf("other owner's account count = %d, want 1", got)
	}
}
