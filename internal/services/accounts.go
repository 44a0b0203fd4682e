package services

import (
	"context"
	"fmt"

	"financas/internal/auth"
	"financas/internal/core"
	"financas/internal/storage"
)

// AccountDeleteOutcome says what Delete actually did: a referenced account
// is deactivated rather than removed unless the caller forces it.
type AccountDeleteOutcome struct {
	Deleted      bool `json:"deleted"`
	Deactivated  bool `json:"deactivated"`
	Transactions int  `json:"transactions"`
}

// AccountService removes accounts without orphaning the transactions that
// reference them.
type AccountService struct {
	store storage.Store
}

// NewAccountService wires the service.
func NewAccountService(store storage.Store) *AccountService {
	return &AccountService{store: store}
}

// Delete removes the account when nothing references it. When transactions
// reference it, the default is to deactivate the account and keep history
// intact; force detaches every referencing transaction first and then hard
// deletes.
func (s *AccountService) Delete(ctx context.Context, id auth.Identity, accountID string, force bool) (*AccountDeleteOutcome, error) {
	rows, err := s.store.Query(ctx, storage.TableAccounts, storage.Filter{
		storage.FieldID:      accountID,
		storage.FieldOwnerID: id.OwnerID,
	})
	if err != nil {
		return nil, &core.StorageError{Resource: storage.TableAccounts, Action: "query", Err: err}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: account %s", core.ErrNotFound, accountID)
	}

	referencing, err := s.store.Query(ctx, storage.TableTransactions, storage.Filter{
		storage.FieldOwnerID: id.OwnerID,
		"accountId":          accountID,
	})
	if err != nil {
		return nil, &core.StorageError{Resource: storage.TableTransactions, Action: "query", Err: err}
	}

	if len(referencing) > 0 && !force {
		err := s.store.UpdateBatch(ctx, storage.TableAccounts, storage.Filter{
			storage.FieldID:      accountID,
			storage.FieldOwnerID: id.OwnerID,
		}, storage.Row{"active": false})
		if err != nil {
			return nil, &core.StorageError{Resource: storage.TableAccounts, Action: "update", Err: err}
		}
		return &AccountDeleteOutcome{Deactivated: true, Transactions: len(referencing)}, nil
	}

	if len(referencing) > 0 {
		err := s.store.UpdateBatch(ctx, storage.TableTransactions, storage.Filter{
			storage.FieldOwnerID: id.OwnerID,
			"accountId":          accountID,
		}, storage.Row{"accountId": nil})
		if err != nil {
			return nil, &core.StorageError{Resource: storage.TableTransactions, Action: "update", Err: err}
		}
	}

	if err := s.store.DeleteBatch(ctx, storage.TableAccounts, storage.Filter{
		storage.FieldID:      accountID,
		storage.FieldOwnerID: id.OwnerID,
	}); err != nil {
		return nil, &core.StorageError{Resource: storage.TableAccounts, Action: "delete", Err: err}
	}
	return &AccountDeleteOutcome{Deleted: true, Transactions: len(referencing)}, nil
}
