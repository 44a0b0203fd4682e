package services

import (
	"context"
	"fmt"

	"financas/internal/auth"
	"financas/internal/core"
	"financas/internal/installment"
	"financas/internal/storage"
	"financas/internal/validate"
)

// TransactionService creates transactions, splitting installment purchases
// into their full series in one atomic batch.
type TransactionService struct {
	store storage.Store
}

// NewTransactionService wires the service.
func NewTransactionService(store storage.Store) *TransactionService {
	return &TransactionService{store: store}
}

// Create validates and stores one submitted transaction. When the input
// carries installmentCount >= 2 the whole series is generated and inserted
// together; either every installment lands or none does.
func (s *TransactionService) Create(ctx context.Context, id auth.Identity, in core.TransactionInput) ([]core.Transaction, error) {
	if errs := validateOne(in); len(errs) > 0 {
		return nil, &core.ValidationFailedError{
			Errors: map[string][]core.ValidationError{ResourceTransacoes: errs},
		}
	}

	accountType, err := s.resolveAccountType(ctx, id.OwnerID, in.AccountID)
	if err != nil {
		return nil, err
	}

	if in.InstallmentCount != nil && *in.InstallmentCount >= 2 {
		return s.createInstallments(ctx, id.OwnerID, in, accountType)
	}

	tx, err := transactionOf(in, id.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidDate, err)
	}
	rows, err := s.store.InsertBatch(ctx, storage.TableTransactions, mustRows([]core.Transaction{tx}))
	if err != nil {
		return nil, &core.StorageError{Resource: storage.TableTransactions, Action: "insert", Err: err}
	}
	return storage.DecodeRows[core.Transaction](rows)
}

func (s *TransactionService) createInstallments(ctx context.Context, ownerID string, in core.TransactionInput, accountType core.AccountType) ([]core.Transaction, error) {
	start, err := core.ParseDate(in.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidDate, err)
	}
	series, err := installment.Split(installment.SplitInput{
		Descricao:         in.Descricao,
		Valor:             in.Valor,
		Tipo:              core.TransactionType(in.Tipo),
		StartDate:         start,
		Count:             *in.InstallmentCount,
		FirstBillingMonth: in.BillingMonth,
		AccountType:       accountType,
		Recurring:         in.Recurring,
		Tags:              in.Tags,
		Notes:             in.Notes,
		Ownership:         core.Ownership(in.Ownership),
		CategoryID:        in.CategoryID,
		AccountID:         in.AccountID,
	})
	if err != nil {
		return nil, err
	}
	for i := range series {
		series[i].OwnerID = ownerID
	}
	rows, err := s.store.InsertBatch(ctx, storage.TableTransactions, mustRows(series))
	if err != nil {
		return nil, &core.StorageError{Resource: storage.TableTransactions, Action: "insert", Err: err}
	}
	return storage.DecodeRows[core.Transaction](rows)
}

// resolveAccountType looks the referenced account up so credit-card series
// can carry the right billing semantics. A dangling reference is an error;
// no reference means no account semantics apply.
func (s *TransactionService) resolveAccountType(ctx context.Context, ownerID string, accountID *string) (core.AccountType, error) {
	if accountID == nil || *accountID == "" {
		return "", nil
	}
	rows, err := s.store.Query(ctx, storage.TableAccounts, storage.Filter{
		storage.FieldID:      *accountID,
		storage.FieldOwnerID: ownerID,
	})
	if err != nil {
		return "", &core.StorageError{Resource: storage.TableAccounts, Action: "query", Err: err}
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("%w: account %s", core.ErrNotFound, *accountID)
	}
	accounts, err := storage.DecodeRows[core.Account](rows)
	if err != nil {
		return "", err
	}
	return accounts[0].Type, nil
}

func validateOne(in core.TransactionInput) []core.ValidationError {
	return validate.Transaction(in, 0)
}
