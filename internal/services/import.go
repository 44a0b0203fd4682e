package services

import (
	"context"
	"log/slog"

	"financas/internal/auth"
	"financas/internal/core"
	"financas/internal/dedup"
	"financas/internal/installment"
	"financas/internal/storage"
	"financas/internal/validate"
)

// Resource keys of an import request. The wire keeps the producer's
// Portuguese names; validation errors group under the same keys.
const (
	ResourceContas     = "contas"
	ResourceCategorias = "categorias"
	ResourceTransacoes = "transacoes"
)

// ImportRequest is a bulk load of external records.
type ImportRequest struct {
	Contas         []core.AccountInput     `json:"contas,omitempty"`
	Categorias     []core.CategoryInput    `json:"categorias,omitempty"`
	Transacoes     []core.TransactionInput `json:"transacoes,omitempty"`
	SkipDuplicates bool                    `json:"skipDuplicates,omitempty"`
	Preview        bool                    `json:"preview,omitempty"`
}

// ImportOutcome reports one resource kind of an executed import.
type ImportOutcome struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
}

// ImportPreview reports one resource kind of a previewed import.
type ImportPreview struct {
	Total      int `json:"total"`
	Duplicates int `json:"duplicates"`
}

// ImportResult is the terminal state of an import request.
type ImportResult struct {
	Preview   bool                     `json:"preview"`
	Previewed map[string]ImportPreview `json:"previewed,omitempty"`
	Resources map[string]ImportOutcome `json:"resources,omitempty"`
}

// CandidateReview is one loosely-structured candidate row after the fuzzy
// duplicate check. Flagged rows default to unselected but are never
// dropped: the caller makes the final keep/skip decision per row.
type CandidateReview struct {
	Row       core.TransactionInput `json:"row"`
	Duplicate bool                  `json:"duplicate"`
	Selected  bool                  `json:"selected"`
}

// ImportService drives the bulk-import and capture-review workflows.
type ImportService struct {
	store     storage.Store
	publisher EventPublisher
}

// NewImportService wires the service. publisher may be nil.
func NewImportService(store storage.Store, publisher EventPublisher) *ImportService {
	return &ImportService{store: store, publisher: publisher}
}

// Run validates every submitted row of every kind, then either previews or
// executes. Any validation error anywhere rejects the whole request with
// the full grouped list and nothing written.
func (s *ImportService) Run(ctx context.Context, id auth.Identity, req ImportRequest) (*ImportResult, error) {
	grouped := make(map[string][]core.ValidationError)
	for i, row := range req.Contas {
		if errs := validate.Account(row, i); len(errs) > 0 {
			grouped[ResourceContas] = append(grouped[ResourceContas], errs...)
		}
	}
	for i, row := range req.Categorias {
		if errs := validate.Category(row, i); len(errs) > 0 {
			grouped[ResourceCategorias] = append(grouped[ResourceCategorias], errs...)
		}
	}
	for i, row := range req.Transacoes {
		errs := validate.Transaction(row, i)
		// Imported rows are stored as-is, so the installment pair must
		// already be complete and in range.
		errs = append(errs, validate.InstallmentPair(row, i)...)
		if len(errs) > 0 {
			grouped[ResourceTransacoes] = append(grouped[ResourceTransacoes], errs...)
		}
	}
	if len(grouped) > 0 {
		return nil, &core.ValidationFailedError{Errors: grouped}
	}

	if req.Preview {
		return s.preview(ctx, id, req)
	}

	// Fixed kind order: accounts, categories, transactions. A failed batch
	// shows up in its own outcome; later kinds still run.
	result := &ImportResult{Resources: make(map[string]ImportOutcome, 3)}
	if len(req.Contas) > 0 {
		result.Resources[ResourceContas] = s.importAccounts(ctx, id.OwnerID, req.Contas)
	}
	if len(req.Categorias) > 0 {
		result.Resources[ResourceCategorias] = s.importCategories(ctx, id.OwnerID, req.Categorias)
	}
	if len(req.Transacoes) > 0 {
		result.Resources[ResourceTransacoes] = s.importTransactions(ctx, id.OwnerID, req.Transacoes, req.SkipDuplicates)
	}

	counts := make(map[string]int, len(result.Resources))
	for kind, outcome := range result.Resources {
		counts[kind] = outcome.Imported
	}
	publishEvent(ctx, s.publisher, "import", id.OwnerID, counts)

	return result, nil
}

// preview counts what an execution would do, writing nothing. The strict
// duplicate check runs over transactions only.
func (s *ImportService) preview(ctx context.Context, id auth.Identity, req ImportRequest) (*ImportResult, error) {
	previewed := make(map[string]ImportPreview, 3)
	if len(req.Contas) > 0 {
		previewed[ResourceContas] = ImportPreview{Total: len(req.Contas)}
	}
	if len(req.Categorias) > 0 {
		previewed[ResourceCategorias] = ImportPreview{Total: len(req.Categorias)}
	}
	if len(req.Transacoes) > 0 {
		existing, err := queryOwned[core.Transaction](ctx, s.store, storage.TableTransactions, id.OwnerID)
		if err != nil {
			return nil, err
		}
		strict := dedup.NewStrict(existing)
		duplicates := 0
		for _, row := range req.Transacoes {
			if strict.IsDuplicate(candidateOf(row)) {
				duplicates++
			}
		}
		previewed[ResourceTransacoes] = ImportPreview{Total: len(req.Transacoes), Duplicates: duplicates}
	}
	return &ImportResult{Preview: true, Previewed: previewed}, nil
}

func (s *ImportService) importAccounts(ctx context.Context, ownerID string, inputs []core.AccountInput) ImportOutcome {
	accounts := make([]core.Account, 0, len(inputs))
	for _, in := range inputs {
		active := true
		if in.Active != nil {
			active = *in.Active
		}
		accounts = append(accounts, core.Account{
			Name:    in.Name,
			Type:    core.AccountType(in.Type),
			Bank:    in.Bank,
			Balance: in.Balance,
			Color:   in.Color,
			Icon:    in.Icon,
			Active:  active,
			OwnerID: ownerID,
		})
	}
	return s.insertKind(ctx, storage.TableAccounts, ownerID, mustRows(accounts))
}

func (s *ImportService) importCategories(ctx context.Context, ownerID string, inputs []core.CategoryInput) ImportOutcome {
	categories := make([]core.Category, 0, len(inputs))
	for _, in := range inputs {
		categories = append(categories, core.Category{
			Name:         in.Name,
			Type:         core.TransactionType(in.Type),
			Cor:          in.Cor,
			Icon:         in.Icon,
			Group:        core.CategoryGroup(in.Group),
			MonthlyLimit: in.MonthlyLimit,
			OwnerID:      ownerID,
		})
	}
	return s.insertKind(ctx, storage.TableCategories, ownerID, mustRows(categories))
}

func (s *ImportService) importTransactions(ctx context.Context, ownerID string, inputs []core.TransactionInput, skipDuplicates bool) ImportOutcome {
	var outcome ImportOutcome

	var strict *dedup.Strict
	if skipDuplicates {
		existing, err := queryOwned[core.Transaction](ctx, s.store, storage.TableTransactions, ownerID)
		if err != nil {
			slog.ErrorContext(ctx, "Import failed to read existing transactions",
				"resource", storage.TableTransactions, "action", "query", "error", err)
			outcome.Errors = len(inputs)
			return outcome
		}
		strict = dedup.NewStrict(existing)
	}

	rows := make([]core.Transaction, 0, len(inputs))
	for _, in := range inputs {
		if strict != nil && strict.IsDuplicate(candidateOf(in)) {
			outcome.Skipped++
			continue
		}
		tx, err := transactionOf(in, ownerID)
		if err != nil {
			// The validator already passed this row; a conversion failure
			// here is a row the store must not see.
			slog.WarnContext(ctx, "Skipping unconvertible transaction row", "error", err)
			outcome.Errors++
			continue
		}
		rows = append(rows, tx)
	}

	if len(rows) == 0 {
		return outcome
	}
	inserted := s.insertKind(ctx, storage.TableTransactions, ownerID, mustRows(rows))
	outcome.Imported = inserted.Imported
	outcome.Errors += inserted.Errors
	return outcome
}

// insertKind runs one atomic batch insert and folds the result into an
// outcome instead of propagating, so sibling kinds still run.
func (s *ImportService) insertKind(ctx context.Context, table, ownerID string, rows []storage.Row) ImportOutcome {
	if len(rows) == 0 {
		return ImportOutcome{}
	}
	created, err := s.store.InsertBatch(ctx, table, stampOwner(rows, ownerID))
	if err != nil {
		slog.ErrorContext(ctx, "Import batch failed",
			"resource", table, "action", "insert", "error", err)
		return ImportOutcome{Errors: len(rows)}
	}
	return ImportOutcome{Imported: len(created)}
}

// PreviewCandidates runs the fuzzy strategy over loosely-structured rows
// (OCR-derived captures). Every row comes back; duplicates merely default
// to unselected.
func (s *ImportService) PreviewCandidates(ctx context.Context, id auth.Identity, candidates []core.TransactionInput) ([]CandidateReview, error) {
	existing, err := queryOwned[core.Transaction](ctx, s.store, storage.TableTransactions, id.OwnerID)
	if err != nil {
		return nil, err
	}
	fuzzy := dedup.NewFuzzy(existing)

	reviews := make([]CandidateReview, 0, len(candidates))
	for _, row := range candidates {
		dup := fuzzy.IsDuplicate(candidateOf(row))
		reviews = append(reviews, CandidateReview{Row: row, Duplicate: dup, Selected: !dup})
	}
	return reviews, nil
}

// candidateOf adapts an input row to the dedup candidate shape.
func candidateOf(in core.TransactionInput) dedup.Candidate {
	return dedup.Candidate{
		Descricao:        in.Descricao,
		Valor:            in.Valor,
		Tipo:             core.TransactionType(in.Tipo),
		Data:             in.Data,
		InstallmentIndex: in.InstallmentIndex,
		InstallmentCount: in.InstallmentCount,
	}
}

// transactionOf converts a validated input row into its stored shape,
// computing the billing month the single-transaction way.
func transactionOf(in core.TransactionInput, ownerID string) (core.Transaction, error) {
	date, err := core.ParseDate(in.Data)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Descricao:        in.Descricao,
		Valor:            in.Valor,
		Tipo:             core.TransactionType(in.Tipo),
		Data:             date,
		BillingMonth:     installment.BillingMonthFor(date, in.BillingMonth),
		Recurring:        in.Recurring,
		InstallmentCount: in.InstallmentCount,
		InstallmentIndex: in.InstallmentIndex,
		Tags:             in.Tags,
		Notes:            in.Notes,
		Ownership:        core.Ownership(in.Ownership),
		CategoryID:       in.CategoryID,
		AccountID:        in.AccountID,
		OwnerID:          ownerID,
	}, nil
}

// mustRows encodes typed records whose JSON shape cannot fail.
func mustRows[T any](values []T) []storage.Row {
	rows, err := storage.EncodeRows(values)
	if err != nil {
		// Domain types marshal deterministically; reaching this is a bug.
		panic(err)
	}
	return rows
}
