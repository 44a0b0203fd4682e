package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"financas/internal/auth"
	"financas/internal/core"
	"financas/internal/storage"
)

// Resource selectors accepted by the export endpoint.
const (
	ExportTransactions = "transactions"
	ExportAccounts     = "accounts"
	ExportCategories   = "categories"
	ExportAll          = "all"
)

// ExportQuery narrows an export. Zero-value dates mean no bound on that side.
type ExportQuery struct {
	Resource string
	From     *core.Date
	To       *core.Date
}

// ExportSnapshot is the selected slice of an owner's data, ready for
// serialization as JSON or CSV.
type ExportSnapshot struct {
	Transactions []core.Transaction `json:"transactions,omitempty"`
	Accounts     []core.Account     `json:"accounts,omitempty"`
	Categories   []core.Category    `json:"categories,omitempty"`
}

// ExportService reads an owner's records for download.
type ExportService struct {
	store storage.Store
}

// NewExportService wires the service.
func NewExportService(store storage.Store) *ExportService {
	return &ExportService{store: store}
}

// Snapshot fetches the requested resources. The date range applies to
// transactions only; accounts and categories have no date axis.
func (s *ExportService) Snapshot(ctx context.Context, id auth.Identity, q ExportQuery) (*ExportSnapshot, error) {
	resource := q.Resource
	if resource == "" {
		resource = ExportAll
	}
	switch resource {
	case ExportTransactions, ExportAccounts, ExportCategories, ExportAll:
	default:
		return nil, fmt.Errorf("%w: unknown export resource %q", core.ErrInvalidStructure, q.Resource)
	}

	snapshot := &ExportSnapshot{}
	if resource == ExportTransactions || resource == ExportAll {
		transactions, err := queryOwned[core.Transaction](ctx, s.store, storage.TableTransactions, id.OwnerID)
		if err != nil {
			return nil, err
		}
		snapshot.Transactions = filterByDate(transactions, q.From, q.To)
	}
	if resource == ExportAccounts || resource == ExportAll {
		accounts, err := queryOwned[core.Account](ctx, s.store, storage.TableAccounts, id.OwnerID)
		if err != nil {
			return nil, err
		}
		snapshot.Accounts = accounts
	}
	if resource == ExportCategories || resource == ExportAll {
		categories, err := queryOwned[core.Category](ctx, s.store, storage.TableCategories, id.OwnerID)
		if err != nil {
			return nil, err
		}
		snapshot.Categories = categories
	}
	return snapshot, nil
}

func filterByDate(transactions []core.Transaction, from, to *core.Date) []core.Transaction {
	if from == nil && to == nil {
		return transactions
	}
	kept := make([]core.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if from != nil && t.Data.Before(from.Time) {
			continue
		}
		if to != nil && t.Data.After(to.Time) {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}

// RenderCSV writes the snapshot as flat tables. A single-resource export is
// one headed table; "all" concatenates the tables with a section line before
// each so the file stays openable in a spreadsheet.
func (s *ExportService) RenderCSV(w io.Writer, snap *ExportSnapshot) error {
	cw := csv.NewWriter(w)
	sections := 0
	sectionLine := func(name string) error {
		if sections > 0 {
			if err := cw.Write([]string{""}); err != nil {
				return err
			}
		}
		sections++
		return cw.Write([]string{"# " + name})
	}

	if len(snap.Transactions) > 0 {
		if err := sectionLine("transactions"); err != nil {
			return err
		}
		if err := cw.Write([]string{"id", "descricao", "valor", "tipo", "data", "billingMonth", "recurring", "installment", "ownership", "categoryId", "accountId", "tags"}); err != nil {
			return err
		}
		for _, t := range snap.Transactions {
			if err := cw.Write([]string{
				t.ID,
				t.Descricao,
				t.Valor.String(),
				string(t.Tipo),
				t.Data.String(),
				t.BillingMonth.String(),
				strconv.FormatBool(t.Recurring),
				installmentLabel(t.InstallmentIndex, t.InstallmentCount),
				string(t.Ownership),
				deref(t.CategoryID),
				deref(t.AccountID),
				strings.Join(t.Tags, ";"),
			}); err != nil {
				return err
			}
		}
	}

	if len(snap.Accounts) > 0 {
		if err := sectionLine("accounts"); err != nil {
			return err
		}
		if err := cw.Write([]string{"id", "name", "type", "bank", "balance", "active"}); err != nil {
			return err
		}
		for _, a := range snap.Accounts {
			if err := cw.Write([]string{
				a.ID,
				a.Name,
				string(a.Type),
				deref(a.Bank),
				a.Balance.String(),
				strconv.FormatBool(a.Active),
			}); err != nil {
				return err
			}
		}
	}

	if len(snap.Categories) > 0 {
		if err := sectionLine("categories"); err != nil {
			return err
		}
		if err := cw.Write([]string{"id", "name", "type", "cor", "group", "monthlyLimit"}); err != nil {
			return err
		}
		for _, c := range snap.Categories {
			limit := ""
			if c.MonthlyLimit != nil {
				limit = c.MonthlyLimit.String()
			}
			if err := cw.Write([]string{
				c.ID,
				c.Name,
				string(c.Type),
				c.Cor,
				string(c.Group),
				limit,
			}); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func installmentLabel(index, count *int) string {
	if index == nil || count == nil {
		return ""
	}
	return fmt.Sprintf("%d/%d", *index, *count)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
