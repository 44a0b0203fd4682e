// Package storage is the persistence collaborator of the reconciliation
// engine: a generic row store with batch CRUD, scoped per call to one owner.
//
// The engine never owns persisted rows. It computes what to read and write
// and hands the rows to a Store; batch calls are atomic within one table,
// which is the only write guarantee the orchestrators rely on.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Resource kind tables. Every Store call names one of these.
const (
	TableUsers        = "users"
	TableAccounts     = "accounts"
	TableCategories   = "categories"
	TableTransactions = "transactions"
	TableInvestments  = "investments"
	TableGoals        = "goals"
)

// Tables lists every known table in a stable order.
var Tables = []string{
	TableUsers,
	TableAccounts,
	TableCategories,
	TableTransactions,
	TableInvestments,
	TableGoals,
}

// Well-known row fields.
const (
	FieldID      = "id"
	FieldOwnerID = "ownerId"
)

// ErrUnknownTable is returned for a table name outside Tables.
var ErrUnknownTable = errors.New("unknown table")

// Row is one stored record in its wire shape.
type Row = map[string]any

// Filter selects rows by field equality. Every engine-issued filter carries
// FieldOwnerID.
type Filter = map[string]any

// Store is the contract the orchestrators consume. InsertBatch and
// DeleteBatch are atomic per call: either every row is written/removed or
// none are.
type Store interface {
	Query(ctx context.Context, table string, filter Filter) ([]Row, error)
	InsertBatch(ctx context.Context, table string, rows []Row) ([]Row, error)
	UpdateBatch(ctx context.Context, table string, filter Filter, patch Row) error
	DeleteBatch(ctx context.Context, table string, filter Filter) error
}

// OwnerFilter scopes a call to one owner's rows.
func OwnerFilter(ownerID string) Filter {
	return Filter{FieldOwnerID: ownerID}
}

// KnownTable reports whether name is a resource kind table.
func KnownTable(name string) bool {
	for _, t := range Tables {
		if t == name {
			return true
		}
	}
	return false
}

// EncodeRow converts a typed record to its row shape via its JSON form.
func EncodeRow(v any) (Row, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	var row Row
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	return row, nil
}

// EncodeRows converts a slice of typed records.
func EncodeRows[T any](values []T) ([]Row, error) {
	rows := make([]Row, 0, len(values))
	for _, v := range values {
		row, err := EncodeRow(v)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// DecodeRows converts rows back into typed records.
func DecodeRows[T any](rows []Row) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}

// matchesFilter applies field equality the way both backends share it.
// Values are compared in their JSON shapes.
func matchesFilter(row Row, filter Filter) bool {
	for field, want := range filter {
		got, ok := row[field]
		if !ok {
			return false
		}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}
