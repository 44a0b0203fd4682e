package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is the in-process Store backend: the default for local runs
// and the collaborator every service test talks to.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][]Row

	// failInsertOn lets tests simulate a collaborator failure for one table.
	failInsertOn map[string]error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables:       make(map[string][]Row),
		failInsertOn: make(map[string]error),
	}
}

// FailInsertsOn makes every InsertBatch on table fail with err. Pass a nil
// error to clear. Only tests use this.
func (m *MemoryStore) FailInsertsOn(table string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failInsertOn, table)
		return
	}
	m.failInsertOn[table] = err
}

// Query returns copies of the rows matching filter, in insertion order.
func (m *MemoryStore) Query(_ context.Context, table string, filter Filter) ([]Row, error) {
	if !KnownTable(table) {
		return nil, ErrUnknownTable
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Row
	for _, row := range m.tables[table] {
		if matchesFilter(row, filter) {
			out = append(out, cloneRow(row))
		}
	}
	return out, nil
}

// InsertBatch appends all rows or none, assigning ids where absent.
func (m *MemoryStore) InsertBatch(_ context.Context, table string, rows []Row) ([]Row, error) {
	if !KnownTable(table) {
		return nil, ErrUnknownTable
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failInsertOn[table]; err != nil {
		return nil, err
	}

	created := make([]Row, 0, len(rows))
	for _, row := range rows {
		stored := cloneRow(row)
		if id, ok := stored[FieldID].(string); !ok || id == "" {
			stored[FieldID] = uuid.NewString()
		}
		created = append(created, cloneRow(stored))
		m.tables[table] = append(m.tables[table], stored)
	}
	return created, nil
}

// UpdateBatch merges patch into every row matching filter.
func (m *MemoryStore) UpdateBatch(_ context.Context, table string, filter Filter, patch Row) error {
	if !KnownTable(table) {
		return ErrUnknownTable
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range m.tables[table] {
		if matchesFilter(row, filter) {
			for k, v := range patch {
				row[k] = v
			}
		}
	}
	return nil
}

// DeleteBatch removes every row matching filter.
func (m *MemoryStore) DeleteBatch(_ context.Context, table string, filter Filter) error {
	if !KnownTable(table) {
		return ErrUnknownTable
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.tables[table][:0]
	for _, row := range m.tables[table] {
		if !matchesFilter(row, filter) {
			kept = append(kept, row)
		}
	}
	m.tables[table] = kept
	return nil
}

func cloneRow(row Row) Row {
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
