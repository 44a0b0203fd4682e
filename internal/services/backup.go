package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"financas/internal/auth"
	"financas/internal/checksum"
	"financas/internal/core"
	"financas/internal/storage"
)

// EngineVersion stamps every envelope this build produces. Restore accepts
// any envelope sharing the major.
const EngineVersion = "1.0.0"

// SupportedMajor is the envelope major version restore accepts.
const SupportedMajor = 1

// BackupEnvelope is a versioned, checksum-sealed export of one owner's full
// data set. Payload keeps the exact bytes it was sealed over; immutable
// once produced.
type BackupEnvelope struct {
	Version       string          `json:"version"`
	CreatedAt     time.Time       `json:"createdAt"`
	OwnerSnapshot core.User       `json:"ownerSnapshot"`
	Payload       json.RawMessage `json:"payload"`
	Checksum      string          `json:"checksum"`
}

// BackupPayload is the sealed content. Field order here is the canonical
// serialization order the checksum depends on; do not reorder.
type BackupPayload struct {
	User         core.User               `json:"user"`
	Accounts     []core.Account          `json:"accounts"`
	Categories   []core.Category         `json:"categories"`
	Transactions []core.Transaction      `json:"transactions"`
	Investments  []core.InvestmentRecord `json:"investments"`
	Goals        []core.Goal             `json:"goals"`
}

// RestoreOptions gate the two non-destructive paths of a restore request.
type RestoreOptions struct {
	Preview       bool
	ConfirmDelete bool
}

// RestoreKindOutcome reports one resource kind of an executed restore.
type RestoreKindOutcome struct {
	Deleted int `json:"deleted"`
	Created int `json:"created"`
	Errors  int `json:"errors"`
}

// RestoreResult is the terminal state of a restore request.
type RestoreResult struct {
	Preview  bool                          `json:"preview"`
	Counts   map[string]int                `json:"counts,omitempty"`
	Restored map[string]RestoreKindOutcome `json:"restored,omitempty"`
}

// BackupService produces and consumes whole-account snapshots.
type BackupService struct {
	store     storage.Store
	publisher EventPublisher
}

// NewBackupService wires the service. publisher may be nil.
func NewBackupService(store storage.Store, publisher EventPublisher) *BackupService {
	return &BackupService{store: store, publisher: publisher}
}

// Create composes a sealed envelope of everything the caller owns. The six
// per-resource fetches touch disjoint row sets, so they run concurrently
// and join before the payload is sealed.
func (s *BackupService) Create(ctx context.Context, id auth.Identity) (*BackupEnvelope, error) {
	var payload BackupPayload

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users, err := queryOwned[core.User](gctx, s.store, storage.TableUsers, id.OwnerID)
		if err != nil {
			return err
		}
		if len(users) > 0 {
			payload.User = users[0]
		} else {
			payload.User = core.User{ID: id.OwnerID, Email: id.Email}
		}
		return nil
	})
	g.Go(func() (err error) {
		payload.Accounts, err = queryOwned[core.Account](gctx, s.store, storage.TableAccounts, id.OwnerID)
		return err
	})
	g.Go(func() (err error) {
		payload.Categories, err = queryOwned[core.Category](gctx, s.store, storage.TableCategories, id.OwnerID)
		return err
	})
	g.Go(func() (err error) {
		payload.Transactions, err = queryOwned[core.Transaction](gctx, s.store, storage.TableTransactions, id.OwnerID)
		return err
	})
	g.Go(func() (err error) {
		payload.Investments, err = queryOwned[core.InvestmentRecord](gctx, s.store, storage.TableInvestments, id.OwnerID)
		return err
	})
	g.Go(func() (err error) {
		payload.Goals, err = queryOwned[core.Goal](gctx, s.store, storage.TableGoals, id.OwnerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("serialize backup payload: %w", err)
	}

	env := &BackupEnvelope{
		Version:       EngineVersion,
		CreatedAt:     time.Now().UTC(),
		OwnerSnapshot: payload.User,
		Payload:       raw,
		Checksum:      checksum.Seal(raw),
	}

	publishEvent(ctx, s.publisher, "backup", id.OwnerID, map[string]int{
		"accounts":     len(payload.Accounts),
		"categories":   len(payload.Categories),
		"transactions": len(payload.Transactions),
		"investments":  len(payload.Investments),
		"goals":        len(payload.Goals),
	})
	return env, nil
}

// restorePayload is the payload in its generic row shape: restore is a
// full-replace of the owner's own sealed data, so rows pass through without
// re-validation, only re-stamped with the caller's owner id.
type restorePayload struct {
	User         storage.Row   `json:"user"`
	Accounts     []storage.Row `json:"accounts"`
	Categories   []storage.Row `json:"categories"`
	Transactions []storage.Row `json:"transactions"`
	Investments  []storage.Row `json:"investments"`
	Goals        []storage.Row `json:"goals"`
}

// Restore walks the restore state machine: structure, version and checksum
// gates, then either a preview or a confirmed delete-then-recreate. Kind
// failures surface in the per-kind outcome instead of aborting siblings.
func (s *BackupService) Restore(ctx context.Context, id auth.Identity, env BackupEnvelope, opts RestoreOptions) (*RestoreResult, error) {
	if env.Version == "" || env.CreatedAt.IsZero() || len(env.Payload) == 0 || env.Checksum == "" {
		return nil, core.ErrInvalidStructure
	}

	major, err := majorVersion(env.Version)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse version %q", core.ErrIncompatibleVersion, env.Version)
	}
	if major != SupportedMajor {
		return nil, fmt.Errorf("%w: backup has major version %d, supported major is %d",
			core.ErrIncompatibleVersion, major, SupportedMajor)
	}

	if !checksum.Verify(env.Payload, env.Checksum) {
		return nil, core.ErrChecksumMismatch
	}

	var payload restorePayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return nil, fmt.Errorf("%w: payload does not decode", core.ErrInvalidStructure)
	}

	kinds := []struct {
		table string
		rows  []storage.Row
	}{
		{storage.TableUsers, userRows(payload.User)},
		{storage.TableAccounts, payload.Accounts},
		{storage.TableCategories, payload.Categories},
		{storage.TableTransactions, payload.Transactions},
		{storage.TableInvestments, payload.Investments},
		{storage.TableGoals, payload.Goals},
	}

	if opts.Preview {
		counts := make(map[string]int, len(kinds))
		for _, k := range kinds {
			counts[k.table] = len(k.rows)
		}
		return &RestoreResult{Preview: true, Counts: counts}, nil
	}

	if !opts.ConfirmDelete {
		return nil, core.ErrConfirmationRequired
	}

	restored := make(map[string]RestoreKindOutcome, len(kinds))
	for _, k := range kinds {
		restored[k.table] = s.replaceKind(ctx, id.OwnerID, k.table, k.rows)
	}

	counts := make(map[string]int, len(restored))
	for table, outcome := range restored {
		counts[table] = outcome.Created
	}
	publishEvent(ctx, s.publisher, "restore", id.OwnerID, counts)

	return &RestoreResult{Restored: restored}, nil
}

// replaceKind deletes everything the owner has of one kind and recreates it
// from the payload. Errors are absorbed into the outcome: siblings still
// run.
func (s *BackupService) replaceKind(ctx context.Context, ownerID, table string, rows []storage.Row) RestoreKindOutcome {
	var outcome RestoreKindOutcome

	existing, err := s.store.Query(ctx, table, storage.OwnerFilter(ownerID))
	if err != nil {
		slog.ErrorContext(ctx, "Restore failed to read existing rows",
			"resource", table, "action", "query", "error", err)
		outcome.Errors++
		return outcome
	}

	if err := s.store.DeleteBatch(ctx, table, storage.OwnerFilter(ownerID)); err != nil {
		slog.ErrorContext(ctx, "Restore failed to clear resource",
			"resource", table, "action", "delete", "error", err)
		outcome.Errors++
		return outcome
	}
	outcome.Deleted = len(existing)

	if len(rows) == 0 {
		return outcome
	}
	created, err := s.store.InsertBatch(ctx, table, stampOwner(rows, ownerID))
	if err != nil {
		slog.ErrorContext(ctx, "Restore failed to recreate resource",
			"resource", table, "action", "insert", "error", err)
		outcome.Errors++
		return outcome
	}
	outcome.Created = len(created)
	return outcome
}

func userRows(user storage.Row) []storage.Row {
	if len(user) == 0 {
		return nil
	}
	return []storage.Row{user}
}

func majorVersion(version string) (int, error) {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) != 3 {
		return 0, fmt.Errorf("version %q is not major.minor.patch", version)
	}
	return strconv.Atoi(parts[0])
}
