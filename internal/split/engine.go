package split

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rooshmintted/apitable-widgets/internal/datasheet"
	"github.com/rooshmintted/apitable-widgets/internal/fieldroles"
	"github.com/rooshmintted/apitable-widgets/internal/ledger"
)

// Allocation is one planned child record: a product and the share of the
// parent amount it will carry.
type Allocation struct {
	OriginalID   string         `json:"original_id"`
	Product      ledger.Product `json:"product"`
	BaseAmount   float64        `json:"base_amount"`
	EditedAmount float64        `json:"edited_amount"`
}

// Engine owns a single split session at a time. All methods are safe for
// concurrent use; only one commit may be in flight.
type Engine struct {
	mu          sync.Mutex
	store       datasheet.Datasheet
	roles       fieldroles.RoleMap
	guard       *Guard
	log         zerolog.Logger
	selected    *ledger.Transaction
	allocations []Allocation
	committing  bool
}

// NewEngine creates an engine over the given sheet and role map.
func NewEngine(store datasheet.Datasheet, roles fieldroles.RoleMap, guard *Guard, log zerolog.Logger) *Engine {
	if guard == nil {
		guard = NewGuard()
	}
	return &Engine{store: store, roles: roles, guard: guard, log: log}
}

// Candidates returns the transactions eligible for splitting: more than one
// linked product, not reconciled, and not already split this session.
func (e *Engine) Candidates(ctx context.Context) ([]ledger.Transaction, error) {
	if err := e.roles.RequireSplitRoles(); err != nil {
		return nil, err
	}

	recs, err := e.store.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("Candidates: %w", err)
	}

	var out []ledger.Transaction
	for _, tx := range ledger.NormalizeAll(recs, e.roles) {
		if tx.ProductCount() < 2 || tx.Reconciled || e.guard.IsSuppressed(tx.ID) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

// SelectForSplit starts a session for the given transaction. The parent
// amount is divided evenly across its products; each allocation starts with
// the even share as its edited amount.
func (e *Engine) SelectForSplit(tx ledger.Transaction) ([]Allocation, error) {
	if tx.ProductCount() < 2 || tx.Reconciled || e.guard.IsSuppressed(tx.ID) {
		return nil, ErrNotSplittable
	}

	base := tx.Amount / float64(tx.ProductCount())
	allocations := make([]Allocation, 0, tx.ProductCount())
	for _, p := range tx.Products {
		allocations = append(allocations, Allocation{
			OriginalID:   tx.ID,
			Product:      p,
			BaseAmount:   base,
			EditedAmount: base,
		})
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = &tx
	e.allocations = allocations

	e.log.Debug().
		Str("record_id", tx.ID).
		Int("products", tx.ProductCount()).
		Float64("base_amount", base).
		Msg("split session started")

	return append([]Allocation(nil), allocations...), nil
}

// EditAllocationAmount overrides the amount of the allocation matching the
// given product key. Other allocations keep their current amounts.
func (e *Engine) EditAllocationAmount(productKey string, amount float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.selected == nil {
		return ErrNoSession
	}
	for i := range e.allocations {
		if e.allocations[i].Product.DedupKey() == productKey {
			e.allocations[i].EditedAmount = amount
			return nil
		}
	}
	return fmt.Errorf("EditAllocationAmount: no allocation for product %q", productKey)
}

// Allocations returns a copy of the current session's allocations.
func (e *Engine) Allocations() ([]Allocation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selected == nil {
		return nil, ErrNoSession
	}
	return append([]Allocation(nil), e.allocations...), nil
}

// ValidateBeforeCommit checks the session is consistent: one allocation per
// product of the selected transaction. Edited amounts are not checked
// against the parent total; uneven splits are allowed.
func (e *Engine) ValidateBeforeCommit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.validateLocked()
}

func (e *Engine) validateLocked() error {
	if e.selected == nil {
		return ErrNoSession
	}
	if want, got := e.selected.ProductCount(), len(e.allocations); got != want {
		return &CountMismatchError{Want: want, Got: got}
	}
	return nil
}

// Commit writes one child record per allocation, then suppresses the parent
// so it no longer shows as a candidate. Only one commit may run at a time.
// On failure the session stays open with its edits intact.
func (e *Engine) Commit(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	if e.committing {
		e.mu.Unlock()
		return nil, ErrCommitInFlight
	}
	if err := e.validateLocked(); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	e.committing = true
	parent := *e.selected
	requests := e.buildWriteRequestsLocked()
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.committing = false
		e.mu.Unlock()
	}()

	if check := e.store.CheckPermissionsForAddRecords(requests); !check.Acceptable {
		e.log.Warn().
			Str("record_id", parent.ID).
			Str("reason", check.Message).
			Msg("split commit rejected by permission check")
		return nil, fmt.Errorf("Commit: permission check failed: %s", check.Message)
	}

	ids, err := e.store.AddRecords(ctx, requests)
	if err != nil {
		e.log.Error().Err(err).Str("record_id", parent.ID).Msg("split commit failed")
		return nil, fmt.Errorf("Commit: %w", err)
	}

	e.guard.Suppress(parent.ID)

	e.mu.Lock()
	e.selected = nil
	e.allocations = nil
	e.mu.Unlock()

	e.log.Info().
		Str("record_id", parent.ID).
		Int("children", len(ids)).
		Msg("split committed")
	return ids, nil
}

// Cancel discards the current session. Cancelling with no session is a no-op.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = nil
	e.allocations = nil
}

// buildWriteRequestsLocked builds one RecordData per allocation. The child
// carries the parent's title, type, category, merchant, and date; its amount
// is the edited allocation amount; the product link is set only when the
// product has a host ID; reconciled is always written false so children go
// through review.
func (e *Engine) buildWriteRequestsLocked() []datasheet.RecordData {
	parent := e.selected
	out := make([]datasheet.RecordData, 0, len(e.allocations))

	for _, alloc := range e.allocations {
		values := map[string]interface{}{}
		setRole := func(role fieldroles.Role, v interface{}) {
			if id, ok := e.roles.FieldID(role); ok {
				values[id] = v
			}
		}

		setRole(fieldroles.RoleTitle, parent.Title)
		setRole(fieldroles.RoleType, string(parent.Kind))
		setRole(fieldroles.RoleAmount, alloc.EditedAmount)
		setRole(fieldroles.RoleCategory, parent.Category)
		setRole(fieldroles.RoleMerchant, parent.Merchant)
		if parent.Date != "" {
			setRole(fieldroles.RoleDate, parent.Date)
		}
		if alloc.Product.ID != "" {
			setRole(fieldroles.RoleProduct, []string{alloc.Product.ID})
		}
		setRole(fieldroles.RoleReconciled, false)

		out = append(out, datasheet.RecordData{ValuesMap: values})
	}
	return out
}
