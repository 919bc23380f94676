package live

import (
	"encoding/json"
	"fmt"

	"github.com/tablekit-dev/tablekit/pkg/history"
	"github.com/tablekit-dev/tablekit/pkg/protocol"
	"github.com/tablekit-dev/tablekit/pkg/tablestate"
)

// Table is the type-erased handle a session drives. Bind adapts a concrete
// TableState[T]; the indirection keeps sessions free of the item type.
type Table interface {
	// Apply performs one client interaction.
	Apply(ev protocol.Event) error

	// Snapshot renders the current page as a wire patch.
	Snapshot() (protocol.RowsPatch, error)

	// Dispose releases the table's history subscription.
	Dispose()
}

// TableFactory builds the table for a new session. The session's history
// bridge is passed in so the table can mirror state to the client's URL;
// wire it into the table's URLConfig.
type TableFactory func(h history.History) (Table, error)

type binding[T any] struct {
	ts *tablestate.TableState[T]
}

// Bind wraps a TableState for session use.
func Bind[T any](ts *tablestate.TableState[T]) Table {
	return &binding[T]{ts: ts}
}

// Apply implements Table. Out-of-range and unknown values are silently
// ignored by the underlying setters, matching local-use semantics; only
// structurally invalid events error.
func (b *binding[T]) Apply(ev protocol.Event) error {
	switch ev.Type {
	case protocol.EventSetSearch:
		b.ts.SetSearchTerm(ev.Value)
	case protocol.EventSetCategory:
		b.ts.SetSelectedCategory(ev.Value)
	case protocol.EventSetStatus:
		b.ts.SetSelectedStatus(ev.Value)
	case protocol.EventSetFilter:
		if ev.Key == "" {
			return fmt.Errorf("live: setFilter without key")
		}
		b.ts.SetCustomValue(ev.Key, ev.Value)
	case protocol.EventSetPage:
		b.ts.SetCurrentPage(ev.Page)
	case protocol.EventSetPageSize:
		b.ts.SetItemsPerPage(ev.Size)
	case protocol.EventResetFilters:
		b.ts.ResetFilters()
	case protocol.EventResetPagination:
		b.ts.ResetPagination()
	case protocol.EventResetAll:
		b.ts.ResetAll()
	case protocol.EventPopstate:
		// Routed to the history bridge by the session, never here.
		return fmt.Errorf("live: popstate reached table binding")
	default:
		return fmt.Errorf("live: unhandled event type %q", ev.Type)
	}
	return nil
}

// Snapshot implements Table.
func (b *binding[T]) Snapshot() (protocol.RowsPatch, error) {
	snap := b.ts.Snapshot()

	items, err := json.Marshal(snap.Items)
	if err != nil {
		return protocol.RowsPatch{}, fmt.Errorf("live: marshal items: %w", err)
	}

	pageNumbers := make([]protocol.PageItem, len(snap.PageNumbers))
	for i, p := range snap.PageNumbers {
		pageNumbers[i] = protocol.PageItem{Number: p.Number, Ellipsis: p.Ellipsis}
	}

	return protocol.RowsPatch{
		Items:            items,
		TotalItems:       snap.TotalItems,
		FilteredCount:    snap.FilteredCount,
		CurrentPage:      snap.CurrentPage,
		TotalPages:       snap.TotalPages,
		ItemsPerPage:     snap.ItemsPerPage,
		PageNumbers:      pageNumbers,
		HasActiveFilters: snap.HasActiveFilters,
	}, nil
}

// Dispose implements Table.
func (b *binding[T]) Dispose() {
	b.ts.Dispose()
}
