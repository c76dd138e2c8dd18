// Package store provides schemaless entity persistence over a keyed NoSQL store.
package store

import "context"

// Record is a schemaless entity: a mapping from field name to value.
// Values are limited to what the underlying store can represent: strings,
// float64 numbers, bools, nil, nested Records, and []any slices of these.
type Record map[string]any

// Page is one bounded slice of a collection read.
type Page struct {
	// Items are the records on this page, in id order.
	Items []Record

	// HasMore reports whether the store saw results beyond this page.
	HasMore bool

	// EndCursor is the opaque continuation token for the next page.
	// Only meaningful when HasMore is true.
	EndCursor string
}

// Adapter is the uniform persistence surface for named entity kinds.
// Implementations assign numeric ids on Save and issue opaque cursors;
// callers never construct or parse a cursor themselves.
type Adapter interface {
	// Get retrieves a single entity, ErrNotFound if absent.
	Get(ctx context.Context, kind, id string) (Record, error)

	// GetCollection retrieves every entity of a kind, in id order.
	// A kind with no entities yields an empty result, not an error.
	GetCollection(ctx context.Context, kind string) ([]Record, error)

	// RunPagedQuery reads at most limit entities, starting at cursor or
	// at the beginning of the collection when cursor is empty.
	RunPagedQuery(ctx context.Context, kind string, limit int32, cursor string) (Page, error)

	// Save persists a new entity and returns the store-assigned id.
	Save(ctx context.Context, kind string, data Record) (string, error)

	// Upsert writes an entity that already carries its id field.
	Upsert(ctx context.Context, kind string, rec Record) error

	// Patch merges fields into an existing entity and returns the merged
	// record. The id field is never overwritten. ErrNotFound if absent.
	Patch(ctx context.Context, kind, id string, fields Record) (Record, error)

	// Delete removes an entity, ErrNotFound if absent or already removed.
	Delete(ctx context.Context, kind, id string) error
}

// Clone returns a deep copy of a record, so callers can mutate the result
// without aliasing stored state.
func Clone(rec Record) Record {
	if rec == nil {
		return nil
	}
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case Record:
		return Clone(tv)
	case map[string]any:
		return map[string]any(Clone(Record(tv)))
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
