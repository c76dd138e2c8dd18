// Package catalog implements the entity registries, reference maintenance,
// and delete-propagation protocol for the cellar collections.
package catalog

import (
	"fmt"

	"github.com/brewkit/cellar/store"
)

// Entity kind names, as stored.
const (
	KindUsers   = "users"
	KindStyles  = "styles"
	KindRecipes = "recipes"
)

// EntityRef is a denormalized link to another entity. It has exactly two
// fields and never degrades into a free-form mapping.
type EntityRef struct {
	ID   string
	Self string
}

func (r EntityRef) record() store.Record {
	return store.Record{"id": r.ID, "self": r.Self}
}

// refFromValue reads an {id, self} pair out of a stored field value.
// Returns nil for nil or malformed values.
func refFromValue(v any) *EntityRef {
	m, ok := v.(map[string]any)
	if !ok {
		rec, recOK := v.(store.Record)
		if !recOK {
			return nil
		}
		m = map[string]any(rec)
	}
	id, _ := m["id"].(string)
	self, _ := m["self"].(string)
	if id == "" {
		return nil
	}
	return &EntityRef{ID: id, Self: self}
}

// Locator builds the canonical self link for an entity.
func Locator(baseURL, kind, id string) string {
	return fmt.Sprintf("%s/%s/%s", baseURL, kind, id)
}

// fieldString reads a string field from a record.
func fieldString(rec store.Record, key string) string {
	s, _ := rec[key].(string)
	return s
}

// fieldNumber reads a numeric field from a record.
func fieldNumber(rec store.Record, key string) float64 {
	f, _ := rec[key].(float64)
	return f
}

// isString reports whether a candidate field is a non-empty string.
func isString(v any) bool {
	s, ok := v.(string)
	return ok && s != ""
}

// isNumber reports whether a candidate field is a number.
func isNumber(v any) bool {
	switch v.(type) {
	case float64, int, int64, int32, float32:
		return true
	}
	return false
}
