package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/brewkit/cellar/catalog"
)

func TestStylesValidateShape(t *testing.T) {
	_, styles, _ := newRegistries(t)

	tests := []struct {
		name      string
		candidate map[string]any
		expected  bool
	}{
		{
			name: "complete payload",
			candidate: map[string]any{
				"name": "IPA", "category": "Ale", "ibu": 60.0, "abv": 6.5,
			},
			expected: true,
		},
		{
			name: "integer numbers accepted",
			candidate: map[string]any{
				"name": "IPA", "category": "Ale", "ibu": 60, "abv": 6,
			},
			expected: true,
		},
		{
			name: "missing name",
			candidate: map[string]any{
				"category": "Ale", "ibu": 60.0, "abv": 6.5,
			},
			expected: false,
		},
		{
			name: "wrong type for ibu",
			candidate: map[string]any{
				"name": "IPA", "category": "Ale", "ibu": "sixty", "abv": 6.5,
			},
			expected: false,
		},
		{
			name:      "empty payload",
			candidate: map[string]any{},
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := styles.ValidateShape(tt.candidate); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestStylesCreateAssignsIDAndSelf(t *testing.T) {
	ctx := context.Background()
	_, styles, _ := newRegistries(t)

	id := mustCreateStyle(t, styles, "IPA", "Ale", 60, 6.5)

	st, err := styles.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if st.ID == "" || st.Self == "" {
		t.Errorf("expected non-empty id and self, got %+v", st)
	}
	if st.Self != testBaseURL+"/styles/"+id {
		t.Errorf("unexpected self locator %q", st.Self)
	}
	if st.Name != "IPA" || st.Category != "Ale" || st.IBU != 60 || st.ABV != 6.5 {
		t.Errorf("fields not persisted: %+v", st)
	}
}

func TestStylesCreateRejectsDuplicateName(t *testing.T) {
	ctx := context.Background()
	_, styles, _ := newRegistries(t)

	mustCreateStyle(t, styles, "IPA", "Ale", 60, 6.5)

	_, err := styles.Create(ctx, "IPA", "Ale", 40, 5.0)
	if !errors.Is(err, catalog.ErrNotUnique) {
		t.Errorf("expected ErrNotUnique, got %v", err)
	}
}

func TestStylesPatchKeepsIDAndSelf(t *testing.T) {
	ctx := context.Background()
	_, styles, _ := newRegistries(t)

	id := mustCreateStyle(t, styles, "IPA", "Ale", 60, 6.5)
	before, _ := styles.GetByID(ctx, id)

	ibu := 70.0
	after, err := styles.Patch(ctx, id, catalog.StylePatch{IBU: &ibu})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if after.ID != before.ID || after.Self != before.Self {
		t.Errorf("id/self changed across patch: %+v vs %+v", before, after)
	}
	if after.IBU != 70 {
		t.Errorf("expected ibu 70, got %v", after.IBU)
	}
	if after.Name != "IPA" {
		t.Errorf("untouched field changed: %q", after.Name)
	}
}

func TestStylesPatchEmptyEditRejected(t *testing.T) {
	ctx := context.Background()
	_, styles, _ := newRegistries(t)

	id := mustCreateStyle(t, styles, "IPA", "Ale", 60, 6.5)

	_, err := styles.Patch(ctx, id, catalog.StylePatch{})
	if !errors.Is(err, catalog.ErrBadEdit) {
		t.Errorf("expected ErrBadEdit, got %v", err)
	}
}

func TestStylesPatchRenameToTakenNameRejected(t *testing.T) {
	ctx := context.Background()
	_, styles, _ := newRegistries(t)

	mustCreateStyle(t, styles, "IPA", "Ale", 60, 6.5)
	id := mustCreateStyle(t, styles, "Stout", "Ale", 35, 5.5)

	name := "IPA"
	_, err := styles.Patch(ctx, id, catalog.StylePatch{Name: &name})
	if !errors.Is(err, catalog.ErrNotUnique) {
		t.Errorf("expected ErrNotUnique, got %v", err)
	}

	// Renaming to the current name is not a conflict.
	name = "Stout"
	if _, err := styles.Patch(ctx, id, catalog.StylePatch{Name: &name}); err != nil {
		t.Errorf("rename to own name: %v", err)
	}
}

func TestStylesPatchNotFound(t *testing.T) {
	ctx := context.Background()
	_, styles, _ := newRegistries(t)

	name := "IPA"
	_, err := styles.Patch(ctx, "42", catalog.StylePatch{Name: &name})
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStylesDeleteIdempotence(t *testing.T) {
	ctx := context.Background()
	_, styles, _ := newRegistries(t)

	id := mustCreateStyle(t, styles, "IPA", "Ale", 60, 6.5)

	if err := styles.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := styles.Delete(ctx, id); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected ErrNotFound on re-delete, got %v", err)
	}
}

func TestStylesDeleteDoesNotReinvokeListeners(t *testing.T) {
	ctx := context.Background()
	_, styles, _ := newRegistries(t)

	calls := 0
	styles.OnDelete(func(ctx context.Context, id string) error {
		calls++
		return nil
	})

	id := mustCreateStyle(t, styles, "IPA", "Ale", 60, 6.5)
	styles.Delete(ctx, id)
	styles.Delete(ctx, id)

	if calls != 1 {
		t.Errorf("expected 1 listener invocation, got %d", calls)
	}
}

func TestStylesListAllEmptyIsNotAnError(t *testing.T) {
	ctx := context.Background()
	_, styles, _ := newRegistries(t)

	all, err := styles.ListAll(ctx)
	if err != nil {
		t.Fatalf("expected empty collection to be valid, got %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected 0 styles, got %d", len(all))
	}
}
