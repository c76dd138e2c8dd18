package catalog

import (
	"context"
	"errors"

	"github.com/brewkit/cellar/store"
)

// Style is a beer style entry.
type Style struct {
	ID       string
	Self     string
	Name     string
	Category string
	IBU      float64
	ABV      float64
}

// StylePatch is the typed optional-field set for style edits. Nil fields
// are left untouched; id and self are not patchable.
type StylePatch struct {
	Name     *string
	Category *string
	IBU      *float64
	ABV      *float64
}

func (p StylePatch) fields() store.Record {
	f := store.Record{}
	if p.Name != nil {
		f["name"] = *p.Name
	}
	if p.Category != nil {
		f["category"] = *p.Category
	}
	if p.IBU != nil {
		f["ibu"] = *p.IBU
	}
	if p.ABV != nil {
		f["abv"] = *p.ABV
	}
	return f
}

// StylesPage is one page of the styles collection.
type StylesPage struct {
	Items          []Style
	Next           *string
	CollectionSize int
}

// Styles is the entity registry for the styles kind. One instance exists
// per process; it holds no entity state of its own.
type Styles struct {
	notifier
	store store.Adapter
	pager *Pager
}

// NewStyles creates the styles registry.
func NewStyles(s store.Adapter, pager *Pager) *Styles {
	return &Styles{
		store: s,
		pager: pager,
	}
}

// ValidateShape reports whether a creation payload carries the required
// style fields with the correct primitive types.
func (s *Styles) ValidateShape(candidate map[string]any) bool {
	return isString(candidate["name"]) &&
		isString(candidate["category"]) &&
		isNumber(candidate["ibu"]) &&
		isNumber(candidate["abv"])
}

// GetByID retrieves one style, ErrNotFound if absent.
func (s *Styles) GetByID(ctx context.Context, id string) (Style, error) {
	rec, err := s.store.Get(ctx, KindStyles, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Style{}, ErrNotFound
		}
		return Style{}, err
	}
	return styleFromRecord(rec), nil
}

// FindByName scans the collection for a style with the given name.
func (s *Styles) FindByName(ctx context.Context, name string) (Style, bool, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return Style{}, false, err
	}
	for _, st := range all {
		if st.Name == name {
			return st, true, nil
		}
	}
	return Style{}, false, nil
}

// IsNameUnique checks a candidate name against every current style. The
// check is read-then-scan; a race between concurrent creates can admit a
// duplicate, a documented limitation of this design.
func (s *Styles) IsNameUnique(ctx context.Context, name string) (bool, error) {
	_, found, err := s.FindByName(ctx, name)
	if err != nil {
		return false, err
	}
	return !found, nil
}

// ListAll retrieves the entire styles collection. An empty collection is a
// valid zero-item result, not an error.
func (s *Styles) ListAll(ctx context.Context) ([]Style, error) {
	recs, err := s.store.GetCollection(ctx, KindStyles)
	if err != nil {
		return nil, err
	}
	styles := make([]Style, 0, len(recs))
	for _, rec := range recs {
		styles = append(styles, styleFromRecord(rec))
	}
	return styles, nil
}

// ListPage reads one page of the collection through the pagination engine.
func (s *Styles) ListPage(ctx context.Context, cursor string) (StylesPage, error) {
	page, err := s.pager.Paginate(ctx, KindStyles, cursor)
	if err != nil {
		return StylesPage{}, err
	}
	out := StylesPage{
		Items:          make([]Style, 0, len(page.Items)),
		Next:           page.Next,
		CollectionSize: page.CollectionSize,
	}
	for _, rec := range page.Items {
		out.Items = append(out.Items, styleFromRecord(rec))
	}
	return out, nil
}

// Create persists a new style and returns its id. The name must be unique
// within the collection.
func (s *Styles) Create(ctx context.Context, name, category string, ibu, abv float64) (string, error) {
	unique, err := s.IsNameUnique(ctx, name)
	if err != nil {
		return "", err
	}
	if !unique {
		return "", ErrNotUnique
	}

	id, err := s.store.Save(ctx, KindStyles, store.Record{
		"name":     name,
		"category": category,
		"ibu":      ibu,
		"abv":      abv,
	})
	if err != nil {
		return "", err
	}

	// id and self are assigned exactly once, here.
	err = s.store.Upsert(ctx, KindStyles, store.Record{
		"id":       id,
		"self":     Locator(s.pager.BaseURL(), KindStyles, id),
		"name":     name,
		"category": category,
		"ibu":      ibu,
		"abv":      abv,
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Patch merges a sparse edit into an existing style. An edit with no fields
// set is rejected with ErrBadEdit; a rename is checked for uniqueness.
func (s *Styles) Patch(ctx context.Context, id string, p StylePatch) (Style, error) {
	fields := p.fields()
	if len(fields) == 0 {
		return Style{}, ErrBadEdit
	}

	if p.Name != nil {
		all, err := s.ListAll(ctx)
		if err != nil {
			return Style{}, err
		}
		for _, other := range all {
			if other.Name == *p.Name && other.ID != id {
				return Style{}, ErrNotUnique
			}
		}
	}

	rec, err := s.store.Patch(ctx, KindStyles, id, fields)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Style{}, ErrNotFound
		}
		return Style{}, err
	}
	return styleFromRecord(rec), nil
}

// Delete removes a style, then notifies deletion listeners so referencing
// recipes are unlinked. Deleting an already-deleted id returns ErrNotFound
// without re-invoking any listener.
func (s *Styles) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, KindStyles, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.dispatchDelete(ctx, id)
}

func styleFromRecord(rec store.Record) Style {
	return Style{
		ID:       fieldString(rec, "id"),
		Self:     fieldString(rec, "self"),
		Name:     fieldString(rec, "name"),
		Category: fieldString(rec, "category"),
		IBU:      fieldNumber(rec, "ibu"),
		ABV:      fieldNumber(rec, "abv"),
	}
}
