package catalog

import (
	"context"
	"errors"

	"github.com/brewkit/cellar/store"
)

// Recipe is a brewing recipe, optionally linked to a style and an owner.
type Recipe struct {
	ID               string
	Self             string
	Malt             string
	Hops             string
	Yeast            string
	FermentationTemp float64
	Style            *EntityRef
	Owner            *EntityRef
}

// NewRecipe carries the resolvable creation fields: style and owner arrive
// as names and are turned into {id, self} references during create.
type NewRecipe struct {
	Malt             string
	Hops             string
	Yeast            string
	FermentationTemp float64
	StyleName        string
	OwnerUsername    string
}

// RecipePatch is the typed optional-field set for recipe edits. References
// are maintained by the cascade protocol, not by patches.
type RecipePatch struct {
	Malt             *string
	Hops             *string
	Yeast            *string
	FermentationTemp *float64
}

func (p RecipePatch) fields() store.Record {
	f := store.Record{}
	if p.Malt != nil {
		f["malt"] = *p.Malt
	}
	if p.Hops != nil {
		f["hops"] = *p.Hops
	}
	if p.Yeast != nil {
		f["yeast"] = *p.Yeast
	}
	if p.FermentationTemp != nil {
		f["fermentationTemp"] = *p.FermentationTemp
	}
	return f
}

// RecipesPage is one page of the recipes collection.
type RecipesPage struct {
	Items          []Recipe
	Next           *string
	CollectionSize int
}

// Recipes is the entity registry for the recipes kind. It depends on the
// styles and users registries to resolve references at creation time.
type Recipes struct {
	notifier
	store  store.Adapter
	pager  *Pager
	styles *Styles
	users  *Users
}

// NewRecipes creates the recipes registry.
func NewRecipes(s store.Adapter, pager *Pager, styles *Styles, users *Users) *Recipes {
	return &Recipes{
		store:  s,
		pager:  pager,
		styles: styles,
		users:  users,
	}
}

// ValidateShape reports whether a creation payload carries the required
// recipe fields with the correct primitive types. The owner field is
// optional; when present it must be a string username.
func (r *Recipes) ValidateShape(candidate map[string]any) bool {
	if !isString(candidate["malt"]) ||
		!isString(candidate["hops"]) ||
		!isString(candidate["yeast"]) ||
		!isNumber(candidate["fermentationTemp"]) ||
		!isString(candidate["style"]) {
		return false
	}
	if owner, present := candidate["owner"]; present {
		return isString(owner)
	}
	return true
}

// GetByID retrieves one recipe, ErrNotFound if absent.
func (r *Recipes) GetByID(ctx context.Context, id string) (Recipe, error) {
	rec, err := r.store.Get(ctx, KindRecipes, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Recipe{}, ErrNotFound
		}
		return Recipe{}, err
	}
	return recipeFromRecord(rec), nil
}

// ListAll retrieves the entire recipes collection. Empty is a valid result.
func (r *Recipes) ListAll(ctx context.Context) ([]Recipe, error) {
	recs, err := r.store.GetCollection(ctx, KindRecipes)
	if err != nil {
		return nil, err
	}
	recipes := make([]Recipe, 0, len(recs))
	for _, rec := range recs {
		recipes = append(recipes, recipeFromRecord(rec))
	}
	return recipes, nil
}

// ListPage reads one page of the collection through the pagination engine.
func (r *Recipes) ListPage(ctx context.Context, cursor string) (RecipesPage, error) {
	page, err := r.pager.Paginate(ctx, KindRecipes, cursor)
	if err != nil {
		return RecipesPage{}, err
	}
	out := RecipesPage{
		Items:          make([]Recipe, 0, len(page.Items)),
		Next:           page.Next,
		CollectionSize: page.CollectionSize,
	}
	for _, rec := range page.Items {
		out.Items = append(out.Items, recipeFromRecord(rec))
	}
	return out, nil
}

// Create persists a new recipe and returns its id. The style name resolves
// to an {id, self} reference, synthesizing a new style when the name is
// unknown. The owner username, when given, must resolve to an existing
// user, whose recipes sequence gains the new reference.
func (r *Recipes) Create(ctx context.Context, nr NewRecipe) (string, error) {
	styleRef, err := r.resolveStyle(ctx, nr.StyleName)
	if err != nil {
		return "", err
	}

	var owner *User
	if nr.OwnerUsername != "" {
		usr, found, err := r.users.FindByUsername(ctx, nr.OwnerUsername)
		if err != nil {
			return "", err
		}
		if !found {
			return "", ErrNotFound
		}
		owner = &usr
	}

	data := store.Record{
		"malt":             nr.Malt,
		"hops":             nr.Hops,
		"yeast":            nr.Yeast,
		"fermentationTemp": nr.FermentationTemp,
		"style":            map[string]any(styleRef.record()),
		"owner":            nil,
	}
	if owner != nil {
		ownerRef := EntityRef{ID: owner.ID, Self: owner.Self}
		data["owner"] = map[string]any(ownerRef.record())
	}

	id, err := r.store.Save(ctx, KindRecipes, data)
	if err != nil {
		return "", err
	}

	self := Locator(r.pager.BaseURL(), KindRecipes, id)
	data["id"] = id
	data["self"] = self
	if err := r.store.Upsert(ctx, KindRecipes, data); err != nil {
		return "", err
	}

	// Forward link: the owner's recipes sequence gains the new pair. The
	// two writes are not atomic; a crash in between converges on the next
	// cascade or stream replay.
	if owner != nil {
		if err := r.users.AppendRecipeRef(ctx, owner.ID, EntityRef{ID: id, Self: self}); err != nil {
			return "", err
		}
	}
	return id, nil
}

// resolveStyle maps a style name to a reference, creating the style as a
// side effect when no style with that name exists.
func (r *Recipes) resolveStyle(ctx context.Context, name string) (EntityRef, error) {
	st, found, err := r.styles.FindByName(ctx, name)
	if err != nil {
		return EntityRef{}, err
	}
	if found {
		return EntityRef{ID: st.ID, Self: st.Self}, nil
	}

	id, err := r.styles.Create(ctx, name, "", 0, 0)
	if err != nil {
		return EntityRef{}, err
	}
	return EntityRef{ID: id, Self: Locator(r.pager.BaseURL(), KindStyles, id)}, nil
}

// Patch merges a sparse edit into an existing recipe.
func (r *Recipes) Patch(ctx context.Context, id string, p RecipePatch) (Recipe, error) {
	fields := p.fields()
	if len(fields) == 0 {
		return Recipe{}, ErrBadEdit
	}

	rec, err := r.store.Patch(ctx, KindRecipes, id, fields)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Recipe{}, ErrNotFound
		}
		return Recipe{}, err
	}
	return recipeFromRecord(rec), nil
}

// Delete removes a recipe, then notifies deletion listeners so the owning
// user's recipes sequence is cleaned up. Re-deleting returns ErrNotFound
// and dispatches nothing.
func (r *Recipes) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, KindRecipes, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return r.dispatchDelete(ctx, id)
}

// UnlinkStyle clears the style reference on every recipe pointing at a
// deleted style. The recipes survive; only the link is dropped. A full
// linear scan of the collection, idempotent under replay.
func (r *Recipes) UnlinkStyle(ctx context.Context, styleID string) error {
	recs, err := r.store.GetCollection(ctx, KindRecipes)
	if err != nil {
		return err
	}

	for _, rec := range recs {
		ref := refFromValue(rec["style"])
		if ref == nil || ref.ID != styleID {
			continue
		}
		id := fieldString(rec, "id")
		if _, err := r.store.Patch(ctx, KindRecipes, id, store.Record{"style": nil}); err != nil {
			return err
		}
	}
	return nil
}

// DeleteOwnedBy cascades a user deletion: every recipe owned by the deleted
// user is deleted outright, each one dispatching the recipe deletion
// listeners in turn. A full linear scan, idempotent under replay.
func (r *Recipes) DeleteOwnedBy(ctx context.Context, userID string) error {
	recs, err := r.store.GetCollection(ctx, KindRecipes)
	if err != nil {
		return err
	}

	for _, rec := range recs {
		ref := refFromValue(rec["owner"])
		if ref == nil || ref.ID != userID {
			continue
		}
		id := fieldString(rec, "id")
		if err := r.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return nil
}

func recipeFromRecord(rec store.Record) Recipe {
	return Recipe{
		ID:               fieldString(rec, "id"),
		Self:             fieldString(rec, "self"),
		Malt:             fieldString(rec, "malt"),
		Hops:             fieldString(rec, "hops"),
		Yeast:            fieldString(rec, "yeast"),
		FermentationTemp: fieldNumber(rec, "fermentationTemp"),
		Style:            refFromValue(rec["style"]),
		Owner:            refFromValue(rec["owner"]),
	}
}
