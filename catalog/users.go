package catalog

import (
	"context"
	"errors"

	"github.com/brewkit/cellar/store"
)

// User is an account linked to an external identity-provider subject.
type User struct {
	ID         string
	Self       string
	Username   string
	ExternalID string
	Recipes    []EntityRef
}

// UserPatch is the typed optional-field set for user edits. The external
// identity link is not patchable.
type UserPatch struct {
	Username *string
}

func (p UserPatch) fields() store.Record {
	f := store.Record{}
	if p.Username != nil {
		f["username"] = *p.Username
	}
	return f
}

// UsersPage is one page of the users collection.
type UsersPage struct {
	Items          []User
	Next           *string
	CollectionSize int
}

// Users is the entity registry for the users kind.
type Users struct {
	notifier
	store store.Adapter
	pager *Pager
}

// NewUsers creates the users registry.
func NewUsers(s store.Adapter, pager *Pager) *Users {
	return &Users{
		store: s,
		pager: pager,
	}
}

// ValidateShape reports whether a creation payload carries the required
// user fields with the correct primitive types.
func (u *Users) ValidateShape(candidate map[string]any) bool {
	return isString(candidate["username"]) && isString(candidate["externalId"])
}

// GetByID retrieves one user, ErrNotFound if absent.
func (u *Users) GetByID(ctx context.Context, id string) (User, error) {
	rec, err := u.store.Get(ctx, KindUsers, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return userFromRecord(rec), nil
}

// FindByUsername scans the collection for a user with the given username.
func (u *Users) FindByUsername(ctx context.Context, username string) (User, bool, error) {
	all, err := u.ListAll(ctx)
	if err != nil {
		return User{}, false, err
	}
	for _, usr := range all {
		if usr.Username == username {
			return usr, true, nil
		}
	}
	return User{}, false, nil
}

// IsUsernameUnique checks a candidate username against every current user.
// Read-then-scan; races between concurrent creates are possible and not
// resolved here.
func (u *Users) IsUsernameUnique(ctx context.Context, username string) (bool, error) {
	_, found, err := u.FindByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return !found, nil
}

// ListAll retrieves the entire users collection. Empty is a valid result.
func (u *Users) ListAll(ctx context.Context) ([]User, error) {
	recs, err := u.store.GetCollection(ctx, KindUsers)
	if err != nil {
		return nil, err
	}
	users := make([]User, 0, len(recs))
	for _, rec := range recs {
		users = append(users, userFromRecord(rec))
	}
	return users, nil
}

// ListPage reads one page of the collection through the pagination engine.
func (u *Users) ListPage(ctx context.Context, cursor string) (UsersPage, error) {
	page, err := u.pager.Paginate(ctx, KindUsers, cursor)
	if err != nil {
		return UsersPage{}, err
	}
	out := UsersPage{
		Items:          make([]User, 0, len(page.Items)),
		Next:           page.Next,
		CollectionSize: page.CollectionSize,
	}
	for _, rec := range page.Items {
		out.Items = append(out.Items, userFromRecord(rec))
	}
	return out, nil
}

// Create persists a new user and returns its id. The username must be
// unique within the collection; externalID is the identity-provider
// subject the authorization check compares against.
func (u *Users) Create(ctx context.Context, username, externalID string) (string, error) {
	unique, err := u.IsUsernameUnique(ctx, username)
	if err != nil {
		return "", err
	}
	if !unique {
		return "", ErrNotUnique
	}

	id, err := u.store.Save(ctx, KindUsers, store.Record{
		"username":   username,
		"externalId": externalID,
		"recipes":    []any{},
	})
	if err != nil {
		return "", err
	}

	err = u.store.Upsert(ctx, KindUsers, store.Record{
		"id":         id,
		"self":       Locator(u.pager.BaseURL(), KindUsers, id),
		"username":   username,
		"externalId": externalID,
		"recipes":    []any{},
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Patch merges a sparse edit into an existing user.
func (u *Users) Patch(ctx context.Context, id string, p UserPatch) (User, error) {
	fields := p.fields()
	if len(fields) == 0 {
		return User{}, ErrBadEdit
	}

	if p.Username != nil {
		all, err := u.ListAll(ctx)
		if err != nil {
			return User{}, err
		}
		for _, other := range all {
			if other.Username == *p.Username && other.ID != id {
				return User{}, ErrNotUnique
			}
		}
	}

	rec, err := u.store.Patch(ctx, KindUsers, id, fields)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return userFromRecord(rec), nil
}

// Delete removes a user, then notifies deletion listeners so owned recipes
// cascade. Re-deleting returns ErrNotFound and dispatches nothing.
func (u *Users) Delete(ctx context.Context, id string) error {
	if err := u.store.Delete(ctx, KindUsers, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return u.dispatchDelete(ctx, id)
}

// AppendRecipeRef adds a recipe reference to a user's recipes sequence.
// Called by the recipes registry after a successful owned-recipe create.
func (u *Users) AppendRecipeRef(ctx context.Context, userID string, ref EntityRef) error {
	rec, err := u.store.Get(ctx, KindUsers, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	refs, _ := rec["recipes"].([]any)
	refs = append(refs, map[string]any(ref.record()))
	_, err = u.store.Patch(ctx, KindUsers, userID, store.Record{"recipes": refs})
	return err
}

// RemoveRecipeRef drops any reference to a deleted recipe from every user's
// recipes sequence. A full scan: the deleted recipe's owner link is already
// gone, so the owner cannot be looked up directly. Idempotent.
func (u *Users) RemoveRecipeRef(ctx context.Context, recipeID string) error {
	recs, err := u.store.GetCollection(ctx, KindUsers)
	if err != nil {
		return err
	}

	for _, rec := range recs {
		refs, _ := rec["recipes"].([]any)
		kept := make([]any, 0, len(refs))
		removed := false
		for _, v := range refs {
			if ref := refFromValue(v); ref != nil && ref.ID == recipeID {
				removed = true
				continue
			}
			kept = append(kept, v)
		}
		if !removed {
			continue
		}
		id := fieldString(rec, "id")
		if _, err := u.store.Patch(ctx, KindUsers, id, store.Record{"recipes": kept}); err != nil {
			return err
		}
	}
	return nil
}

func userFromRecord(rec store.Record) User {
	usr := User{
		ID:         fieldString(rec, "id"),
		Self:       fieldString(rec, "self"),
		Username:   fieldString(rec, "username"),
		ExternalID: fieldString(rec, "externalId"),
		Recipes:    []EntityRef{},
	}
	if refs, ok := rec["recipes"].([]any); ok {
		for _, v := range refs {
			if ref := refFromValue(v); ref != nil {
				usr.Recipes = append(usr.Recipes, *ref)
			}
		}
	}
	return usr
}
