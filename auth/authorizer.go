package auth

import (
	"context"

	"github.com/brewkit/cellar/catalog"
)

// Authorizer decides whether a caller identity may act on an owned entity.
// Owner identities resolve through the user registry with a full-collection
// scan — a known cost center of this design, not optimized away.
type Authorizer struct {
	users *catalog.Users
}

// NewAuthorizer creates an authorizer backed by the users registry.
func NewAuthorizer(users *catalog.Users) *Authorizer {
	return &Authorizer{users: users}
}

// CheckOwner resolves the owner reference to an identity and compares it to
// the caller. Outcomes:
//
//   - nil: the caller owns the entity, or the entity has no owner.
//   - catalog.ErrUnauthorized: no caller identity was resolved.
//   - catalog.ErrForbidden: authenticated, but not the owner — including
//     when the owner reference dangles and no identity can be established.
func (a *Authorizer) CheckOwner(ctx context.Context, caller string, owner *catalog.EntityRef) error {
	if caller == "" {
		return catalog.ErrUnauthorized
	}
	if owner == nil {
		return nil
	}

	identity, err := a.ownerIdentity(ctx, owner.ID)
	if err != nil {
		return err
	}
	if identity == "" || identity != caller {
		return catalog.ErrForbidden
	}
	return nil
}

// CheckUser compares the caller to a target user's own identity link.
func (a *Authorizer) CheckUser(caller string, target catalog.User) error {
	if caller == "" {
		return catalog.ErrUnauthorized
	}
	if target.ExternalID != caller {
		return catalog.ErrForbidden
	}
	return nil
}

// ownerIdentity maps an owner id to the identity-provider subject, via
// ListAll plus a linear filter rather than an indexed lookup.
func (a *Authorizer) ownerIdentity(ctx context.Context, ownerID string) (string, error) {
	all, err := a.users.ListAll(ctx)
	if err != nil {
		return "", err
	}
	for _, usr := range all {
		if usr.ID == ownerID {
			return usr.ExternalID, nil
		}
	}
	return "", nil
}
