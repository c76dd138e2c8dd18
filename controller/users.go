package controller

import (
	"context"
	"log/slog"

	"github.com/brewkit/cellar/auth"
	"github.com/brewkit/cellar/catalog"
)

// Users handles requests against the users collection. Reads and mutations
// of a single user are restricted to that user's own identity.
type Users struct {
	model      *catalog.Users
	verifier   auth.Verifier
	authorizer *auth.Authorizer
	logger     *slog.Logger
}

// NewUsers creates the users controller.
func NewUsers(model *catalog.Users, verifier auth.Verifier, authorizer *auth.Authorizer, logger *slog.Logger) *Users {
	if logger == nil {
		logger = slog.Default()
	}
	return &Users{
		model:      model,
		verifier:   verifier,
		authorizer: authorizer,
		logger:     logger,
	}
}

// HandleList returns one page of users, or the whole collection when
// pagination is bypassed.
func (c *Users) HandleList(ctx context.Context, p PageParams) (any, error) {
	if p.Unpaginated {
		return c.model.ListAll(ctx)
	}
	return c.model.ListPage(ctx, p.Cursor)
}

// HandleGet returns a single user, visible only to that user's own
// identity: identity resolution, then existence, then the ownership
// comparison against the identity-linking field.
func (c *Users) HandleGet(ctx context.Context, req Request) (catalog.User, error) {
	if req.ID == "" {
		return catalog.User{}, catalog.ErrNoID
	}
	claims, ok := c.verifier.Decode(req.BearerToken)
	if !ok {
		return catalog.User{}, catalog.ErrUnauthorized
	}
	usr, err := c.model.GetByID(ctx, req.ID)
	if err != nil {
		return catalog.User{}, err
	}
	if err := c.authorizer.CheckUser(claims.Subject, usr); err != nil {
		return catalog.User{}, err
	}
	return usr, nil
}

// HandleCreate validates the payload shape and creates a user, returning
// the new id. The externalId field is the identity-provider subject handed
// back by the excluded signup flow.
func (c *Users) HandleCreate(ctx context.Context, req Request) (string, error) {
	if req.ContentType != MediaTypeJSON {
		return "", catalog.ErrUnsupportedMedia
	}
	if !c.model.ValidateShape(req.Body) {
		return "", catalog.ErrValidation
	}

	username, _ := bodyString(req.Body, "username")
	externalID, _ := bodyString(req.Body, "externalId")

	id, err := c.model.Create(ctx, username, externalID)
	if err != nil {
		return "", err
	}
	c.logger.Info("user created", "id", id, "username", username)
	return id, nil
}

// HandlePatch applies a sparse edit to the caller's own user record.
func (c *Users) HandlePatch(ctx context.Context, req Request) (catalog.User, error) {
	if req.ID == "" {
		return catalog.User{}, catalog.ErrNoID
	}
	if req.ContentType != MediaTypeJSON {
		return catalog.User{}, catalog.ErrUnsupportedMedia
	}
	claims, ok := c.verifier.Decode(req.BearerToken)
	if !ok {
		return catalog.User{}, catalog.ErrUnauthorized
	}
	usr, err := c.model.GetByID(ctx, req.ID)
	if err != nil {
		return catalog.User{}, err
	}
	if err := c.authorizer.CheckUser(claims.Subject, usr); err != nil {
		return catalog.User{}, err
	}
	return c.model.Patch(ctx, req.ID, buildUserPatch(req.Body))
}

// HandleDelete removes the caller's own user; owned recipes cascade.
func (c *Users) HandleDelete(ctx context.Context, req Request) error {
	if req.ID == "" {
		return catalog.ErrNoID
	}
	claims, ok := c.verifier.Decode(req.BearerToken)
	if !ok {
		return catalog.ErrUnauthorized
	}
	usr, err := c.model.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}
	if err := c.authorizer.CheckUser(claims.Subject, usr); err != nil {
		return err
	}
	if err := c.model.Delete(ctx, req.ID); err != nil {
		return err
	}
	c.logger.Info("user deleted", "id", req.ID, "username", usr.Username)
	return nil
}

// buildUserPatch picks the mutable user fields out of a request body.
func buildUserPatch(body map[string]any) catalog.UserPatch {
	p := catalog.UserPatch{}
	if v, ok := bodyString(body, "username"); ok {
		p.Username = &v
	}
	return p
}
