package controller

import (
	"context"
	"log/slog"

	"github.com/brewkit/cellar/auth"
	"github.com/brewkit/cellar/catalog"
)

// Recipes handles requests against the recipes collection. Mutations of an
// owned recipe walk the full guard sequence: media type, caller identity,
// existence, then ownership, any stage short-circuiting to its tagged
// error before the edit is applied.
type Recipes struct {
	model      *catalog.Recipes
	verifier   auth.Verifier
	authorizer *auth.Authorizer
	logger     *slog.Logger
}

// NewRecipes creates the recipes controller.
func NewRecipes(model *catalog.Recipes, verifier auth.Verifier, authorizer *auth.Authorizer, logger *slog.Logger) *Recipes {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recipes{
		model:      model,
		verifier:   verifier,
		authorizer: authorizer,
		logger:     logger,
	}
}

// HandleList returns one page of recipes, or the whole collection when
// pagination is bypassed.
func (c *Recipes) HandleList(ctx context.Context, p PageParams) (any, error) {
	if p.Unpaginated {
		return c.model.ListAll(ctx)
	}
	return c.model.ListPage(ctx, p.Cursor)
}

// HandleGet returns a single recipe by id.
func (c *Recipes) HandleGet(ctx context.Context, id string) (catalog.Recipe, error) {
	if id == "" {
		return catalog.Recipe{}, catalog.ErrNoID
	}
	return c.model.GetByID(ctx, id)
}

// HandleCreate validates the payload shape and creates a recipe, returning
// the new id. The style and owner fields arrive as names and are resolved
// to references by the registry.
func (c *Recipes) HandleCreate(ctx context.Context, req Request) (string, error) {
	if req.ContentType != MediaTypeJSON {
		return "", catalog.ErrUnsupportedMedia
	}
	if !c.model.ValidateShape(req.Body) {
		return "", catalog.ErrValidation
	}

	nr := catalog.NewRecipe{}
	nr.Malt, _ = bodyString(req.Body, "malt")
	nr.Hops, _ = bodyString(req.Body, "hops")
	nr.Yeast, _ = bodyString(req.Body, "yeast")
	nr.FermentationTemp, _ = bodyNumber(req.Body, "fermentationTemp")
	nr.StyleName, _ = bodyString(req.Body, "style")
	nr.OwnerUsername, _ = bodyString(req.Body, "owner")

	id, err := c.model.Create(ctx, nr)
	if err != nil {
		return "", err
	}
	c.logger.Info("recipe created", "id", id, "style", nr.StyleName, "owner", nr.OwnerUsername)
	return id, nil
}

// HandlePatch applies a sparse edit to a recipe the caller owns.
func (c *Recipes) HandlePatch(ctx context.Context, req Request) (catalog.Recipe, error) {
	recipe, err := c.guardMutation(ctx, req, true)
	if err != nil {
		return catalog.Recipe{}, err
	}
	return c.model.Patch(ctx, recipe.ID, buildRecipePatch(req.Body))
}

// HandleDelete removes a recipe the caller owns; the owner's recipes
// sequence is cleaned up by the cascade protocol.
func (c *Recipes) HandleDelete(ctx context.Context, req Request) error {
	recipe, err := c.guardMutation(ctx, req, false)
	if err != nil {
		return err
	}
	if err := c.model.Delete(ctx, recipe.ID); err != nil {
		return err
	}
	c.logger.Info("recipe deleted", "id", recipe.ID)
	return nil
}

// guardMutation runs the shared guard sequence for owned-recipe mutations
// and returns the target recipe once every stage has passed.
func (c *Recipes) guardMutation(ctx context.Context, req Request, checkMedia bool) (catalog.Recipe, error) {
	if req.ID == "" {
		return catalog.Recipe{}, catalog.ErrNoID
	}
	if checkMedia && req.ContentType != MediaTypeJSON {
		return catalog.Recipe{}, catalog.ErrUnsupportedMedia
	}
	claims, ok := c.verifier.Decode(req.BearerToken)
	if !ok {
		return catalog.Recipe{}, catalog.ErrUnauthorized
	}
	recipe, err := c.model.GetByID(ctx, req.ID)
	if err != nil {
		return catalog.Recipe{}, err
	}
	if err := c.authorizer.CheckOwner(ctx, claims.Subject, recipe.Owner); err != nil {
		return catalog.Recipe{}, err
	}
	return recipe, nil
}

// buildRecipePatch picks the mutable recipe fields out of a request body.
// References are cascade-maintained and never patchable.
func buildRecipePatch(body map[string]any) catalog.RecipePatch {
	p := catalog.RecipePatch{}
	if v, ok := bodyString(body, "malt"); ok {
		p.Malt = &v
	}
	if v, ok := bodyString(body, "hops"); ok {
		p.Hops = &v
	}
	if v, ok := bodyString(body, "yeast"); ok {
		p.Yeast = &v
	}
	if v, ok := bodyNumber(body, "fermentationTemp"); ok {
		p.FermentationTemp = &v
	}
	return p
}
