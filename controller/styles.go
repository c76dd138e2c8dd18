package controller

import (
	"context"
	"log/slog"

	"github.com/brewkit/cellar/catalog"
)

// Styles handles requests against the styles collection. Styles carry no
// owner, so mutations need only a media type and shape check.
type Styles struct {
	model  *catalog.Styles
	logger *slog.Logger
}

// NewStyles creates the styles controller.
func NewStyles(model *catalog.Styles, logger *slog.Logger) *Styles {
	if logger == nil {
		logger = slog.Default()
	}
	return &Styles{
		model:  model,
		logger: logger,
	}
}

// HandleList returns one page of styles, or the whole collection when
// pagination is bypassed.
func (c *Styles) HandleList(ctx context.Context, p PageParams) (any, error) {
	if p.Unpaginated {
		return c.model.ListAll(ctx)
	}
	return c.model.ListPage(ctx, p.Cursor)
}

// HandleGet returns a single style by id.
func (c *Styles) HandleGet(ctx context.Context, id string) (catalog.Style, error) {
	if id == "" {
		return catalog.Style{}, catalog.ErrNoID
	}
	return c.model.GetByID(ctx, id)
}

// HandleCreate validates the payload shape and creates a style, returning
// the new id.
func (c *Styles) HandleCreate(ctx context.Context, req Request) (string, error) {
	if req.ContentType != MediaTypeJSON {
		return "", catalog.ErrUnsupportedMedia
	}
	if !c.model.ValidateShape(req.Body) {
		return "", catalog.ErrValidation
	}

	name, _ := bodyString(req.Body, "name")
	category, _ := bodyString(req.Body, "category")
	ibu, _ := bodyNumber(req.Body, "ibu")
	abv, _ := bodyNumber(req.Body, "abv")

	id, err := c.model.Create(ctx, name, category, ibu, abv)
	if err != nil {
		return "", err
	}
	c.logger.Info("style created", "id", id, "name", name)
	return id, nil
}

// HandlePatch applies a sparse edit built from the whitelisted body fields.
func (c *Styles) HandlePatch(ctx context.Context, req Request) (catalog.Style, error) {
	if req.ID == "" {
		return catalog.Style{}, catalog.ErrNoID
	}
	if req.ContentType != MediaTypeJSON {
		return catalog.Style{}, catalog.ErrUnsupportedMedia
	}
	return c.model.Patch(ctx, req.ID, buildStylePatch(req.Body))
}

// HandleDelete removes a style; referencing recipes are unlinked by the
// cascade protocol.
func (c *Styles) HandleDelete(ctx context.Context, req Request) error {
	if req.ID == "" {
		return catalog.ErrNoID
	}
	if err := c.model.Delete(ctx, req.ID); err != nil {
		return err
	}
	c.logger.Info("style deleted", "id", req.ID)
	return nil
}

// buildStylePatch picks the mutable style fields out of a request body.
// Unknown and absent fields are ignored.
func buildStylePatch(body map[string]any) catalog.StylePatch {
	p := catalog.StylePatch{}
	if v, ok := bodyString(body, "name"); ok {
		p.Name = &v
	}
	if v, ok := bodyString(body, "category"); ok {
		p.Category = &v
	}
	if v, ok := bodyNumber(body, "ibu"); ok {
		p.IBU = &v
	}
	if v, ok := bodyNumber(body, "abv"); ok {
		p.ABV = &v
	}
	return p
}
