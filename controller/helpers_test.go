package controller_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/brewkit/cellar/auth"
	"github.com/brewkit/cellar/catalog"
	"github.com/brewkit/cellar/controller"
	"github.com/brewkit/cellar/store"
)

const testBaseURL = "http://localhost:8080"

// stubVerifier maps known bearer tokens to identity subjects, standing in
// for the JWT verifier so tests can mint identities without signing.
type stubVerifier map[string]string

func (v stubVerifier) Decode(token string) (auth.Claims, bool) {
	subject, ok := v[token]
	if !ok {
		return auth.Claims{}, false
	}
	return auth.Claims{Subject: subject}, true
}

// harness is a fully wired controller stack over an in-memory adapter.
type harness struct {
	users   *controller.Users
	styles  *controller.Styles
	recipes *controller.Recipes

	userModel   *catalog.Users
	styleModel  *catalog.Styles
	recipeModel *catalog.Recipes
}

func newHarness(t *testing.T, tokens stubVerifier) *harness {
	t.Helper()
	adapter := store.NewMemory()
	pager := catalog.NewPager(adapter, testBaseURL, 5)
	users := catalog.NewUsers(adapter, pager)
	styles := catalog.NewStyles(adapter, pager)
	recipes := catalog.NewRecipes(adapter, pager, styles, users)
	catalog.WireCascades(users, styles, recipes)

	authorizer := auth.NewAuthorizer(users)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &harness{
		users:       controller.NewUsers(users, tokens, authorizer, logger),
		styles:      controller.NewStyles(styles, logger),
		recipes:     controller.NewRecipes(recipes, tokens, authorizer, logger),
		userModel:   users,
		styleModel:  styles,
		recipeModel: recipes,
	}
}

func jsonRequest(id string, body map[string]any, token string) controller.Request {
	return controller.Request{
		ID:          id,
		Body:        body,
		BearerToken: token,
		ContentType: controller.MediaTypeJSON,
	}
}

func (h *harness) createUser(t *testing.T, username, externalID string) string {
	t.Helper()
	id, err := h.userModel.Create(context.Background(), username, externalID)
	if err != nil {
		t.Fatalf("create user %q: %v", username, err)
	}
	return id
}

func (h *harness) createStyle(t *testing.T, name string) string {
	t.Helper()
	id, err := h.styleModel.Create(context.Background(), name, "Ale", 40, 5.5)
	if err != nil {
		t.Fatalf("create style %q: %v", name, err)
	}
	return id
}

func (h *harness) createRecipe(t *testing.T, owner string) string {
	t.Helper()
	id, err := h.recipeModel.Create(context.Background(), catalog.NewRecipe{
		Malt: "2-row", Hops: "Citra", Yeast: "US-05",
		FermentationTemp: 19, StyleName: "IPA", OwnerUsername: owner,
	})
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	return id
}
