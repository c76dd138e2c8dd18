package catalog_test

import (
	"context"
	"testing"

	"github.com/brewkit/cellar/catalog"
	"github.com/brewkit/cellar/store"
)

const testBaseURL = "http://localhost:8080"

// newRegistries wires the full set of registries over an in-memory adapter,
// with the cascade listeners subscribed the way process start does it.
func newRegistries(t *testing.T) (*catalog.Users, *catalog.Styles, *catalog.Recipes) {
	t.Helper()
	adapter := store.NewMemory()
	pager := catalog.NewPager(adapter, testBaseURL, 5)
	users := catalog.NewUsers(adapter, pager)
	styles := catalog.NewStyles(adapter, pager)
	recipes := catalog.NewRecipes(adapter, pager, styles, users)
	catalog.WireCascades(users, styles, recipes)
	return users, styles, recipes
}

func mustCreateStyle(t *testing.T, styles *catalog.Styles, name, category string, ibu, abv float64) string {
	t.Helper()
	id, err := styles.Create(context.Background(), name, category, ibu, abv)
	if err != nil {
		t.Fatalf("create style %q: %v", name, err)
	}
	return id
}

func mustCreateUser(t *testing.T, users *catalog.Users, username, externalID string) string {
	t.Helper()
	id, err := users.Create(context.Background(), username, externalID)
	if err != nil {
		t.Fatalf("create user %q: %v", username, err)
	}
	return id
}

func mustCreateRecipe(t *testing.T, recipes *catalog.Recipes, nr catalog.NewRecipe) string {
	t.Helper()
	id, err := recipes.Create(context.Background(), nr)
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	return id
}
