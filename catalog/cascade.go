package catalog

// WireCascades subscribes the cross-collection deletion listeners. Called
// once at process start, after the registries are constructed:
//
//   - style deleted  -> referencing recipes are unlinked (style set to null)
//   - user deleted   -> owned recipes are deleted outright
//   - recipe deleted -> the reference is removed from the owner's recipes
//
// Listeners run synchronously and in this order, strictly after the store
// confirms the row removal. There is no multi-entity atomicity: a crash
// mid-cascade leaves dangling references until stream replay converges.
func WireCascades(users *Users, styles *Styles, recipes *Recipes) {
	styles.OnDelete(recipes.UnlinkStyle)
	users.OnDelete(recipes.DeleteOwnedBy)
	recipes.OnDelete(users.RemoveRecipeRef)
}
