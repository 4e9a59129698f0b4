// Package identity maps photographer names to the folder slugs used on the
// content-delivery origin.
//
// Resolution runs an ordered rule chain and the first rule that matches
// wins:
//
//  1. overrides loaded from the AUTHOR_OVERRIDES YAML file (optional)
//  2. the curated table of known names, spelling and accent variants
//  3. generic slugification, which always matches
//
// The curated table exists because folders published for historical entries
// do not always equal the slugified display name ("Nadar" and "Gaspard-Félix
// Tournachon" share one folder). Adding a rule never touches the fallback.
//
//	n := identity.NewDefault()
//	n.Folder("Alfred Stieglitz") // "alfred-stieglitz" (table)
//	n.Folder("Some New Name")    // "some-new-name" (slugify)
//	n.Folder("")                 // ""
package identity
