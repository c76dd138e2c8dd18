package catalog

import "errors"

// The error taxonomy shared by the registries, the authorization check, and
// the controllers. Every operation returns one of these (possibly wrapped)
// rather than panicking; only the HTTP boundary maps them to status codes.
// All are per-request and safe to retry.
var (
	// ErrValidation is returned when a payload fails the shape check.
	ErrValidation = errors.New("cellar: payload does not conform to entity shape")

	// ErrNotFound is returned when an id does not resolve to an entity.
	ErrNotFound = errors.New("cellar: entity not found")

	// ErrForbidden is returned when the caller is authenticated but is not
	// the owner of the target entity.
	ErrForbidden = errors.New("cellar: caller is not the owner")

	// ErrUnauthorized is returned when no caller identity can be resolved.
	ErrUnauthorized = errors.New("cellar: no resolvable caller identity")

	// ErrNotUnique is returned when a uniqueness scan finds a duplicate.
	ErrNotUnique = errors.New("cellar: value is not unique in collection")

	// ErrBadEdit is returned when a patch contains no applicable fields.
	ErrBadEdit = errors.New("cellar: patch rejected")

	// ErrNoID is returned when a required path identifier is missing.
	ErrNoID = errors.New("cellar: required identifier missing")

	// ErrUnsupportedMedia is returned on content negotiation failure.
	ErrUnsupportedMedia = errors.New("cellar: unsupported media type")
)
