// Package controller exposes the per-kind operation handlers consumed by
// the HTTP boundary. Handlers take transport-neutral requests and return
// success payloads or tagged errors from the catalog taxonomy; mapping
// errors to status codes is the boundary's job, not done here.
package controller

// MediaTypeJSON is the only payload media type the handlers accept.
const MediaTypeJSON = "application/json"

// Request is the transport-neutral shape handed over by the HTTP boundary.
type Request struct {
	// ID is the path identifier, empty when the route carries none.
	ID string

	// Body is the decoded payload for create and patch operations.
	Body map[string]any

	// BearerToken is the raw Authorization header value, if any.
	BearerToken string

	// ContentType is the payload media type on mutating requests.
	ContentType string
}

// PageParams control list reads.
type PageParams struct {
	// Cursor is the opaque continuation token from the previous page.
	Cursor string

	// Unpaginated requests the full collection in one read (the
	// pag=false escape hatch).
	Unpaginated bool
}

// bodyString reads an optional string field out of a request body.
func bodyString(body map[string]any, key string) (string, bool) {
	v, present := body[key]
	if !present {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// bodyNumber reads an optional numeric field out of a request body.
// JSON decoding yields float64; direct callers may pass Go ints.
func bodyNumber(body map[string]any, key string) (float64, bool) {
	switch n := body[key].(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
