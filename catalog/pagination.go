package catalog

import (
	"context"
	"fmt"

	"github.com/brewkit/cellar/internal/cursor"
	"github.com/brewkit/cellar/store"
)

// DefaultPageSize is the page size used when configuration supplies none.
const DefaultPageSize = 5

// PageResult is one page of a collection, ready for the transport layer.
type PageResult struct {
	// Items are the records on this page.
	Items []store.Record

	// Next is the fully-qualified link to the following page, nil when the
	// collection is exhausted.
	Next *string

	// CollectionSize is the total number of entities in the collection.
	CollectionSize int
}

// Pager translates a page size plus an opaque cursor into a bounded store
// query. Cursors are store-issued tokens; the pager normalizes transport
// damage and passes them through untouched otherwise.
type Pager struct {
	store    store.Adapter
	baseURL  string
	pageSize int32
}

// NewPager creates a pagination engine. A non-positive pageSize falls back
// to DefaultPageSize.
func NewPager(s store.Adapter, baseURL string, pageSize int32) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{
		store:    s,
		baseURL:  baseURL,
		pageSize: pageSize,
	}
}

// Paginate reads one page of a kind's collection. The collection size comes
// from a second, non-paginated read: paging and counting are independent
// queries, which doubles the read cost of a page but keeps the count exact.
func (p *Pager) Paginate(ctx context.Context, kind, rawCursor string) (PageResult, error) {
	page, err := p.store.RunPagedQuery(ctx, kind, p.pageSize, cursor.Normalize(rawCursor))
	if err != nil {
		return PageResult{}, err
	}

	result := PageResult{Items: page.Items}
	if page.HasMore {
		next := fmt.Sprintf("%s/%s?cursor=%s", p.baseURL, kind, page.EndCursor)
		result.Next = &next
	}

	all, err := p.store.GetCollection(ctx, kind)
	if err != nil {
		return PageResult{}, err
	}
	result.CollectionSize = len(all)

	return result, nil
}

// BaseURL returns the base API URL used for locator construction.
func (p *Pager) BaseURL() string {
	return p.baseURL
}
