package store

import (
	"context"
	"encoding/base64"
	"sort"
	"strconv"
	"sync"
)

// Memory is an in-process Adapter with the same contract as Dynamo: numeric
// store-assigned ids, id-ordered collections, opaque continuation cursors.
// It backs tests and local runs.
type Memory struct {
	mu    sync.Mutex
	kinds map[string]map[string]Record
	seq   map[string]int64
}

// NewMemory creates an empty in-memory adapter.
func NewMemory() *Memory {
	return &Memory{
		kinds: make(map[string]map[string]Record),
		seq:   make(map[string]int64),
	}
}

// Get retrieves a single entity, ErrNotFound if absent.
func (m *Memory) Get(ctx context.Context, kind, id string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.kinds[kind][id]
	if !ok {
		return nil, ErrNotFound
	}
	return Clone(rec), nil
}

// GetCollection retrieves every entity of a kind, in id order.
func (m *Memory) GetCollection(ctx context.Context, kind string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := []Record{}
	for _, id := range m.sortedIDs(kind) {
		records = append(records, Clone(m.kinds[kind][id]))
	}
	return records, nil
}

// RunPagedQuery reads one bounded page of a kind's collection.
func (m *Memory) RunPagedQuery(ctx context.Context, kind string, limit int32, cursor string) (Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := m.sortedIDs(kind)
	start := 0
	if cursor != "" {
		afterID, err := decodeMemoryCursor(cursor)
		if err != nil {
			return Page{}, err
		}
		after := numeric(afterID)
		start = sort.Search(len(ids), func(i int) bool {
			return numeric(ids[i]) > after
		})
	}

	end := len(ids)
	if limit > 0 && start+int(limit) < end {
		end = start + int(limit)
	}

	page := Page{Items: []Record{}}
	for _, id := range ids[start:end] {
		page.Items = append(page.Items, Clone(m.kinds[kind][id]))
	}
	if end < len(ids) {
		page.HasMore = true
		page.EndCursor = encodeMemoryCursor(ids[end-1])
	}
	return page, nil
}

// Save persists a new entity and returns the store-assigned numeric id.
func (m *Memory) Save(ctx context.Context, kind string, data Record) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq[kind]++
	id := strconv.FormatInt(m.seq[kind], 10)
	if m.kinds[kind] == nil {
		m.kinds[kind] = make(map[string]Record)
	}
	m.kinds[kind][id] = Clone(data)
	return id, nil
}

// Upsert writes an entity that already carries its id field.
func (m *Memory) Upsert(ctx context.Context, kind string, rec Record) error {
	id, _ := rec["id"].(string)
	if id == "" {
		return ErrNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.kinds[kind] == nil {
		m.kinds[kind] = make(map[string]Record)
	}
	m.kinds[kind][id] = Clone(rec)
	return nil
}

// Patch merges fields into an existing entity and returns the merged record.
func (m *Memory) Patch(ctx context.Context, kind, id string, fields Record) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.kinds[kind][id]
	if !ok {
		return nil, ErrNotFound
	}
	merged := Clone(current)
	for k, v := range fields {
		if k == "id" {
			continue
		}
		merged[k] = cloneValue(v)
	}
	m.kinds[kind][id] = merged
	return Clone(merged), nil
}

// Delete removes an entity, ErrNotFound if absent or already removed.
func (m *Memory) Delete(ctx context.Context, kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.kinds[kind][id]; !ok {
		return ErrNotFound
	}
	delete(m.kinds[kind], id)
	return nil
}

// sortedIDs returns a kind's ids in numeric order. Caller holds the lock.
func (m *Memory) sortedIDs(kind string) []string {
	ids := make([]string, 0, len(m.kinds[kind]))
	for id := range m.kinds[kind] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return numeric(ids[i]) < numeric(ids[j])
	})
	return ids
}

func numeric(id string) int64 {
	n, _ := strconv.ParseInt(id, 10, 64)
	return n
}

func encodeMemoryCursor(id string) string {
	return base64.StdEncoding.EncodeToString([]byte(id))
}

func decodeMemoryCursor(cursor string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return "", ErrBadCursor
	}
	return string(raw), nil
}
