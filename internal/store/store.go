// Package store defines the boundary to the remote document database. The
// backend is treated as an opaque service: documents are schemaless maps
// addressed by collection path and id, with equality-filtered queries and
// ordered cursor pagination. Two implementations exist: an in-memory store
// used by tests and local development, and a postgres JSONB adapter.
package store

import "context"

// Document is one stored document snapshot
type Document struct {
	ID   string
	Data map[string]any
}

// Filter is an equality filter on a top-level document field
type Filter struct {
	Field string
	Value string
}

// Cursor marks a position in an ordered page query. It pairs the sort key
// with the document id so equal sort keys stay unambiguous; callers treat
// it as opaque.
type Cursor struct {
	SortKey string `json:"sortKey"`
	DocID   string `json:"docId"`
}

// Store is the remote document database surface. Paths are collection
// paths such as "posts", "users" or "posts/<id>/events".
type Store interface {
	// Get fetches a document by id. Absent documents return a not-found
	// error (apperrors.IsNotFound).
	Get(ctx context.Context, path, id string) (Document, error)

	// Set writes the full document, creating or replacing it.
	Set(ctx context.Context, path, id string, data map[string]any) error

	// Update merges the given fields into an existing document. Absent
	// documents return a not-found error.
	Update(ctx context.Context, path, id string, fields map[string]any) error

	// Delete removes a document. Deleting an absent document is a no-op.
	Delete(ctx context.Context, path, id string) error

	// Add inserts a document under a store-assigned id and returns it.
	Add(ctx context.Context, path string, data map[string]any) (string, error)

	// Query returns all documents matching every filter, unordered.
	Query(ctx context.Context, path string, filters ...Filter) ([]Document, error)

	// Page returns up to limit documents ordered by orderField descending
	// (document id as tie-break), starting strictly after the cursor. A
	// nil cursor starts from the top; limit <= 0 returns everything. The
	// returned cursor points at the last document of the page and is nil
	// for an empty page.
	Page(ctx context.Context, path, orderField string, after *Cursor, limit int) ([]Document, *Cursor, error)
}
