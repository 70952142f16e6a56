// Package docstore provides a small document-oriented store: named
// collections of schemaless JSON documents with store-assigned ids,
// partial merge updates, and single-field equality queries.
package docstore

import "context"

// Document is one stored record with its assigned id.
type Document struct {
	ID   string
	Data map[string]interface{}
}

// Collection is the storage contract the task service depends on.
type Collection interface {
	// All returns every document in the collection.
	All(ctx context.Context) ([]Document, error)

	// Get returns the document with the given id. The second return
	// value reports whether it exists; a missing document is not an error.
	Get(ctx context.Context, id string) (Document, bool, error)

	// Add persists a new document and returns its assigned id.
	Add(ctx context.Context, data map[string]interface{}) (string, error)

	// Update merges the patch fields into the stored document. Fields
	// not present in the patch are left untouched.
	Update(ctx context.Context, id string, patch map[string]interface{}) error

	// Delete removes the document with the given id.
	Delete(ctx context.Context, id string) error

	// Where returns up to limit documents whose field equals value.
	// A limit <= 0 means no limit.
	Where(ctx context.Context, field string, value interface{}, limit int) ([]Document, error)
}

// Store hands out collections by name.
type Store interface {
	Collection(name string) Collection
}
