// Package store provides the document store used by the pipeline: keyed
// upserts and point reads over named collections, with a full-collection
// scan for subscriber enumeration. No query semantics beyond that.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned by Get when no document exists under the key.
var ErrNotFound = errors.New("document not found")

type Store interface {
	// Upsert writes doc under (collection, id), replacing any prior document.
	Upsert(ctx context.Context, collection, id string, doc any) error

	// Get reads the document under (collection, id) into out.
	// Returns ErrNotFound when the document does not exist.
	Get(ctx context.Context, collection, id string, out any) error

	// List returns every document in the collection, keyed by id.
	List(ctx context.Context, collection string) (map[string]json.RawMessage, error)

	Close() error
}
