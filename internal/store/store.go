// Package store provides the persistence layer: whole-collection JSON
// documents behind a small key-value contract with memory, SQL and Redis
// backends.
package store

import "context"

// Collection names persisted by the application.
const (
	CollectionUsers     = "users"
	CollectionGalleries = "galleries"
	CollectionPosts     = "posts"
	CollectionComments  = "comments"
	CollectionSession   = "session"
	CollectionSettings  = "settings"
)

// Store persists collections as single JSON documents. A collection is
// always replaced wholesale; there is no transactionality across
// collections, so a crash mid-cascade can leave orphans. Absent or corrupt
// payloads load as empty rather than failing the caller.
type Store interface {
	// Load unmarshals the named collection into dest. dest is left at its
	// zero value when the collection is absent or its payload does not
	// parse.
	Load(ctx context.Context, collection string, dest any) error

	// Save marshals v and replaces the named collection.
	Save(ctx context.Context, collection string, v any) error

	// Delete removes the named collection.
	Delete(ctx context.Context, collection string) error

	// Collections lists the names currently stored.
	Collections(ctx context.Context) ([]string, error)
}
