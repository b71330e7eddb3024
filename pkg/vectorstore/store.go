package vectorstore

import "context"

// Document is one ranked retrieval hit: its text content plus whatever
// class-specific metadata the store carries for it.
type Document struct {
	Content  string
	Metadata map[string]any
}

// Filter restricts a search to documents whose metadata field equals a value.
type Filter struct {
	Field string
	Value string
}

// Store is a similarity-search handle over named collections. Implementations
// are stateless and safe to share across concurrent requests; they do not
// retry on their own.
type Store interface {
	Search(ctx context.Context, collection string, query string, k int, where *Filter) ([]Document, error)
}
