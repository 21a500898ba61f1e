package core

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a DocumentStore when no document exists for a hash.
var ErrNotFound = errors.New("document not found")

type (
	Document struct {
		Data []byte
	}

	// DocumentStore persists documents addressed by the hash of their content.
	//
	// Create is idempotent: storing the same bytes twice returns the same hash
	// and leaves a single object behind. FindID returns an error wrapping
	// ErrNotFound when the hash is unknown; any other error is a storage failure.
	DocumentStore interface {
		FindID(ctx context.Context, id string) (*Document, error)
		Create(ctx context.Context, document *Document) (string, error)
	}

	// Renderer turns an invoice into document bytes.
	Renderer interface {
		Render(invoice *Invoice) ([]byte, error)
		ContentType() string
	}
)
