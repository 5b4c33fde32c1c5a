package store

import (
	"context"

	"readerschat/internal/models"
)

// Index is a queryable snapshot built from one uploaded document. It is
// immutable after Build: a new upload produces a whole new Index and the old
// one is discarded.
type Index interface {
	// Search returns the texts of the k most similar chunks, most similar
	// first. k larger than Len is clamped.
	Search(ctx context.Context, vector []float32, k int) ([]string, error)
	Len() int
}

// Builder constructs a new Index from embedded chunks. A failed build must
// leave any previously built index usable.
type Builder interface {
	Build(ctx context.Context, filename string, chunks []models.Chunk, vectors [][]float32) (Index, error)
}
