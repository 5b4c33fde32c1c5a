package store

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"

	"readerschat/internal/models"
)

// ChromemBuilder builds in-process vector indexes. Each upload gets a fresh
// chromem collection; the previous one is dropped with its Index handle.
type ChromemBuilder struct{}

func NewChromemBuilder() *ChromemBuilder {
	return &ChromemBuilder{}
}

func (b *ChromemBuilder) Build(ctx context.Context, filename string, chunks []models.Chunk, vectors [][]float32) (Index, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("chunks and vectors length mismatch: %d != %d", len(chunks), len(vectors))
	}

	db := chromem.NewDB()
	collection, err := db.GetOrCreateCollection("upload-"+uuid.NewString(), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chromem.Document{
			ID:      fmt.Sprintf("%s-%d", filename, chunk.Index),
			Content: chunk.Content,
			Metadata: map[string]string{
				"source": filename,
				"chunk":  strconv.Itoa(chunk.Index),
			},
			Embedding: vectors[i],
		}
	}
	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("failed to add documents: %w", err)
	}

	return &chromemIndex{collection: collection}, nil
}

type chromemIndex struct {
	collection *chromem.Collection
}

func (ix *chromemIndex) Len() int {
	return ix.collection.Count()
}

func (ix *chromemIndex) Search(ctx context.Context, vector []float32, k int) ([]string, error) {
	// chromem rejects nResults above the document count
	if n := ix.collection.Count(); k > n {
		k = n
	}
	if k <= 0 {
		return nil, nil
	}
	results, err := ix.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: vector,
		NResults:       k,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}
	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Content
	}
	return texts, nil
}
