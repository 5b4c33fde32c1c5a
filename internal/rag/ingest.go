package rag

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"readerschat/internal/models"
)

// Ingest chunks, embeds and indexes an uploaded document, then installs the
// new index and clears the conversation. Any failure before the install
// leaves the previously loaded document and its history untouched.
func (p *Pipeline) Ingest(ctx context.Context, filename string, data []byte) (*models.UploadSummary, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".txt") {
		return nil, ErrUnsupportedFormat
	}
	if !utf8.Valid(data) {
		return nil, ErrDecode
	}

	chunks := p.splitter.Split(string(data))
	if len(chunks) == 0 {
		return nil, ErrEmptyDocument
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}
	vectors, err := p.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding document: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	index, err := p.builder.Build(ctx, filename, chunks, vectors)
	if err != nil {
		return nil, fmt.Errorf("building index: %w", err)
	}

	p.session.Replace(index)
	log.Info().Str("filename", filename).Int("chunks", len(chunks)).Msg("Document indexed")

	return &models.UploadSummary{Filename: filename, ChunkCount: len(chunks)}, nil
}
