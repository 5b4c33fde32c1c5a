package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"readerschat/internal/chunker"
	"readerschat/internal/models"
	"readerschat/internal/session"
	"readerschat/internal/store"
)

type stubEmbedder struct {
	queryCalls int
	docCalls   int
	failQuery  bool
	failDocs   bool
}

func (e *stubEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	e.docCalls++
	if e.failDocs {
		return nil, errors.New("embedder unavailable")
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(i), 1}
	}
	return vectors, nil
}

func (e *stubEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	e.queryCalls++
	if e.failQuery {
		return nil, errors.New("embedder unavailable")
	}
	return []float32{0, 1}, nil
}

type stubIndex struct {
	texts      []string
	failSearch bool
}

func (ix *stubIndex) Search(ctx context.Context, vector []float32, k int) ([]string, error) {
	if ix.failSearch {
		return nil, errors.New("index unavailable")
	}
	if k > len(ix.texts) {
		k = len(ix.texts)
	}
	return ix.texts[:k], nil
}

func (ix *stubIndex) Len() int { return len(ix.texts) }

type stubBuilder struct {
	failBuild bool
	built     *stubIndex
}

func (b *stubBuilder) Build(ctx context.Context, filename string, chunks []models.Chunk, vectors [][]float32) (store.Index, error) {
	if b.failBuild {
		return nil, errors.New("index backend unavailable")
	}
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Content
	}
	b.built = &stubIndex{texts: texts}
	return b.built, nil
}

type stubGenerator struct {
	answer     string
	tokens     []string
	fail       bool
	lastPrompt string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.lastPrompt = prompt
	if g.fail {
		return "", errors.New("completion service down")
	}
	return g.answer, nil
}

func (g *stubGenerator) Stream(ctx context.Context, prompt string, fn func(ctx context.Context, chunk []byte) error) (string, error) {
	g.lastPrompt = prompt
	if g.fail {
		return "", errors.New("completion service down")
	}
	tokens := g.tokens
	if tokens == nil {
		tokens = strings.SplitAfter(g.answer, " ")
	}
	var full strings.Builder
	for _, tok := range tokens {
		if err := fn(ctx, []byte(tok)); err != nil {
			return "", fmt.Errorf("streaming aborted: %w", err)
		}
		full.WriteString(tok)
	}
	return full.String(), nil
}

type pipelineStubs struct {
	embedder  *stubEmbedder
	builder   *stubBuilder
	generator *stubGenerator
	session   *session.Session
}

func newTestPipeline(t *testing.T) (*Pipeline, *pipelineStubs) {
	t.Helper()
	splitter, err := chunker.New(50, 10)
	if err != nil {
		t.Fatal(err)
	}
	stubs := &pipelineStubs{
		embedder:  &stubEmbedder{},
		builder:   &stubBuilder{},
		generator: &stubGenerator{answer: "the answer"},
		session:   session.New(6),
	}
	p := NewPipeline(splitter, stubs.embedder, stubs.builder, stubs.generator, stubs.session, 3)
	return p, stubs
}
