package rag

import (
	"github.com/tmc/langchaingo/embeddings"

	"readerschat/internal/chunker"
	"readerschat/internal/llm"
	"readerschat/internal/session"
	"readerschat/internal/store"
)

// Pipeline wires the document chat core: chunking, embedding, index
// construction and retrieval-augmented answering over one shared session.
type Pipeline struct {
	splitter *chunker.Splitter
	embedder embeddings.Embedder
	builder  store.Builder
	llm      llm.Generator
	session  *session.Session
	topK     int
}

func NewPipeline(
	splitter *chunker.Splitter,
	embedder embeddings.Embedder,
	builder store.Builder,
	generator llm.Generator,
	sess *session.Session,
	topK int,
) *Pipeline {
	if topK <= 0 {
		topK = 3
	}
	return &Pipeline{
		splitter: splitter,
		embedder: embedder,
		builder:  builder,
		llm:      generator,
		session:  sess,
		topK:     topK,
	}
}

// Session exposes the session for transports that read history and health
func (p *Pipeline) Session() *session.Session {
	return p.session
}
