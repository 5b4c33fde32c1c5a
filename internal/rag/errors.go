package rag

import "errors"

// Failure kinds surfaced by the ingestion and answer pipelines. Transports
// match on these to pick a status code or error message; the pipelines never
// report failures any other way.
var (
	ErrUnsupportedFormat = errors.New("only .txt files are supported")
	ErrDecode            = errors.New("file is not valid UTF-8 text")
	ErrEmptyDocument     = errors.New("document contains no text to index")
	ErrNoDocument        = errors.New("no document loaded, please upload a document first")
	ErrEmptyQuestion     = errors.New("question must not be empty")
)

// GenerationError wraps a failure from the embedder, the vector index or the
// completion service during answering
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "generation failed: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
