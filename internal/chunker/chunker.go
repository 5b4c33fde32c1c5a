package chunker

import (
	"fmt"
	"strings"

	"readerschat/internal/models"
)

// Splitter cuts raw document text into fixed-size windows with a fixed
// character overlap between consecutive chunks. Splitting operates on runes
// so multibyte text is never cut mid-character.
type Splitter struct {
	size    int
	overlap int
}

func New(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, size), got overlap=%d size=%d", overlap, size)
	}
	return &Splitter{size: size, overlap: overlap}, nil
}

// Split returns the ordered chunk sequence covering the whole text.
// Consecutive chunks overlap by exactly the configured overlap, except
// possibly the final chunk which may be shorter. Whitespace-only input
// yields no chunks.
func (s *Splitter) Split(text string) []models.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	runes := []rune(text)
	step := s.size - s.overlap

	var chunks []models.Chunk
	for start := 0; ; start += step {
		end := start + s.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, models.Chunk{
			Content: string(runes[start:end]),
			Index:   len(chunks),
			Start:   start,
		})
		if end == len(runes) {
			break
		}
	}
	return chunks
}
