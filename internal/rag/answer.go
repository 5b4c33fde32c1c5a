package rag

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
)

// Result is the outcome of one answered question. Sources is nil for
// greetings, which never go through retrieval.
type Result struct {
	Answer   string
	Sources  []string
	Greeting bool
}

// Answer runs the pipeline in blocking mode
func (p *Pipeline) Answer(ctx context.Context, question string) (*Result, error) {
	return p.answer(ctx, question, nil)
}

// AnswerStream runs the pipeline with token-by-token delivery. onToken is
// called for each fragment in generation order; returning an error from it
// aborts the generation. The returned Result carries the full concatenated
// answer.
func (p *Pipeline) AnswerStream(ctx context.Context, question string, onToken func(token string) error) (*Result, error) {
	return p.answer(ctx, question, onToken)
}

func (p *Pipeline) answer(ctx context.Context, question string, onToken func(token string) error) (*Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	index, history, epoch := p.session.Snapshot()
	if index == nil {
		return nil, ErrNoDocument
	}

	greeting := IsGreeting(question)
	var sources []string
	if !greeting {
		vector, err := p.embedder.EmbedQuery(ctx, question)
		if err != nil {
			return nil, &GenerationError{Err: err}
		}
		sources, err = index.Search(ctx, vector, p.topK)
		if err != nil {
			return nil, &GenerationError{Err: err}
		}
	}

	prompt := renderPrompt(history, sources, question, greeting)

	var answer string
	var err error
	if onToken == nil {
		answer, err = p.llm.Generate(ctx, prompt)
	} else {
		answer, err = p.llm.Stream(ctx, prompt, func(ctx context.Context, chunk []byte) error {
			return onToken(string(chunk))
		})
	}
	if err != nil {
		// a failed question must not leave a trace in the history
		return nil, &GenerationError{Err: err}
	}

	if !p.session.Append(epoch, question, answer) {
		log.Debug().Msg("Discarding history entry for an answer that outlived its document")
	}

	return &Result{Answer: answer, Sources: sources, Greeting: greeting}, nil
}
