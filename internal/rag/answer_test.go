package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readerschat/internal/models"
)

func ingestFixture(t *testing.T, p *Pipeline) {
	t.Helper()
	text := strings.Repeat("quarterly revenue grew steadily across all regions. ", 10)
	_, err := p.Ingest(context.Background(), "report.txt", []byte(text))
	require.NoError(t, err)
}

func TestAnswerRequiresDocument(t *testing.T) {
	p, _ := newTestPipeline(t)

	_, err := p.Answer(context.Background(), "what is the revenue?")
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestAnswerRejectsEmptyQuestion(t *testing.T) {
	p, _ := newTestPipeline(t)
	ingestFixture(t, p)

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := p.Answer(context.Background(), q)
		assert.ErrorIs(t, err, ErrEmptyQuestion)
	}
}

func TestAnswerRetrievesSourcesAndUpdatesHistory(t *testing.T) {
	p, stubs := newTestPipeline(t)
	ingestFixture(t, p)

	res, err := p.Answer(context.Background(), "what happened to revenue?")
	require.NoError(t, err)

	assert.Equal(t, "the answer", res.Answer)
	assert.False(t, res.Greeting)
	require.Len(t, res.Sources, 3)
	assert.Equal(t, 1, stubs.embedder.queryCalls)

	// retrieved context and the question both land in the prompt
	assert.Contains(t, stubs.generator.lastPrompt, res.Sources[0])
	assert.Contains(t, stubs.generator.lastPrompt, "what happened to revenue?")
	assert.Contains(t, stubs.generator.lastPrompt, models.NoHistoryPlaceholder)

	history := stubs.session.History()
	require.Len(t, history, 1)
	assert.Equal(t, "what happened to revenue?", history[0].Question)
	assert.Equal(t, "the answer", history[0].Answer)
}

func TestAnswerGreetingSkipsRetrieval(t *testing.T) {
	p, stubs := newTestPipeline(t)
	ingestFixture(t, p)

	res, err := p.Answer(context.Background(), "hello!")
	require.NoError(t, err)

	assert.True(t, res.Greeting)
	assert.Nil(t, res.Sources)
	assert.Zero(t, stubs.embedder.queryCalls, "greetings must not hit the embedder")
	assert.NotContains(t, stubs.generator.lastPrompt, "Context from document")

	history := stubs.session.History()
	require.Len(t, history, 1, "greetings still belong in the history")
}

func TestAnswerRendersHistory(t *testing.T) {
	p, stubs := newTestPipeline(t)
	ingestFixture(t, p)

	_, err := p.Answer(context.Background(), "first question?")
	require.NoError(t, err)
	_, err = p.Answer(context.Background(), "second question?")
	require.NoError(t, err)

	assert.Contains(t, stubs.generator.lastPrompt, "Human: first question?")
	assert.Contains(t, stubs.generator.lastPrompt, "Assistant: the answer")
	assert.NotContains(t, stubs.generator.lastPrompt, models.NoHistoryPlaceholder)
}

func TestAnswerFailureLeavesHistoryUntouched(t *testing.T) {
	p, stubs := newTestPipeline(t)
	ingestFixture(t, p)

	_, err := p.Answer(context.Background(), "a working question?")
	require.NoError(t, err)
	before := len(stubs.session.History())

	stubs.generator.fail = true
	_, err = p.Answer(context.Background(), "a failing question?")
	require.Error(t, err)

	var genErr *GenerationError
	assert.True(t, errors.As(err, &genErr))
	assert.Len(t, stubs.session.History(), before, "failed answers must not touch the history")

	// embedder failure surfaces the same way
	stubs.generator.fail = false
	stubs.embedder.failQuery = true
	_, err = p.Answer(context.Background(), "another question?")
	assert.True(t, errors.As(err, &genErr))
	assert.Len(t, stubs.session.History(), before)
}

func TestAnswerStreamConcatenatesToFullAnswer(t *testing.T) {
	p, stubs := newTestPipeline(t)
	ingestFixture(t, p)
	stubs.generator.tokens = []string{"the ", "streamed ", "answer"}

	var got []string
	res, err := p.AnswerStream(context.Background(), "what happened?", func(token string) error {
		got = append(got, token)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"the ", "streamed ", "answer"}, got)
	assert.Equal(t, "the streamed answer", res.Answer)

	history := stubs.session.History()
	require.Len(t, history, 1)
	assert.Equal(t, "the streamed answer", history[0].Answer, "history records the concatenated answer")
}

func TestAnswerStreamConsumerAbort(t *testing.T) {
	p, stubs := newTestPipeline(t)
	ingestFixture(t, p)
	stubs.generator.tokens = []string{"a", "b", "c"}

	_, err := p.AnswerStream(context.Background(), "what happened?", func(token string) error {
		return errors.New("client went away")
	})
	require.Error(t, err)

	assert.Empty(t, stubs.session.History(), "aborted answers must not be recorded")
}

func TestAnswerAfterReuploadDropsStaleHistoryEntry(t *testing.T) {
	p, stubs := newTestPipeline(t)
	ingestFixture(t, p)

	// The re-upload lands while the completion call is in flight.
	stubs.generator.tokens = []string{"partial ", "answer"}
	reuploaded := false
	_, err := p.AnswerStream(context.Background(), "what happened?", func(token string) error {
		if !reuploaded {
			reuploaded = true
			_, ingestErr := p.Ingest(context.Background(), "other.txt", []byte("a different document body"))
			require.NoError(t, ingestErr)
		}
		return nil
	})
	require.NoError(t, err)

	assert.Empty(t, stubs.session.History(), "an answer from the old document must not enter the new history")
}
