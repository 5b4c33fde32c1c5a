package rag

import (
	"fmt"
	"strings"

	"readerschat/internal/models"
)

// renderPrompt assembles the completion prompt from the retained history,
// the retrieved context and the question. Greetings get the template without
// a context block.
func renderPrompt(history []models.HistoryEntry, sources []string, question string, greeting bool) string {
	historyText := models.NoHistoryPlaceholder
	if len(history) > 0 {
		lines := make([]string, len(history))
		for i, entry := range history {
			lines[i] = fmt.Sprintf("Human: %s\nAssistant: %s", entry.Question, entry.Answer)
		}
		historyText = strings.Join(lines, "\n")
	}

	if greeting {
		return fmt.Sprintf(models.GreetingPromptTemplate, historyText, question)
	}
	context := strings.Join(sources, models.ContextSeparator)
	return fmt.Sprintf(models.AnswerPromptTemplate, historyText, context, question)
}
