package models

const (
	// NoHistoryPlaceholder is rendered into the prompt when the
	// conversation has no prior exchanges
	NoHistoryPlaceholder = "No previous conversation."

	// ContextSeparator joins retrieved chunk texts into one context block
	ContextSeparator = "\n\n"
)

var (
	// AnswerPromptTemplate renders chat history, retrieved context and the
	// current question into a single completion prompt
	AnswerPromptTemplate = `You are a helpful assistant answering questions about a document.
Use the following context and chat history to answer the question.
If you don't know the answer, say so - don't make up information.

Chat History:
%s

Context from document:
%s

Question: %s

Answer:`

	// GreetingPromptTemplate is used when retrieval is skipped for
	// small-talk, so no document context is injected
	GreetingPromptTemplate = `You are a helpful assistant answering questions about a document.
Respond to the greeting in a brief, friendly way and invite the user to ask about the uploaded document.

Chat History:
%s

Question: %s

Answer:`
)
