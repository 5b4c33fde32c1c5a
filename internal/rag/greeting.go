package rag

import (
	"strings"
	"unicode/utf8"
)

// greetingMaxLen is the rune-length ceiling for the greeting short-circuit.
// Longer questions go through retrieval even when they contain a greeting
// word ("hi, what does the document say about ...").
const greetingMaxLen = 30

var greetingWords = []string{
	"hi",
	"hello",
	"hey",
	"good morning",
	"good afternoon",
	"good evening",
	"how are you",
	"what's up",
	"greetings",
}

// IsGreeting reports whether a question is small talk. Greetings skip
// document retrieval so irrelevant context never pollutes the response.
func IsGreeting(question string) bool {
	q := strings.TrimSpace(question)
	if q == "" || utf8.RuneCountInString(q) >= greetingMaxLen {
		return false
	}
	lower := strings.ToLower(q)
	for _, word := range greetingWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
