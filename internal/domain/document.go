package domain

import "unicode/utf8"

// Document is a single unit retrieved from the knowledge-base backend.
// Title and URL may be empty: the backend omits them for some sources and
// consumers must treat absence as "no match bonus", never as a failure.
// A Document is owned by the request that fetched it and never mutated.
type Document struct {
	URL           string `json:"url"`
	Title         string `json:"title,omitempty"`
	Content       string `json:"content"`
	SourceKeyword string `json:"source_keyword"`
}

// ContentLength returns the content size in characters (runes, not bytes).
func (d Document) ContentLength() int {
	return utf8.RuneCountInString(d.Content)
}

// ScoredDocument is a Document with relevance and truncation metadata.
// Truncation produces a new copy; existing values are never modified.
type ScoredDocument struct {
	Document
	Score      float64 `json:"score"`
	Truncated  bool    `json:"truncated"`
	KeptLength int     `json:"kept_length"`
}

// EstimateTokens approximates the LLM token count of a character span
// as chars/4, rounded up.
func EstimateTokens(chars int) int {
	return (chars + 3) / 4
}
