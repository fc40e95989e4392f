package domain

// ModeParameters are the concrete knobs an optimization mode resolves to.
type ModeParameters struct {
	DocsPerKeyword     int `json:"docs_per_keyword"`
	MaxCharsPerDoc     int `json:"max_chars_per_doc"`
	TargetTokenBudget  int `json:"target_token_budget"`
	SkipDocsLargerThan int `json:"skip_docs_larger_than"`
}

// Overrides are optional per-request parameter overrides. A nil field means
// "use the mode table value"; overrides win field by field.
type Overrides struct {
	MaxDocsPerKeyword *int `json:"max_docs_per_keyword,omitempty"`
	MaxCharsPerDoc    *int `json:"max_chars_per_doc,omitempty"`
	TargetTokenBudget *int `json:"target_token_budget,omitempty"`
}

// IsZero reports whether no override is set.
func (o Overrides) IsZero() bool {
	return o.MaxDocsPerKeyword == nil && o.MaxCharsPerDoc == nil && o.TargetTokenBudget == nil
}

// FetchResult is the outcome of one per-keyword retrieval, successful or not.
type FetchResult struct {
	Keyword string
	Docs    []Document
	Err     error
}
