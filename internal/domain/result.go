package domain

// PoolMetrics describes what happened to the candidate pool during one run.
type PoolMetrics struct {
	DocsFound     int `json:"docs_found"`
	DocsKept      int `json:"docs_kept"`
	DocsTruncated int `json:"docs_truncated"`
	DocsSkipped   int `json:"docs_skipped"`
	CharsBefore   int `json:"chars_before"`
	CharsAfter    int `json:"chars_after"`
}

// OptimizationResult is the assembled, budget-bounded document set returned
// to the caller and stored in the result cache.
type OptimizationResult struct {
	Documents            []ScoredDocument `json:"documents"`
	TotalEstimatedTokens int              `json:"total_estimated_tokens"`
	TruncatedCount       int              `json:"truncated_count"`
	KeywordsProcessed    []string         `json:"keywords_processed"`
	FailedKeywords       []string         `json:"failed_keywords,omitempty"`
	ResolvedParams       ModeParameters   `json:"resolved_params"`
	Metrics              PoolMetrics      `json:"metrics"`
	ElapsedMillis        int64            `json:"elapsed_millis"`
	CacheHit             bool             `json:"cache_hit"`
}
