package domain

// Violation is a single rule breach found during validation.
type Violation struct {
	// RuleID identifies the breached rule.
	RuleID string `json:"ruleId"`

	// Severity is SeverityMajor or SeverityMinor.
	Severity string `json:"severity"`

	// Message describes the breach.
	Message string `json:"message"`

	// Line is the 1-based line number for line-scoped violations,
	// 0 when the violation applies to the whole text.
	Line int `json:"line,omitempty"`

	// Suggestion is a replacement hint when the vocabulary guide
	// maps one.
	Suggestion string `json:"suggestion,omitempty"`
}

// ValidationSummary holds the aggregate counts for a validation run.
type ValidationSummary struct {
	RulesChecked    int `json:"rulesChecked"`
	MajorViolations int `json:"majorViolations"`
	MinorViolations int `json:"minorViolations"`
	SentenceCount   int `json:"sentenceCount"`
	WordCount       int `json:"wordCount"`
}

// ValidationResult is the ephemeral outcome of checking candidate text
// against a StyleSpec. It is never persisted by the core.
type ValidationResult struct {
	// Score starts at 100 and loses a fixed penalty per violation.
	Score int `json:"score"`

	// Passed reflects the configured pass threshold.
	Passed bool `json:"passed"`

	Violations []Violation `json:"violations"`

	Summary ValidationSummary `json:"summary"`
}
