package domain

type RuleResult struct {
	IsValid  bool     `json:"is_valid"`
	Message  string   `json:"message"`
	Expected string   `json:"expected,omitempty"`
	Actual   string   `json:"actual,omitempty"`
	Diff     string   `json:"diff,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

type ValidationError struct {
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Diff     string `json:"diff,omitempty"`
}

// ValidationResult is computed fresh per document and never mutated
// after return.
type ValidationResult struct {
	IsValid  bool                  `json:"is_valid"`
	Errors   []ValidationError     `json:"errors"`
	Warnings []string              `json:"warnings"`
	Details  map[string]RuleResult `json:"details"`
}
