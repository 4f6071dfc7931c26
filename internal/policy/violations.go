package policy

// Violations maps a field path (e.g. "metadata/firstUnit") to a message. Only
// the first failure per field is kept so the submission UI can highlight the
// exact offending input.
type Violations map[string]string

// Add records a violation unless the field already has one.
func (v Violations) Add(path, message string) {
	if _, exists := v[path]; exists {
		return
	}
	v[path] = message
}

// Result is the outcome of validating one prospective submission. Warnings
// are advisory soft-cap notices and never block acceptance.
type Result struct {
	Violations Violations `json:"violations,omitempty"`
	Warnings   Violations `json:"warnings,omitempty"`
}

// Accepted reports whether the submission passed every hard rule.
func (r Result) Accepted() bool {
	return len(r.Violations) == 0
}
