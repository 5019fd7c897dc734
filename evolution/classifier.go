package evolution

import "strings"

// Named failure categories extracted from rejected interactions.
const (
	CategoryCodeGeneration = "code_generation_issues"
	CategoryVerbose        = "response_too_verbose"
	CategoryFactual        = "factual_inaccuracy"
)

// Classifier maps a rejected interaction to zero or more failure
// categories. Implementations must be deterministic.
type Classifier interface {
	Classify(rec InteractionRecord) []string
}

// KeywordClassifier is the bundled heuristic classifier: substring
// matching over the feedback note (falling back to the response text).
// It is easily wrong on real language; swap in a better Classifier where
// accuracy matters.
type KeywordClassifier struct{}

// Classify implements Classifier.
func (KeywordClassifier) Classify(rec InteractionRecord) []string {
	text := strings.ToLower(rec.Note)
	if text == "" {
		text = strings.ToLower(rec.Response)
	}

	var categories []string
	if strings.Contains(text, "code") || strings.Contains(text, "function") {
		categories = append(categories, CategoryCodeGeneration)
	}
	if strings.Contains(text, "too long") || strings.Contains(text, "verbose") {
		categories = append(categories, CategoryVerbose)
	}
	if strings.Contains(text, "wrong") || strings.Contains(text, "incorrect") {
		categories = append(categories, CategoryFactual)
	}
	return categories
}
