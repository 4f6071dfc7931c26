// Package ai provides an optional model-backed classifier used to refine
// transcript paragraphs the keyword rules could not place.
package ai

import "context"

// ClassificationInput is one unclassified transcript paragraph.
type ClassificationInput struct {
	Paragraph  string
	Categories []string
}

// ClassificationResult is the model's verdict. Category is empty when the
// model declines to pick one of the offered categories.
type ClassificationResult struct {
	Category   string                 `json:"category"`
	Confidence float64                `json:"confidence"`
	Reason     string                 `json:"reason"`
	Raw        map[string]interface{} `json:"raw,omitempty"`
}

// Classifier describes a model capable of categorizing achievement text.
type Classifier interface {
	Classify(ctx context.Context, input ClassificationInput) (ClassificationResult, error)
}
