package dto

// ReviewVerdictRequest is a reviewer's ruling on one achievement. A rejection
// must carry a comment explaining the decision.
type ReviewVerdictRequest struct {
	Status  string `json:"status" validate:"required,oneof=approved rejected"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

// ReviewQueueFilter describes query string filters for the reviewer queue.
type ReviewQueueFilter struct {
	Pending *bool `query:"pending"`
}
