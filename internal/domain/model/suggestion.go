package model

// Suggestion is a review comment proposed by the AI model for a diff line.
type Suggestion struct {
	Path     string
	Line     int
	Side     Side
	Body     string
	Severity Severity // Zero until classified.
}

// DiscardedSuggestion is a suggestion rejected before reaching the user,
// together with the reason it was dropped.
type DiscardedSuggestion struct {
	Suggestion Suggestion
	Reason     string
}
