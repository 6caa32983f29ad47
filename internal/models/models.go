package models

import (
	"time"

	"github.com/MariamKalashyan/combinations-api/internal/combinator"
)

// GenerateRequest is the input to a generation: the ordered group sizes and
// how many distinct groups each combination draws from. Deliberately no
// binding tags: empty items and out-of-range length are business rules with
// their own messages, reported by the service rather than the shape binder.
type GenerateRequest struct {
	Items  []int `json:"items"`
	Length int   `json:"length"`
}

// GenerationResult pairs the persisted response identifier with the full
// combination list. ID is nil when the request was valid but no combination
// exists (length exceeds the number of non-empty groups); nothing is stored
// in that case.
type GenerationResult struct {
	ID           *int64                   `json:"identifier"`
	Combinations []combinator.Combination `json:"combination"`
}

// Response is a stored generation request as read back from the database.
type Response struct {
	ID               int64     `json:"id"`
	Items            []int     `json:"items"`
	Length           int       `json:"length"`
	CombinationCount int64     `json:"combination_count"`
	CreatedAt        time.Time `json:"created_at"`
}
