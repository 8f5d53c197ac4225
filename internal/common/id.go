package common

import (
	"github.com/google/uuid"
)

// NewScoreID generates a unique score record ID with the "score_" prefix
// Format: score_<uuid>
func NewScoreID() string {
	return "score_" + uuid.New().String()
}

// NewGFRID generates a unique eGFR record ID with the "gfr_" prefix
// Format: gfr_<uuid>
func NewGFRID() string {
	return "gfr_" + uuid.New().String()
}

// NewSummaryID generates a unique daily summary ID with the "sum_" prefix
// Format: sum_<uuid>
func NewSummaryID() string {
	return "sum_" + uuid.New().String()
}

// NewArticleID generates a unique education article ID with the "art_" prefix
// Format: art_<uuid>
func NewArticleID() string {
	return "art_" + uuid.New().String()
}
