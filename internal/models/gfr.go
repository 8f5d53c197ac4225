package models

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ternarybob/nephra/internal/renal"
	"github.com/ternarybob/nephra/internal/trend"
)

// GFRRequest is the payload for an eGFR estimate. Serum creatinine is in
// mg/dL; the upper bound admits dialysis-range values.
type GFRRequest struct {
	Age             int     `json:"age" validate:"required,gt=0,lte=120"`
	SexAtBirth      string  `json:"sex_at_birth,omitempty" validate:"omitempty,max=40"`
	SerumCreatinine float64 `json:"serum_creatinine" validate:"required,gt=0,lte=40"`
}

// Validate checks the request against its range tags.
func (r *GFRRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// GFRRecord is a persisted eGFR estimate with its KDIGO stage and, when
// prior estimates exist, a trend analysis over the stored history.
type GFRRecord struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at" badgerhold:"index"`

	// Inputs
	Age             int     `json:"age"`
	SexAtBirth      string  `json:"sex_at_birth,omitempty"`
	SerumCreatinine float64 `json:"serum_creatinine"`

	// Outputs
	EGFR  float64         `json:"egfr"`
	Stage renal.Stage     `json:"stage"`
	Trend *trend.Analysis `json:"trend,omitempty"`
}
