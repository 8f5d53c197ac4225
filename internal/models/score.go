package models

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ternarybob/nephra/internal/ksls"
	"github.com/ternarybob/nephra/internal/narrative"
)

// ScoreRequest is the payload for recording a daily stress score. The
// validation ranges reject physiologically implausible entries before
// the engine runs; the engine itself clamps rather than rejects.
type ScoreRequest struct {
	// Vitals (mmHg)
	Systolic  float64 `json:"systolic" validate:"required,gt=0,lte=300"`
	Diastolic float64 `json:"diastolic" validate:"required,gt=0,lte=200"`

	// Hydration (liters)
	WaterIntakeLiters float64 `json:"water_intake_liters" validate:"gte=0,lte=15"`
	WaterTargetLiters float64 `json:"water_target_liters" validate:"gte=0,lte=15"`

	// Body measurements
	HeightCm float64 `json:"height_cm" validate:"required,gte=50,lte=260"`
	WeightKg float64 `json:"weight_kg" validate:"required,gte=20,lte=500"`

	// Self-reported symptoms on a 0-10 scale. A missing symptom is
	// distinct from a reported zero and redistributes its weight.
	Fatigue *float64 `json:"fatigue,omitempty" validate:"omitempty,gte=0,lte=10"`
	Pain    *float64 `json:"pain,omitempty" validate:"omitempty,gte=0,lte=10"`
	Stress  *float64 `json:"stress,omitempty" validate:"omitempty,gte=0,lte=10"`

	// Optional demographics, used only for the personalized context
	// paragraphs in the interpretation
	Demographics *DemographicsRequest `json:"demographics,omitempty"`
}

// DemographicsRequest carries the optional attributes the narrative layer
// personalizes with. These never reach the score calculation.
type DemographicsRequest struct {
	Age           *int   `json:"age,omitempty" validate:"omitempty,gte=0,lte=120"`
	SexAtBirth    string `json:"sex_at_birth,omitempty" validate:"omitempty,max=40"`
	RaceEthnicity string `json:"race_ethnicity,omitempty" validate:"omitempty,max=120"`
	CKDStage      *int   `json:"ckd_stage,omitempty" validate:"omitempty,gte=1,lte=5"`
}

// Validate checks the request against its range tags.
func (r *ScoreRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ToInput maps the request onto the engine's input snapshot.
func (r *ScoreRequest) ToInput() ksls.Input {
	return ksls.Input{
		Systolic:    r.Systolic,
		Diastolic:   r.Diastolic,
		WaterIntake: r.WaterIntakeLiters,
		WaterTarget: r.WaterTargetLiters,
		HeightCm:    r.HeightCm,
		WeightKg:    r.WeightKg,
		Fatigue:     r.Fatigue,
		Pain:        r.Pain,
		Stress:      r.Stress,
	}
}

// ToDemographics maps the optional demographics block, or nil when the
// caller supplied none.
func (r *ScoreRequest) ToDemographics() *narrative.Demographics {
	if r.Demographics == nil {
		return nil
	}
	return &narrative.Demographics{
		Age:           r.Demographics.Age,
		SexAtBirth:    r.Demographics.SexAtBirth,
		RaceEthnicity: r.Demographics.RaceEthnicity,
		CKDStage:      r.Demographics.CKDStage,
	}
}

// ScoreRecord is a persisted daily score entry: the reported inputs, the
// computed result, and the rendered interpretation at the time of entry.
type ScoreRecord struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at" badgerhold:"index"`

	// What the caller reported
	Input        ksls.Input              `json:"input"`
	Demographics *narrative.Demographics `json:"demographics,omitempty"`

	// What the engine produced
	Result         ksls.Result              `json:"result"`
	Interpretation narrative.Interpretation `json:"interpretation"`
}
