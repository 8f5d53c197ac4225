// Package narrative renders a Kidney Stress Load result as short
// plain-language guidance: a band summary, contributor detail, optional
// personalized context, and a fixed safety disclaimer.
//
// The package reads ksls.Result values and never writes them. Demographics
// enter the system only here, which keeps them structurally incapable of
// influencing the numeric score.
package narrative

import (
	"github.com/ternarybob/nephra/internal/ksls"
)

// Demographics carries optional context for educational framing. Nil
// pointers and empty strings mean "not provided" and simply skip the
// paragraphs gated on them.
type Demographics struct {
	Age           *int   `json:"age,omitempty"`
	SexAtBirth    string `json:"sex_at_birth,omitempty"`
	RaceEthnicity string `json:"race_ethnicity,omitempty"`
	CKDStage      *int   `json:"ckd_stage,omitempty"`
}

// Interpretation is the rendered narrative. It deliberately carries no
// numeric fields: readings belong in ksls.Result, not in prose metadata.
type Interpretation struct {
	Summary    string   `json:"summary"`
	Detail     string   `json:"detail"`
	Context    string   `json:"context,omitempty"`
	Disclaimer string   `json:"disclaimer"`
	TopFactors []string `json:"top_factors"`
}

// factorNames maps factor keys to the names used in rendered text.
var factorNames = map[ksls.FactorKey]string{
	ksls.FactorBloodPressure: "blood pressure",
	ksls.FactorHydration:     "hydration",
	ksls.FactorWeight:        "weight",
	ksls.FactorFatigue:       "fatigue",
	ksls.FactorPain:          "pain",
	ksls.FactorStress:        "stress",
}

// FactorName returns the display name for a factor key.
func FactorName(key ksls.FactorKey) string {
	if name, ok := factorNames[key]; ok {
		return name
	}
	return string(key)
}
