// Package renal estimates glomerular filtration rate from serum
// creatinine using the race-free CKD-EPI 2021 equation and maps the
// estimate onto KDIGO CKD stages.
//
// Unlike the stress score, the estimate here is deliberately
// demographic-aware: age and sex at birth are part of the published
// equation.
package renal

import (
	"fmt"
	"math"
	"strings"
)

// CKD-EPI 2021 coefficients. The female set applies when the sex-at-birth
// string matches a known female token; anything else, including an empty
// or unrecognized value, uses the male set.
const (
	kappaFemale     = 0.7
	alphaFemale     = -0.241
	sexFactorFemale = 1.012

	kappaMale     = 0.9
	alphaMale     = -0.302
	sexFactorMale = 1.0

	equationScale = 142
	maxExponent   = -1.200
	ageBase       = 0.9938
)

var femaleTokens = []string{"female", "f", "woman", "girl", "feminine", "mujer"}

// Stage is a KDIGO CKD stage classification for an eGFR value.
type Stage struct {
	Code        string `json:"stage"`
	Description string `json:"description"`
}

// EstimateGFR computes the estimated glomerular filtration rate in
// mL/min/1.73m² from age in years, sex at birth, and serum creatinine in
// mg/dL. The result is rounded to two decimals. Implausible inputs are
// rejected rather than clamped.
func EstimateGFR(age int, sexAtBirth string, serumCreatinine float64) (float64, error) {
	if age <= 0 {
		return 0, fmt.Errorf("age must be positive, got %d", age)
	}
	if serumCreatinine <= 0 {
		return 0, fmt.Errorf("serum creatinine must be positive, got %g", serumCreatinine)
	}

	kappa := kappaMale
	alpha := alphaMale
	sexFactor := sexFactorMale
	if isFemaleToken(sexAtBirth) {
		kappa = kappaFemale
		alpha = alphaFemale
		sexFactor = sexFactorFemale
	}

	ratio := serumCreatinine / kappa
	egfr := equationScale *
		math.Pow(math.Min(ratio, 1), alpha) *
		math.Pow(math.Max(ratio, 1), maxExponent) *
		math.Pow(ageBase, float64(age)) *
		sexFactor

	return math.Round(egfr*100) / 100, nil
}

// InterpretGFR maps an eGFR value onto its KDIGO stage.
func InterpretGFR(gfr float64) Stage {
	switch {
	case gfr >= 90:
		return Stage{Code: "G1", Description: "Normal or high kidney function"}
	case gfr >= 60:
		return Stage{Code: "G2", Description: "Mildly decreased kidney function"}
	case gfr >= 45:
		return Stage{Code: "G3a", Description: "Mildly to moderately decreased kidney function"}
	case gfr >= 30:
		return Stage{Code: "G3b", Description: "Moderately to severely decreased kidney function"}
	case gfr >= 15:
		return Stage{Code: "G4", Description: "Severely decreased kidney function"}
	default:
		return Stage{Code: "G5", Description: "Kidney failure"}
	}
}

func isFemaleToken(sexAtBirth string) bool {
	s := strings.ToLower(strings.TrimSpace(sexAtBirth))
	for _, token := range femaleTokens {
		if s == token {
			return true
		}
	}
	return false
}
