package narrative

import (
	"strings"

	"github.com/ternarybob/nephra/internal/ksls"
)

// BMI brackets for the context paragraphs (kg/m²)
const (
	contextBMIObese       = 30.0
	contextBMIUnderweight = 18.5
)

// CKD stage brackets for the context paragraphs
const (
	ckdStageModerate = 3
	ckdStageSevere   = 4
)

// demographicRule pairs a predicate with a paragraph generator. Rules are
// evaluated independently and in order; every rule whose predicate holds
// contributes its paragraph. Adding or removing a rule cannot affect any
// other rule.
type demographicRule struct {
	name      string
	applies   func(result ksls.Result, demo Demographics) bool
	paragraph func(result ksls.Result, demo Demographics) string
}

// contextRules is the full cascade, in render order.
var contextRules = []demographicRule{
	{
		name: "age_under_30",
		applies: func(_ ksls.Result, demo Demographics) bool {
			return demo.Age != nil && *demo.Age < 30
		},
		paragraph: func(_ ksls.Result, _ Demographics) string {
			return "Habits formed now tend to stick: steady hydration and an eye on blood pressure in your twenties pay off for decades."
		},
	},
	{
		name: "age_30_to_59",
		applies: func(_ ksls.Result, demo Demographics) bool {
			return demo.Age != nil && *demo.Age >= 30 && *demo.Age < 60
		},
		paragraph: func(_ ksls.Result, _ Demographics) string {
			return "In midlife, kidney stress often tracks work and family pressure. Consistent sleep, hydration and an occasional blood pressure check are the highest-leverage habits."
		},
	},
	{
		name: "age_60_plus",
		applies: func(_ ksls.Result, demo Demographics) bool {
			return demo.Age != nil && *demo.Age >= 60
		},
		paragraph: func(_ ksls.Result, _ Demographics) string {
			return "Past 60 the kidneys filter a little more slowly, and blood pressure control becomes the single most protective habit. Review your readings with your clinician at least yearly."
		},
	},
	{
		name: "sex_female",
		applies: func(_ ksls.Result, demo Demographics) bool {
			return isFemale(demo.SexAtBirth)
		},
		paragraph: func(_ ksls.Result, _ Demographics) string {
			return "Urinary tract infections are more common in women, and an untreated infection can reach the kidneys. Seek care promptly if you notice burning or urgency."
		},
	},
	{
		name: "sex_male",
		applies: func(_ ksls.Result, demo Demographics) bool {
			return isMale(demo.SexAtBirth)
		},
		paragraph: func(_ ksls.Result, _ Demographics) string {
			return "Men tend to develop high blood pressure earlier in life. Regular readings matter even when you feel well."
		},
	},
	{
		// Equity framing only: the elevated burden of kidney disease in
		// these communities reflects access to screening and care, not
		// biology. This rule must never feed any numeric calculation.
		name: "community_screening",
		applies: func(_ ksls.Result, demo Demographics) bool {
			return matchesCommunity(demo.RaceEthnicity)
		},
		paragraph: func(_ ksls.Result, _ Demographics) string {
			return "Some communities carry a higher burden of kidney disease, largely through unequal access to screening and care. Routine blood pressure and kidney health checks are especially worthwhile."
		},
	},
	{
		name: "bmi_high",
		applies: func(result ksls.Result, _ Demographics) bool {
			return result.BMI >= contextBMIObese
		},
		paragraph: func(_ ksls.Result, _ Demographics) string {
			return "Carrying extra weight makes the kidneys work harder around the clock. Even a modest, sustained reduction eases that load."
		},
	},
	{
		name: "bmi_low",
		applies: func(result ksls.Result, _ Demographics) bool {
			return result.BMI > 0 && result.BMI < contextBMIUnderweight
		},
		paragraph: func(_ ksls.Result, _ Demographics) string {
			return "Being underweight can signal the body is running short of reserves. A nutrition review helps protect muscle and kidney health alike."
		},
	},
	{
		name: "ckd_stage_3_plus",
		applies: func(_ ksls.Result, demo Demographics) bool {
			return demo.CKDStage != nil && *demo.CKDStage >= ckdStageModerate
		},
		paragraph: func(_ ksls.Result, _ Demographics) string {
			return "With stage 3 or later chronic kidney disease, daily choices around fluids, salt and blood pressure carry extra weight. Keep your care team informed of sustained changes."
		},
	},
	{
		name: "ckd_stage_4_plus",
		applies: func(_ ksls.Result, demo Demographics) bool {
			return demo.CKDStage != nil && *demo.CKDStage >= ckdStageSevere
		},
		paragraph: func(_ ksls.Result, _ Demographics) string {
			return "At stage 4 and beyond, coordinate any change to fluid targets or diet with your nephrology team rather than adjusting on your own."
		},
	},
}

// femaleTokens and maleTokens accept the spellings the intake forms have
// historically produced.
var femaleTokens = []string{"female", "f", "woman", "girl", "feminine", "mujer"}
var maleTokens = []string{"male", "m", "man", "boy", "masculine", "hombre"}

func isFemale(sexAtBirth string) bool {
	s := strings.ToLower(strings.TrimSpace(sexAtBirth))
	for _, token := range femaleTokens {
		if s == token {
			return true
		}
	}
	return false
}

func isMale(sexAtBirth string) bool {
	s := strings.ToLower(strings.TrimSpace(sexAtBirth))
	for _, token := range maleTokens {
		if s == token {
			return true
		}
	}
	return false
}

// communityMarkers are matched as substrings of the free-text
// race/ethnicity field.
var communityMarkers = []string{
	"black", "african", "hispanic", "latin", "native", "indigenous",
	"pacific", "aboriginal", "torres strait",
}

func matchesCommunity(raceEthnicity string) bool {
	s := strings.ToLower(raceEthnicity)
	if strings.TrimSpace(s) == "" {
		return false
	}
	for _, marker := range communityMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
