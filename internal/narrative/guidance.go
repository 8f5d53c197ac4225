package narrative

import (
	"github.com/ternarybob/nephra/internal/ksls"
)

// SignificantThreshold is the normalized value above which a factor is
// named as a contributor in the detail text.
const SignificantThreshold float64 = 0.3

// Disclaimer is appended to every interpretation unchanged.
const Disclaimer = "This score reflects daily lifestyle load only. It is not a measure of kidney function and is not a diagnostic tool. For medical concerns, talk to a healthcare professional."

// bandSummaries keys the one-line summary solely by band.
var bandSummaries = map[ksls.Band]string{
	ksls.BandStable:   "Your kidney stress load is in the stable range today.",
	ksls.BandElevated: "Your kidney stress load is elevated today.",
	ksls.BandHigh:     "Your kidney stress load is high today and deserves attention.",
}

// reassuringDetail is used when no factor crosses the significance
// threshold.
const reassuringDetail = "None of your tracked factors stand out today. Keep up your current habits."

// factorGuidance holds the advice pair for one factor. The strong message
// replaces the moderate one when the factor's normalized value reaches the
// factor's own escalation threshold.
type factorGuidance struct {
	escalateAt float64
	moderate   string
	strong     string
}

// guidanceByFactor keys advice by the top-ranked significant factor.
// Escalation thresholds differ by factor: fast-moving vitals escalate at
// 0.5, slower-moving body and symptom factors at 0.7.
var guidanceByFactor = map[ksls.FactorKey]factorGuidance{
	ksls.FactorBloodPressure: {
		escalateAt: 0.5,
		moderate:   "Your blood pressure is sitting above its comfortable range; small steps like easing off salt and taking a daily walk can help.",
		strong:     "Your blood pressure reading is well above target. Re-check it after resting quietly, and raise it with your care team if it stays this high.",
	},
	ksls.FactorHydration: {
		escalateAt: 0.5,
		moderate:   "Your fluid intake drifted from your target; keeping water within easy reach usually closes the gap.",
		strong:     "Your fluid intake is far from your target today. Spread drinks across the day rather than catching up all at once.",
	},
	ksls.FactorWeight: {
		escalateAt: 0.7,
		moderate:   "Your weight is outside the range that is easiest on your kidneys; gradual change through food quality and activity is more durable than quick fixes.",
		strong:     "Your weight is far enough outside the comfortable range to be a meaningful daily load. A conversation with a dietitian or your doctor is a good next step.",
	},
	ksls.FactorFatigue: {
		escalateAt: 0.7,
		moderate:   "You reported noticeable fatigue; guard your sleep window tonight and go easy on caffeine late in the day.",
		strong:     "You reported severe fatigue. Prioritise rest, and mention it to your doctor if it persists for more than a few days.",
	},
	ksls.FactorPain: {
		escalateAt: 0.7,
		moderate:   "You reported some pain today; note where and when it occurs so patterns are easier to spot.",
		strong:     "You reported strong pain. Persistent or flank pain is worth discussing with a clinician promptly.",
	},
	ksls.FactorStress: {
		escalateAt: 0.5,
		moderate:   "Your stress level is raised; even ten minutes of unwinding, a walk or slow breathing, measurably helps.",
		strong:     "Your stress level is high today. Sustained stress raises blood pressure, which the kidneys feel; build in recovery time where you can.",
	},
}
