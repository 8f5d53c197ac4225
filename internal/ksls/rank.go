package ksls

import "sort"

// RankFactors orders the present factors by normalized value, highest
// first, and returns at most the top three. The sort is stable over the
// canonical factor order, so equal values resolve as blood pressure,
// hydration, weight, fatigue, pain, stress. Ranking exists for explanation
// only and has no influence on the score.
func RankFactors(f Factors) []RankedFactor {
	ranked := make([]RankedFactor, 0, len(weightTable))
	for _, fw := range weightTable {
		if value, present := fw.value(f); present {
			ranked = append(ranked, RankedFactor{Key: fw.key, Value: value})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})

	if len(ranked) > 3 {
		ranked = ranked[:3]
	}
	return ranked
}
