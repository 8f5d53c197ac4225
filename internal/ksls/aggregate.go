package ksls

import "math"

// factorWeight binds a factor to its base weight and a presence-aware
// accessor over the normalized factors.
type factorWeight struct {
	key    FactorKey
	weight float64
	value  func(f Factors) (float64, bool)
}

// weightTable drives aggregation and ranking. Its order is the canonical
// factor order, which also decides ties when ranking equal values. Presence
// lives in the accessor rather than in aggregation control flow so factors
// can be added or made optional without touching the scoring loop.
var weightTable = []factorWeight{
	{FactorBloodPressure, WeightBloodPressure, func(f Factors) (float64, bool) { return f.BloodPressure, true }},
	{FactorHydration, WeightHydration, func(f Factors) (float64, bool) { return f.Hydration, true }},
	{FactorWeight, WeightWeight, func(f Factors) (float64, bool) { return f.Weight, true }},
	{FactorFatigue, WeightFatigue, func(f Factors) (float64, bool) { return optionalValue(f.Fatigue) }},
	{FactorPain, WeightPain, func(f Factors) (float64, bool) { return optionalValue(f.Pain) }},
	{FactorStress, WeightStress, func(f Factors) (float64, bool) { return optionalValue(f.Stress) }},
}

func optionalValue(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

// EffectiveWeights returns the weight applied to each present factor after
// redistributing the weight of unreported symptoms. The returned weights
// always sum to 1.0: when only the three mandatory factors are present,
// their combined base weight of 0.65 is stretched proportionally to 1.0.
// That stretch raises the score relative to a reading with low reported
// symptoms and is intended behavior, not an artifact to smooth over.
func EffectiveWeights(f Factors) map[FactorKey]float64 {
	total := 0.0
	for _, fw := range weightTable {
		if _, present := fw.value(f); present {
			total += fw.weight
		}
	}

	weights := make(map[FactorKey]float64, len(weightTable))
	if total <= 0 {
		return weights
	}
	for _, fw := range weightTable {
		if _, present := fw.value(f); present {
			weights[fw.key] = fw.weight / total
		}
	}
	return weights
}

// Calculate computes the Kidney Stress Load Score from raw observations.
// It never fails: degenerate inputs are absorbed by the normalizer clamps,
// and identical inputs always produce identical results.
func Calculate(input Input) Result {
	factors := NormalizeFactors(input)
	weights := EffectiveWeights(factors)

	composite := 0.0
	for _, fw := range weightTable {
		if value, present := fw.value(factors); present {
			composite += weights[fw.key] * value
		}
	}

	score := int(math.Round(composite * 100))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return Result{
		KSLS:    score,
		Band:    Classify(score),
		Factors: factors,
		BMI:     round(ComputeBMI(input.HeightCm, input.WeightKg), 1),
	}
}

// Classify maps an integer score to its band: 0-33 stable, 34-66 elevated,
// 67-100 high. Classification depends on nothing but the score.
func Classify(score int) Band {
	switch {
	case score <= BandStableMax:
		return BandStable
	case score <= BandElevatedMax:
		return BandElevated
	default:
		return BandHigh
	}
}
