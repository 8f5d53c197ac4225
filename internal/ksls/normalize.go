package ksls

// NormalizeBloodPressure maps systolic/diastolic readings (mmHg) onto [0,1].
// Stress is 0 at systolic 120 or below and ramps linearly to 1 at systolic
// 140 or above. A diastolic reading of 90 or above floors the result at 0.7
// regardless of systolic, so isolated diastolic hypertension still registers.
func NormalizeBloodPressure(systolic, diastolic float64) float64 {
	stress := (systolic - ThresholdSystolicLow) / (ThresholdSystolicHigh - ThresholdSystolicLow)
	stress = clamp(stress, 0, 1)
	if diastolic >= ThresholdDiastolicHigh && stress < DiastolicStressFloor {
		stress = DiastolicStressFloor
	}
	return stress
}

// NormalizeHydration maps the intake/target ratio onto [0,1]. A target of 0
// means no hydration goal is set and scores 0 rather than faulting on the
// division. Ratios within [0.9,1.1] are optimal and score 0. Deficit ramps
// linearly from 0 at ratio 0.9 to 1 at ratio 0.6; excess ramps linearly
// from 0 at ratio 1.1 to 1 at ratio 1.5. Beyond either extreme the value
// stays at 1.
func NormalizeHydration(intakeLiters, targetLiters float64) float64 {
	if targetLiters <= 0 {
		return 0
	}

	ratio := intakeLiters / targetLiters
	switch {
	case ratio >= HydrationOptimalLow && ratio <= HydrationOptimalHigh:
		return 0
	case ratio < HydrationOptimalLow:
		deficit := (HydrationOptimalLow - ratio) / (HydrationOptimalLow - HydrationSevereLow)
		return clamp(deficit, 0, 1)
	default:
		excess := (ratio - HydrationOptimalHigh) / (HydrationSevereHigh - HydrationOptimalHigh)
		return clamp(excess, 0, 1)
	}
}

// NormalizeSymptom maps a 0-10 self-reported score onto [0,1].
func NormalizeSymptom(score float64) float64 {
	return clamp(score/10, 0, 1)
}

// normalizeOptionalSymptom propagates absence: nil in, nil out.
func normalizeOptionalSymptom(score *float64) *float64 {
	if score == nil {
		return nil
	}
	v := NormalizeSymptom(*score)
	return &v
}

// ComputeBMI derives body-mass index (kg/m²) from height in centimeters and
// weight in kilograms. Non-positive height yields 0.
func ComputeBMI(heightCm, weightKg float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	heightM := heightCm / 100
	return weightKg / (heightM * heightM)
}

// NormalizeWeight maps BMI onto [0,1]. BMI within [20,30] scores 0.
// Overweight ramps linearly from 0 at BMI 30 to 1 at BMI 40 and stays at 1
// above that. Underweight ramps linearly from 0 at BMI 20 to 1 at BMI 15
// and stays at 1 below that.
func NormalizeWeight(bmi float64) float64 {
	switch {
	case bmi >= BMINeutralLow && bmi <= BMINeutralHigh:
		return 0
	case bmi > BMINeutralHigh:
		over := (bmi - BMINeutralHigh) / (BMIObeseMax - BMINeutralHigh)
		return clamp(over, 0, 1)
	default:
		under := (BMINeutralLow - bmi) / (BMINeutralLow - BMIUnderweightMin)
		return clamp(under, 0, 1)
	}
}

// NormalizeFactors runs every normalizer over the raw input. Symptom
// absence propagates: a nil input score produces a nil factor.
func NormalizeFactors(input Input) Factors {
	return Factors{
		BloodPressure: NormalizeBloodPressure(input.Systolic, input.Diastolic),
		Hydration:     NormalizeHydration(input.WaterIntake, input.WaterTarget),
		Weight:        NormalizeWeight(ComputeBMI(input.HeightCm, input.WeightKg)),
		Fatigue:       normalizeOptionalSymptom(input.Fatigue),
		Pain:          normalizeOptionalSymptom(input.Pain),
		Stress:        normalizeOptionalSymptom(input.Stress),
	}
}
