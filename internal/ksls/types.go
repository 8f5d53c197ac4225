// Package ksls computes the Kidney Stress Load Score, a 0-100 composite of
// blood pressure, hydration, weight and reported symptom factors. All
// functions are stateless, total over their inputs, and perform no I/O.
//
// Demographic attributes are not inputs here: they shape narrative guidance
// in the narrative package but never contribute to the numeric score.
package ksls

// FactorKey identifies one scored dimension.
type FactorKey string

const (
	FactorBloodPressure FactorKey = "blood_pressure"
	FactorHydration     FactorKey = "hydration"
	FactorWeight        FactorKey = "weight"
	FactorFatigue       FactorKey = "fatigue"
	FactorPain          FactorKey = "pain"
	FactorStress        FactorKey = "stress"
)

// Band is the coarse classification of a score.
type Band string

const (
	BandStable   Band = "stable"
	BandElevated Band = "elevated"
	BandHigh     Band = "high"
)

// Band thresholds (inclusive upper bounds on the integer score)
const (
	BandStableMax   = 33
	BandElevatedMax = 66
)

// Base weights for each factor. They sum to 1.0 when all six factors are
// present; weights of unreported symptoms are redistributed proportionally
// across the factors that are present.
const (
	WeightBloodPressure float64 = 0.35
	WeightHydration     float64 = 0.15
	WeightWeight        float64 = 0.15
	WeightFatigue       float64 = 0.15
	WeightPain          float64 = 0.10
	WeightStress        float64 = 0.10
)

// Blood pressure normalization thresholds (mmHg)
const (
	ThresholdSystolicLow   float64 = 120.0
	ThresholdSystolicHigh  float64 = 140.0
	ThresholdDiastolicHigh float64 = 90.0
	DiastolicStressFloor   float64 = 0.7
)

// Hydration normalization thresholds (intake/target ratio)
const (
	HydrationOptimalLow  float64 = 0.9
	HydrationOptimalHigh float64 = 1.1
	HydrationSevereLow   float64 = 0.6
	HydrationSevereHigh  float64 = 1.5
)

// BMI normalization thresholds (kg/m²)
const (
	BMINeutralLow     float64 = 20.0
	BMINeutralHigh    float64 = 30.0
	BMIObeseMax       float64 = 40.0
	BMIUnderweightMin float64 = 15.0
)

// Input holds one day's raw observations. The three symptom scores are on a
// 0-10 scale and optional: nil means not reported, which is distinct from a
// reported zero.
type Input struct {
	Systolic    float64  `json:"systolic"`
	Diastolic   float64  `json:"diastolic"`
	WaterIntake float64  `json:"water_intake_liters"`
	WaterTarget float64  `json:"water_target_liters"`
	HeightCm    float64  `json:"height_cm"`
	WeightKg    float64  `json:"weight_kg"`
	Fatigue     *float64 `json:"fatigue,omitempty"`
	Pain        *float64 `json:"pain,omitempty"`
	Stress      *float64 `json:"stress,omitempty"`
}

// Factors holds the normalized stress value per dimension, each in [0,1]
// with 0 meaning no stress. The symptom factors mirror input optionality:
// nil propagates "not reported" through the pipeline.
type Factors struct {
	BloodPressure float64  `json:"blood_pressure"`
	Hydration     float64  `json:"hydration"`
	Weight        float64  `json:"weight"`
	Fatigue       *float64 `json:"fatigue,omitempty"`
	Pain          *float64 `json:"pain,omitempty"`
	Stress        *float64 `json:"stress,omitempty"`
}

// RankedFactor pairs a factor with its normalized value for ranking.
type RankedFactor struct {
	Key   FactorKey `json:"key"`
	Value float64   `json:"value"`
}

// Result is the engine output: the integer score, its band, the normalized
// factor snapshot, and the BMI rounded to one decimal.
type Result struct {
	KSLS    int     `json:"ksls"`
	Band    Band    `json:"band"`
	Factors Factors `json:"factors"`
	BMI     float64 `json:"bmi"`
}
