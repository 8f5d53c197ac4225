package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createComputeScoreTool returns the compute_score tool definition
func createComputeScoreTool() mcp.Tool {
	return mcp.NewTool("compute_score",
		mcp.WithDescription("Compute a Kidney Stress Load Score (0-100) with risk band and interpretation from daily measurements. Deterministic; nothing is stored."),
		mcp.WithNumber("systolic",
			mcp.Required(),
			mcp.Description("Systolic blood pressure in mmHg"),
		),
		mcp.WithNumber("diastolic",
			mcp.Required(),
			mcp.Description("Diastolic blood pressure in mmHg"),
		),
		mcp.WithNumber("water_intake_liters",
			mcp.Required(),
			mcp.Description("Water consumed today in liters"),
		),
		mcp.WithNumber("water_target_liters",
			mcp.Required(),
			mcp.Description("Daily water target in liters"),
		),
		mcp.WithNumber("height_cm",
			mcp.Required(),
			mcp.Description("Height in centimeters"),
		),
		mcp.WithNumber("weight_kg",
			mcp.Required(),
			mcp.Description("Weight in kilograms"),
		),
		mcp.WithNumber("fatigue",
			mcp.Description("Fatigue severity 0-10 (omit if not tracked)"),
		),
		mcp.WithNumber("pain",
			mcp.Description("Pain severity 0-10 (omit if not tracked)"),
		),
		mcp.WithNumber("stress",
			mcp.Description("Stress severity 0-10 (omit if not tracked)"),
		),
		mcp.WithNumber("age",
			mcp.Description("Age in years (narrative context only, never affects the score)"),
		),
		mcp.WithString("sex_at_birth",
			mcp.Description("Sex at birth (narrative context only)"),
		),
		mcp.WithString("race_ethnicity",
			mcp.Description("Race or ethnicity (narrative context only)"),
		),
		mcp.WithNumber("ckd_stage",
			mcp.Description("Diagnosed CKD stage 1-5 (narrative context only)"),
		),
	)
}

// createInterpretScoreTool returns the interpret_score tool definition
func createInterpretScoreTool() mcp.Tool {
	return mcp.NewTool("interpret_score",
		mcp.WithDescription("Explain a previously recorded score: band, contributing factors and guidance"),
		mcp.WithString("score_id",
			mcp.Required(),
			mcp.Description("Score record ID (format: score_{uuid})"),
		),
	)
}

// createEstimateGFRTool returns the estimate_gfr tool definition
func createEstimateGFRTool() mcp.Tool {
	return mcp.NewTool("estimate_gfr",
		mcp.WithDescription("Estimate glomerular filtration rate (CKD-EPI 2021, race-free) from serum creatinine. Deterministic; nothing is stored."),
		mcp.WithNumber("age",
			mcp.Required(),
			mcp.Description("Age in years"),
		),
		mcp.WithNumber("serum_creatinine",
			mcp.Required(),
			mcp.Description("Serum creatinine in mg/dL"),
		),
		mcp.WithString("sex_at_birth",
			mcp.Description("Sex at birth; female uses female CKD-EPI coefficients, anything else uses male"),
		),
	)
}

// createScoreHistoryTool returns the score_history tool definition
func createScoreHistoryTool() mcp.Tool {
	return mcp.NewTool("score_history",
		mcp.WithDescription("List recorded Kidney Stress Load Scores with a trend summary"),
		mcp.WithNumber("limit",
			mcp.Description("Max records to return (default: 14, max: 100)"),
		),
		mcp.WithNumber("days",
			mcp.Description("Only include records from the last N days"),
		),
	)
}
