package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nephra/internal/interfaces"
	"github.com/ternarybob/nephra/internal/ksls"
	"github.com/ternarybob/nephra/internal/models"
	"github.com/ternarybob/nephra/internal/narrative"
	"github.com/ternarybob/nephra/internal/renal"
)

// handleComputeScore implements the compute_score tool
func handleComputeScore(logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input := ksls.Input{}

		required := []struct {
			key  string
			dest *float64
		}{
			{"systolic", &input.Systolic},
			{"diastolic", &input.Diastolic},
			{"water_intake_liters", &input.WaterIntake},
			{"water_target_liters", &input.WaterTarget},
			{"height_cm", &input.HeightCm},
			{"weight_kg", &input.WeightKg},
		}
		for _, p := range required {
			v, err := request.RequireFloat(p.key)
			if err != nil {
				return &mcp.CallToolResult{
					Content: []mcp.Content{
						mcp.NewTextContent(fmt.Sprintf("Error: %s parameter is required", p.key)),
					},
				}, nil
			}
			*p.dest = v
		}

		// Symptoms are optional; the valid range is 0-10 so a negative
		// default marks an absent argument
		input.Fatigue = optionalSymptom(request.GetFloat("fatigue", -1))
		input.Pain = optionalSymptom(request.GetFloat("pain", -1))
		input.Stress = optionalSymptom(request.GetFloat("stress", -1))

		demo := parseDemographics(request)

		result := ksls.Calculate(input)
		interpretation := narrative.Interpret(result, demo)

		logger.Debug().
			Int("ksls", result.KSLS).
			Str("band", string(result.Band)).
			Msg("Score computed via MCP")

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(formatScoreResult(result, interpretation)),
			},
		}, nil
	}
}

// handleInterpretScore implements the interpret_score tool
func handleInterpretScore(scoreStorage interfaces.ScoreStorage, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		scoreID, err := request.RequireString("score_id")
		if err != nil || scoreID == "" {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Error: score_id parameter is required"),
				},
			}, nil
		}

		record, err := scoreStorage.GetScore(ctx, scoreID)
		if err != nil {
			logger.Error().Err(err).Str("score_id", scoreID).Msg("GetScore failed")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("Score not found: %v", err)),
				},
			}, nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(formatScoreRecord(record)),
			},
		}, nil
	}
}

// handleEstimateGFR implements the estimate_gfr tool
func handleEstimateGFR(logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		age, err := request.RequireInt("age")
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Error: age parameter is required"),
				},
			}, nil
		}

		creatinine, err := request.RequireFloat("serum_creatinine")
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Error: serum_creatinine parameter is required"),
				},
			}, nil
		}

		sexAtBirth := request.GetString("sex_at_birth", "")

		egfr, err := renal.EstimateGFR(age, sexAtBirth, creatinine)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("Error: %v", err)),
				},
			}, nil
		}

		stage := renal.InterpretGFR(egfr)

		logger.Debug().
			Float64("egfr", egfr).
			Str("stage", stage.Code).
			Msg("GFR estimated via MCP")

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(formatGFREstimate(egfr, stage)),
			},
		}, nil
	}
}

// handleScoreHistory implements the score_history tool
func handleScoreHistory(scoreStorage interfaces.ScoreStorage, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := request.GetInt("limit", 14)
		if limit > 100 {
			limit = 100
		}
		if limit < 1 {
			limit = 1
		}

		days := request.GetInt("days", 0)

		var (
			records []*models.ScoreRecord
			err     error
		)
		if days > 0 {
			since := time.Now().AddDate(0, 0, -days)
			records, err = scoreStorage.ListScoresSince(ctx, since)
			// ListScoresSince returns oldest first; keep the most recent entries
			if err == nil && len(records) > limit {
				records = records[len(records)-limit:]
			}
		} else {
			records, err = scoreStorage.ListScores(ctx, limit, 0)
			// ListScores returns newest first; history reads oldest to newest
			if err == nil {
				records = reverseRecords(records)
			}
		}
		if err != nil {
			logger.Error().Err(err).Msg("Score history failed")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("History error: %v", err)),
				},
			}, nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(formatScoreHistory(records, days)),
			},
		}, nil
	}
}

// optionalSymptom converts the absent sentinel into a nil pointer
func optionalSymptom(v float64) *float64 {
	if v < 0 {
		return nil
	}
	return &v
}

// parseDemographics builds narrative context from optional tool arguments.
// Returns nil when no demographic argument was supplied.
func parseDemographics(request mcp.CallToolRequest) *narrative.Demographics {
	demo := &narrative.Demographics{
		SexAtBirth:    request.GetString("sex_at_birth", ""),
		RaceEthnicity: request.GetString("race_ethnicity", ""),
	}
	if age := request.GetInt("age", 0); age > 0 {
		demo.Age = &age
	}
	if stage := request.GetInt("ckd_stage", 0); stage > 0 {
		demo.CKDStage = &stage
	}

	if demo.Age == nil && demo.CKDStage == nil && demo.SexAtBirth == "" && demo.RaceEthnicity == "" {
		return nil
	}
	return demo
}

// reverseRecords flips a record slice into chronological order
func reverseRecords(records []*models.ScoreRecord) []*models.ScoreRecord {
	out := make([]*models.ScoreRecord, len(records))
	for i, r := range records {
		out[len(records)-1-i] = r
	}
	return out
}
