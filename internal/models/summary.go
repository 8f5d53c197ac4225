package models

import (
	"time"

	"github.com/ternarybob/nephra/internal/ksls"
	"github.com/ternarybob/nephra/internal/trend"
)

// DailySummary is a rollup over the stored score history. The summary
// endpoint computes one on demand; the scheduler persists one nightly.
type DailySummary struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at" badgerhold:"index"`
	WindowDays  int       `json:"window_days"`

	ScoreCount  int               `json:"score_count"`
	AverageKSLS float64           `json:"average_ksls"`
	MinKSLS     int               `json:"min_ksls"`
	MaxKSLS     int               `json:"max_ksls"`
	LatestKSLS  int               `json:"latest_ksls"`
	LatestBand  ksls.Band         `json:"latest_band"`
	BandCounts  map[ksls.Band]int `json:"band_counts"`

	Trend trend.Analysis `json:"trend"`
}
