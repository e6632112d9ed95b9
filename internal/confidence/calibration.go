package confidence

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/todmy/movement-tracker/pkg/models"
)

// CalibrationSummary aggregates emitted confidences for one movement
// type. Operators use it to judge whether the configured weights and
// modifiers produce a sane score distribution.
type CalibrationSummary struct {
	MovementType string  `json:"movement_type"`
	Count        int     `json:"count"`
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev"`
	Median       float64 `json:"median"`
	P90          float64 `json:"p90"`
	HighTier     int     `json:"high_tier"`
	MediumTier   int     `json:"medium_tier"`
	LowTier      int     `json:"low_tier"`
}

// Calibrate summarizes the confidence distribution of events grouped by
// movement type. Results are sorted by movement type name for stable
// output.
func Calibrate(events []*models.MovementEvent) []CalibrationSummary {
	grouped := make(map[string][]float64)
	tiers := make(map[string]map[string]int)
	for _, event := range events {
		key := string(event.Type)
		grouped[key] = append(grouped[key], event.Confidence)
		if tiers[key] == nil {
			tiers[key] = make(map[string]int)
		}
		tiers[key][Tier(event.Confidence)]++
	}

	summaries := make([]CalibrationSummary, 0, len(grouped))
	for movementType, confidences := range grouped {
		sort.Float64s(confidences)

		summary := CalibrationSummary{
			MovementType: movementType,
			Count:        len(confidences),
			Mean:         stat.Mean(confidences, nil),
			Median:       stat.Quantile(0.5, stat.Empirical, confidences, nil),
			P90:          stat.Quantile(0.9, stat.Empirical, confidences, nil),
			HighTier:     tiers[movementType][TierHigh],
			MediumTier:   tiers[movementType][TierMedium],
			LowTier:      tiers[movementType][TierLow],
		}
		if len(confidences) > 1 {
			summary.StdDev = stat.StdDev(confidences, nil)
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].MovementType < summaries[j].MovementType
	})

	return summaries
}
