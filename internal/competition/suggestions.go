// internal/competition/suggestions.go
package competition

import (
	"fmt"
	"sort"
)

// Fixed rule thresholds for improvement suggestions.
const (
	featureImportanceFloor     = 60.0
	criticalFeatureImportance  = 80.0
	maxFeatureSuggestions      = 3
	roiLagRatio                = 0.8
	scoreLagPoints             = 10
)

// improvementSuggestions applies the fixed suggestion rules to an already
// built analysis and orders the result high to low priority.
func improvementSuggestions(product ProductData, analysis Analysis) []Suggestion {
	var suggestions []Suggestion

	// Priced above the market without the score to justify it.
	if analysis.PriceComparison.Position == PricePremium &&
		analysis.ScoreComparison.Yours.Overall < analysis.ScoreComparison.CompetitorAverage.Overall {
		suggestions = append(suggestions, Suggestion{
			Priority: PriorityHigh,
			Category: "pricing",
			Message:  "Your price is above the competitor average but your overall score is below it. Consider repricing or improving the listing.",
		})
	}

	// Widely adopted features the product is missing.
	missing := 0
	for _, gap := range analysis.FeatureComparison {
		if missing >= maxFeatureSuggestions {
			break
		}
		if gap.YouHave || gap.ImportanceScore <= featureImportanceFloor {
			continue
		}
		priority := PriorityMedium
		if gap.ImportanceScore > criticalFeatureImportance {
			priority = PriorityHigh
		}
		suggestions = append(suggestions, Suggestion{
			Priority: priority,
			Category: "feature",
			Message:  fmt.Sprintf("%.0f%% of competitors offer %q; consider adding it.", gap.ImportanceScore, gap.Name),
		})
		missing++
	}

	// ROI meaningfully behind the field.
	roi := analysis.MetricComparison.ROI
	if roi.Yours != nil && roi.CompetitorAverage != nil && *roi.Yours < roiLagRatio**roi.CompetitorAverage {
		suggestions = append(suggestions, Suggestion{
			Priority: PriorityMedium,
			Category: "marketing",
			Message:  "Your published ROI trails the competitor average by more than 20%. Refresh case studies or metrics.",
		})
	}

	// Component scores lagging the competitor average.
	avg := analysis.ScoreComparison.CompetitorAverage
	yours := analysis.ScoreComparison.Yours
	if yours.Review < avg.Review-scoreLagPoints {
		suggestions = append(suggestions, Suggestion{
			Priority: PriorityMedium,
			Category: "support",
			Message:  "Your review score is more than 10 points below the competitor average. Follow up with recent customers.",
		})
	}
	if yours.Integration < avg.Integration-scoreLagPoints {
		suggestions = append(suggestions, Suggestion{
			Priority: PriorityLow,
			Category: "feature",
			Message:  "Your integration score is more than 10 points below the competitor average. Expand API access or ecosystem coverage.",
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return priorityRank(suggestions[i].Priority) < priorityRank(suggestions[j].Priority)
	})
	return suggestions
}

func priorityRank(p SuggestionPriority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	}
	return 2
}
