// internal/competition/suggestions_test.go
package competition

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestionsForOverpricedLaggard(t *testing.T) {
	product := ProductData{
		ID:         uuid.New(),
		PriceCents: 200000,
		Scores:     &Scores{Review: 40, Integration: 50, Overall: 55},
	}
	competitors := []ProductData{
		{
			ID:           uuid.New(),
			PriceCents:   100000,
			FeatureNames: []string{"API Access", "SSO"},
			Scores:       &Scores{Review: 70, Integration: 80, Overall: 80},
		},
		{
			ID:           uuid.New(),
			PriceCents:   110000,
			FeatureNames: []string{"API Access"},
			Scores:       &Scores{Review: 60, Integration: 70, Overall: 75},
		},
	}

	analysis := BuildAnalysis(product, competitors)
	require.NotEmpty(t, analysis.ImprovementSuggestions)

	categories := make(map[string]bool)
	for _, s := range analysis.ImprovementSuggestions {
		categories[s.Category] = true
	}

	// Premium priced with a below-average score.
	assert.True(t, categories["pricing"])
	// Every competitor carries API Access; the product does not.
	assert.True(t, categories["feature"])
	// Review score trails by more than 10 points.
	assert.True(t, categories["support"])

	// High priority suggestions sort first.
	for i := 1; i < len(analysis.ImprovementSuggestions); i++ {
		prev := priorityRank(analysis.ImprovementSuggestions[i-1].Priority)
		curr := priorityRank(analysis.ImprovementSuggestions[i].Priority)
		assert.LessOrEqual(t, prev, curr)
	}
}

func TestNoSuggestionsForMarketLeader(t *testing.T) {
	product := ProductData{
		ID:           uuid.New(),
		PriceCents:   100000,
		FeatureNames: []string{"API Access", "SSO", "Reporting"},
		ROIPercent:   floatPtr(150),
		Scores:       &Scores{Review: 90, Integration: 90, Overall: 92},
	}
	competitors := []ProductData{
		{
			ID:           uuid.New(),
			PriceCents:   105000,
			FeatureNames: []string{"API Access"},
			ROIPercent:   floatPtr(120),
			Scores:       &Scores{Review: 70, Integration: 70, Overall: 72},
		},
	}

	analysis := BuildAnalysis(product, competitors)
	assert.Equal(t, PositionLeader, analysis.MarketPosition)
	assert.Empty(t, analysis.ImprovementSuggestions)
}

func TestFeatureSuggestionsCapAtThree(t *testing.T) {
	product := ProductData{ID: uuid.New(), PriceCents: 100000, Scores: &Scores{Overall: 50}}
	competitors := []ProductData{
		{
			ID:         uuid.New(),
			PriceCents: 100000,
			FeatureNames: []string{
				"Feature A", "Feature B", "Feature C", "Feature D", "Feature E",
			},
			Scores: &Scores{Overall: 60},
		},
		{
			ID:         uuid.New(),
			PriceCents: 100000,
			FeatureNames: []string{
				"Feature A", "Feature B", "Feature C", "Feature D", "Feature E",
			},
			Scores: &Scores{Overall: 60},
		},
	}

	analysis := BuildAnalysis(product, competitors)

	featureCount := 0
	for _, s := range analysis.ImprovementSuggestions {
		if s.Category == "feature" {
			featureCount++
		}
	}
	assert.LessOrEqual(t, featureCount, 4) // 3 missing-feature caps plus at most one integration lag
}
