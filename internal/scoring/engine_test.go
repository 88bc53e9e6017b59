// internal/scoring/engine_test.go
package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestFitScore(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	tests := []struct {
		name     string
		product  Product
		buyer    *BuyerProfile
		expected int
	}{
		{
			name:     "bare product keeps the 100 base",
			product:  Product{},
			expected: 100,
		},
		{
			name:     "cloud deployment caps at 100",
			product:  Product{DeploymentType: "cloud"},
			expected: 100,
		},
		{
			name:     "long implementation takes the heaviest penalty",
			product:  Product{ImplementationDays: intPtr(120)},
			expected: 60,
		},
		{
			name:     "medium implementation",
			product:  Product{ImplementationDays: intPtr(45)},
			expected: 80,
		},
		{
			name:     "short implementation",
			product:  Product{ImplementationDays: intPtr(10)},
			expected: 90,
		},
		{
			name:     "week or less is free",
			product:  Product{ImplementationDays: intPtr(7)},
			expected: 100,
		},
		{
			name:     "access depth tokens cost 2 each",
			product:  Product{AccessDepth: "crm, calendar, email"},
			expected: 94,
		},
		{
			name: "access depth penalty caps at 20",
			product: Product{
				AccessDepth: "a, b, c, d, e, f, g, h, i, j, k, l",
			},
			expected: 80,
		},
		{
			name:     "small company with fast rollout gets matched",
			product:  Product{ImplementationDays: intPtr(10)},
			buyer:    &BuyerProfile{CompanySize: 20},
			expected: 100,
		},
		{
			name:     "enterprise tolerates slow rollout",
			product:  Product{ImplementationDays: intPtr(60)},
			buyer:    &BuyerProfile{CompanySize: 1000},
			expected: 85,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, engine.FitScore(tt.product, tt.buyer))
		})
	}
}

func TestFeatureScore(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	t.Run("empty listing sits at the 60 base", func(t *testing.T) {
		assert.Equal(t, 60, engine.FeatureScore(Product{}, nil))
	})

	t.Run("all metrics and demo add 14", func(t *testing.T) {
		p := Product{
			ROIPercent:    floatPtr(120),
			RetentionRate: floatPtr(95),
			QoQGrowth:     floatPtr(10),
			DemoURL:       "https://example.com/demo",
		}
		assert.Equal(t, 74, engine.FeatureScore(p, nil))
	})

	t.Run("feature count tiers", func(t *testing.T) {
		assert.Equal(t, 64, engine.FeatureScore(Product{}, make([]Feature, 2)))
		assert.Equal(t, 70, engine.FeatureScore(Product{}, make([]Feature, 6)))
		assert.Equal(t, 75, engine.FeatureScore(Product{}, make([]Feature, 11)))
		assert.Equal(t, 80, engine.FeatureScore(Product{}, make([]Feature, 21)))
	})

	t.Run("high relevance bonus caps at 10", func(t *testing.T) {
		features := make([]Feature, 8)
		for i := range features {
			features[i] = Feature{RelevanceScore: 90}
		}
		// 60 base + 10 count tier + capped 10 relevance
		assert.Equal(t, 80, engine.FeatureScore(Product{}, features))
	})

	t.Run("score never exceeds 100", func(t *testing.T) {
		features := make([]Feature, 30)
		for i := range features {
			features[i] = Feature{RelevanceScore: 95}
		}
		longDesc := ""
		for i := 0; i < 250; i++ {
			longDesc += "word "
		}
		p := Product{
			ROIPercent:      floatPtr(120),
			RetentionRate:   floatPtr(95),
			QoQGrowth:       floatPtr(10),
			DemoURL:         "https://example.com/demo",
			LongDescription: longDesc,
		}
		assert.Equal(t, 100, engine.FeatureScore(p, features))
	})
}

func TestIntegrationScore(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	t.Run("client deployment is penalized below the base", func(t *testing.T) {
		assert.Equal(t, 60, engine.IntegrationScore(Product{DeploymentType: "client"}, nil))
	})

	t.Run("cloud deployment", func(t *testing.T) {
		assert.Equal(t, 80, engine.IntegrationScore(Product{DeploymentType: "cloud"}, nil))
	})

	t.Run("hybrid deployment", func(t *testing.T) {
		assert.Equal(t, 75, engine.IntegrationScore(Product{DeploymentType: "hybrid"}, nil))
	})

	t.Run("primary ecosystem category earns 10", func(t *testing.T) {
		p := Product{DeploymentType: "cloud", CategorySlug: "integrations"}
		assert.Equal(t, 90, engine.IntegrationScore(p, nil))
	})

	t.Run("secondary ecosystem category earns 5", func(t *testing.T) {
		p := Product{DeploymentType: "cloud", CategorySlug: "analytics"}
		assert.Equal(t, 85, engine.IntegrationScore(p, nil))
	})

	t.Run("api access depth earns 15", func(t *testing.T) {
		p := Product{DeploymentType: "cloud", AccessDepth: "REST API, webhooks"}
		assert.Equal(t, 95, engine.IntegrationScore(p, nil))
	})

	t.Run("buyer interest match earns 10", func(t *testing.T) {
		p := Product{DeploymentType: "cloud", CategorySlug: "crm"}
		buyer := &BuyerProfile{InterestCategories: []string{"crm", "hr"}}
		assert.Equal(t, 90, engine.IntegrationScore(p, buyer))
	})

	t.Run("stacked bonuses clamp at 100", func(t *testing.T) {
		p := Product{
			DeploymentType: "cloud",
			CategorySlug:   "integrations",
			AccessDepth:    "full api access",
		}
		buyer := &BuyerProfile{InterestCategories: []string{"integrations"}}
		assert.Equal(t, 100, engine.IntegrationScore(p, buyer))
	})
}

func TestReviewScore(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	t.Run("zero reviews means zero score", func(t *testing.T) {
		assert.Equal(t, 0, engine.ReviewScore(5.0, 0))
	})

	t.Run("confidence discount by review count", func(t *testing.T) {
		// 5.0 average rescales to 100 before the discount.
		assert.Equal(t, 80, engine.ReviewScore(5.0, 3))
		assert.Equal(t, 90, engine.ReviewScore(5.0, 7))
		assert.Equal(t, 95, engine.ReviewScore(5.0, 15))
		assert.Equal(t, 100, engine.ReviewScore(5.0, 25))
	})

	t.Run("one-star average scores zero", func(t *testing.T) {
		assert.Equal(t, 0, engine.ReviewScore(1.0, 50))
	})

	t.Run("midpoint rating", func(t *testing.T) {
		// 3.0 rescales to 50, full confidence at 20+ reviews.
		assert.Equal(t, 50, engine.ReviewScore(3.0, 20))
	})
}

func TestOverallScore(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	// 0.30*80 + 0.25*60 + 0.25*70 + 0.20*90 = 74.5, rounds to 75
	assert.Equal(t, 75, engine.OverallScore(80, 60, 70, 90))

	assert.Equal(t, 0, engine.OverallScore(0, 0, 0, 0))
	assert.Equal(t, 100, engine.OverallScore(100, 100, 100, 100))
}

func TestScoreBounds(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	products := []Product{
		{},
		{DeploymentType: "client", ImplementationDays: intPtr(365), AccessDepth: "a,b,c,d,e,f,g,h,i,j,k,l,m,n"},
		{DeploymentType: "cloud", CategorySlug: "integrations", AccessDepth: "api", DemoURL: "x"},
	}
	for _, p := range products {
		set := engine.Score(p, nil, 4.2, 12, nil)
		for _, v := range []int{set.Fit, set.Feature, set.Integration, set.Review, set.Overall} {
			assert.GreaterOrEqual(t, v, 0)
			assert.LessOrEqual(t, v, 100)
		}
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	p := Product{
		PriceCents:         250000,
		DeploymentType:     "cloud",
		ImplementationDays: intPtr(21),
		AccessDepth:        "REST API, calendar",
		ROIPercent:         floatPtr(140),
		CategorySlug:       "analytics",
	}
	features := []Feature{{RelevanceScore: 85}, {RelevanceScore: 60}}

	first := engine.Score(p, features, 4.5, 8, nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, engine.Score(p, features, 4.5, 8, nil))
	}
}
