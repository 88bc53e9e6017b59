// internal/competition/analysis.go
package competition

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

type MarketPosition string

const (
	PositionLeader     MarketPosition = "leader"
	PositionChallenger MarketPosition = "challenger"
	PositionFollower   MarketPosition = "follower"
)

type PricePosition string

const (
	PricePremium     PricePosition = "premium"
	PriceCompetitive PricePosition = "competitive"
	PriceBudget      PricePosition = "budget"
)

type SuggestionPriority string

const (
	PriorityHigh   SuggestionPriority = "high"
	PriorityMedium SuggestionPriority = "medium"
	PriorityLow    SuggestionPriority = "low"
)

// Analysis is the tagged result record of a competitor analysis. Every field
// is populated even with zero competitors; nothing here ever errors.
type Analysis struct {
	ProductID              uuid.UUID        `json:"product_id"`
	MarketPosition         MarketPosition   `json:"market_position"`
	PriceComparison        PriceComparison  `json:"price_comparison"`
	FeatureComparison      []FeatureGap     `json:"feature_comparison"`
	MetricComparison       MetricComparison `json:"metric_comparison"`
	ScoreComparison        ScoreComparison  `json:"score_comparison"`
	ImprovementSuggestions []Suggestion     `json:"improvement_suggestions"`
}

type PriceComparison struct {
	YourPriceCents         int64         `json:"your_price_cents"`
	CompetitorAverageCents int64         `json:"competitor_average_cents"`
	MarketLowCents         int64         `json:"market_low_cents"`
	MarketHighCents        int64         `json:"market_high_cents"`
	Position               PricePosition `json:"position"`
}

type FeatureGap struct {
	Name             string  `json:"name"`
	YouHave          bool    `json:"you_have"`
	CompetitorCount  int     `json:"competitor_count"`
	ImportanceScore  float64 `json:"importance_score"`
}

type MetricGap struct {
	Yours             *float64 `json:"yours"`
	CompetitorAverage *float64 `json:"competitor_average"`
}

type MetricComparison struct {
	ROI                MetricGap `json:"roi"`
	Retention          MetricGap `json:"retention"`
	ImplementationDays MetricGap `json:"implementation_days"`
}

type ScoreComparison struct {
	Yours             Scores     `json:"yours"`
	CompetitorAverage Scores     `json:"competitor_average"`
	MarketLeaderID    *uuid.UUID `json:"market_leader_id,omitempty"`
	MarketLeader      *Scores    `json:"market_leader,omitempty"`
}

type Suggestion struct {
	Priority SuggestionPriority `json:"priority"`
	Category string             `json:"category"`
	Message  string             `json:"message"`
}

// BuildAnalysis derives the full competitive picture for a product against
// its loaded competitors. With an empty competitor slice everything defaults
// to self-referential or neutral values.
func BuildAnalysis(product ProductData, competitors []ProductData) Analysis {
	analysis := Analysis{
		ProductID:         product.ID,
		MarketPosition:    marketPosition(product, competitors),
		PriceComparison:   priceComparison(product, competitors),
		FeatureComparison: featureComparison(product, competitors),
		MetricComparison:  metricComparison(product, competitors),
		ScoreComparison:   scoreComparison(product, competitors),
	}
	analysis.ImprovementSuggestions = improvementSuggestions(product, analysis)
	return analysis
}

// marketPosition ranks the product's overall score among itself and its
// competitors: rank 1 is the leader, top 3 a challenger, the rest followers.
func marketPosition(product ProductData, competitors []ProductData) MarketPosition {
	yours := overallOf(product)
	rank := 1
	for _, c := range competitors {
		if overallOf(c) > yours {
			rank++
		}
	}
	switch {
	case rank == 1:
		return PositionLeader
	case rank <= 3:
		return PositionChallenger
	}
	return PositionFollower
}

func priceComparison(product ProductData, competitors []ProductData) PriceComparison {
	pc := PriceComparison{
		YourPriceCents: product.PriceCents,
		Position:       PriceCompetitive,
	}
	if len(competitors) == 0 {
		pc.CompetitorAverageCents = product.PriceCents
		pc.MarketLowCents = product.PriceCents
		pc.MarketHighCents = product.PriceCents
		return pc
	}

	var sum int64
	low, high := competitors[0].PriceCents, competitors[0].PriceCents
	for _, c := range competitors {
		sum += c.PriceCents
		low = min64(low, c.PriceCents)
		high = max64(high, c.PriceCents)
	}
	avg := int64(math.Round(float64(sum) / float64(len(competitors))))

	pc.CompetitorAverageCents = avg
	pc.MarketLowCents = low
	pc.MarketHighCents = high

	switch {
	case float64(product.PriceCents) > 1.2*float64(avg):
		pc.Position = PricePremium
	case float64(product.PriceCents) < 0.8*float64(avg):
		pc.Position = PriceBudget
	}
	return pc
}

// featureComparison reports, for every feature name any competitor carries,
// whether the product has it and how widespread it is. Importance is the
// share of competitors carrying the feature, as a percentage.
func featureComparison(product ProductData, competitors []ProductData) []FeatureGap {
	if len(competitors) == 0 {
		return nil
	}

	yours := make(map[string]struct{}, len(product.FeatureNames))
	for _, name := range product.FeatureNames {
		yours[name] = struct{}{}
	}

	counts := make(map[string]int)
	for _, c := range competitors {
		seen := make(map[string]struct{}, len(c.FeatureNames))
		for _, name := range c.FeatureNames {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			counts[name]++
		}
	}

	gaps := make([]FeatureGap, 0, len(counts))
	for name, count := range counts {
		_, have := yours[name]
		gaps = append(gaps, FeatureGap{
			Name:            name,
			YouHave:         have,
			CompetitorCount: count,
			ImportanceScore: round2(float64(count) / float64(len(competitors)) * 100),
		})
	}

	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i].ImportanceScore != gaps[j].ImportanceScore {
			return gaps[i].ImportanceScore > gaps[j].ImportanceScore
		}
		return gaps[i].Name < gaps[j].Name
	})
	return gaps
}

func metricComparison(product ProductData, competitors []ProductData) MetricComparison {
	var implDays *float64
	if product.ImplementationDays != nil {
		d := float64(*product.ImplementationDays)
		implDays = &d
	}
	return MetricComparison{
		ROI: MetricGap{
			Yours:             product.ROIPercent,
			CompetitorAverage: averageMetric(competitors, func(p ProductData) *float64 { return p.ROIPercent }),
		},
		Retention: MetricGap{
			Yours:             product.RetentionRate,
			CompetitorAverage: averageMetric(competitors, func(p ProductData) *float64 { return p.RetentionRate }),
		},
		ImplementationDays: MetricGap{
			Yours: implDays,
			CompetitorAverage: averageMetric(competitors, func(p ProductData) *float64 {
				if p.ImplementationDays == nil {
					return nil
				}
				d := float64(*p.ImplementationDays)
				return &d
			}),
		},
	}
}

func averageMetric(competitors []ProductData, get func(ProductData) *float64) *float64 {
	var sum float64
	var n int
	for _, c := range competitors {
		if v := get(c); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := round2(sum / float64(n))
	return &avg
}

func scoreComparison(product ProductData, competitors []ProductData) ScoreComparison {
	sc := ScoreComparison{Yours: scoresOf(product)}

	if len(competitors) == 0 {
		sc.CompetitorAverage = sc.Yours
		return sc
	}

	var fit, feature, integration, review, overall int
	leader := competitors[0]
	for _, c := range competitors {
		s := scoresOf(c)
		fit += s.Fit
		feature += s.Feature
		integration += s.Integration
		review += s.Review
		overall += s.Overall
		if overallOf(c) > overallOf(leader) {
			leader = c
		}
	}
	n := len(competitors)
	sc.CompetitorAverage = Scores{
		Fit:         roundDiv(fit, n),
		Feature:     roundDiv(feature, n),
		Integration: roundDiv(integration, n),
		Review:      roundDiv(review, n),
		Overall:     roundDiv(overall, n),
	}

	leaderScores := scoresOf(leader)
	leaderID := leader.ID
	sc.MarketLeaderID = &leaderID
	sc.MarketLeader = &leaderScores
	return sc
}

func overallOf(p ProductData) int {
	if p.Scores == nil {
		return 0
	}
	return p.Scores.Overall
}

func scoresOf(p ProductData) Scores {
	if p.Scores == nil {
		return Scores{}
	}
	return *p.Scores
}

func roundDiv(sum, n int) int {
	return int(math.Round(float64(sum) / float64(n)))
}
