// internal/competition/similarity.go

// Package competition computes competitor similarity and the derived
// competitive analysis for a product. Like the scoring package it is pure;
// the services layer loads the records and persists the results.
package competition

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// ProductData is the slice of a product the analysis reads.
type ProductData struct {
	ID                 uuid.UUID
	Name               string
	ShortDescription   string
	PriceCents         int64
	ImplementationDays *int
	ROIPercent         *float64
	RetentionRate      *float64
	FeatureNames       []string
	Scores             *Scores
}

// Scores mirrors a product's stored score set.
type Scores struct {
	Fit         int `json:"fit_score"`
	Feature     int `json:"feature_score"`
	Integration int `json:"integration_score"`
	Review      int `json:"review_score"`
	Overall     int `json:"overall_score"`
}

// Similarity weights: price 30%, description overlap 40%, metrics 30%.
const (
	weightPrice       = 0.30
	weightDescription = 0.40
	weightMetrics     = 0.30
)

// PairScores holds the two derived scores for a (product, competitor) pair,
// both 0-100 rounded to two decimals.
type PairScores struct {
	Similarity    float64
	MarketOverlap float64
}

// ScorePair computes similarity and market overlap between two products in
// the same category.
func ScorePair(a, b ProductData) PairScores {
	priceSim := priceSimilarity(a.PriceCents, b.PriceCents)
	descSim := descriptionSimilarity(a.ShortDescription, b.ShortDescription)
	metricSim := metricsSimilarity(a, b)

	similarity := (weightPrice*priceSim + weightDescription*descSim + weightMetrics*metricSim) * 100

	// Same category is worth a 50 base; closely priced pairs and overlapping
	// descriptions fill in the rest.
	overlap := 50.0
	if priceSim > 0.5 {
		overlap += priceSim * 25
	}
	overlap += descSim * 25

	return PairScores{
		Similarity:    round2(math.Min(similarity, 100)),
		MarketOverlap: round2(math.Min(overlap, 100)),
	}
}

// priceSimilarity is the min/max ratio of two prices, 0 when either is
// non-positive.
func priceSimilarity(a, b int64) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	return float64(min64(a, b)) / float64(max64(a, b))
}

// descriptionSimilarity is the Jaccard index over lowercased words longer
// than 3 characters.
func descriptionSimilarity(a, b string) float64 {
	setA := significantWords(a)
	setB := significantWords(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func significantWords(s string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, ".,;:!?()\"'")
		if len(w) > 3 {
			words[w] = struct{}{}
		}
	}
	return words
}

// metricsSimilarity averages the ratio similarity of implementation time,
// ROI, and retention across the metric pairs both products carry. With no
// comparable pairs the products are neither similar nor dissimilar: 0.5.
func metricsSimilarity(a, b ProductData) float64 {
	var sum float64
	var n int

	if a.ImplementationDays != nil && b.ImplementationDays != nil {
		sum += ratioSimilarity(float64(*a.ImplementationDays), float64(*b.ImplementationDays))
		n++
	}
	if a.ROIPercent != nil && b.ROIPercent != nil {
		sum += ratioSimilarity(*a.ROIPercent, *b.ROIPercent)
		n++
	}
	if a.RetentionRate != nil && b.RetentionRate != nil {
		sum += ratioSimilarity(*a.RetentionRate, *b.RetentionRate)
		n++
	}

	if n == 0 {
		return 0.5
	}
	return sum / float64(n)
}

func ratioSimilarity(a, b float64) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	return math.Min(a, b) / math.Max(a, b)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
