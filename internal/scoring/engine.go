// internal/scoring/engine.go

// Package scoring computes fit, feature, integration, review, and overall
// scores for a product. All calculations are pure functions over in-memory
// inputs so they can be exercised without a database.
package scoring

import (
	"math"
	"strings"
)

// Product carries the product attributes the engine reads. Optional metrics
// are pointers; nil means the seller never supplied the value and the related
// factors contribute nothing.
type Product struct {
	PriceCents         int64
	DeploymentType     string // "cloud", "client", "hybrid" or empty
	ImplementationDays *int
	AccessDepth        string
	ROIPercent         *float64
	RetentionRate      *float64
	QoQGrowth          *float64
	DemoURL            string
	LongDescription    string
	CategorySlug       string
}

// Feature is the slice of a product feature the engine cares about.
type Feature struct {
	RelevanceScore int
}

// BuyerProfile personalizes fit and integration scores. A nil profile means
// the generic score is requested.
type BuyerProfile struct {
	CompanySize        int
	InterestCategories []string
}

// ScoreSet holds the four component scores and the weighted overall score,
// all integers in [0,100].
type ScoreSet struct {
	Fit         int `json:"fit_score"`
	Feature     int `json:"feature_score"`
	Integration int `json:"integration_score"`
	Review      int `json:"review_score"`
	Overall     int `json:"overall_score"`
}

// Overall score weights. They sum to 1.0, so the weighted combination of
// bounded component scores needs no clamping.
const (
	weightFit         = 0.30
	weightFeature     = 0.25
	weightIntegration = 0.25
	weightReview      = 0.20
)

// Config names the ecosystem categories that earn an integration bonus. The
// category list is fixed per deployment, not derived from data.
type Config struct {
	PrimaryEcosystemCategory   string // +10 integration
	SecondaryEcosystemCategory string // +5 integration
}

func DefaultConfig() Config {
	return Config{
		PrimaryEcosystemCategory:   "integrations",
		SecondaryEcosystemCategory: "analytics",
	}
}

type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// FitScore rates how easily a buyer can adopt the product. Starts at 100,
// penalizes long implementations and deep access requirements, rewards cloud
// deployment, and applies company-size/implementation-speed matching when a
// buyer profile is given.
func (e *Engine) FitScore(p Product, buyer *BuyerProfile) int {
	score := 100.0
	score -= implementationPenalty(p.ImplementationDays)
	score += deploymentBonus(p.DeploymentType)
	score -= complexityPenalty(p.AccessDepth)
	score += buyerFitBonus(p.ImplementationDays, buyer)
	return clampRound(score)
}

func implementationPenalty(days *int) float64 {
	if days == nil {
		return 0
	}
	switch {
	case *days > 90:
		return 40
	case *days > 30:
		return 20
	case *days > 7:
		return 10
	}
	return 0
}

func deploymentBonus(deployment string) float64 {
	switch deployment {
	case "cloud":
		return 10
	case "hybrid":
		return 5
	}
	return 0
}

// complexityPenalty charges 2 points per comma-separated access-depth token,
// capped at 20.
func complexityPenalty(accessDepth string) float64 {
	if strings.TrimSpace(accessDepth) == "" {
		return 0
	}
	tokens := 0
	for _, part := range strings.Split(accessDepth, ",") {
		if strings.TrimSpace(part) != "" {
			tokens++
		}
	}
	return math.Min(float64(tokens*2), 20)
}

func buyerFitBonus(days *int, buyer *BuyerProfile) float64 {
	if buyer == nil || days == nil {
		return 0
	}
	if buyer.CompanySize < 50 && *days < 14 {
		return 10 // small company, fast rollout
	}
	if buyer.CompanySize > 500 && *days > 30 {
		return 5 // enterprise, tolerant of slow rollout
	}
	return 0
}

// FeatureScore rates the depth of the product listing: published metrics,
// demo material, description quality, and the feature list itself.
func (e *Engine) FeatureScore(p Product, features []Feature) int {
	score := 60.0
	score += metricPresenceBonus(p)
	score += descriptionLengthBonus(p.LongDescription)
	score += descriptionWordBonus(p.LongDescription)
	score += featureCountBonus(len(features))
	score += highRelevanceBonus(features)
	return clampRound(score)
}

func metricPresenceBonus(p Product) float64 {
	bonus := 0.0
	if p.ROIPercent != nil {
		bonus += 4
	}
	if p.RetentionRate != nil {
		bonus += 4
	}
	if p.QoQGrowth != nil {
		bonus += 3
	}
	if p.DemoURL != "" {
		bonus += 3
	}
	return bonus
}

func descriptionLengthBonus(desc string) float64 {
	if len(desc) > 500 {
		return 6
	}
	return 0
}

func descriptionWordBonus(desc string) float64 {
	words := len(strings.Fields(desc))
	switch {
	case words > 200:
		return 10
	case words > 100:
		return 5
	}
	return 0
}

func featureCountBonus(count int) float64 {
	switch {
	case count > 20:
		return 20
	case count > 10:
		return 15
	case count > 5:
		return 10
	}
	return float64(count * 2)
}

func highRelevanceBonus(features []Feature) float64 {
	bonus := 0.0
	for _, f := range features {
		if f.RelevanceScore > 80 {
			bonus += 2
		}
	}
	return math.Min(bonus, 10)
}

// IntegrationScore rates how well the product slots into a buyer's stack.
// Client-only deployment is penalized relative to the 70 base, not merely
// un-bonused; downstream consumers rely on that asymmetry.
func (e *Engine) IntegrationScore(p Product, buyer *BuyerProfile) int {
	score := 70.0
	score += integrationDeploymentAdjustment(p.DeploymentType)
	score += e.ecosystemBonus(p.CategorySlug)
	score += apiBonus(p.AccessDepth)
	score += buyerInterestBonus(p.CategorySlug, buyer)
	return clampRound(score)
}

func integrationDeploymentAdjustment(deployment string) float64 {
	switch deployment {
	case "cloud":
		return 10
	case "hybrid":
		return 5
	}
	return -10
}

func (e *Engine) ecosystemBonus(categorySlug string) float64 {
	switch categorySlug {
	case e.cfg.PrimaryEcosystemCategory:
		return 10
	case e.cfg.SecondaryEcosystemCategory:
		return 5
	}
	return 0
}

func apiBonus(accessDepth string) float64 {
	if strings.Contains(strings.ToLower(accessDepth), "api") {
		return 15
	}
	return 0
}

func buyerInterestBonus(categorySlug string, buyer *BuyerProfile) float64 {
	if buyer == nil {
		return 0
	}
	for _, c := range buyer.InterestCategories {
		if c == categorySlug {
			return 10
		}
	}
	return 0
}

// ReviewScore rescales the 1-5 average rating to [0,100] and discounts for
// low review counts. The discount only ever lowers the score; popularity is
// never inflated past the raw rating.
func (e *Engine) ReviewScore(averageRating float64, reviewCount int64) int {
	if reviewCount == 0 {
		return 0
	}
	raw := ((averageRating - 1) / 4) * 100
	return clampRound(raw * confidenceFactor(reviewCount))
}

func confidenceFactor(reviewCount int64) float64 {
	switch {
	case reviewCount < 5:
		return 0.8
	case reviewCount < 10:
		return 0.9
	case reviewCount < 20:
		return 0.95
	}
	return 1.0
}

// OverallScore combines the four component scores with fixed weights.
func (e *Engine) OverallScore(fit, feature, integration, review int) int {
	weighted := weightFit*float64(fit) +
		weightFeature*float64(feature) +
		weightIntegration*float64(integration) +
		weightReview*float64(review)
	return int(math.Round(weighted))
}

// Score computes the full score set for a product.
func (e *Engine) Score(p Product, features []Feature, averageRating float64, reviewCount int64, buyer *BuyerProfile) ScoreSet {
	fit := e.FitScore(p, buyer)
	feature := e.FeatureScore(p, features)
	integration := e.IntegrationScore(p, buyer)
	review := e.ReviewScore(averageRating, reviewCount)
	return ScoreSet{
		Fit:         fit,
		Feature:     feature,
		Integration: integration,
		Review:      review,
		Overall:     e.OverallScore(fit, feature, integration, review),
	}
}

func clampRound(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(math.Round(v))
}
