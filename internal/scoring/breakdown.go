// internal/scoring/breakdown.go
package scoring

// Breakdown records each factor's raw contribution per score category. It is
// derived from the same inputs as the score functions, so a recorded
// breakdown can always be recomputed and checked against the stored scores.
type Breakdown struct {
	Fit         map[string]float64 `json:"fit"`
	Feature     map[string]float64 `json:"feature"`
	Integration map[string]float64 `json:"integration"`
	Review      map[string]float64 `json:"review"`
}

// ScoreBreakdown recomputes every intermediate factor used by the score
// functions into named-factor maps.
func (e *Engine) ScoreBreakdown(p Product, features []Feature, averageRating float64, reviewCount int64, buyer *BuyerProfile) Breakdown {
	b := Breakdown{
		Fit: map[string]float64{
			"base":                        100,
			"implementation_time_penalty": -implementationPenalty(p.ImplementationDays),
			"deployment_bonus":            deploymentBonus(p.DeploymentType),
			"complexity_penalty":          -complexityPenalty(p.AccessDepth),
			"buyer_fit_bonus":             buyerFitBonus(p.ImplementationDays, buyer),
		},
		Feature: map[string]float64{
			"base":                     60,
			"metric_presence_bonus":    metricPresenceBonus(p),
			"description_length_bonus": descriptionLengthBonus(p.LongDescription),
			"description_word_bonus":   descriptionWordBonus(p.LongDescription),
			"feature_count_bonus":      featureCountBonus(len(features)),
			"high_relevance_bonus":     highRelevanceBonus(features),
		},
		Integration: map[string]float64{
			"base":                  70,
			"deployment_adjustment": integrationDeploymentAdjustment(p.DeploymentType),
			"ecosystem_bonus":       e.ecosystemBonus(p.CategorySlug),
			"api_bonus":             apiBonus(p.AccessDepth),
			"buyer_interest_bonus":  buyerInterestBonus(p.CategorySlug, buyer),
		},
		Review: map[string]float64{
			"average_rating":    averageRating,
			"review_count":      float64(reviewCount),
			"confidence_factor": confidenceFactor(reviewCount),
		},
	}
	if reviewCount == 0 {
		b.Review["confidence_factor"] = 0
	}
	return b
}
