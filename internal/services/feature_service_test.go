// internal/services/feature_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stackmarket/sm-backend/internal/models"
)

func TestCategorizeFeature(t *testing.T) {
	tests := []struct {
		name        string
		featureName string
		description string
		expected    models.FeatureCategory
	}{
		{"sso lands in security", "SSO Login", "", models.FeatureCategorySecurity},
		{"encryption lands in security", "Data Encryption", "at-rest and in transit", models.FeatureCategorySecurity},
		{"webhook lands in integration", "Webhook Support", "", models.FeatureCategoryIntegration},
		{"rest api lands in integration", "REST API", "full api coverage", models.FeatureCategoryIntegration},
		{"dashboard lands in analytics", "Executive Dashboard", "", models.FeatureCategoryAnalytics},
		{"workflow lands in automation", "Workflow Builder", "", models.FeatureCategoryAutomation},
		{"team lands in collaboration", "Team Spaces", "", models.FeatureCategoryCollaboration},
		{"onboarding lands in support", "Guided Onboarding", "", models.FeatureCategorySupport},
		{"search lands in core", "Full-text Search", "", models.FeatureCategoryCore},
		{"no keyword falls through to general", "Widget Thing", "does widget things", models.FeatureCategoryGeneral},
		{"matching is case-insensitive", "WEBHOOK relay", "", models.FeatureCategoryIntegration},
		{"description alone can match", "Extras", "usage analytics included", models.FeatureCategoryAnalytics},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CategorizeFeature(tt.featureName, tt.description))
		})
	}
}

// Security outranks integration, which outranks everything below it: a
// feature mentioning both audit and api is a security feature.
func TestCategorizeFeatureTablePrecedence(t *testing.T) {
	assert.Equal(t, models.FeatureCategorySecurity,
		CategorizeFeature("Audit API", "api access to audit logs"))
	assert.Equal(t, models.FeatureCategoryIntegration,
		CategorizeFeature("Sync Reports", "sync report data to your warehouse"))
}

func TestCategorizeFeatureIsDeterministic(t *testing.T) {
	first := CategorizeFeature("Scheduled Reports", "reports on a schedule")
	for i := 0; i < 25; i++ {
		assert.Equal(t, first, CategorizeFeature("Scheduled Reports", "reports on a schedule"))
	}
}
