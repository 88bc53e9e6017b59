// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAccessDenied           = "auth.access_denied"

	// User Management
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserNotFound       = "user.not_found"
	KeyUserSuspended      = "user.suspended"

	// Products
	KeyProductCreated   = "product.created"
	KeyProductUpdated   = "product.updated"
	KeyProductArchived  = "product.archived"
	KeyProductNotFound  = "product.not_found"
	KeyProductPublished = "product.published"

	// Features
	KeyFeatureCreated  = "feature.created"
	KeyFeatureUpdated  = "feature.updated"
	KeyFeatureDeleted  = "feature.deleted"
	KeyFeatureNotFound = "feature.not_found"

	// Reviews
	KeyReviewCreated   = "review.created"
	KeyReviewDeleted   = "review.deleted"
	KeyReviewNotFound  = "review.not_found"
	KeyReviewDuplicate = "review.duplicate"

	// Scores and Analysis
	KeyScoreCalculated   = "score.calculated"
	KeyScoreNotFound     = "score.not_found"
	KeyAnalysisCompleted = "analysis.completed"

	// Quotes
	KeyQuoteGenerated = "quote.generated"
	KeyQuoteSent      = "quote.sent"
	KeyQuoteAccepted  = "quote.accepted"
	KeyQuoteRejected  = "quote.rejected"
	KeyQuoteExpired   = "quote.expired"
	KeyQuoteNotFound  = "quote.not_found"

	// Bundles
	KeyBundleCreated  = "bundle.created"
	KeyBundleNotFound = "bundle.not_found"

	// Cart and Orders
	KeyCartItemAdded   = "cart.item_added"
	KeyCartItemRemoved = "cart.item_removed"
	KeyCartNotFound    = "cart.not_found"
	KeyCartEmpty       = "cart.empty"
	KeyOrderCreated    = "order.created"
	KeyOrderNotFound   = "order.not_found"
	KeyOrderPaid       = "order.paid"
	KeyOrderRefunded   = "order.refunded"

	// Payments
	KeyPaymentSuccess       = "payment.success"
	KeyPaymentFailed        = "payment.failed"
	KeyPaymentInvalidAmount = "payment.invalid_amount"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationTooShort = "validation.too_short"
	KeyValidationTooLong  = "validation.too_long"
	KeyValidationEmail    = "validation.invalid_email"
	KeyValidationPassword = "validation.invalid_password"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"

	// Search
	KeySearchNoResults    = "search.no_results"
	KeySearchResultsFound = "search.results_found"
)
