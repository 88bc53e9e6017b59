// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/refund"
	"github.com/stripe/stripe-go/v74/webhook"

	"github.com/stackmarket/sm-backend/internal/config"
	"github.com/stackmarket/sm-backend/internal/models"
)

type PaymentService struct {
	config *config.Config
}

func NewPaymentService(cfg *config.Config) *PaymentService {
	stripe.Key = cfg.Payment.StripeSecretKey
	return &PaymentService{config: cfg}
}

// CreatePaymentIntent opens a payment intent for the order total. The order
// ID travels in the intent metadata so webhook events can be matched back.
func (s *PaymentService) CreatePaymentIntent(order *models.Order) (*stripe.PaymentIntent, error) {
	if order.TotalCents <= 0 {
		return nil, errors.New("order total must be positive")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(order.TotalCents),
		Currency: stripe.String(s.config.Payment.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("order_id", order.ID.String())
	params.AddMetadata("buyer_id", order.BuyerID.String())

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe payment intent failed: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"order_id":  order.ID,
		"intent_id": intent.ID,
		"amount":    order.TotalCents,
	}).Info("Payment intent created")
	return intent, nil
}

// VerifyWebhookSignature validates and parses a Stripe webhook payload.
func (s *PaymentService) VerifyWebhookSignature(payload []byte, signature string) (*stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.config.Payment.StripeWebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}
	return &event, nil
}

// RefundPayment reverses the full charge behind a payment intent.
func (s *PaymentService) RefundPayment(paymentIntentID string) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	r, err := refund.New(params)
	if err != nil {
		return fmt.Errorf("stripe refund failed: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"intent_id": paymentIntentID,
		"refund_id": r.ID,
	}).Info("Payment refunded")
	return nil
}
