package stripead

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

const service = "stripe"

// Provider is the PaymentProvider backed by Stripe PaymentIntents.
type Provider struct {
	sc *client.API
}

// New builds a Stripe client. apiURL overrides the Stripe endpoint (tests,
// stripe-mock); empty means the public API. Network retries are disabled.
func New(key, apiURL string) (*Provider, error) {
	if key == "" {
		return nil, fmt.Errorf("stripe API key is required")
	}
	cfg := &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(0),
		HTTPClient:        &http.Client{Timeout: 30 * time.Second},
		LeveledLogger:     zerologLeveled{},
	}
	if apiURL != "" {
		cfg.URL = stripe.String(apiURL)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, cfg)
	return &Provider{sc: client.New(key, &stripe.Backends{API: backend, Connect: backend, Uploads: backend})}, nil
}

func (p *Provider) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (domain.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	start := time.Now()
	pi, err := p.sc.PaymentIntents.New(params)
	observe("payment_intents.create", err, time.Since(start))
	if err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("stripe create payment intent: %w", err)
	}
	return toDomain(pi), nil
}

func (p *Provider) GetIntent(ctx context.Context, id string) (domain.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	start := time.Now()
	pi, err := p.sc.PaymentIntents.Get(id, params)
	observe("payment_intents.get", err, time.Since(start))
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && (se.HTTPStatusCode == http.StatusNotFound || se.Code == stripe.ErrorCodeResourceMissing) {
			return domain.PaymentIntent{}, domain.ErrNotFound
		}
		return domain.PaymentIntent{}, fmt.Errorf("stripe get payment intent: %w", err)
	}
	return toDomain(pi), nil
}

func toDomain(pi *stripe.PaymentIntent) domain.PaymentIntent {
	md := pi.Metadata
	if md == nil {
		md = map[string]string{}
	}
	return domain.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		AmountCents:  pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
		Metadata:     md,
	}
}

func observe(endpoint string, err error, dur time.Duration) {
	status := statusOf(err)
	observability.ObserveExternal(service, endpoint, status, dur)
	if status == 0 {
		observability.ObserveExternalError(service, endpoint, err)
	}
}

func statusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var se *stripe.Error
	if errors.As(err, &se) {
		return se.HTTPStatusCode
	}
	return 0
}

// zerologLeveled routes the SDK's own logging into the global zerolog logger.
type zerologLeveled struct{}

func (zerologLeveled) Debugf(format string, v ...interface{}) {
	log.Debug().Str("component", service).Msgf(format, v...)
}

func (zerologLeveled) Infof(format string, v ...interface{}) {
	log.Debug().Str("component", service).Msgf(format, v...)
}

func (zerologLeveled) Warnf(format string, v ...interface{}) {
	log.Warn().Str("component", service).Msgf(format, v...)
}

func (zerologLeveled) Errorf(format string, v ...interface{}) {
	log.Error().Str("component", service).Msgf(format, v...)
}
