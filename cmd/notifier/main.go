package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/adapters/rabbitmq"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/shared"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if cfg.RabbitURL == "" {
		log.Fatal().Msg("RABBITMQ_URL is required")
	}

	log.Info().Str("queue", rabbitmq.BookingConfirmedQueue).Msg("notifier starting")
	err := rabbitmq.Consume(ctx, cfg.RabbitURL, 50, func(_ context.Context, ev domain.BookingConfirmed) error {
		log.Info().
			Str("booking_id", ev.BookingID).
			Str("hotel_id", ev.HotelID).
			Str("hotel", ev.HotelName).
			Str("user_id", ev.UserID).
			Str("email", ev.Email).
			Time("check_in", ev.CheckIn).
			Time("check_out", ev.CheckOut).
			Int("total_cost", ev.TotalCost).
			Str("payment_intent_id", ev.PaymentIntentID).
			Msg("booking confirmed")
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("consumer stopped")
	}
	log.Info().Msg("notifier stopped")
}
