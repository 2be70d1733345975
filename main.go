package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"kitchen/internal/app"
	"kitchen/internal/config"
	"kitchen/internal/services"

	"github.com/rs/zerolog/log"
	"github.com/streadway/amqp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	config.SetupLogger(cfg.LogLevel, cfg.LogPretty)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	res, err := app.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open resources")
	}
	defer func() {
		if err := res.Close(); err != nil {
			log.Error().Err(err).Msg("error closing resources")
		}
	}()

	server := app.Build(res.Deps)

	if res.MQ != nil {
		if err := res.MQ.ConsumeOrderEvents(ctx, logOrderEvent); err != nil {
			log.Error().Err(err).Msg("failed to start order event consumer")
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.AppPort).Msg("starting server")
		if err := server.Listen(cfg.AppPort); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")
	cancel()
	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during fiber shutdown")
	}
	log.Info().Msg("server gracefully stopped")
}

// logOrderEvent records order events from the queue. The kitchen display
// would hook in here.
func logOrderEvent(msg amqp.Delivery) error {
	var ev services.OrderEvent
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		return err
	}
	log.Info().
		Str("routing_key", msg.RoutingKey).
		Str("order", ev.OrderID).
		Str("status", ev.Status).
		Int64("total", ev.Total).
		Int("items", ev.Items).
		Msg("order event received")
	return nil
}
