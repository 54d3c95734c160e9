// Package app wires configuration, logging, the hub, and the HTTP server
// into a runnable process.
package app

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	servernet "github.com/prince118-hub/Escape-Road/internal/net"
	"github.com/prince118-hub/Escape-Road/internal/net/ws"
	"github.com/prince118-hub/Escape-Road/internal/sim"
	"github.com/prince118-hub/Escape-Road/internal/telemetry"
	"github.com/prince118-hub/Escape-Road/internal/world"
)

// Run starts the server and blocks until it fails or ctx is canceled.
func Run(ctx context.Context) error {
	v := viper.New()
	v.SetConfigName("escape-road")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix("ESCAPE_ROAD")
	v.AutomaticEnv()

	v.SetDefault("addr", ":8080")
	v.SetDefault("seed", sim.DefaultSeed)
	v.SetDefault("difficulty", 1.0)
	v.SetDefault("tick_rate", servernet.DefaultTickRate)
	v.SetDefault("city.blocks", 6)
	v.SetDefault("log.pretty", true)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	logger := newLogger(v.GetBool("log.pretty"))

	simCfg := sim.DefaultConfig()
	simCfg.Seed = v.GetString("seed")

	city := world.GenerateCity(simCfg.Road, world.CityConfig{
		Blocks: v.GetInt("city.blocks"),
	}, simCfg.Seed)

	counters := telemetry.NewCounters()
	hub := servernet.NewHub(servernet.HubConfig{
		Sim:      simCfg,
		Geometry: city,
		TickRate: v.GetInt("tick_rate"),
		Logger:   telemetry.WrapZerolog(logger),
		Counters: counters,
	})
	hub.SetDifficulty(v.GetFloat64("difficulty"))

	stop := make(chan struct{})
	go hub.RunSimulation(stop)
	defer close(stop)

	wsHandler := ws.NewHandler(hub, ws.HandlerConfig{
		Logger: logger.With().Str("component", "ws").Logger(),
	})
	handler := servernet.NewHTTPHandler(hub, servernet.HTTPHandlerConfig{
		Logger: telemetry.WrapZerolog(logger),
		WS:     wsHandler,
	})

	srv := &nethttp.Server{Addr: v.GetString("addr"), Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info().
		Str("addr", srv.Addr).
		Str("seed", simCfg.Seed).
		Int("buildings", len(city)).
		Msg("server listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func newLogger(pretty bool) zerolog.Logger {
	if pretty {
		writer := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(writer).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
