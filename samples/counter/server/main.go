package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/weegigs/wee-store-go/journal"
	"github.com/weegigs/wee-store-go/support"
)

const shutdownTimeout = 10 * time.Second

func inject(ctx context.Context, cfg support.Config) (*CounterServer, error) {
	switch cfg.Journal.Backend {
	case journal.BackendDynamo:
		return live(ctx, cfg)
	case journal.BackendDynamoLocal:
		return local(ctx, cfg)
	case "", journal.BackendMemory:
		return memory(cfg), nil
	default:
		return nil, pkgerrors.Errorf("unknown journal backend %q", cfg.Journal.Backend)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := support.LoadConfig()
	if err != nil {
		return pkgerrors.Wrap(err, "failed to load configuration")
	}

	_, shutdownTracing, err := support.TracerProvider(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdownTracing()

	service, err := inject(ctx, cfg)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to configure counter service")
	}

	server := &http.Server{Addr: cfg.HTTP.Address, Handler: service.Handler}

	failed := make(chan error, 1)
	go func() {
		log.Info().Str("address", cfg.HTTP.Address).Str("journal", cfg.Journal.Backend).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		return err
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdown); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}

	log.Info().Int("pending", service.Scheduler.Pending()).Msg("waiting for delayed increments")
	return service.Scheduler.Wait(shutdown)
}

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("counter server failed")
	}
}
