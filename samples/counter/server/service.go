package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/wire"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/weegigs/wee-store-go/connectors/wshttp"
	"github.com/weegigs/wee-store-go/samples/counter"
	"github.com/weegigs/wee-store-go/support"
)

// CounterServer is the counter store exposed over HTTP under /counter.
type CounterServer struct {
	Handler   http.Handler
	Store     *counter.Store
	Scheduler *counter.Scheduler
}

func NewCounterServer(store *counter.Store, scheduler *counter.Scheduler, cfg support.HTTPConfig, log *zerolog.Logger) *CounterServer {
	options := []wshttp.HandlerOption[counter.Counter, counter.Action]{
		wshttp.Logger[counter.Counter, counter.Action](log),
		wshttp.Deferred[counter.Counter, counter.Action](scheduler, counter.AsyncTask),
	}
	if cfg.RateLimit > 0 {
		limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst)
		options = append(options, wshttp.RateLimit[counter.Counter, counter.Action](limiter))
	}

	r := chi.NewRouter()
	r.Mount("/counter", wshttp.NewHandler[counter.Counter, counter.Action](store, counter.Decoders(), options...))

	return &CounterServer{
		Handler:   withLogging(r),
		Store:     store,
		Scheduler: scheduler,
	}
}

var server = wire.NewSet(
	wire.FieldsOf(new(support.Config), "HTTP", "Journal"),
	support.NewLogger,
	NewCounterServer,
)

var Live = wire.NewSet(server, counter.Live)

var Local = wire.NewSet(server, counter.Local)

var Memory = wire.NewSet(server, counter.Memory)
