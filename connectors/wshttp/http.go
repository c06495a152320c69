package wshttp

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/weegigs/wee-store-go/ws"
)

type HandlerOption[S any, A any] func(service *httpService[S, A])

func Logger[S any, A any](log *zerolog.Logger) HandlerOption[S, A] {
	return func(service *httpService[S, A]) {
		service.log = log
	}
}

// RateLimit limits the routes that dispatch or schedule actions. Reads are
// never limited.
func RateLimit[S any, A any](limiter *rate.Limiter) HandlerOption[S, A] {
	return func(service *httpService[S, A]) {
		service.limiter = limiter
	}
}

// TaskFactory maps an action to the delayed task that performs it, reporting
// false for actions that cannot be deferred.
type TaskFactory[A any] func(ctx context.Context, action A) (ws.Delayed[A], bool)

// Deferred enables POST /async, which schedules the task built by factory.
func Deferred[S any, A any](scheduler *ws.Scheduler[A], factory TaskFactory[A]) HandlerOption[S, A] {
	return func(service *httpService[S, A]) {
		service.scheduler = scheduler
		service.tasks = factory
	}
}

// NewHandler exposes a store over HTTP:
//
//	GET  /         current state
//	POST /actions  dispatch a remote action
//	POST /async    schedule a remote action (requires Deferred)
func NewHandler[S any, A any](store ws.Container[S, A], decoders ws.ActionDecoders[A], options ...HandlerOption[S, A]) http.Handler {
	service := &httpService[S, A]{store: store, decoders: decoders, encoder: ResourceEncoder[S]{}}
	for _, option := range options {
		option(service)
	}
	if service.log == nil {
		service.log = &log.Logger
	}

	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Method("GET", "/", service.getState())
	r.Group(func(r chi.Router) {
		if service.limiter != nil {
			r.Use(limit(service.limiter))
		}

		r.Method("POST", "/actions", service.dispatchAction())
		if service.scheduler != nil {
			r.Method("POST", "/async", service.scheduleAction())
		}
	})

	return otelhttp.NewHandler(r, "ws-http")
}

type httpService[S any, A any] struct {
	log       *zerolog.Logger
	store     ws.Container[S, A]
	decoders  ws.ActionDecoders[A]
	encoder   ResourceEncoder[S]
	limiter   *rate.Limiter
	scheduler *ws.Scheduler[A]
	tasks     TaskFactory[A]
}

type scheduled struct {
	Action  ws.ActionName `json:"action"`
	DelayMs int64         `json:"delay_ms"`
}

func (service *httpService[S, A]) getState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := service.encoder.Encode(w, r, service.store.Name(), service.store.Snapshot()); err != nil {
			service.log.Info().Err(err).Msg("failed to encode state")
		}
	}
}

func (service *httpService[S, A]) dispatchAction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		action, ok := service.readAction(w, r)
		if !ok {
			return
		}

		service.store.Dispatch(r.Context(), action)

		if err := service.encoder.Encode(w, r, service.store.Name(), service.store.Snapshot()); err != nil {
			service.log.Info().Err(err).Msg("failed to encode state")
		}
	}
}

func (service *httpService[S, A]) scheduleAction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		action, ok := service.readAction(w, r)
		if !ok {
			return
		}

		task, ok := service.tasks(r.Context(), action)
		if !ok {
			http.Error(w, "action cannot be deferred", http.StatusUnprocessableEntity)
			return
		}

		service.scheduler.Schedule(task, service.dispatch)

		render.Status(r, http.StatusAccepted)
		render.JSON(w, r, scheduled{Action: ws.ActionNameOf(task.Action), DelayMs: task.Delay.Milliseconds()})
	}
}

func (service *httpService[S, A]) dispatch(ctx context.Context, action A) {
	service.store.Dispatch(ctx, action)
}

func (service *httpService[S, A]) readAction(w http.ResponseWriter, r *http.Request) (A, bool) {
	var empty A

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-type"))
	if mediaType != "application/json" || err != nil {
		http.Error(w, "unsupported content type", http.StatusUnsupportedMediaType)
		return empty, false
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return empty, false
	}

	var remote ws.RemoteAction
	if err := json.UnmarshalContext(r.Context(), body, &remote); err != nil {
		service.log.Info().Err(err).Msg("failed to unmarshal action")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return empty, false
	}

	action, err := service.decoders.Decode(r.Context(), remote)
	if err != nil {
		var notFound ws.ActionNotFoundError
		if errors.As(err, &notFound) {
			http.Error(w, notFound.Error(), http.StatusUnprocessableEntity)
			return empty, false
		}

		service.log.Info().Err(err).Str("action", remote.Type.String()).Msg("failed to decode action")
		http.Error(w, "invalid action payload", http.StatusBadRequest)
		return empty, false
	}

	return action, true
}

func limit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
