package wshttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/weegigs/wee-store-go/ws"
)

type gauge struct {
	Reading int `json:"reading"`
}

type gaugeAction interface{}

type adjust struct {
	By int
}

type zero struct{}

var gaugeReducer ws.ReducerFunction[gauge, gaugeAction] = func(state gauge, action gaugeAction) gauge {
	switch a := action.(type) {
	case adjust:
		return gauge{Reading: state.Reading + a.By}
	case zero:
		return gauge{}
	}
	return state
}

var gaugeDecoders = ws.ActionDecoders[gaugeAction]{
	"gauge/adjust": ws.PayloadOf(func(by int) gaugeAction { return adjust{By: by} }),
	"gauge/zero":   ws.Unit[gaugeAction](zero{}),
}

func deferAdjust(_ context.Context, action gaugeAction) (ws.Delayed[gaugeAction], bool) {
	if _, ok := action.(adjust); !ok {
		return ws.Delayed[gaugeAction]{}, false
	}
	return ws.After[gaugeAction](time.Second, action), true
}

func newGaugeStore() *ws.Store[gauge, gaugeAction] {
	return ws.NewStore(ws.StoreDescriptor[gauge, gaugeAction]{Name: "gauge", Reducer: gaugeReducer})
}

func post(t *testing.T, handler http.Handler, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func decode(t *testing.T, res *httptest.ResponseRecorder) map[string]any {
	var resource map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &resource))
	return resource
}

func TestHandler(t *testing.T) {
	t.Run("returns the current state", func(t *testing.T) {
		handler := NewHandler[gauge, gaugeAction](newGaugeStore(), gaugeDecoders)

		res := httptest.NewRecorder()
		handler.ServeHTTP(res, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusOK, res.Code)
		resource := decode(t, res)
		assert.Equal(t, float64(0), resource["reading"])
		assert.Equal(t, "gauge", resource["$type"])
		assert.Equal(t, ws.InitialRevision.String(), resource["$revision"])
		assert.NotContains(t, resource, "$timestamp")
	})

	t.Run("dispatches remote actions", func(t *testing.T) {
		store := newGaugeStore()
		handler := NewHandler[gauge, gaugeAction](store, gaugeDecoders)

		res := post(t, handler, "/actions", `{"type":"gauge/adjust","payload":7}`)

		assert.Equal(t, http.StatusOK, res.Code)
		resource := decode(t, res)
		assert.Equal(t, float64(7), resource["reading"])
		assert.Equal(t, store.Snapshot().Revision.String(), resource["$revision"])
		assert.Contains(t, resource, "$timestamp")
		assert.Equal(t, 7, store.State().Reading)
	})

	t.Run("rejects unsupported content", func(t *testing.T) {
		handler := NewHandler[gauge, gaugeAction](newGaugeStore(), gaugeDecoders)

		req := httptest.NewRequest("POST", "/actions", strings.NewReader(`type=gauge/zero`))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, res.Code)
	})

	t.Run("rejects unknown actions", func(t *testing.T) {
		handler := NewHandler[gauge, gaugeAction](newGaugeStore(), gaugeDecoders)

		res := post(t, handler, "/actions", `{"type":"gauge/explode"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
	})

	t.Run("rejects malformed bodies", func(t *testing.T) {
		handler := NewHandler[gauge, gaugeAction](newGaugeStore(), gaugeDecoders)

		assert.Equal(t, http.StatusBadRequest, post(t, handler, "/actions", `{"type":`).Code)
		assert.Equal(t, http.StatusBadRequest, post(t, handler, "/actions", `{"type":"gauge/adjust","payload":"x"}`).Code)
	})

	t.Run("schedules deferred actions", func(t *testing.T) {
		mock := clock.NewMock()
		store := newGaugeStore()
		scheduler := ws.NewScheduler[gaugeAction](ws.SchedulerClock(mock))
		handler := NewHandler[gauge, gaugeAction](store, gaugeDecoders, Deferred[gauge, gaugeAction](scheduler, deferAdjust))

		res := post(t, handler, "/async", `{"type":"gauge/adjust","payload":4}`)
		assert.Equal(t, http.StatusAccepted, res.Code)
		resource := decode(t, res)
		assert.Equal(t, "wshttp/adjust", resource["action"])
		assert.Equal(t, float64(1000), resource["delay_ms"])
		assert.Equal(t, 0, store.State().Reading)

		mock.Add(time.Second)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, scheduler.Wait(ctx))

		assert.Equal(t, 4, store.State().Reading)
	})

	t.Run("refuses actions that cannot be deferred", func(t *testing.T) {
		scheduler := ws.NewScheduler[gaugeAction](ws.SchedulerClock(clock.NewMock()))
		handler := NewHandler[gauge, gaugeAction](newGaugeStore(), gaugeDecoders, Deferred[gauge, gaugeAction](scheduler, deferAdjust))

		res := post(t, handler, "/async", `{"type":"gauge/zero"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
		assert.Equal(t, 0, scheduler.Pending())
	})

	t.Run("async is not routed without a scheduler", func(t *testing.T) {
		handler := NewHandler[gauge, gaugeAction](newGaugeStore(), gaugeDecoders)

		res := post(t, handler, "/async", `{"type":"gauge/adjust","payload":1}`)
		assert.NotEqual(t, http.StatusAccepted, res.Code)
	})

	t.Run("rate limits dispatches", func(t *testing.T) {
		store := newGaugeStore()
		limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
		handler := NewHandler[gauge, gaugeAction](store, gaugeDecoders, RateLimit[gauge, gaugeAction](limiter))

		assert.Equal(t, http.StatusOK, post(t, handler, "/actions", `{"type":"gauge/adjust","payload":1}`).Code)
		assert.Equal(t, http.StatusTooManyRequests, post(t, handler, "/actions", `{"type":"gauge/adjust","payload":1}`).Code)

		res := httptest.NewRecorder()
		handler.ServeHTTP(res, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, 1, store.State().Reading)
	})
}
