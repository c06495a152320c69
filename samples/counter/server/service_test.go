package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weegigs/wee-store-go/journal"
	"github.com/weegigs/wee-store-go/samples/counter"
	"github.com/weegigs/wee-store-go/support"
)

type test = func(t *testing.T)

type counterResource struct {
	Value    int    `json:"value"`
	Type     string `json:"$type"`
	Revision string `json:"$revision"`
}

func send(t *testing.T, server *httptest.Server, method string, path string, body string) (int, []byte) {
	req, err := http.NewRequest(method, server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	content, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return res.StatusCode, content
}

func readCounter(t *testing.T, content []byte) counterResource {
	var resource counterResource
	require.NoError(t, json.Unmarshal(content, &resource))
	return resource
}

func loadsInitialCounter(server *httptest.Server) test {
	return func(t *testing.T) {
		status, content := send(t, server, "GET", "/counter", "")

		assert.Equal(t, http.StatusOK, status)
		resource := readCounter(t, content)
		assert.Equal(t, 0, resource.Value)
		assert.Equal(t, "counter", resource.Type)
	}
}

func incrementsCounter(server *httptest.Server) test {
	return func(t *testing.T) {
		status, content := send(t, server, "POST", "/counter/actions", `{"type":"counter/incrementByAmount","payload":7}`)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, 7, readCounter(t, content).Value)
	}
}

func decrementsCounter(server *httptest.Server) test {
	return func(t *testing.T) {
		status, content := send(t, server, "POST", "/counter/actions", `{"type":"counter/decrement"}`)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, 6, readCounter(t, content).Value)
	}
}

func rejectsUnknownActions(server *httptest.Server) test {
	return func(t *testing.T) {
		status, _ := send(t, server, "POST", "/counter/actions", `{"type":"counter/reset"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, status)
	}
}

func TestCounterServer(t *testing.T) {
	cfg := support.DefaultConfig()
	cfg.Log.Level = "disabled"

	service := memory(cfg)
	server := httptest.NewServer(service.Handler)
	defer server.Close()

	t.Run("load initial counter", loadsInitialCounter(server))
	t.Run("increment counter", incrementsCounter(server))
	t.Run("decrement counter", decrementsCounter(server))
	t.Run("reject unknown actions", rejectsUnknownActions(server))
}

func TestDelayedIncrement(t *testing.T) {
	mock := clock.NewMock()
	log := zerolog.Nop()
	store := counter.NewStore(journal.NewMemoryJournal(), &log, mock)
	scheduler := counter.NewScheduler(mock, &log)

	service := NewCounterServer(store, scheduler, support.HTTPConfig{}, &log)
	server := httptest.NewServer(service.Handler)
	defer server.Close()

	status, _ := send(t, server, "POST", "/counter/async", `{"type":"counter/incrementByAmount","payload":4}`)
	assert.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, 1, scheduler.Pending())

	status, _ = send(t, server, "POST", "/counter/async", `{"type":"counter/increment"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	mock.Add(counter.AsyncDelay)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, scheduler.Wait(ctx))

	_, content := send(t, server, "GET", "/counter", "")
	assert.Equal(t, 4, readCounter(t, content).Value)
}

func TestRateLimit(t *testing.T) {
	log := zerolog.Nop()
	store := counter.NewStore(journal.NewMemoryJournal(), &log, clock.NewMock())
	scheduler := counter.NewScheduler(clock.NewMock(), &log)

	service := NewCounterServer(store, scheduler, support.HTTPConfig{RateLimit: 0.001, Burst: 2}, &log)
	server := httptest.NewServer(service.Handler)
	defer server.Close()

	for i := 0; i < 2; i++ {
		status, _ := send(t, server, "POST", "/counter/actions", `{"type":"counter/increment"}`)
		assert.Equal(t, http.StatusOK, status)
	}

	status, _ := send(t, server, "POST", "/counter/actions", `{"type":"counter/increment"}`)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, 2, counter.SelectCount(store.State()))
}
