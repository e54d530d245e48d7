package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"gofun/internal/funs"
	"gofun/internal/metrics"
	"gofun/internal/wire"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func testApp() *wire.Application {
	return &wire.Application{
		Handlers: funs.NewFunHandlers(nil),
		Metrics:  metrics.New(prometheus.NewRegistry()),
	}
}

func TestSetupRouter_Health(t *testing.T) {
	router := setupRouter(testApp())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"fun-svc"}`, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSetupRouter_Metrics(t *testing.T) {
	router := setupRouter(testApp())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetupRouter_MediaDisabled(t *testing.T) {
	router := setupRouter(testApp())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/media/abc", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetupRouter_RejectsBadIDBeforeService(t *testing.T) {
	router := setupRouter(testApp())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/funs/abc", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
