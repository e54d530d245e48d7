package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"gofun/internal/common"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_CountsEvents(t *testing.T) {
	m := New(prometheus.NewRegistry())

	assert.NoError(t, m.Update(common.EngagementEvent{Type: common.FunLikedEvent}))
	assert.NoError(t, m.Update(common.EngagementEvent{Type: common.FunLikedEvent}))
	assert.NoError(t, m.Update(common.EngagementEvent{Type: common.FunRepostedEvent}))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.events.WithLabelValues("fun.liked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("fun.reposted")))
}

func TestMetrics_Middleware(t *testing.T) {
	m := New(prometheus.NewRegistry())
	r := mux.NewRouter()
	r.Use(m.Middleware)
	r.HandleFunc("/funs/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/funs/1", "/funs/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/funs/{id:[0-9]+}", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.requestTimes))
}
