package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New()

	m.ObserveGeneration(ResultSuccess, 3*time.Second)
	m.ObserveGeneration(ResultFailure, time.Second)
	m.ObserveGeneration(ResultSuccess, 2*time.Second)
	m.ImageFallback()
	m.Narration(ResultCached)
	m.QuizCompleted(30)
	m.QuizCompleted(0)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"generated success", testutil.ToFloat64(m.AdventuresGenerated.WithLabelValues(ResultSuccess)), 2},
		{"generated failure", testutil.ToFloat64(m.AdventuresGenerated.WithLabelValues(ResultFailure)), 1},
		{"fallbacks", testutil.ToFloat64(m.ImageFallbacks), 1},
		{"narrations cached", testutil.ToFloat64(m.Narrations.WithLabelValues(ResultCached)), 1},
		{"quiz completions", testutil.ToFloat64(m.QuizCompletions), 2},
		{"quiz points", testutil.ToFloat64(m.QuizPoints), 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveGeneration(ResultSuccess, time.Second)
	m.ImageFallback()
	m.Narration(ResultSuccess)
	m.QuizCompleted(10)
}

func TestHandler(t *testing.T) {
	m := New()
	m.ImageFallback()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "storygeo_image_fallbacks_total 1") {
		t.Errorf("metrics output missing fallback counter:\n%s", body)
	}
}
