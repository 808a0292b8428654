package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storygeo/internal/quiz"
	"storygeo/internal/service"
	"storygeo/internal/session"
	"storygeo/internal/validation"
)

func TestRespondWithErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondWithError(recorder, 418, "Teapot", "", nil)

	if recorder.Code != 418 {
		t.Fatalf("expected status 418, got %d", recorder.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["error"] != "Teapot" {
		t.Fatalf("expected error 'Teapot', got %q", body["error"])
	}
}

func TestRespondWithErrorLogsMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := log.Default()
	originalOutput := logger.Writer()
	logger.SetOutput(&buf)
	defer logger.SetOutput(originalOutput)

	recorder := httptest.NewRecorder()
	err := errors.New("boom")

	respondWithError(recorder, 500, "Internal server error", "", err)

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Internal server error") {
		t.Fatalf("expected log to include user message, got %q", logOutput)
	}
	if !strings.Contains(logOutput, "boom") {
		t.Fatalf("expected log to include error, got %q", logOutput)
	}
}

func TestRespondWithActionError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{session.ErrNotLoggedIn, http.StatusUnauthorized},
		{fmt.Errorf("%w: x", service.ErrAdventureNotFound), http.StatusNotFound},
		{session.ErrUnknownRegion, http.StatusNotFound},
		{service.ErrGenerationBusy, http.StatusConflict},
		{service.ErrNarrationBusy, http.StatusConflict},
		{fmt.Errorf("%w: quiz in progress", session.ErrInvalidTransition), http.StatusConflict},
		{quiz.ErrNoSelection, http.StatusConflict},
		{service.ErrEmptyTopic, http.StatusBadRequest},
		{quiz.ErrInvalidOption, http.StatusBadRequest},
		{fmt.Errorf("login: %w", validation.ValidationError{Field: "name", Message: "name is too long"}), http.StatusBadRequest},
		{fmt.Errorf("%w: quota", service.ErrGenerationFailed), http.StatusBadGateway},
		{service.ErrNarrationUnavailable, http.StatusServiceUnavailable},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondWithActionError(rec, "action failed", tt.err)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
