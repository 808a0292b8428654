package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"storygeo/internal/models"
	"storygeo/internal/quiz"
	"storygeo/internal/service"
	"storygeo/internal/session"
	"storygeo/internal/validation"
)

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	respondWithJSON(w, status, map[string]string{"error": userMsg})
}

func respondWithJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", jsonContentType)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// respondWithActionError maps a session or service error to a status code
func respondWithActionError(w http.ResponseWriter, logMsg string, err error) {
	var verr validation.ValidationError
	switch {
	case errors.As(err, &verr):
		respondWithError(w, http.StatusBadRequest, verr.Error(), "", nil)
	case errors.Is(err, session.ErrNotLoggedIn):
		respondWithError(w, http.StatusUnauthorized, ErrNotLoggedIn, "", nil)
	case errors.Is(err, service.ErrAdventureNotFound),
		errors.Is(err, session.ErrUnknownRegion):
		respondWithError(w, http.StatusNotFound, ErrNotFound, "", nil)
	case errors.Is(err, service.ErrGenerationBusy),
		errors.Is(err, service.ErrNarrationBusy):
		respondWithError(w, http.StatusConflict, ErrBusy, "", nil)
	case errors.Is(err, session.ErrNoAdventure),
		errors.Is(err, session.ErrInvalidTransition),
		errors.Is(err, quiz.ErrNoSelection),
		errors.Is(err, quiz.ErrQuizDone):
		respondWithError(w, http.StatusConflict, ErrNotAllowed, "", nil)
	case errors.Is(err, service.ErrEmptyTopic),
		errors.Is(err, quiz.ErrInvalidOption),
		errors.Is(err, service.ErrUnsupportedLanguage),
		errors.Is(err, models.ErrInvalidProfile):
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
	case errors.Is(err, service.ErrGenerationFailed):
		respondWithError(w, http.StatusBadGateway, ErrGenerationFailed, logMsg, err)
	case errors.Is(err, service.ErrNarrationUnavailable):
		respondWithError(w, http.StatusServiceUnavailable, ErrNarrationUnavailable, logMsg, err)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
	}
}
