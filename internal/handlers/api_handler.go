package handlers

import (
	"context"
	"net/http"
	"strings"

	"storygeo/internal/globe"
	"storygeo/internal/i18n"
	"storygeo/internal/models"
	"storygeo/internal/security"
	"storygeo/internal/session"
	"storygeo/internal/validation"
)

// NarrationFiles produces WAV files for section text
type NarrationFiles interface {
	WAVPath(ctx context.Context, text string) (string, error)
}

// APIHandler exposes the session as a JSON API
type APIHandler struct {
	session   *session.Session
	narration NarrationFiles
	limiter   *security.RateLimiter
}

// NewAPIHandler creates a new API handler. narration may be nil, in which
// case the WAV endpoint answers 503.
func NewAPIHandler(sess *session.Session, narration NarrationFiles) *APIHandler {
	return &APIHandler{session: sess, narration: narration}
}

// LimitGeneration caps how often one client may request new adventures
func (h *APIHandler) LimitGeneration(rl *security.RateLimiter) {
	h.limiter = rl
}

type loginRequest struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Language string `json:"language"`
}

type languageRequest struct {
	Language string `json:"language"`
}

type topicRequest struct {
	Topic string `json:"topic"`
}

type selectRequest struct {
	Option *int `json:"option"`
}

type advanceResponse struct {
	Done  bool          `json:"done"`
	State session.State `json:"state"`
}

type globeResponse struct {
	ViewBox string         `json:"viewBox"`
	Regions []globe.Region `json:"regions"`
}

// State returns the current session state
func (h *APIHandler) State(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.session.Snapshot())
}

func (h *APIHandler) respondWithState(w http.ResponseWriter) {
	respondWithJSON(w, http.StatusOK, h.session.Snapshot())
}

// Login signs in an explorer or parent
func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	if err := validation.ValidateName(req.Name); err != nil {
		respondWithActionError(w, "Invalid name", err)
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}
	language := req.Language
	if language == "" {
		language = i18n.Match(r.Header.Get("Accept-Language"))
	}

	if err := h.session.Login(r.Context(), req.Name, role, language); err != nil {
		respondWithActionError(w, "Failed to sign in", err)
		return
	}
	h.respondWithState(w)
}

// SetLanguage changes the profile language
func (h *APIHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}
	if err := h.session.SetLanguage(r.Context(), req.Language); err != nil {
		respondWithActionError(w, "Failed to change language", err)
		return
	}
	h.respondWithState(w)
}

// Logout signs out and returns to the welcome screen
func (h *APIHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.SignOut(r.Context()); err != nil {
		respondWithActionError(w, "Failed to sign out", err)
		return
	}
	h.respondWithState(w)
}

// ListAdventures returns the adventure collection, newest first
func (h *APIHandler) ListAdventures(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.session.Adventures())
}

// CreateAdventure generates a new adventure about a topic
func (h *APIHandler) CreateAdventure(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	if err := validation.ValidateTopic(req.Topic); err != nil {
		respondWithActionError(w, "Invalid topic", err)
		return
	}

	adv, err := h.session.CreateAdventure(r.Context(), req.Topic)
	if err != nil {
		respondWithActionError(w, "Failed to create adventure", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, adv)
}

// OpenAdventure shows the first section of an adventure
func (h *APIHandler) OpenAdventure(w http.ResponseWriter, r *http.Request) {
	if err := h.session.OpenAdventure(r.PathValue("id")); err != nil {
		respondWithActionError(w, "Failed to open adventure", err)
		return
	}
	h.respondWithState(w)
}

// NextSection moves the reader forward
func (h *APIHandler) NextSection(w http.ResponseWriter, r *http.Request) {
	if err := h.session.NextSection(); err != nil {
		respondWithActionError(w, "Failed to turn page", err)
		return
	}
	h.respondWithState(w)
}

// PrevSection moves the reader back
func (h *APIHandler) PrevSection(w http.ResponseWriter, r *http.Request) {
	if err := h.session.PrevSection(); err != nil {
		respondWithActionError(w, "Failed to turn page", err)
		return
	}
	h.respondWithState(w)
}

// Narrate starts reading the open section aloud
func (h *APIHandler) Narrate(w http.ResponseWriter, r *http.Request) {
	if err := h.session.ReadCurrentSection(r.Context()); err != nil {
		respondWithActionError(w, "Failed to narrate section", err)
		return
	}
	respondWithJSON(w, http.StatusAccepted, h.session.Snapshot())
}

// NarrationWAV serves the narration of the open section as a WAV file
func (h *APIHandler) NarrationWAV(w http.ResponseWriter, r *http.Request) {
	text, err := h.session.CurrentSectionText()
	if err != nil {
		respondWithActionError(w, "Failed to load narration", err)
		return
	}
	if h.narration == nil {
		respondWithError(w, http.StatusServiceUnavailable, ErrNarrationUnavailable, "", nil)
		return
	}

	path, err := h.narration.WAVPath(r.Context(), text)
	if err != nil {
		respondWithActionError(w, "Failed to load narration", err)
		return
	}
	w.Header().Set("Content-Type", wavContentType)
	http.ServeFile(w, r, path)
}

// StartQuiz shows the first question
func (h *APIHandler) StartQuiz(w http.ResponseWriter, r *http.Request) {
	if err := h.session.StartQuiz(r.Context()); err != nil {
		respondWithActionError(w, "Failed to start quiz", err)
		return
	}
	h.respondWithState(w)
}

// SelectAnswer picks an option for the current question
func (h *APIHandler) SelectAnswer(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Option == nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}
	if err := h.session.SelectAnswer(*req.Option); err != nil {
		respondWithActionError(w, "Failed to select answer", err)
		return
	}
	h.respondWithState(w)
}

// AdvanceQuiz confirms the selected answer
func (h *APIHandler) AdvanceQuiz(w http.ResponseWriter, r *http.Request) {
	done, err := h.session.AdvanceQuiz(r.Context())
	if err != nil {
		respondWithActionError(w, "Failed to advance quiz", err)
		return
	}
	respondWithJSON(w, http.StatusOK, advanceResponse{Done: done, State: h.session.Snapshot()})
}

// Languages lists the story languages
func (h *APIHandler) Languages(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, i18n.Languages())
}

// Globe returns the map regions
func (h *APIHandler) Globe(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, globeResponse{ViewBox: globe.ViewBox, Regions: globe.Regions()})
}

// CreateFromRegion generates an adventure about a map region
func (h *APIHandler) CreateFromRegion(w http.ResponseWriter, r *http.Request) {
	adv, err := h.session.CreateFromRegion(r.Context(), r.PathValue("region"))
	if err != nil {
		respondWithActionError(w, "Failed to create adventure", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, adv)
}

// Strings returns the interface strings for ?lang= or the profile language
func (h *APIHandler) Strings(w http.ResponseWriter, r *http.Request) {
	code := strings.ToLower(r.URL.Query().Get("lang"))
	if code == "" {
		code = h.session.Language()
	}
	respondWithJSON(w, http.StatusOK, i18n.Strings(code))
}

// ParentProgress summarises the profile for the parent dashboard
func (h *APIHandler) ParentProgress(w http.ResponseWriter, r *http.Request) {
	summary, err := h.session.Progress(r.Context())
	if err != nil {
		respondWithActionError(w, "Failed to load progress", err)
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

// Navigate switches to a top level screen
func (h *APIHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	view, err := models.ParseView(r.PathValue("view"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}
	if err := h.session.Navigate(view); err != nil {
		respondWithActionError(w, "Failed to change view", err)
		return
	}
	h.respondWithState(w)
}
