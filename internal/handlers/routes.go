package handlers

import "net/http"

// NewRouter wires the API, health and metrics endpoints. metrics may be nil.
func NewRouter(api *APIHandler, startup *Startup, metrics http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", startup.Health)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}

	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /api/state", api.State)
	apiMux.HandleFunc("POST /api/login", api.Login)
	apiMux.HandleFunc("POST /api/language", api.SetLanguage)
	apiMux.HandleFunc("POST /api/logout", api.Logout)

	apiMux.HandleFunc("GET /api/adventures", api.ListAdventures)
	apiMux.HandleFunc("POST /api/adventures", RateLimit(api.limiter, api.CreateAdventure))
	apiMux.HandleFunc("POST /api/adventures/{id}/open", api.OpenAdventure)

	apiMux.HandleFunc("POST /api/reader/next", api.NextSection)
	apiMux.HandleFunc("POST /api/reader/prev", api.PrevSection)
	apiMux.HandleFunc("POST /api/reader/narrate", api.Narrate)
	apiMux.HandleFunc("GET /api/reader/narration.wav", api.NarrationWAV)

	apiMux.HandleFunc("POST /api/quiz/start", api.StartQuiz)
	apiMux.HandleFunc("POST /api/quiz/select", api.SelectAnswer)
	apiMux.HandleFunc("POST /api/quiz/advance", api.AdvanceQuiz)

	apiMux.HandleFunc("GET /api/languages", api.Languages)
	apiMux.HandleFunc("GET /api/strings", api.Strings)
	apiMux.HandleFunc("GET /api/globe", api.Globe)
	apiMux.HandleFunc("POST /api/globe/{region}", RateLimit(api.limiter, api.CreateFromRegion))
	apiMux.HandleFunc("GET /api/parent/progress", api.ParentProgress)
	apiMux.HandleFunc("POST /api/view/{view}", api.Navigate)

	mux.Handle("/api/", startup.RequireReady(apiMux))

	return Recover(Logging(mux))
}
