package handlers

import (
	"net/http"
	"sync"
)

// Startup tracks the initialization progress
type Startup struct {
	mu       sync.RWMutex
	ready    bool
	current  string
	progress int
	steps    []StartupStep
}

type StartupStep struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// StartupStatus is the JSON form of a Startup
type StartupStatus struct {
	Ready    bool          `json:"ready"`
	Current  string        `json:"current"`
	Progress int           `json:"progress"`
	Steps    []StartupStep `json:"steps"`
}

// NewStartup creates a tracker for the given steps
func NewStartup(steps ...string) *Startup {
	s := &Startup{current: "Initializing..."}
	for _, name := range steps {
		s.steps = append(s.steps, StartupStep{Name: name})
	}
	return s
}

// SetCurrentStep updates the current initialization step
func (s *Startup) SetCurrentStep(step string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = step
}

// CompleteStep marks a step as completed and updates progress
func (s *Startup) CompleteStep(stepName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.steps {
		if s.steps[i].Name == stepName {
			s.steps[i].Completed = true
			break
		}
	}

	if len(s.steps) == 0 {
		return
	}
	completed := 0
	for _, step := range s.steps {
		if step.Completed {
			completed++
		}
	}
	s.progress = (completed * 100) / len(s.steps)
}

// MarkReady marks the server as fully initialized
func (s *Startup) MarkReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true
	s.current = "Server ready"
	s.progress = 100
	for i := range s.steps {
		s.steps[i].Completed = true
	}
}

// IsReady returns whether the server is fully initialized
func (s *Startup) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Status returns a copy of the current progress
func (s *Startup) Status() StartupStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	steps := make([]StartupStep, len(s.steps))
	copy(steps, s.steps)
	return StartupStatus{Ready: s.ready, Current: s.current, Progress: s.progress, Steps: steps}
}

// Health answers 200 once ready and 503 with the progress before that
func (s *Startup) Health(w http.ResponseWriter, r *http.Request) {
	status := s.Status()
	if !status.Ready {
		respondWithJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RequireReady rejects API calls until startup has finished
func (s *Startup) RequireReady(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.IsReady() {
			respondWithError(w, http.StatusServiceUnavailable, ErrServiceStartingUp, "", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
