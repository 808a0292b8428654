package handlers

const (
	ErrInvalidJSON          = "Invalid request body"
	ErrNotLoggedIn          = "Please sign in first"
	ErrNotFound             = "Not found"
	ErrNotAllowed           = "That is not possible right now"
	ErrBusy                 = "Please wait, we are still working on it"
	ErrGenerationFailed     = "The magic story book is having trouble. Please try again!"
	ErrNarrationUnavailable = "The storyteller cannot read this part right now"
	ErrInternalServerError  = "Internal server error"
	ErrServiceStartingUp    = "Service starting up"
	ErrTooManyRequests      = "Too many new adventures, please try again later"
)

const (
	maxRequestBodyBytes = 64 << 10
	jsonContentType     = "application/json"
	wavContentType      = "audio/wav"
)
