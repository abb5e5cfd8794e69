package handlers

const (
	SessionCookieName = "spark_session"

	maxRequestBodyBytes = 1 << 20

	// returnToParam lets the client name the page, query included, a
	// guest should land on after logging in
	returnToParam = "returnTo"

	ErrInvalidRequestBody  = "Invalid request body"
	ErrInternalServerError = "Internal server error"
	ErrStorageUnavailable  = "Progress storage is unavailable, please try again"
	ErrAuthRequired        = "Please log in or sign up to continue"
	ErrCSRFInvalid         = "Invalid or missing CSRF token"
	ErrTooManyRequests     = "Too many requests, please slow down"
	ErrInvalidHelpType     = "Unknown help type"
)

const storageWarning = "Saving is unavailable right now. Your progress is kept until the server restarts."
