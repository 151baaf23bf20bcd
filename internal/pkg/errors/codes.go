package errors

import "net/http"

// Code represents an error code with HTTP status and message
type Code struct {
	Code    int    // Business error code
	Status  int    // HTTP status code
	Message string // Error message
}

const (
	Success = 0

	// Common errors (1000-1999)
	ErrInternalServer = 1000
	ErrInvalidParams  = 1001
	ErrNotFound       = 1002
	ErrConfig         = 1100

	// Credential errors (2000-2999)
	ErrTokenAcquisition = 2000

	// Document acquisition errors (3000-3999)
	ErrFetch      = 3000
	ErrResolution = 3001

	// Completion errors (4000-4999)
	ErrCompletion = 4000
	ErrStream     = 4001

	// Search errors (5000-5999)
	ErrSearch = 5000
)

var codeMap = map[int]Code{
	Success: {Success, http.StatusOK, "Success"},

	ErrInternalServer: {ErrInternalServer, http.StatusInternalServerError, "Internal server error"},
	ErrInvalidParams:  {ErrInvalidParams, http.StatusBadRequest, "Invalid parameters"},
	ErrNotFound:       {ErrNotFound, http.StatusNotFound, "Resource not found"},
	ErrConfig:         {ErrConfig, http.StatusInternalServerError, "Service is not configured"},

	ErrTokenAcquisition: {ErrTokenAcquisition, http.StatusInternalServerError, "Failed to get GigaChat token"},

	ErrFetch:      {ErrFetch, http.StatusBadGateway, "Failed to load page content"},
	ErrResolution: {ErrResolution, http.StatusInternalServerError, "Failed to load document content from the original address or any alternative"},

	ErrCompletion: {ErrCompletion, http.StatusInternalServerError, "Completion request failed"},
	ErrStream:     {ErrStream, http.StatusInternalServerError, "Stream error occurred"},

	ErrSearch: {ErrSearch, http.StatusInternalServerError, "Search provider error"},
}

// GetCode returns the Code for a given error code
func GetCode(code int) Code {
	if c, ok := codeMap[code]; ok {
		return c
	}
	return codeMap[ErrInternalServer]
}

// GetHTTPStatus returns HTTP status for a given error code
func GetHTTPStatus(code int) int {
	return GetCode(code).Status
}

// GetMessage returns the message for a given error code
func GetMessage(code int) string {
	return GetCode(code).Message
}
