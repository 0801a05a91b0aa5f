package api

import (
	"encoding/json"
	"net/http"
)

// Success sends a JSON response with the given status. A nil body writes headers only.
func Success(w http.ResponseWriter, statusCode int, data interface{}) error {
	if data == nil {
		w.WriteHeader(statusCode)
		return nil
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// Error sends an ErrorResponse.
func Error(w http.ResponseWriter, statusCode int, resp ErrorResponse) error {
	return Success(w, statusCode, resp)
}
