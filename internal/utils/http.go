package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// WriteJSON serializes the given data to JSON and writes it to the HTTP response.
//
// It sets the "Content-Type" header to "application/json" and writes
// the provided HTTP status code before sending the response body.
//
// If marshaling fails, it responds with 500 Internal Server Error
// and returns a wrapped error.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}

// FailureResponse is the error body the workflow server returns for
// rejected requests.
type FailureResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// WriteFailure writes a FailureResponse with status "fail" and the given
// message.
func WriteFailure(w http.ResponseWriter, message string, statusCode int) {
	_, _ = WriteJSON(w, FailureResponse{Status: "fail", Message: message}, statusCode)
}
