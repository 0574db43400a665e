package httpapi

import (
	"encoding/json"
	"net/http"
)

// SuccessResponse is the envelope of every successful call. Data always holds
// exactly one element: the actual payload, even when the payload is a list.
type SuccessResponse struct {
	Data    []any  `json:"data"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope of every failed call.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func Success(data any, message string) SuccessResponse {
	return SuccessResponse{Data: []any{data}, Code: http.StatusOK, Message: message}
}

func Error(errText string, code int, message string) ErrorResponse {
	return ErrorResponse{Error: errText, Code: code, Message: message}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusOK, Success(data, message))
}

func writeError(w http.ResponseWriter, errText string, code int, message string) {
	writeJSON(w, code, Error(errText, code, message))
}
