package core

import (
	"encoding/json"
	"net/http"
)

// MimeTypeJSON is the only request body type the API accepts.
const MimeTypeJSON = "application/json"

// jsonResponse is a fully rendered response: status code plus the JSON body
// as bytes. Fixed responses are precomputed once at init, see
// response_precomputed.go.
type jsonResponse struct {
	status int
	body   []byte
}

// JsonBasic contains the fields every response carries. Status is a
// boolean: true for success, false for any failure.
type JsonBasic struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// JsonWithData is used for success responses carrying a payload.
type JsonWithData struct {
	JsonBasic
	Data any `json:"data,omitempty"`
}

// JsonWithErrors is used for validation failures carrying per-field
// messages.
type JsonWithErrors struct {
	JsonBasic
	Errors []string `json:"errors,omitempty"`
}

var apiJsonDefaultHeaders = map[string]string{
	"Content-Type":           "application/json; charset=utf-8",
	"X-Content-Type-Options": "nosniff",
}

func setHeaders(w http.ResponseWriter, headers ...map[string]string) {
	for _, headerMap := range headers {
		for key, value := range headerMap {
			w.Header().Set(key, value)
		}
	}
}

// writeJSONResponse writes a precomputed response.
func writeJSONResponse(w http.ResponseWriter, resp jsonResponse) {
	setHeaders(w, apiJsonDefaultHeaders)
	w.WriteHeader(resp.status)
	w.Write(resp.body)
}

// WriteJsonError writes a precomputed error response.
func WriteJsonError(w http.ResponseWriter, resp jsonResponse) {
	writeJSONResponse(w, resp)
}

// writeJsonWithData writes a success response with a payload.
func writeJsonWithData(w http.ResponseWriter, status int, message string, data any) {
	resp := JsonWithData{
		JsonBasic: JsonBasic{Status: true, Message: message},
		Data:      data,
	}
	setHeaders(w, apiJsonDefaultHeaders)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// writeJsonValidationErrors writes a 422 with the collected field messages.
func writeJsonValidationErrors(w http.ResponseWriter, errs []string) {
	resp := JsonWithErrors{
		JsonBasic: JsonBasic{Status: false, Message: "The given data was invalid"},
		Errors:    errs,
	}
	setHeaders(w, apiJsonDefaultHeaders)
	w.WriteHeader(http.StatusUnprocessableEntity)
	json.NewEncoder(w).Encode(resp)
}
