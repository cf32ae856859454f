// Package response writes the JSON and HTML bodies the storefront frontend
// expects. Bodies are bare objects, not an envelope:
//
//	{"error": "...", "errors": {"name": "..."}}
//	{"message": "..."}
package response

import (
	"encoding/json"
	"html"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/validate"
)

// ErrorBody is the shape of every JSON failure.
type ErrorBody struct {
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors,omitempty"`
}

// MessageBody is the shape of a bare success acknowledgement.
type MessageBody struct {
	Message string `json:"message"`
}

// JSON writes v with status. A value that cannot be encoded is logged and
// answered with a 500 instead.
func JSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Error("response: encode json", "error", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorBody{Error: "response could not be encoded"})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// Success writes v with 200.
func Success(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, v)
}

// Message writes {"message": msg} with 200.
func Message(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, MessageBody{Message: msg})
}

// Error writes {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{Error: msg})
}

// Validation writes a 400 with the first message on top and every field
// message underneath.
func Validation(w http.ResponseWriter, errs validate.Errors) {
	JSON(w, http.StatusBadRequest, ErrorBody{Error: errs.First(), Errors: errs})
}

// HTML writes a raw HTML fragment.
func HTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// Heading writes msg, escaped, as a lone <h2>.
func Heading(w http.ResponseWriter, status int, msg string) {
	HTML(w, status, "<h2>"+html.EscapeString(msg)+"</h2>")
}

// AcceptsJSON reports whether the client listed application/json in Accept.
func AcceptsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// Reject answers a failed request in the client's preferred format: JSON
// when Accept names application/json, an <h2> page otherwise.
func Reject(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if AcceptsJSON(r) {
		Error(w, status, msg)
		return
	}
	Heading(w, status, msg)
}
