// Package handlers provides shared HTTP response helpers. Errors are written
// as RFC 7807 problem documents.
package handlers

import (
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/moogar0880/problems"
)

// ProblemContentType is the media type of error responses.
const ProblemContentType = "application/problem+json"

// RespondJSON writes data as a JSON body with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs err and writes a problem document with the given status.
// Server errors hide the underlying message from the client.
func RespondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, err error) {
	problem := problems.NewStatusProblem(status).
		WithInstance(r.URL.Path).
		WithType(problemType(status))

	if status >= http.StatusInternalServerError {
		logger.Error("handler error", "status", status, "path", r.URL.Path, "error", err)
	} else {
		logger.Warn("request rejected", "status", status, "path", r.URL.Path, "error", err)
		problem = problem.WithDetail(err.Error())
	}

	w.Header().Set("Content-Type", ProblemContentType)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(problem)
}

// RespondFile writes data as an attachment download.
func RespondFile(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", Attachment(filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Attachment returns a Content-Disposition value naming filename. Quotes and
// non-ASCII characters are encoded per RFC 2231.
func Attachment(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}

func problemType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "validation_error"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	}
	text := strings.ToLower(http.StatusText(status))
	if text == "" {
		return "error"
	}
	return strings.ReplaceAll(text, " ", "_")
}
