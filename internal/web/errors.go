package web

// errors.go turns handler errors into responses.
//
// Every error goes through core.MapError, which picks the user message,
// support code and status. The technical error is logged with the request
// and session ids; the client only sees the mapped message, as JSON for API
// callers or as an alert fragment for HTMX requests.

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/crm/internal/core"
	"github.com/JonMunkholm/crm/internal/customer"
	"github.com/JonMunkholm/crm/internal/logging"
	"github.com/JonMunkholm/crm/internal/web/templates"
)

// ErrorResponse is the JSON body of API errors.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Action  string            `json:"action,omitempty"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

var errRateLimited = errors.New("rate limit exceeded")

// respondError logs err and writes the mapped user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	msg := core.MapError(err)

	logger := logging.FromContext(r.Context()).With(
		"path", r.URL.Path,
		"method", r.Method,
		"status", msg.Status,
		"code", msg.Code,
		"error", err.Error(),
	)
	if msg.Status >= 500 || !core.IsUserFacing(err) {
		logger.Error("request error")
	} else {
		logger.Debug("request rejected")
	}

	switch {
	case isHTMX(r):
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(msg.Status)
		if rerr := templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); rerr != nil {
			logger.Error("render error alert", "render_error", rerr)
		}
	case wantsJSON(r):
		resp := ErrorResponse{Error: msg.Message, Message: msg.Message, Action: msg.Action, Code: msg.Code}
		var verrs customer.ValidationErrors
		if errors.As(err, &verrs) {
			resp.Fields = verrs
		}
		writeJSON(w, r, msg.Status, resp)
	default:
		http.Error(w, core.FormatUserError(err), msg.Status)
	}
}

func (s *Server) rejectRateLimited(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, r, errRateLimited)
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON checks if the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
