package models

import (
	"encoding/json"
	"net/http"
)

// Problem is an RFC 7807 error body, served as application/problem+json.
// Message mirrors Detail (or Title) because the patient client reads a
// plain {"message": ...} body.
type Problem struct {
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Status   int          `json:"status"`
	Detail   string       `json:"detail,omitempty"`
	Instance string       `json:"instance,omitempty"`
	TraceID  string       `json:"traceId"`
	Errors   []FieldError `json:"errors,omitempty"`
	Message  string       `json:"message,omitempty"`
}

// FieldError names the login or push-token field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

const problemBase = "https://clinicmate.dev/problems/"

const (
	ProblemTypeValidation      = problemBase + "validation-error"
	ProblemTypeUnauthorized    = problemBase + "unauthorized"
	ProblemTypeTLSRequired     = problemBase + "tls-required"
	ProblemTypeNotFound        = problemBase + "not-found"
	ProblemTypeTooManyRequests = problemBase + "too-many-requests"
	ProblemTypeInternal        = problemBase + "internal-error"
	ProblemTypeUnavailable     = problemBase + "service-unavailable"
)

type problemKind struct {
	typ   string
	title string
}

var problemKinds = map[int]problemKind{
	http.StatusBadRequest:          {ProblemTypeValidation, "Validation error"},
	http.StatusUnauthorized:        {ProblemTypeUnauthorized, "Unauthorized"},
	http.StatusForbidden:           {ProblemTypeTLSRequired, "TLS required"},
	http.StatusNotFound:            {ProblemTypeNotFound, "Not found"},
	http.StatusTooManyRequests:     {ProblemTypeTooManyRequests, "Too many requests"},
	http.StatusInternalServerError: {ProblemTypeInternal, "Internal server error"},
	http.StatusServiceUnavailable:  {ProblemTypeUnavailable, "Service unavailable"},
}

// NewProblem builds the problem the dev backend answers with for status.
// Statuses without a clinic problem type fall back to about:blank and the
// standard status text.
func NewProblem(status int, traceID, detail string) *Problem {
	kind, ok := problemKinds[status]
	if !ok {
		kind = problemKind{typ: "about:blank", title: http.StatusText(status)}
	}
	return &Problem{
		Type:    kind.typ,
		Title:   kind.title,
		Status:  status,
		Detail:  detail,
		TraceID: traceID,
	}
}

// Write sends p with the request ID echoed in X-Request-Id.
func (p *Problem) Write(w http.ResponseWriter) {
	p.Message = p.Detail
	if p.Message == "" {
		p.Message = p.Title
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.Header().Set("X-Request-Id", p.TraceID)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}
