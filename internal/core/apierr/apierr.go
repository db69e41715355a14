// Package apierr normalizes the error payloads returned by the activity API.
//
// The server reports failures either as a single string or as a list of
// field errors:
//
//	{"detail": "Activity not found"}
//	{"detail": [{"loc": ["body", "distance"], "msg": "field required"}]}
//
// Both shapes are parsed into one Description, and Message turns any error
// produced by a remote call into one display string.
package apierr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/hay-kot/criterio"

	"github.com/hay-kot/stride/internal/core/credential"
)

// MsgNotAuthenticated is shown when an operation is attempted without a
// credential.
const MsgNotAuthenticated = "Not authenticated."

// FieldIssue is a single field-level complaint from the server.
type FieldIssue struct {
	Field   string
	Message string
}

// Description is the normalized form of a server error payload.
type Description struct {
	Message string
	Fields  []FieldIssue
}

// String joins the message and field issues into one display string.
func (d Description) String() string {
	parts := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		if f.Field == "" {
			parts = append(parts, f.Message)
			continue
		}
		parts = append(parts, f.Field+": "+f.Message)
	}
	fields := strings.Join(parts, "; ")

	switch {
	case d.Message != "" && fields != "":
		return d.Message + ": " + fields
	case fields != "":
		return fields
	default:
		return d.Message
	}
}

// FieldErrors converts the field issues to criterio.FieldErrors.
func (d Description) FieldErrors() criterio.FieldErrors {
	if len(d.Fields) == 0 {
		return nil
	}
	out := make(criterio.FieldErrors, 0, len(d.Fields))
	for _, f := range d.Fields {
		out = append(out, criterio.FieldError{Field: f.Field, Err: errors.New(f.Message)})
	}
	return out
}

// Error is a non-2xx response from the activity API.
type Error struct {
	Status int
	Desc   Description
}

func (e *Error) Error() string {
	if msg := e.Desc.String(); msg != "" {
		return fmt.Sprintf("api error (status %d): %s", e.Status, msg)
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

// Unwrap exposes field errors so callers can use errors.As with
// criterio.FieldErrors.
func (e *Error) Unwrap() error {
	if fe := e.Desc.FieldErrors(); fe != nil {
		return fe
	}
	return nil
}

type issuePayload struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

type payload struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// Parse builds a Description from a response body. Unknown JSON shapes and
// non-JSON bodies yield the trimmed body text as the message.
func Parse(body []byte) Description {
	body = []byte(strings.TrimSpace(string(body)))
	if len(body) == 0 {
		return Description{}
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return Description{Message: truncate(string(body), 200)}
	}

	if len(p.Detail) > 0 {
		var msg string
		if err := json.Unmarshal(p.Detail, &msg); err == nil {
			return Description{Message: msg}
		}

		var issues []issuePayload
		if err := json.Unmarshal(p.Detail, &issues); err == nil {
			d := Description{Fields: make([]FieldIssue, 0, len(issues))}
			for _, is := range issues {
				d.Fields = append(d.Fields, FieldIssue{Field: joinLoc(is.Loc), Message: is.Msg})
			}
			return d
		}
	}

	if p.Message != "" {
		return Description{Message: p.Message}
	}
	if p.Error != "" {
		return Description{Message: p.Error}
	}

	return Description{}
}

// Message returns a single display string for err. Missing credentials map
// to MsgNotAuthenticated, API errors to the server's description, and
// everything else (transport failures, empty descriptions) to fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, credential.ErrMissing) {
		return MsgNotAuthenticated
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		if msg := apiErr.Desc.String(); msg != "" {
			return msg
		}
	}

	return fallback
}

// joinLoc renders a FastAPI style location, dropping the "body"/"query" root.
func joinLoc(loc []any) string {
	parts := make([]string, 0, len(loc))
	for i, l := range loc {
		switch v := l.(type) {
		case string:
			if i == 0 && (v == "body" || v == "query" || v == "path") {
				continue
			}
			parts = append(parts, v)
		case float64:
			parts = append(parts, strconv.Itoa(int(v)))
		}
	}
	return strings.Join(parts, ".")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
