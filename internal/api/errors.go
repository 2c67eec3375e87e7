package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed response from the service.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation      // 400
	KindRateLimited     // 429
	KindServer          // 500
	KindNotFound        // 404
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindRateLimited:
		return "rate_limited"
	case KindServer:
		return "server"
	case KindNotFound:
		return "not_found"
	default:
		return "unexpected"
	}
}

// APIError is a non-2xx answer from the service.
type APIError struct {
	Status  int
	Kind    Kind
	Message string // the body's "error" field when present
	Body    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.TrimSpace(e.Body)
	}
	return fmt.Sprintf("api error: status=%d kind=%s message=%s", e.Status, e.Kind, msg)
}

// ParseAPIError builds an APIError from a response status and body. A JSON
// body of the form {"error": "..."} provides the message.
func ParseAPIError(status int, body []byte) *APIError {
	out := &APIError{Status: status, Kind: kindOf(status), Body: string(body)}

	var m map[string]any
	if json.Unmarshal(body, &m) == nil {
		if v, ok := m["error"].(string); ok {
			out.Message = v
		} else if v, ok := m["message"].(string); ok {
			out.Message = v
		}
	}
	return out
}

func kindOf(status int) Kind {
	switch {
	case status == http.StatusBadRequest:
		return KindValidation
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 500:
		return KindServer
	default:
		return KindUnexpected
	}
}
