package client

import (
	"encoding/json"

	"garageclient/internal/domain"
)

// Outcome is the canonical result of any resource call. Every response
// shape the backend produces is normalized into this at the transport
// boundary; nothing downstream sees raw bodies.
type Outcome[T any] struct {
	Success bool
	Data    T
	Message string
	Errors  []domain.FieldError

	// List metadata; zero for single-entity calls.
	Count int
	Page  int
	Pages int
}

// envelope matches the wrapped wire shape. Success is a pointer so a body
// without the key (a bare entity) is distinguishable from success=false.
type envelope struct {
	Success *bool               `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors"`
	Count   int                 `json:"count"`
	Page    int                 `json:"page"`
	Pages   int                 `json:"pages"`
	Error   string              `json:"error"` // legacy alternate message key
}

// decodeOutcome normalizes a response body. A 2xx body without a success
// key is treated as a bare entity and wrapped; anything undecodable counts
// as a transport failure. The success boolean, when present, is
// authoritative over the HTTP status.
func decodeOutcome[T any](status int, body []byte) (Outcome[T], error) {
	var out Outcome[T]
	ok := status >= 200 && status < 300

	if len(body) == 0 {
		out.Success = ok
		if !ok {
			out.Message = httpMessage(status)
			return out, statusError(status, out.Message, nil)
		}
		return out, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		// Not an object at all. A bare array on 2xx is still a valid
		// list payload.
		if ok {
			if jsonErr := json.Unmarshal(body, &out.Data); jsonErr == nil {
				out.Success = true
				return out, nil
			}
		}
		out.Message = "unrecognized response shape"
		return out, domain.TransportError{Msg: out.Message, Err: err}
	}

	if env.Success == nil && ok {
		// Bare entity: the whole body is the payload.
		if err := json.Unmarshal(body, &out.Data); err != nil {
			out.Message = "unrecognized response shape"
			return out, domain.TransportError{Msg: out.Message, Err: err}
		}
		out.Success = true
		return out, nil
	}

	if env.Success != nil {
		ok = *env.Success
	}

	out.Success = ok
	out.Message = env.Message
	if out.Message == "" {
		out.Message = env.Error
	}
	out.Errors = env.Errors
	out.Count = env.Count
	out.Page = env.Page
	out.Pages = env.Pages

	if !ok {
		if out.Message == "" {
			out.Message = httpMessage(status)
		}
		return out, statusError(status, out.Message, env.Errors)
	}

	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &out.Data); err != nil {
			out.Success = false
			out.Message = "unrecognized response shape"
			return out, domain.TransportError{Msg: out.Message, Err: err}
		}
	}
	return out, nil
}

func statusError(status int, msg string, fields []domain.FieldError) error {
	switch {
	case status == 404:
		return domain.NotFoundError{Err: domain.DomainError{Code: msg}}
	case status == 401:
		return domain.UnauthorizedError{Msg: msg}
	case status == 409:
		return domain.ConflictError{Msg: msg}
	case status == 400 || status == 422:
		if len(fields) > 0 {
			return domain.ValidationError{Field: fields[0].Field, Msg: fields[0].Message}
		}
		return domain.ValidationError{Msg: msg}
	case status >= 500:
		return domain.InternalError{Msg: msg}
	default:
		return domain.DomainError{Code: msg}
	}
}

func httpMessage(status int) string {
	switch status {
	case 401:
		return "authentication required"
	case 403:
		return "forbidden"
	case 404:
		return "not found"
	default:
		if status >= 500 {
			return "server error"
		}
		return "request failed"
	}
}
