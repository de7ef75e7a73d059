package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrLanguageNotSet      = errors.New("language preference not set")
	ErrSessionNotFound     = errors.New("session not found")
	ErrActiveRequest       = errors.New("active request exists")
	ErrEmptyMessage        = errors.New("empty message")
	ErrModelNotFound       = errors.New("model not found")
	ErrMissingAPIKey       = errors.New("assistant api key not configured")
	ErrEmptyCompletion     = errors.New("completion has no content")
)

// ErrorKind classifies completion failures for logs and retry decisions.
type ErrorKind string

const (
	KindNone               ErrorKind = ""
	KindUnauthorized       ErrorKind = "Unauthorized"
	KindRateLimited        ErrorKind = "RateLimited"
	KindServiceUnavailable ErrorKind = "ServiceUnavailable"
	KindNetworkFailure     ErrorKind = "NetworkFailure"
	KindMalformedResponse  ErrorKind = "MalformedResponse"
)

// Transient kinds may succeed on a later attempt.
func (k ErrorKind) Transient() bool {
	switch k {
	case KindNetworkFailure, KindServiceUnavailable, KindRateLimited:
		return true
	default:
		return false
	}
}

// GatewayError is returned by the completion client for every failed call.
type GatewayError struct {
	Kind       ErrorKind
	StatusCode int
	RetryAfter time.Duration
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind carried by err. Errors that did not come from the
// completion client are treated as network failures.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return KindNetworkFailure
}
