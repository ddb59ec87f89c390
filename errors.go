package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/jomei/notionapi"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// ErrorKind classifies a failure so the run loop can decide whether to keep going.
type ErrorKind string

const (
	KindNone          ErrorKind = ""
	KindConfig        ErrorKind = "config"
	KindAuth          ErrorKind = "auth"
	KindRateLimited   ErrorKind = "rate_limited"
	KindNetwork       ErrorKind = "network"
	KindAPI           ErrorKind = "api"
	KindMalformedDate ErrorKind = "malformed_date"
	KindUnexpected    ErrorKind = "unexpected"
)

// ErrAuthExhausted is returned once the auth retry budget is spent. It is the
// only error that stops a run midway.
var ErrAuthExhausted = errors.New("authentication retries exhausted")

var ErrMissingKey = errors.New("missing configuration key")

type SyncError struct {
	Kind ErrorKind
	Op   string
	Name string
	Err  error
}

func (e *SyncError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %q: %s: %v", e.Op, e.Name, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// kindOf reports the classification carried by err, falling back to
// KindUnexpected for anything that was never classified.
func kindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, ErrAuthExhausted) {
		return KindAuth
	}
	var se *SyncError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnexpected
}

func isAuthError(err error) bool {
	if err == nil {
		return false
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return true
	}
	var se *SyncError
	return errors.As(err, &se) && se.Kind == KindAuth
}

// sinkError wraps a calendar provider failure with its classification.
func sinkError(op string, err error) error {
	if err == nil {
		return nil
	}
	kind := KindAPI
	var retrieveErr *oauth2.RetrieveError
	var apiErr *googleapi.Error
	var netErr net.Error
	switch {
	case errors.As(err, &retrieveErr):
		kind = KindAuth
	case errors.As(err, &apiErr):
		switch apiErr.Code {
		case http.StatusUnauthorized:
			kind = KindAuth
		case http.StatusTooManyRequests:
			kind = KindRateLimited
		}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		kind = KindUnexpected
	case errors.As(err, &netErr):
		kind = KindNetwork
	}
	return &SyncError{Kind: kind, Op: op, Err: err}
}

// sourceError wraps a Notion failure with its classification.
func sourceError(op string, err error) error {
	if err == nil {
		return nil
	}
	kind := KindNetwork
	var apiErr *notionapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = KindAuth
		case http.StatusTooManyRequests:
			kind = KindRateLimited
		default:
			kind = KindAPI
		}
	}
	return &SyncError{Kind: kind, Op: op, Err: err}
}
