// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for the remote embedding backend.
package httputil

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// retryable responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const defaultMaxRetries = 3

// Retryable reports whether a status code is worth retrying. Ollama
// answers 503 while a model is still loading and 429 when overloaded.
func Retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// RetryTransport is an http.RoundTripper that retries retryable responses
// with exponential backoff: RetryBaseDelay, then double each attempt.
//
// Requests with a body are replayed through req.GetBody; a request whose
// body cannot be rewound is sent once. After exhausting retries the last
// response is returned so the caller can inspect it. Cancelling the
// request context during a backoff wait returns ctx.Err().
type RetryTransport struct {
	// Base performs the actual round trips (default http.DefaultTransport).
	Base http.RoundTripper

	// MaxRetries is the number of retries after the first attempt
	// (default 3).
	MaxRetries int

	// Log receives one line per retry. Nil discards.
	Log io.Writer
}

// NewClient returns an http.Client whose transport retries retryable
// responses up to maxRetries times.
func NewClient(maxRetries int, timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &RetryTransport{MaxRetries: maxRetries},
		Timeout:   timeout,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	maxRetries := t.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if req.Body != nil && req.GetBody == nil {
		maxRetries = 0
	}
	logw := t.Log
	if logw == nil {
		logw = io.Discard
	}
	ctx := req.Context()

	for attempt := 0; ; attempt++ {
		attemptReq := req
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("rewinding request body: %w", err)
			}
			attemptReq = req.Clone(ctx)
			attemptReq.Body = body
		}

		resp, err := base.RoundTrip(attemptReq)
		if err != nil {
			return nil, err
		}
		if !Retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		fmt.Fprintf(logw, "retrying %s after %d in %v (attempt %d/%d)\n",
			req.URL.Path, resp.StatusCode, backoff, attempt+1, maxRetries)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
