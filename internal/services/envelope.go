// Package services holds typed clients of the hotel, room, booking and
// availability services.
package services

import (
	"context"
	"fmt"

	"github.com/brizzai/hotel-console/internal/requester"
)

// envelope is the response wrapper every listing and booking service uses.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
	Error   string `json:"error,omitempty"`
}

// RejectedError is a 2xx response whose envelope reported success=false.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return e.Message
}

// call executes route and unwraps the envelope. fallback is the message used
// when the service rejected the call without saying why.
func call[T any](ctx context.Context, gw *requester.HTTPRequester, route *requester.RouteConfig, params map[string]interface{}, fallback string) (T, error) {
	var env envelope[T]
	if err := gw.Call(ctx, route, params, &env); err != nil {
		var zero T
		return zero, err
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = fallback
		}
		var zero T
		return zero, &RejectedError{Message: msg}
	}
	return env.Data, nil
}

func required(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}
