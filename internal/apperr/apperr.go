// Package apperr defines the error taxonomy shared by services and handlers.
package apperr

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound marks an expected row that is missing.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument marks input that violates a service contract.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnreachable marks a notification recipient that cannot be delivered
	// to (blocked the bot, chat not found). Always recovered locally.
	ErrUnreachable = errors.New("recipient unreachable")
)

// Map converts storage/infra errors into domain sentinels.
// Keeps service layer checks to errors.Is against a small set.
func Map(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)

	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return err

	default:
		return err
	}
}

// NotFound builds an ErrNotFound with context about what was missing.
func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

// InvalidArgument builds an ErrInvalidArgument with a reason.
func InvalidArgument(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInvalidArgument)
}
