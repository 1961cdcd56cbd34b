package core

import (
	"errors"
	"fmt"
)

var (
	// ErrContentParse means the provider answered but the payload did not
	// conform to the structured contract. Never retried on another
	// credential.
	ErrContentParse = errors.New("unparseable provider response")

	// ErrProvidersExhausted means every configured credential failed
	// transiently within a single dispatch.
	ErrProvidersExhausted = errors.New("all provider credentials exhausted")

	// ErrInvalidInput rejects malformed caller input before any side effect.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCooldownActive rejects a quiz submission inside the retry window.
	ErrCooldownActive = errors.New("quiz cooldown active")

	ErrNotFound = errors.New("not found")
)

func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
