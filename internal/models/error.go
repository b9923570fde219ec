package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrConflictData       = errors.New("data conflicts with existing data")
	ErrDataNotFound       = errors.New("data not found")
	ErrNotInitialized     = errors.New("dependency is not initialized")
	ErrInvalidCredentials = errors.New("invalid password")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrCDKUsedOrUnknown   = errors.New("cdk already used or not exist")
	ErrRateLimited        = errors.New("too many requests")
)

// RateLimitedError is returned when claimant made too many attempts
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e RateLimitedError) Error() string {
	return fmt.Sprintf("%v, retry after %v", ErrRateLimited, e.RetryAfter)
}

func (e RateLimitedError) Unwrap() error {
	return ErrRateLimited
}
