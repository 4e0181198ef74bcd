package services

import "errors"

var (
	// ErrValidation marks malformed or incomplete input. Nothing was stored.
	ErrValidation = errors.New("validation failed")
	// ErrDispatchFailed wraps a gateway failure on an outbound send.
	ErrDispatchFailed = errors.New("outbound dispatch failed")
)
