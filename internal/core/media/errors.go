package media

import "errors"

var (
	// ErrTooLarge indicates the payload exceeds the configured max size.
	ErrTooLarge = errors.New("media too large")
	// ErrDownload indicates the source could not be fetched.
	ErrDownload = errors.New("media download failed")
	// ErrStore indicates durable storage rejected the payload.
	ErrStore = errors.New("media store failed")
)
