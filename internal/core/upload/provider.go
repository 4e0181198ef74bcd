package upload

import (
	"context"
	"io"
	"path"
	"strings"
)

// UploadResult represents the result of a stored object
type UploadResult struct {
	URL          string `json:"url"`           // Public URL to access the file
	Key          string `json:"key"`           // Provider-specific identifier
	Size         int64  `json:"size"`          // File size in bytes
	ContentType  string `json:"content_type"`  // MIME type as stored
	ResourceType string `json:"resource_type"` // image, video, raw
}

// Provider defines the interface for durable storage backends
type Provider interface {
	// Put stores body under key. size may be -1 when unknown.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (*UploadResult, error)

	// Delete removes the object stored under key
	Delete(ctx context.Context, key string) error

	// GetURL gets the public URL for a key
	GetURL(key string) string

	// PublicBaseURL is the prefix every URL produced by this provider starts with
	PublicBaseURL() string

	// GetProviderName returns the provider name
	GetProviderName() string
}

// detectResourceType maps a key or content type to image, video or raw
func detectResourceType(key, contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return "image"
	case strings.HasPrefix(contentType, "video/"):
		return "video"
	}

	switch strings.ToLower(path.Ext(key)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".svg":
		return "image"
	case ".mp4", ".avi", ".mov", ".wmv", ".flv", ".webm", ".mkv", ".3gp":
		return "video"
	}
	return "raw"
}
