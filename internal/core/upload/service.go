package upload

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Service provides file storage with provider switching
type Service struct {
	provider Provider
}

// NewService creates a new upload service
func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// ProviderConfig selects and configures a storage backend
type ProviderConfig struct {
	Type          string // local, s3, cloudinary
	UploadDir     string
	PublicBaseURL string

	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	AWSS3Bucket        string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

// NewProvider builds the provider named by cfg.Type
func NewProvider(ctx context.Context, cfg ProviderConfig) (Provider, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "local":
		return NewLocalProvider(cfg.UploadDir, strings.TrimRight(cfg.PublicBaseURL, "/")+"/uploads")
	case "s3":
		return NewS3Provider(ctx, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, cfg.AWSRegion, cfg.AWSS3Bucket)
	case "cloudinary":
		return NewCloudinaryProvider(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Type)
	}
}

// Put stores an object using the configured provider
func (s *Service) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (*UploadResult, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("upload provider not configured")
	}
	return s.provider.Put(ctx, key, body, size, contentType)
}

// Delete deletes a stored object
func (s *Service) Delete(ctx context.Context, key string) error {
	if s.provider == nil {
		return fmt.Errorf("upload provider not configured")
	}
	return s.provider.Delete(ctx, key)
}

// Owns reports whether url already points at this storage
func (s *Service) Owns(url string) bool {
	if s.provider == nil || url == "" {
		return false
	}
	base := s.provider.PublicBaseURL()
	return base != "/" && strings.HasPrefix(url, base)
}

// GetProviderName returns the current provider name
func (s *Service) GetProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.GetProviderName()
}
