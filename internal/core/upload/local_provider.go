package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalProvider implements file storage on the local filesystem. Files are
// expected to be served under baseURL by the HTTP server.
type LocalProvider struct {
	basePath string
	baseURL  string
}

// NewLocalProvider creates a new local file storage provider
func NewLocalProvider(basePath, baseURL string) (*LocalProvider, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &LocalProvider{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// Put writes body to basePath/key
func (p *LocalProvider) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (*UploadResult, error) {
	filePath, err := p.resolve(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	out, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(out, body)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		_ = os.Remove(filePath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &UploadResult{
		URL:          p.GetURL(key),
		Key:          key,
		Size:         written,
		ContentType:  contentType,
		ResourceType: detectResourceType(key, contentType),
	}, nil
}

// Delete deletes a file from local filesystem
func (p *LocalProvider) Delete(_ context.Context, key string) error {
	filePath, err := p.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", key)
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetURL gets the public URL for a file
func (p *LocalProvider) GetURL(key string) string {
	return p.baseURL + "/" + strings.TrimLeft(key, "/")
}

func (p *LocalProvider) PublicBaseURL() string {
	return p.baseURL + "/"
}

// GetProviderName returns the provider name
func (p *LocalProvider) GetProviderName() string {
	return "Local Storage"
}

// BasePath is the directory the HTTP server should expose
func (p *LocalProvider) BasePath() string {
	return p.basePath
}

func (p *LocalProvider) resolve(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(p.basePath, clean), nil
}
