package upload

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryProvider implements file upload to Cloudinary
type CloudinaryProvider struct {
	cld       *cloudinary.Cloudinary
	cloudName string
}

// NewCloudinaryProvider creates a new Cloudinary provider
func NewCloudinaryProvider(cloudName, apiKey, apiSecret string) (*CloudinaryProvider, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &CloudinaryProvider{
		cld:       cld,
		cloudName: cloudName,
	}, nil
}

// Put uploads to Cloudinary. The key without extension becomes the public id.
func (p *CloudinaryProvider) Put(ctx context.Context, key string, body io.Reader, _ int64, contentType string) (*UploadResult, error) {
	overwrite := false
	params := uploader.UploadParams{
		PublicID:     strings.TrimSuffix(key, path.Ext(key)),
		ResourceType: cloudinaryResourceType(key, contentType),
		Overwrite:    &overwrite,
	}

	result, err := p.cld.Upload.Upload(ctx, body, params)
	if err != nil {
		return nil, fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload rejected: %s", result.Error.Message)
	}

	return &UploadResult{
		URL:          result.SecureURL,
		Key:          result.PublicID,
		Size:         int64(result.Bytes),
		ContentType:  contentType,
		ResourceType: result.ResourceType,
	}, nil
}

// Delete deletes a file from Cloudinary
func (p *CloudinaryProvider) Delete(ctx context.Context, key string) error {
	result, err := p.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     strings.TrimSuffix(key, path.Ext(key)),
		ResourceType: cloudinaryResourceType(key, ""),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from Cloudinary: %w", err)
	}

	if result.Result != "ok" {
		return fmt.Errorf("cloudinary delete failed: %s", result.Result)
	}
	return nil
}

// GetURL gets the public URL for a file from Cloudinary
func (p *CloudinaryProvider) GetURL(key string) string {
	return fmt.Sprintf("%s%s/upload/%s", p.PublicBaseURL(), cloudinaryResourceType(key, ""), key)
}

func (p *CloudinaryProvider) PublicBaseURL() string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/", p.cloudName)
}

// GetProviderName returns the provider name
func (p *CloudinaryProvider) GetProviderName() string {
	return "Cloudinary"
}

// Cloudinary stores audio under the video resource type.
func cloudinaryResourceType(key, contentType string) string {
	if strings.HasPrefix(contentType, "audio/") {
		return "video"
	}
	return detectResourceType(key, contentType)
}
