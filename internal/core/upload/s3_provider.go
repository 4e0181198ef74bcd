package upload

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Provider implements file upload to AWS S3
type S3Provider struct {
	client     *s3.Client
	bucketName string
	region     string
	baseURL    string
}

// NewS3Provider creates a new AWS S3 provider
func NewS3Provider(ctx context.Context, accessKeyID, secretAccessKey, region, bucketName string) (*S3Provider, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET is required")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if accessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID,
			secretAccessKey,
			"",
		)))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Provider{
		client:     s3.NewFromConfig(cfg),
		bucketName: bucketName,
		region:     region,
		baseURL:    fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucketName, region),
	}, nil
}

// Put uploads an object to S3 with a public-read ACL
func (p *S3Provider) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (*UploadResult, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(p.bucketName),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         "public-read",
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := p.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:          p.GetURL(key),
		Key:          key,
		Size:         size,
		ContentType:  contentType,
		ResourceType: detectResourceType(key, contentType),
	}, nil
}

// Delete deletes a file from AWS S3
func (p *S3Provider) Delete(ctx context.Context, key string) error {
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

// GetURL gets the public URL for a file from S3
func (p *S3Provider) GetURL(key string) string {
	return fmt.Sprintf("%s/%s", p.baseURL, key)
}

func (p *S3Provider) PublicBaseURL() string {
	return p.baseURL + "/"
}

// GetProviderName returns the provider name
func (p *S3Provider) GetProviderName() string {
	return "AWS S3"
}
