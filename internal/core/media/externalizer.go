// Package media copies customer media from short-lived gateway URLs into
// durable storage.
package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/upload"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Kind string

const (
	KindImage    Kind = "image"
	KindAudio    Kind = "audio"
	KindVideo    Kind = "video"
	KindDocument Kind = "document"
)

const DefaultDownloadTimeout = 30 * time.Second

// Attachment is the outcome of one externalization. DurableURL is always set;
// on failure it equals SourceURL and Err says why.
type Attachment struct {
	SourceURL   string
	Kind        Kind
	SizeBytes   int64
	ContentType string
	DurableURL  string
	Err         error
}

// Externalized reports whether the media now lives in our storage.
func (a Attachment) Externalized() bool {
	return a.Err == nil && a.DurableURL != a.SourceURL
}

// Store is satisfied by *upload.Service.
type Store interface {
	Owns(url string) bool
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (*upload.UploadResult, error)
}

type Config struct {
	MaxBytes        int64
	DownloadTimeout time.Duration
}

type Externalizer struct {
	store      Store
	httpClient *http.Client
	maxBytes   int64
	timeout    time.Duration
	now        func() time.Time
}

func NewExternalizer(store Store, cfg Config) *Externalizer {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = DefaultDownloadTimeout
	}
	return &Externalizer{
		store:      store,
		httpClient: &http.Client{},
		maxBytes:   cfg.MaxBytes,
		timeout:    cfg.DownloadTimeout,
		now:        time.Now,
	}
}

// Externalize never fails the caller: errors are recorded on the attachment
// and the source URL is kept.
func (e *Externalizer) Externalize(ctx context.Context, sourceURL string, kind Kind) Attachment {
	att := Attachment{SourceURL: sourceURL, Kind: kind, DurableURL: sourceURL}
	if sourceURL == "" {
		return att
	}
	if e.store.Owns(sourceURL) {
		return att
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	data, contentType, err := e.download(ctx, sourceURL)
	if err != nil {
		att.Err = err
		log.Warn().Err(err).Str("kind", string(kind)).Str("url", sourceURL).Msg("media externalization failed, keeping source url")
		return att
	}

	key := e.objectKey(kind, sourceURL, contentType)
	res, err := e.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		att.Err = fmt.Errorf("%w: %v", ErrStore, err)
		log.Warn().Err(err).Str("kind", string(kind)).Str("key", key).Msg("media upload failed, keeping source url")
		return att
	}

	att.SizeBytes = int64(len(data))
	att.ContentType = contentType
	att.DurableURL = res.URL
	log.Debug().Str("kind", string(kind)).Int64("size", att.SizeBytes).Str("durable_url", res.URL).Msg("media externalized")
	return att
}

func (e *Externalizer) download(ctx context.Context, sourceURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDownload, err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, "", fmt.Errorf("%w: status %d", ErrDownload, resp.StatusCode)
	}
	if resp.ContentLength > e.maxBytes {
		return nil, "", fmt.Errorf("%w: content length %d over %d bytes", ErrTooLarge, resp.ContentLength, e.maxBytes)
	}

	data, err := ReadAllWithLimit(resp.Body, e.maxBytes)
	if err != nil {
		return nil, "", err
	}

	contentType := resp.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mt
	} else {
		contentType = http.DetectContentType(data)
		if mt, _, err := mime.ParseMediaType(contentType); err == nil {
			contentType = mt
		}
	}
	return data, contentType, nil
}

// objectKey builds media/<kind>/<yyyy>/<mm>/<uuid><ext>.
func (e *Externalizer) objectKey(kind Kind, sourceURL, contentType string) string {
	now := e.now().UTC()
	return fmt.Sprintf("media/%s/%04d/%02d/%s%s", kind, now.Year(), int(now.Month()), uuid.NewString(), extensionFor(contentType, sourceURL))
}

var knownExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"audio/ogg":       ".ogg",
	"audio/mpeg":      ".mp3",
	"audio/mp4":       ".m4a",
	"audio/aac":       ".aac",
	"video/mp4":       ".mp4",
	"video/3gpp":      ".3gp",
	"video/quicktime": ".mov",
	"application/pdf": ".pdf",
}

func extensionFor(contentType, sourceURL string) string {
	if ext, ok := knownExtensions[contentType]; ok {
		return ext
	}
	if u, err := url.Parse(sourceURL); err == nil {
		if ext := strings.ToLower(path.Ext(u.Path)); ext != "" && len(ext) <= 6 {
			return ext
		}
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
