package media

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storeBase = "https://files.example.com/uploads"

func newLocalStore(t *testing.T) (*upload.Service, string) {
	t.Helper()
	dir := t.TempDir()
	p, err := upload.NewLocalProvider(dir, storeBase)
	require.NoError(t, err)
	return upload.NewService(p), dir
}

func mediaServer(t *testing.T, contentType string, body []byte, hits *int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			*hits++
		}
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExternalizeStoresMedia(t *testing.T) {
	t.Parallel()

	store, dir := newLocalStore(t)
	srv := mediaServer(t, "image/png; charset=binary", []byte("pngbytes"), nil)

	e := NewExternalizer(store, Config{})
	e.now = func() time.Time { return time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC) }

	att := e.Externalize(context.Background(), srv.URL+"/img/photo", KindImage)
	require.NoError(t, att.Err)
	assert.True(t, att.Externalized())
	assert.Equal(t, int64(8), att.SizeBytes)
	assert.Equal(t, "image/png", att.ContentType)
	assert.Regexp(t, regexp.MustCompile(`^`+storeBase+`/media/image/2026/03/[0-9a-f-]{36}\.png$`), att.DurableURL)

	rel := strings.TrimPrefix(att.DurableURL, storeBase+"/")
	data, err := os.ReadFile(filepath.Join(dir, rel))
	require.NoError(t, err)
	assert.Equal(t, "pngbytes", string(data))
}

func TestExternalizeOwnedURLIsUnchanged(t *testing.T) {
	t.Parallel()

	store, _ := newLocalStore(t)
	e := NewExternalizer(store, Config{})

	owned := storeBase + "/media/image/2026/01/x.png"
	att := e.Externalize(context.Background(), owned, KindImage)
	assert.NoError(t, att.Err)
	assert.Equal(t, owned, att.DurableURL)
	assert.False(t, att.Externalized())
}

func TestExternalizeFallsBackToSource(t *testing.T) {
	t.Parallel()

	store, _ := newLocalStore(t)

	t.Run("http error", func(t *testing.T) {
		srv := mediaServer(t, "image/jpeg", nil, nil)
		att := NewExternalizer(store, Config{}).Externalize(context.Background(), srv.URL+"/missing", KindImage)
		assert.ErrorIs(t, att.Err, ErrDownload)
		assert.Equal(t, srv.URL+"/missing", att.DurableURL)
	})

	t.Run("too large", func(t *testing.T) {
		srv := mediaServer(t, "video/mp4", []byte(strings.Repeat("v", 64)), nil)
		att := NewExternalizer(store, Config{MaxBytes: 16}).Externalize(context.Background(), srv.URL+"/clip.mp4", KindVideo)
		assert.ErrorIs(t, att.Err, ErrTooLarge)
		assert.Equal(t, srv.URL+"/clip.mp4", att.DurableURL)
	})

	t.Run("unreachable", func(t *testing.T) {
		att := NewExternalizer(store, Config{DownloadTimeout: time.Second}).Externalize(context.Background(), "http://127.0.0.1:1/a.ogg", KindAudio)
		assert.ErrorIs(t, att.Err, ErrDownload)
		assert.Equal(t, "http://127.0.0.1:1/a.ogg", att.DurableURL)
	})
}

type failingStore struct{}

func (failingStore) Owns(string) bool { return false }
func (failingStore) Put(context.Context, string, io.Reader, int64, string) (*upload.UploadResult, error) {
	return nil, errors.New("bucket unavailable")
}

func TestExternalizeStoreFailure(t *testing.T) {
	t.Parallel()

	srv := mediaServer(t, "application/pdf", []byte("%PDF"), nil)
	att := NewExternalizer(failingStore{}, Config{}).Externalize(context.Background(), srv.URL+"/doc.pdf", KindDocument)
	assert.ErrorIs(t, att.Err, ErrStore)
	assert.Equal(t, srv.URL+"/doc.pdf", att.DurableURL)
}

func TestExtensionFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".ogg", extensionFor("audio/ogg", "https://x/y"))
	assert.Equal(t, ".docx", extensionFor("application/octet-stream", "https://x/file.docx?sig=1"))
	assert.Equal(t, "", extensionFor("", "https://x/noext"))
}
