package upload

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalProviderPutAndDelete(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p, err := NewLocalProvider(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	res, err := p.Put(context.Background(), "media/image/2026/01/abc.jpg", strings.NewReader("jpegdata"), 8, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/media/image/2026/01/abc.jpg", res.URL)
	assert.Equal(t, int64(8), res.Size)
	assert.Equal(t, "image", res.ResourceType)

	data, err := os.ReadFile(filepath.Join(dir, "media/image/2026/01/abc.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpegdata", string(data))

	require.NoError(t, p.Delete(context.Background(), res.Key))
	assert.Error(t, p.Delete(context.Background(), res.Key))
}

func TestLocalProviderKeysStayInsideBase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p, err := NewLocalProvider(dir, "http://localhost/uploads")
	require.NoError(t, err)

	_, err = p.Put(context.Background(), "../../escape.txt", strings.NewReader("x"), 1, "text/plain")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "escape.txt"))
	assert.NoError(t, err)
}

func TestServiceOwns(t *testing.T) {
	t.Parallel()

	p, err := NewLocalProvider(t.TempDir(), "https://cdn.example.com/uploads")
	require.NoError(t, err)
	svc := NewService(p)

	assert.True(t, svc.Owns("https://cdn.example.com/uploads/media/a.png"))
	assert.False(t, svc.Owns("https://cdn.example.com/uploads-other/a.png"))
	assert.False(t, svc.Owns("https://mmg.whatsapp.net/a.png"))
	assert.False(t, svc.Owns(""))
}

func TestDetectResourceType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "image", detectResourceType("a.bin", "image/png"))
	assert.Equal(t, "video", detectResourceType("clip.mp4", ""))
	assert.Equal(t, "raw", detectResourceType("doc.pdf", "application/pdf"))
	assert.Equal(t, "video", cloudinaryResourceType("voice.ogg", "audio/ogg"))
}
