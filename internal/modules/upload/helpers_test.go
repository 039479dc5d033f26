package upload

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFileNameKeepsExtension(t *testing.T) {
	name := buildFileName("photo.PNG")
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.Len(t, name, 18+len(".png"))

	assert.True(t, strings.HasSuffix(buildFileName("noext"), ".dat"))
	assert.NotEqual(t, buildFileName("a.jpg"), buildFileName("a.jpg"))
}

func TestBuildObjectKeyExpandsTokens(t *testing.T) {
	now := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	key := buildObjectKey("images/{Y}/{m}/{uuid}.{ext}", "photo.jpg", now)
	assert.True(t, strings.HasPrefix(key, "images/2026/03/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotContains(t, key, "{")

	// Empty template falls back to the default layout.
	key = buildObjectKey("", "photo.webp", now)
	assert.True(t, strings.HasPrefix(key, "images/2026/03/"))
	assert.True(t, strings.HasSuffix(key, ".webp"))

	// Leading slashes and doubled separators are cleaned up.
	key = buildObjectKey("/a//{d}/{uuid}.{ext}", "x.png", now)
	assert.False(t, strings.HasPrefix(key, "/"))
	assert.NotContains(t, key, "//")
}

func TestValidateImage(t *testing.T) {
	require.NoError(t, validateImage("photo.jpg", 1024, 8))
	require.NoError(t, validateImage("photo.webp", 8*1024*1024, 8))

	assert.Error(t, validateImage("archive.zip", 1024, 8))
	assert.Error(t, validateImage("noext", 1024, 8))
	assert.Error(t, validateImage("photo.jpg", 9*1024*1024, 8))
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "image/png", detectContentType("a.png", nil))
	assert.Equal(t, "application/octet-stream", detectContentType("", nil))
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "a.png", safeName("a.png"))
	// Traversal collapses to the base segment.
	assert.Equal(t, "passwd", safeName("../../etc/passwd"))
	assert.Equal(t, "", safeName("a b.png"))
	assert.Equal(t, "", safeName(""))
}
