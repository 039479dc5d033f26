package upload

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var allowedExts = map[string]struct{}{
	"png": {}, "jpg": {}, "jpeg": {}, "gif": {}, "webp": {}, "svg": {}, "avif": {},
}

// buildFileName generates a collision-resistant filename that preserves the
// original extension.
func buildFileName(original string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(original)))
	if ext == "" || len(ext) > 10 {
		ext = ".dat"
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:18] + ext
}

// buildObjectKey expands the configured key template with date, uuid and
// extension tokens. An empty template falls back to images/{Y}/{m}/{uuid}.{ext}.
func buildObjectKey(template, originalName string, now time.Time) string {
	tpl := strings.TrimSpace(template)
	if tpl == "" {
		tpl = "images/{Y}/{m}/{uuid}.{ext}"
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(originalName)), ".")
	if ext == "" {
		ext = "dat"
	}
	uuidValue := strings.ReplaceAll(uuid.NewString(), "-", "")

	replacer := strings.NewReplacer(
		"{Y}", now.Format("2006"),
		"{m}", now.Format("01"),
		"{d}", now.Format("02"),
		"{uuid}", uuidValue,
		"{ext}", ext,
	)
	key := strings.TrimPrefix(replacer.Replace(tpl), "/")
	for strings.Contains(key, "//") {
		key = strings.ReplaceAll(key, "//", "/")
	}
	if key == "" {
		return fmt.Sprintf("images/%s/%s/%s.%s", now.Format("2006"), now.Format("01"), uuidValue, ext)
	}
	return key
}

// validateImage checks extension and size against the configured limit.
func validateImage(filename string, size int64, maxSizeMB int) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(strings.TrimSpace(filename))), ".")
	if ext == "" {
		return fmt.Errorf("file extension is required")
	}
	if _, ok := allowedExts[ext]; !ok {
		return fmt.Errorf("image format .%s is not allowed", ext)
	}
	if maxSizeMB > 0 && size > int64(maxSizeMB)*1024*1024 {
		return fmt.Errorf("image size exceeds %dMB", maxSizeMB)
	}
	return nil
}

// detectContentType sniffs the MIME type from the extension or the payload.
func detectContentType(filename string, payload []byte) string {
	if ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename))); ext != "" {
		if guessed := mime.TypeByExtension(ext); guessed != "" {
			return guessed
		}
	}
	if len(payload) > 0 {
		return http.DetectContentType(payload)
	}
	return "application/octet-stream"
}

// safeName returns the base name of raw only when it is a clean path segment.
func safeName(raw string) string {
	name := filepath.Base(strings.TrimSpace(raw))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return ""
	}
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			continue
		}
		return ""
	}
	return name
}
