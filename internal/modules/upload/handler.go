package upload

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	appcfg "github.com/solsticehq/solstice-api/internal/config"
	"github.com/solsticehq/solstice-api/internal/pkg/response"
	"go.uber.org/zap"
)

// Handler accepts image uploads, writes them to the local static directory
// and optionally mirrors them to S3. Uploading is owner-only; serving is
// public.
type Handler struct {
	cfg    appcfg.UploadConfig
	mirror *S3Mirror
	webURL string
	logger *zap.Logger
}

func NewHandler(cfg appcfg.UploadConfig, mirror *S3Mirror, webURL string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{cfg: cfg, mirror: mirror, webURL: webURL, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/uploads")
	g.POST("", authMW, h.upload)
	g.GET("/:name", h.get)
	g.DELETE("/:name", authMW, h.delete)
}

// upload POST /uploads
func (h *Handler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if err := validateImage(fileHeader.Filename, fileHeader.Size, h.cfg.MaxSizeMB); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer src.Close()
	payload, err := io.ReadAll(src)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	name := buildFileName(fileHeader.Filename)
	if err := os.MkdirAll(h.cfg.Dir, 0o755); err != nil {
		response.InternalError(c, err)
		return
	}
	path := filepath.Join(h.cfg.Dir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		response.InternalError(c, err)
		return
	}

	url := strings.TrimRight(h.webURL, "/") + "/api/uploads/" + name
	mirrored := false
	if h.mirror != nil {
		key := buildObjectKey(h.mirror.keyTemplate, fileHeader.Filename, time.Now())
		contentType := detectContentType(fileHeader.Filename, payload)
		if s3URL, err := h.mirror.Put(c.Request.Context(), key, contentType, payload); err != nil {
			h.logger.Warn("upload mirror failed", zap.String("key", key), zap.Error(err))
		} else {
			url = s3URL
			mirrored = true
		}
	}

	response.Created(c, gin.H{
		"name":     name,
		"url":      url,
		"size":     fileHeader.Size,
		"mirrored": mirrored,
	})
}

// get GET /uploads/:name
func (h *Handler) get(c *gin.Context) {
	name := safeName(c.Param("name"))
	if name == "" {
		response.NotFound(c)
		return
	}
	path := filepath.Join(h.cfg.Dir, name)
	if _, err := os.Stat(path); err != nil {
		response.NotFound(c)
		return
	}
	c.Header("Cache-Control", "public, max-age=31536000")
	c.File(path)
}

// delete DELETE /uploads/:name
func (h *Handler) delete(c *gin.Context) {
	name := safeName(c.Param("name"))
	if name == "" {
		response.NotFound(c)
		return
	}
	path := filepath.Join(h.cfg.Dir, name)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
