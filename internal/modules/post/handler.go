package post

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/solsticehq/solstice-api/internal/middleware"
	"github.com/solsticehq/solstice-api/internal/models"
	"github.com/solsticehq/solstice-api/internal/modules/newsletter"
	"github.com/solsticehq/solstice-api/internal/pkg/pagination"
	"github.com/solsticehq/solstice-api/internal/pkg/response"
	"go.uber.org/zap"
)

// Notifier fans freshly published content out to newsletter subscribers.
// Implemented by newsletter.Dispatcher.
type Notifier interface {
	NotifySubscribers(ctx context.Context, content newsletter.Content) newsletter.DispatchResult
}

// Handler handles post HTTP requests.
type Handler struct {
	svc      *Service
	notifier Notifier
	logger   *zap.Logger
}

func NewHandler(svc *Service, notifier Notifier, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, notifier: notifier, logger: logger}
}

// RegisterRoutes mounts post routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	posts := rg.Group("/posts")

	posts.GET("", h.list)
	posts.GET("/:slug", h.getBySlug)

	authed := posts.Group("", authMW)
	authed.POST("", h.create)
	authed.PUT("/:slug", h.update)
	authed.PATCH("/:slug/publish", h.publish)
	authed.PATCH("/:slug/unpublish", h.unpublish)
	authed.DELETE("/:slug", h.delete)
}

// list GET /posts
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	posts, pag, err := h.svc.List(q, lq, middleware.IsAuthenticated(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}

	items := make([]postResponse, len(posts))
	for i, p := range posts {
		items[i] = toResponse(&p)
	}
	response.Paged(c, items, pag)
}

// getBySlug GET /posts/:slug
func (h *Handler) getBySlug(c *gin.Context) {
	post, err := h.svc.GetBySlug(c.Param("slug"), middleware.IsAuthenticated(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}
	response.OK(c, toResponse(post))
}

// create POST /posts
func (h *Handler) create(c *gin.Context) {
	var dto CreatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, ErrSlugTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if post.IsPublished {
		h.notifyAsync(post)
	}
	response.Created(c, toResponse(post))
}

// update PUT /posts/:slug
func (h *Handler) update(c *gin.Context) {
	existing, err := h.svc.GetBySlug(c.Param("slug"), true)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if existing == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}

	var dto UpdatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.svc.Update(existing.ID, &dto)
	if err != nil {
		if errors.Is(err, ErrSlugTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, toResponse(post))
}

// publish PATCH /posts/:slug/publish
func (h *Handler) publish(c *gin.Context) {
	existing, err := h.svc.GetBySlug(c.Param("slug"), true)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if existing == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}

	post, firstPublish, err := h.svc.Publish(existing.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if firstPublish {
		h.notifyAsync(post)
	}
	response.OK(c, gin.H{"success": true, "notified": firstPublish})
}

// unpublish PATCH /posts/:slug/unpublish
func (h *Handler) unpublish(c *gin.Context) {
	existing, err := h.svc.GetBySlug(c.Param("slug"), true)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if existing == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}
	if _, err := h.svc.Unpublish(existing.ID); err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"success": true})
}

// delete DELETE /posts/:slug
func (h *Handler) delete(c *gin.Context) {
	existing, err := h.svc.GetBySlug(c.Param("slug"), true)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if existing == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}
	if err := h.svc.Delete(existing.ID); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

// notifyAsync fires the subscriber fan-out without holding the request.
// The dispatch outcome lands in the journal and the log, not the response.
func (h *Handler) notifyAsync(post *models.PostModel) {
	if h.notifier == nil {
		return
	}
	content := newsletter.Content{
		Title:   post.Title,
		Slug:    post.Slug,
		Excerpt: excerptSource(post),
	}
	if len(post.Images) > 0 {
		content.Image = post.Images[0].Src
	}
	go func() {
		res := h.notifier.NotifySubscribers(context.Background(), content)
		if !res.Success {
			h.logger.Warn("post publish fan-out failed",
				zap.String("slug", content.Slug),
				zap.String("reason", res.Reason))
		}
	}()
}

func excerptSource(post *models.PostModel) string {
	if post.Summary != "" {
		return post.Summary
	}
	return post.Text
}
