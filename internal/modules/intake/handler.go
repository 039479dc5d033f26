package intake

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/solsticehq/solstice-api/internal/models"
	"github.com/solsticehq/solstice-api/internal/modules/newsletter"
	"github.com/solsticehq/solstice-api/internal/pkg/pagination"
	"github.com/solsticehq/solstice-api/internal/pkg/response"
)

// Handler exposes the three public intake forms and the owner-only inbox.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/contact", h.submit(models.InquiryContact))
	rg.POST("/careers", h.submit(models.InquiryCareers))
	rg.POST("/media", h.submit(models.InquiryMedia))

	inbox := rg.Group("/inquiries", authMW)
	inbox.GET("", h.list)
	inbox.PATCH("/:id/read", h.markRead)
	inbox.DELETE("/:id", h.delete)
}

func (h *Handler) submit(kind models.InquiryKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var dto SubmitDTO
		if err := c.ShouldBindJSON(&dto); err != nil {
			response.BadRequest(c, "name, email and message are required")
			return
		}

		rec, err := h.svc.Submit(kind, &dto)
		if err != nil {
			if errors.Is(err, newsletter.ErrInvalidEmail) {
				response.BadRequest(c, err.Error())
				return
			}
			response.InternalError(c, err)
			return
		}
		response.Created(c, gin.H{"success": true, "id": rec.ID})
	}
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	items, pag, err := h.svc.List(q, lq)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]inquiryResponse, len(items))
	for i := range items {
		out[i] = toResponse(&items[i])
	}
	response.Paged(c, out, pag)
}

func (h *Handler) markRead(c *gin.Context) {
	if err := h.svc.MarkRead(c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "inquiry not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"success": true})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "inquiry not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
