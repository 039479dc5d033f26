package newsletter

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/solsticehq/solstice-api/internal/pkg/dispatchlog"
	"github.com/solsticehq/solstice-api/internal/pkg/pagination"
	"github.com/solsticehq/solstice-api/internal/pkg/response"
)

type subscribeDTO struct {
	Email  string `json:"email" binding:"required"`
	Source string `json:"source"`
}

type unsubscribeDTO struct {
	Email string `json:"email"`
}

// Handler exposes the newsletter HTTP surface. Subscribe and unsubscribe are
// public; the subscriber listing, stats and dispatch journal are owner-only.
type Handler struct {
	svc     *Service
	query   *QueryService
	journal *dispatchlog.Service
}

func NewHandler(svc *Service, query *QueryService, journal *dispatchlog.Service) *Handler {
	return &Handler{svc: svc, query: query, journal: journal}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/newsletter")
	{
		g.POST("/subscribe", h.subscribe)
		g.POST("/unsubscribe", h.unsubscribe)
		// Unsubscribe links in email footers arrive as plain GETs.
		g.GET("/unsubscribe", h.unsubscribe)

		g.GET("/subscribers", authMW, h.listSubscribers)
		g.GET("/stats", authMW, h.stats)
		g.GET("/dispatches", authMW, h.listDispatches)
	}
}

func (h *Handler) subscribe(c *gin.Context) {
	var dto subscribeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "email is required")
		return
	}

	res, err := h.svc.Subscribe(dto.Email, SubscribeMeta{Source: dto.Source})
	if err != nil {
		if errors.Is(err, ErrInvalidEmail) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if res.Created {
		response.Created(c, res)
		return
	}
	response.OK(c, res)
}

func (h *Handler) unsubscribe(c *gin.Context) {
	var dto unsubscribeDTO
	if c.Request.Method == "GET" {
		dto.Email = c.Query("email")
	} else if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "email is required")
		return
	}

	res, err := h.svc.Unsubscribe(dto.Email)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidEmail):
			response.BadRequest(c, err.Error())
		case errors.Is(err, ErrNotFound):
			response.NotFoundMsg(c, "subscriber not found")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, res)
}

func (h *Handler) listSubscribers(c *gin.Context) {
	q := pagination.FromContext(c)
	subs, pg, err := h.query.Search(c.Query("q"), SearchOptions{
		Page:      q.Page,
		Size:      q.Size,
		Status:    c.Query("status"),
		SortField: c.Query("sortField"),
		SortOrder: c.Query("sortOrder"),
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, subs, pg)
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.query.GetStats()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, stats)
}

func (h *Handler) listDispatches(c *gin.Context) {
	if h.journal == nil {
		response.OK(c, gin.H{"data": []interface{}{}, "total": 0})
		return
	}
	q := pagination.FromContext(c)
	records, total, err := h.journal.List(c.Request.Context(), q.Page, q.Size)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	totalPages := int(total) / q.Size
	if int(total)%q.Size != 0 {
		totalPages++
	}
	response.Paged(c, records, response.Pagination{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   totalPages,
		Size:        q.Size,
		HasNextPage: q.Page < totalPages,
	})
}
