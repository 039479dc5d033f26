package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/solsticehq/solstice-api/internal/middleware"
	"github.com/solsticehq/solstice-api/internal/pkg/response"
)

type loginDTO struct {
	Password string `json:"password" binding:"required"`
}

// Handler exposes owner login and token introspection.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/auth")
	g.POST("/login", h.login)
	g.GET("/check", authMW, h.check)
}

func (h *Handler) login(c *gin.Context) {
	var dto loginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "password is required")
		return
	}

	token, err := h.svc.Login(dto.Password)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			response.Unauthorized(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"token": token})
}

func (h *Handler) check(c *gin.Context) {
	response.OK(c, gin.H{
		"ok":      true,
		"subject": c.GetString(middleware.ContextKeySubject),
	})
}
