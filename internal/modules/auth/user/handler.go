package user

import (
	"github.com/gin-gonic/gin"

	"github.com/projecthub/api/internal/middleware"
	"github.com/projecthub/api/internal/models"
	"github.com/projecthub/api/internal/pkg/response"
	"github.com/projecthub/api/internal/pkg/validate"
)

// Handler serves the admin-only user management routes.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guard *middleware.Guard) {
	users := rg.Group("/auth/users")
	users.GET("", guard.Protect(h.list, models.RoleAdmin))
	users.POST("", guard.Protect(h.create, models.RoleAdmin))
	users.GET("/:id", guard.Protect(h.get, models.RoleAdmin))
	users.PUT("/:id", guard.Protect(h.update, models.RoleAdmin))
	users.DELETE("/:id", guard.Protect(h.delete, models.RoleAdmin))
}

func (h *Handler) list(c *gin.Context, _ middleware.Identity) {
	page, err := h.svc.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, page)
}

func (h *Handler) get(c *gin.Context, _ middleware.Identity) {
	u, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, u)
}

func (h *Handler) create(c *gin.Context, _ middleware.Identity) {
	var dto CreateUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Error(c, validate.Error(err))
		return
	}
	u, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, u)
}

func (h *Handler) update(c *gin.Context, _ middleware.Identity) {
	var dto UpdateUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Error(c, validate.Error(err))
		return
	}
	u, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, u)
}

func (h *Handler) delete(c *gin.Context, _ middleware.Identity) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Empty(c)
}
