package review

import (
	"github.com/gin-gonic/gin"

	"github.com/projecthub/api/internal/middleware"
	"github.com/projecthub/api/internal/models"
	"github.com/projecthub/api/internal/pkg/response"
	"github.com/projecthub/api/internal/pkg/validate"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts /reviews and the nested /projects/:id/reviews routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guard *middleware.Guard) {
	rg.GET("/projects/:id/reviews", h.list)
	rg.POST("/projects/:id/reviews", guard.Protect(h.create, models.RoleInstructor))

	reviews := rg.Group("/reviews")
	reviews.GET("", h.list)
	reviews.GET("/:id", h.get)
	reviews.PUT("/:id", guard.Protect(h.update))
	reviews.DELETE("/:id", guard.Protect(h.delete))
}

func (h *Handler) list(c *gin.Context) {
	page, err := h.svc.List(c.Request.Context(), c.Param("id"), c.Request.URL.Query())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, page)
}

func (h *Handler) get(c *gin.Context) {
	r, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, r)
}

func (h *Handler) create(c *gin.Context, who middleware.Identity) {
	var dto CreateReviewDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Error(c, validate.Error(err))
		return
	}
	r, err := h.svc.Create(c.Request.Context(), c.Param("id"), who.ID, &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, r)
}

func (h *Handler) update(c *gin.Context, who middleware.Identity) {
	var dto UpdateReviewDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Error(c, validate.Error(err))
		return
	}
	r, err := h.svc.Update(c.Request.Context(), c.Param("id"), who.ID, &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, r)
}

func (h *Handler) delete(c *gin.Context, who middleware.Identity) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), who.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Empty(c)
}
