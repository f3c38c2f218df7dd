package profile

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/projecthub/api/internal/middleware"
	"github.com/projecthub/api/internal/models"
	"github.com/projecthub/api/internal/modules/storage/photo"
	"github.com/projecthub/api/internal/pkg/response"
	"github.com/projecthub/api/internal/pkg/validate"
)

type Handler struct {
	svc    *Service
	photos *photo.Uploader
}

func NewHandler(svc *Service, photos *photo.Uploader) *Handler {
	return &Handler{svc: svc, photos: photos}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guard *middleware.Guard) {
	profiles := rg.Group("/auth/profiles")
	profiles.GET("", h.list)
	profiles.GET("/:id", h.get)
	profiles.POST("", guard.Protect(h.create, models.RoleStudent))
	profiles.PUT("/:id", guard.Protect(h.update))
	profiles.DELETE("/:id", guard.Protect(h.delete))
	profiles.PUT("/:id/photo", guard.Protect(h.uploadPhoto))
}

func (h *Handler) list(c *gin.Context) {
	page, err := h.svc.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, page)
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, p)
}

func (h *Handler) create(c *gin.Context, who middleware.Identity) {
	var dto CreateProfileDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Error(c, validate.Error(err))
		return
	}
	p, err := h.svc.Create(c.Request.Context(), who.ID, &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, p)
}

func (h *Handler) update(c *gin.Context, who middleware.Identity) {
	var dto UpdateProfileDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Error(c, validate.Error(err))
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), who.ID, &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, p)
}

func (h *Handler) delete(c *gin.Context, who middleware.Identity) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), who.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Empty(c)
}

func (h *Handler) uploadPhoto(c *gin.Context, who middleware.Identity) {
	p, err := h.svc.Owned(c.Request.Context(), c.Param("id"), who.ID, "update")
	if err != nil {
		response.Error(c, err)
		return
	}
	name, err := h.photos.Save(c, p.ID, p.Photo, func(ctx context.Context, name string) error {
		return h.svc.SetPhoto(ctx, p.ID, name)
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, name)
}
