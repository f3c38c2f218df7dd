package category

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
	cats := rg.Group("/categories")
	cats.GET("", h.list)
	cats.GET("/:id", h.get)

	cats.POST("", guard.Protect(h.create, models.RoleAdmin))
	cats.DELETE("", guard.Protect(h.deleteAll, models.RoleAdmin))
	cats.PUT("/:id", guard.Protect(h.update, models.RoleAdmin))
	cats.DELETE("/:id", guard.Protect(h.delete, models.RoleAdmin))
	cats.PUT("/:id/photo", guard.Protect(h.uploadPhoto, models.RoleAdmin))
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
	cat, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, cat)
}

func (h *Handler) create(c *gin.Context, _ middleware.Identity) {
	var dto CreateCategoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Error(c, validate.Error(err))
		return
	}
	cat, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cat)
}

func (h *Handler) update(c *gin.Context, _ middleware.Identity) {
	var dto UpdateCategoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Error(c, validate.Error(err))
		return
	}
	cat, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, cat)
}

func (h *Handler) delete(c *gin.Context, _ middleware.Identity) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Empty(c)
}

func (h *Handler) deleteAll(c *gin.Context, _ middleware.Identity) {
	if _, err := h.svc.DeleteAll(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.Empty(c)
}

func (h *Handler) uploadPhoto(c *gin.Context, _ middleware.Identity) {
	cat, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	name, err := h.photos.Save(c, cat.ID, cat.Photo, func(ctx context.Context, name string) error {
		return h.svc.SetPhoto(ctx, cat.ID, name)
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, name)
}
