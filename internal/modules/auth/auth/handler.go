package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/projecthub/api/internal/middleware"
	"github.com/projecthub/api/internal/pkg/response"
	"github.com/projecthub/api/internal/pkg/validate"
)

// CookieOptions controls the token cookie set on register and login.
type CookieOptions struct {
	TTL    time.Duration
	Secure bool
}

type Handler struct {
	svc    *Service
	cookie CookieOptions
}

func NewHandler(svc *Service, cookie CookieOptions) *Handler {
	return &Handler{svc: svc, cookie: cookie}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guard *middleware.Guard) {
	a := rg.Group("/auth")
	a.POST("/register", h.register)
	a.POST("/login", h.login)
	a.GET("/logout", h.logout)
	a.GET("/me", guard.Protect(h.me))
}

func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Error(c, validate.Error(err))
		return
	}
	token, err := h.svc.Register(c.Request.Context(), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.sendToken(c, token)
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Error(c, validate.Error(err))
		return
	}
	token, err := h.svc.Login(c.Request.Context(), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.sendToken(c, token)
}

func (h *Handler) me(c *gin.Context, who middleware.Identity) {
	response.OK(c, who.User)
}

func (h *Handler) logout(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "none",
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Second),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
	})
	response.Empty(c)
}

func (h *Handler) sendToken(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.cookie.TTL),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	response.Token(c, token)
}
