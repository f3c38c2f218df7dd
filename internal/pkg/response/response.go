package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/projecthub/api/internal/pkg/apperr"
	"github.com/projecthub/api/internal/pkg/query"
	"go.uber.org/zap"
)

// Envelope is the body shape of every JSON response.
type Envelope struct {
	Success    bool              `json:"success"`
	Data       interface{}       `json:"data,omitempty"`
	Count      *int              `json:"count,omitempty"`
	Pagination *query.Pagination `json:"pagination,omitempty"`
	Msg        string            `json:"msg,omitempty"`
	Token      string            `json:"token,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// exposeInternal controls whether 500 responses carry the underlying error text.
var exposeInternal = true

// log receives unexpected errors before they are reported as 500.
var log = zap.NewNop()

// Configure sets production masking and the logger used for server errors.
func Configure(logger *zap.Logger, production bool) {
	if logger != nil {
		log = logger
	}
	exposeInternal = !production
}

// OK sends {success:true, data}.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created sends a 201 with {success:true, data}.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Empty sends {success:true, data:{}} after a delete.
func Empty(c *gin.Context) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: gin.H{}})
}

// Paged sends a Query Builder result page.
func Paged(c *gin.Context, page *query.Result) {
	count := page.Count
	pag := page.Pagination
	c.JSON(http.StatusOK, Envelope{
		Success:    true,
		Count:      &count,
		Pagination: &pag,
		Data:       page.Data,
	})
}

// Token sends {success:true, token}.
func Token(c *gin.Context, token string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Token: token})
}

// Error is the centralised responder: it maps an error kind to a status and a uniform body.
func Error(c *gin.Context, err error) {
	e := apperr.As(err)
	status := e.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	msg := e.Message
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		if exposeInternal && e.Cause != nil {
			msg = e.Cause.Error()
		}
	}
	c.AbortWithStatusJSON(status, Envelope{Success: false, Error: msg})
}

// NotFound answers unknown routes.
func NotFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, Envelope{Success: false, Error: "Route not found"})
}

// MethodNotAllowed answers known routes with an unsupported method.
func MethodNotAllowed(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed, Envelope{Success: false, Error: "Method not allowed"})
}

// TooManyRequests answers rate-limited clients.
func TooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, Envelope{Success: false, Error: "Too many requests, please try again later"})
}
