// Package photo stores uploaded entity photos under a deterministic name.
package photo

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/projecthub/api/internal/pkg/apperr"
	"github.com/projecthub/api/internal/pkg/storage"
)

// FormField is the multipart field carrying the photo.
const FormField = "file"

// Uploader validates a photo upload, stores it and hands the stored name to the caller.
type Uploader struct {
	backend storage.Backend
	maxSize int64
	log     *zap.Logger
}

func NewUploader(backend storage.Backend, maxSize int64, log *zap.Logger) *Uploader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Uploader{backend: backend, maxSize: maxSize, log: log}
}

// FileName is the stored name of an entity's photo.
func FileName(id primitive.ObjectID, original string) string {
	return "photo_" + id.Hex() + filepath.Ext(filepath.Base(original))
}

// Save stores the request's photo as photo_<id><ext> and then calls apply with the
// stored name. current is the photo the entity references now. When apply fails the
// stored file is removed again, unless it has the current photo's name.
func (u *Uploader) Save(c *gin.Context, id primitive.ObjectID, current string, apply func(ctx context.Context, name string) error) (string, error) {
	fh, err := c.FormFile(FormField)
	if err != nil {
		return "", apperr.Upload("Please upload a file")
	}
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image") {
		return "", apperr.Upload("Please upload an image file")
	}
	if fh.Size > u.maxSize {
		return "", apperr.Upload("Please upload an image less than %d", u.maxSize)
	}

	f, err := fh.Open()
	if err != nil {
		return "", apperr.UploadFailed(err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, u.maxSize+1))
	if err != nil {
		return "", apperr.UploadFailed(err)
	}
	if int64(len(data)) > u.maxSize {
		return "", apperr.Upload("Please upload an image less than %d", u.maxSize)
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", apperr.Upload("Please upload an image file")
	}

	ctx := c.Request.Context()
	name := FileName(id, fh.Filename)
	if err := u.backend.Put(ctx, name, data, contentType); err != nil {
		return "", apperr.UploadFailed(err)
	}

	if err := apply(ctx, name); err != nil {
		if name == current {
			return "", err
		}
		if delErr := u.backend.Delete(context.WithoutCancel(ctx), name); delErr != nil {
			u.log.Error("orphaned photo after failed update",
				zap.String("file", name),
				zap.Error(delErr),
			)
		}
		return "", err
	}
	return name, nil
}
