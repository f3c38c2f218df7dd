package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecthub/api/internal/config"
)

func TestLocalPutDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	backend, err := NewLocal(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, "photo_abc.png", []byte("png"), "image/png"))
	got, err := os.ReadFile(filepath.Join(dir, "photo_abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(got))

	require.NoError(t, backend.Delete(ctx, "photo_abc.png"))
	_, err = os.Stat(filepath.Join(dir, "photo_abc.png"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, backend.Delete(ctx, "photo_abc.png"), "deleting a missing file is not an error")
}

func TestLocalRejectsTraversal(t *testing.T) {
	backend, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"../evil.png", "a/b.png", "", "."} {
		assert.Error(t, backend.Put(context.Background(), name, []byte("x"), ""), name)
	}
}

func TestS3Key(t *testing.T) {
	backend, err := NewS3(context.Background(), config.S3Config{
		Bucket: "b", Region: "us-east-1", AccessKeyID: "a", SecretAccessKey: "s", Prefix: "/uploads/",
	})
	require.NoError(t, err)
	assert.Equal(t, "uploads/photo_1.jpg", backend.Key("photo_1.jpg"))
}

func TestS3RequiresCredentials(t *testing.T) {
	_, err := NewS3(context.Background(), config.S3Config{Bucket: "b"})
	assert.Error(t, err)
}
