package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyFilename(t *testing.T) {
	day := time.Date(2024, time.March, 7, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "stdout_3-7-24.log", DailyFilename(day))
}

func TestNewWritesDailyFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	log, err := New(Options{Production: true, Dir: dir})
	require.NoError(t, err)

	log.Info("server started")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(dir, DailyFilename(time.Now())))
	require.NoError(t, err)
	assert.Contains(t, string(content), "server started")
}
