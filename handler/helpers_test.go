package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"testing"

	"github.com/Saideva9826/YOLO/config"
	"github.com/Saideva9826/YOLO/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// 1x1 RGBA PNG
const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.FromEnv()
	require.NoError(t, err)
	cfg.Redis.Enabled = false
	return cfg
}

func testPipeline(t *testing.T, dc *config.DetectorConfig) *service.Pipeline {
	t.Helper()
	p, closer, err := service.BuildPipeline(context.Background(), dc, &config.RedisConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer() })
	return p
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func pngBase64(t *testing.T, w, h int) string {
	t.Helper()
	return base64.StdEncoding.EncodeToString(pngBytes(t, w, h))
}
