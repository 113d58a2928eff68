package middleware

import (
	"net/http"
	"time"

	"github.com/Saideva9826/YOLO/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 访问日志，按响应状态选择级别；skipPaths 中的路径（如健康检查）成功时不记录
func Logger(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		if _, ok := skip[path]; ok && status < http.StatusBadRequest {
			return
		}

		level := zapcore.InfoLevel
		switch {
		case status >= http.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case status >= http.StatusBadRequest:
			level = zapcore.WarnLevel
		}

		fields := []zap.Field{
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", status),
			zap.Int("bytes", c.Writer.Size()),
			zap.String("ip", c.ClientIP()),
			zap.Duration("cost", time.Since(start)),
			zap.String("user_agent", c.Request.UserAgent()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if ce := utils.Logger.Check(level, "request"); ce != nil {
			ce.Write(fields...)
		}
	}
}
