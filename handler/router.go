package handler

import (
	"net/http"

	"github.com/Saideva9826/YOLO/config"
	"github.com/Saideva9826/YOLO/middleware"
	"github.com/Saideva9826/YOLO/model"
	"github.com/Saideva9826/YOLO/service"
	"github.com/Saideva9826/YOLO/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter 创建带中间件的路由。检测接口同时挂载在根路径和 /api/v1 下。
func NewRouter(cfg *config.Config, pipeline *service.Pipeline) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = cfg.Upload.MaxSize
	r.Use(gin.CustomRecovery(recovery))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger("/health", "/api/v1/health"))
	r.Use(middleware.CORS())

	h := NewAnalyzeHandler(cfg, pipeline)
	register := func(g gin.IRoutes) {
		g.POST("/analyze", h.Analyze)
		g.GET("/health", h.Health)
		g.GET("/classes", h.Classes)
	}
	register(r)
	register(r.Group("/api/v1"))

	return r
}

func recovery(c *gin.Context, err any) {
	utils.Logger.Error("panic recovered",
		zap.Any("error", err),
		zap.String("path", c.Request.URL.Path))
	c.AbortWithStatusJSON(http.StatusInternalServerError, model.ErrorResponse{
		Status: model.StatusError,
		Error:  "Internal server error",
	})
}
