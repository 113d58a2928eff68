package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Saideva9826/YOLO/config"
	"github.com/Saideva9826/YOLO/handler"
	"github.com/Saideva9826/YOLO/service"
	"github.com/Saideva9826/YOLO/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	BuildID   = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

func main() {
	// 加载配置
	cfg := config.New()

	// 初始化日志
	if err := utils.InitLogger(cfg.Server.Mode, "server"); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer utils.Sync()

	utils.Logger.Info("starting YOLO detection server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
		zap.String("git_branch", GitBranch),
		zap.String("detector_mode", cfg.Detector.Mode))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 初始化检测流水线
	pipeline, closeCache, err := service.BuildPipeline(ctx, &cfg.Detector, &cfg.Redis)
	if err != nil {
		utils.Logger.Fatal("failed to build pipeline", zap.Error(err))
	}
	defer closeCache()

	// 设置Gin模式
	gin.SetMode(cfg.Server.Mode)

	r := handler.NewRouter(cfg, pipeline)

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"build_id":   BuildID,
			"git_commit": GitCommit,
			"git_branch": GitBranch,
		})
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	ln, err := net.Listen("tcp", cfg.Server.Port)
	if err != nil {
		utils.Logger.Fatal("failed to listen", zap.Error(err))
	}
	utils.Logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := serve(ctx, srv, ln, 5*time.Second); err != nil {
		utils.Logger.Fatal("failed to start server", zap.Error(err))
	}
	utils.Logger.Info("server stopped")
}

// serve 在 ln 上提供服务。ctx 取消后优雅关闭，进行中的请求处理完（或 grace 超时）才返回
func serve(ctx context.Context, srv *http.Server, ln net.Listener, grace time.Duration) error {
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			utils.Logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	// Shutdown 开始后 Serve 立即返回，需等待 drained
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-drained
	return nil
}
