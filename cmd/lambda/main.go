// Command lambda 以 AWS Lambda 函数形式提供目标检测。
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Saideva9826/YOLO/config"
	"github.com/Saideva9826/YOLO/handler"
	"github.com/Saideva9826/YOLO/service"
	"github.com/Saideva9826/YOLO/utils"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := utils.InitLogger(cfg.Server.Mode, "lambda"); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer utils.Sync()

	// 每个 Lambda 容器只初始化一次
	pipeline, closeCache, err := service.BuildPipeline(context.Background(), &cfg.Lambda, &cfg.Redis)
	if err != nil {
		utils.Logger.Fatal("failed to build pipeline", zap.Error(err))
	}
	defer closeCache()

	h := handler.NewServerlessHandler(pipeline, cfg.Lambda.DefaultImageName)
	lambda.Start(h.Handle)
}
