// Command yolo2json 将 YOLO 文本检测结果（class_id x_center y_center width height [confidence]）
// 转换为 JSON 检测格式，支持单文件和目录批量模式。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Saideva9826/YOLO/config"
	"github.com/Saideva9826/YOLO/handler"
	"github.com/Saideva9826/YOLO/service"
	"github.com/Saideva9826/YOLO/utils"
	"go.uber.org/zap"
)

var (
	labelPath  string // The YOLO label file, or a directory of label files.
	imageDir   string // The image directory (directory mode only).
	imageName  string // The image name reported in the output (file mode only).
	width      int    // The image width in pixels (file mode only).
	height     int    // The image height in pixels (file mode only).
	outPath    string // The output file (file mode) or directory (directory mode).
	configPath string // Optional config file.
	workers    int    // Concurrent conversions in directory mode; 0 uses the config value.
)

func init() {
	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", filepath.Base(os.Args[0]))
		_, _ = fmt.Fprintln(os.Stderr, "  file mode:\t\t-labels <file> -image-name <name> -width <px> -height <px> [-out <file>]")
		_, _ = fmt.Fprintln(os.Stderr, "  directory mode:\t-labels <dir> -images <dir> -out <dir>")
		_, _ = fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}

	flag.StringVar(&labelPath, "labels", "", "The `path` to a YOLO label file or directory")
	flag.StringVar(&imageDir, "images", "", "The `path` to the image directory (directory mode)")
	flag.StringVar(&imageName, "image-name", "", "The image `name` written to the output (file mode)")
	flag.IntVar(&width, "width", 0, "The image width in `pixels` (file mode)")
	flag.IntVar(&height, "height", 0, "The image height in `pixels` (file mode)")
	flag.StringVar(&outPath, "out", "", "The output `path`; defaults to the label file with a .json extension")
	flag.StringVar(&configPath, "config", "", "The config file `path`")
	flag.IntVar(&workers, "workers", 0, "The number of concurrent conversions (directory mode)")
}

func main() {
	flag.Parse()

	cfg := loadConfig()
	if err := utils.InitLogger(cfg.Server.Mode, "yolo2json"); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer utils.Sync()

	if labelPath == "" {
		printUsageAndExit("Missing -labels")
	}
	if workers <= 0 {
		workers = cfg.Converter.Workers
	}
	converter := handler.NewConverter(service.COCOCatalog(), workers)

	info, err := os.Stat(labelPath)
	if err != nil {
		utils.Logger.Fatal("cannot access labels", zap.Error(err))
	}

	if info.IsDir() {
		if imageDir == "" || outPath == "" {
			printUsageAndExit("Directory mode requires -images and -out")
		}
		n, err := converter.ConvertDir(context.Background(), labelPath, imageDir, outPath, cfg.Converter.OutputSuffix)
		if err != nil {
			utils.Logger.Fatal("conversion failed", zap.Error(err))
		}
		utils.Logger.Info("conversion completed", zap.Int("files", n), zap.String("out", outPath))
		return
	}

	if width <= 0 || height <= 0 {
		printUsageAndExit("File mode requires positive -width and -height")
	}
	if imageName == "" {
		imageName = strings.TrimSuffix(filepath.Base(labelPath), filepath.Ext(labelPath)) + ".jpg"
	}
	if outPath == "" {
		outPath = strings.TrimSuffix(labelPath, filepath.Ext(labelPath)) + cfg.Converter.OutputSuffix
	}

	resp, warnings, err := converter.ConvertFile(labelPath, imageName, width, height)
	if err != nil {
		utils.Logger.Fatal("conversion failed", zap.Error(err))
	}
	if err := handler.WriteJSON(outPath, resp); err != nil {
		utils.Logger.Fatal("failed to write output", zap.Error(err))
	}

	utils.Logger.Info("conversion completed",
		zap.String("out", outPath),
		zap.Int("detections", resp.DetectionCount),
		zap.Int("skipped_lines", len(warnings)))
}

func loadConfig() *config.Config {
	if configPath == "" {
		return config.New()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func printUsageAndExit(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	flag.Usage()
	os.Exit(2)
}
