package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/Saideva9826/YOLO/model"
	"github.com/Saideva9826/YOLO/service"
	"github.com/Saideva9826/YOLO/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Converter 将 YOLO 文本标注转换为 JSON 检测结果
type Converter struct {
	catalog *service.Catalog
	workers int
}

func NewConverter(catalog *service.Catalog, workers int) *Converter {
	if workers < 1 {
		workers = 1
	}
	return &Converter{catalog: catalog, workers: workers}
}

// Convert 转换标注流。格式错误的行被跳过、记录日志，并作为警告返回。
func (c *Converter) Convert(r io.Reader, imageName string, width, height int) (*model.DetectionResponse, []service.AnnotationWarning, error) {
	dets, warnings, err := service.ReadAnnotations(r)
	if err != nil {
		return nil, nil, service.ErrInternal(err)
	}

	for _, w := range warnings {
		utils.Logger.Warn("skipping invalid line",
			zap.String("image_name", imageName),
			zap.Int("line", w.Line),
			zap.Error(w.Err))
	}

	records := service.AssembleAll(dets, c.catalog, width, height, service.AssembleOptions{IncludeNormalized: true})
	return model.NewDetectionResponse(imageName, width, height, records), warnings, nil
}

// ConvertFile 转换单个标注文件。文件不存在时返回空结果（detection_count 为 0）
func (c *Converter) ConvertFile(path, imageName string, width, height int) (resp *model.DetectionResponse, warnings []service.AnnotationWarning, err error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			utils.Logger.Warn("annotation file not found, writing empty result", zap.String("path", path))
			return model.NewDetectionResponse(imageName, width, height, nil), nil, nil
		}
		return nil, nil, service.ErrInternal(err)
	}
	defer closeWithErrCheck(f, &err)

	return c.Convert(f, imageName, width, height)
}

// WriteJSON 以两空格缩进写出结果
func WriteJSON(path string, resp *model.DetectionResponse) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %q: %w", path, err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

// ConvertDir 转换 labelDir 下的全部 .txt 文件。图片按文件名（不含扩展名）在
// imageDir 中匹配，尺寸取自图片头。找不到图片或转换失败的文件被跳过。
// 返回成功写出的文件数。
func (c *Converter) ConvertDir(ctx context.Context, labelDir, imageDir, outDir, suffix string) (int, error) {
	labels, err := filesByExt(labelDir, ".txt")
	if err != nil {
		return 0, err
	}
	images, err := filesByExt(imageDir, "")
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("create output directory: %w", err)
	}

	imageByBase := make(map[string]string, len(images))
	for _, p := range images {
		switch strings.ToLower(filepath.Ext(p)) {
		case ".txt", ".json":
			continue
		}
		imageByBase[baseNoExt(p)] = p
	}

	utils.Logger.Info("converting annotations",
		zap.String("labels", labelDir),
		zap.Int("files", len(labels)),
		zap.Int("workers", c.workers))

	var converted atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for _, labelPath := range labels {
		labelPath := labelPath
		base := baseNoExt(labelPath)
		imagePath, ok := imageByBase[base]
		if !ok {
			utils.Logger.Warn("no corresponding image file, skipping", zap.String("labels", labelPath))
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := c.convertPair(labelPath, imagePath, filepath.Join(outDir, base+suffix)); err != nil {
				utils.Logger.Warn("conversion failed, skipping",
					zap.String("labels", labelPath), zap.Error(err))
				return nil
			}
			converted.Add(1)
			return nil
		})
	}

	err = g.Wait()
	return int(converted.Load()), err
}

func (c *Converter) convertPair(labelPath, imagePath, outPath string) error {
	cfg, err := decodeImageConfig(imagePath)
	if err != nil {
		return fmt.Errorf("read image size %q: %w", imagePath, err)
	}

	resp, _, err := c.ConvertFile(labelPath, filepath.Base(imagePath), cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	return WriteJSON(outPath, resp)
}

func decodeImageConfig(path string) (cfg image.Config, err error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, err
	}
	defer closeWithErrCheck(f, &err)

	cfg, _, err = image.DecodeConfig(f)
	return cfg, err
}

// filesByExt 返回 dir 下扩展名为 ext 的普通文件，ext 为空时返回全部文件
func filesByExt(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %q: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

func baseNoExt(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// closeWithErrCheck 关闭 c，若 *e 为 nil 则记录关闭错误
func closeWithErrCheck(c io.Closer, e *error) {
	if err := c.Close(); err != nil && *e == nil {
		*e = err
	}
}
