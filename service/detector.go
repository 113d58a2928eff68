package service

import (
	"context"
	"fmt"
	"image"
)

// RawDetection 模型输出的归一化检测结果
type RawDetection struct {
	ClassID    int
	Confidence float64
	CenterX    float64
	CenterY    float64
	Width      float64
	Height     float64
}

// ImageDescriptor 解码后的图片，Pixels 已转换为 RGB 等价形式
type ImageDescriptor struct {
	Width  int
	Height int
	Pixels *image.NRGBA
}

// Detector 目标检测能力。实现必须无副作用，可被多个请求并发调用。
type Detector interface {
	Detect(ctx context.Context, img ImageDescriptor) ([]RawDetection, error)
}

const (
	DetectorModeFixed     = "fixed"
	DetectorModeThreshold = "threshold"
)

// PlaceholderDetector 根据图片尺寸生成固定的检测结果，代替真实模型
type PlaceholderDetector struct {
	mode string
}

func NewPlaceholderDetector(mode string) (*PlaceholderDetector, error) {
	switch mode {
	case DetectorModeFixed, DetectorModeThreshold:
		return &PlaceholderDetector{mode: mode}, nil
	default:
		return nil, fmt.Errorf("unknown detector mode %q", mode)
	}
}

func (d *PlaceholderDetector) Detect(_ context.Context, img ImageDescriptor) ([]RawDetection, error) {
	if d.mode == DetectorModeThreshold {
		return thresholdDetections(img.Width, img.Height), nil
	}
	return []RawDetection{
		{ClassID: 0, Confidence: 0.95, CenterX: 0.5, CenterY: 0.4, Width: 0.2, Height: 0.6},
		{ClassID: 2, Confidence: 0.88, CenterX: 0.7, CenterY: 0.7, Width: 0.3, Height: 0.2},
	}, nil
}

// 宽图假定有车，高图假定有人
func thresholdDetections(width, height int) []RawDetection {
	dets := make([]RawDetection, 0, 2)
	if width > 500 {
		dets = append(dets, RawDetection{ClassID: 2, Confidence: 0.89, CenterX: 0.6, CenterY: 0.7, Width: 0.25, Height: 0.15})
	}
	if height > 400 {
		dets = append(dets, RawDetection{ClassID: 0, Confidence: 0.92, CenterX: 0.3, CenterY: 0.5, Width: 0.15, Height: 0.4})
	}
	return dets
}
