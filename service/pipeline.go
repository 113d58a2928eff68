package service

import (
	"context"
	"fmt"

	"github.com/Saideva9826/YOLO/config"
	"github.com/Saideva9826/YOLO/model"
	"github.com/Saideva9826/YOLO/utils"
	"go.uber.org/zap"
)

// Pipeline 解码 -> 检测 -> 组装。无跨请求的可变状态，可并发使用。
type Pipeline struct {
	catalog  *Catalog
	detector Detector
	decoder  Decoder
	cache    Cache
	info     *model.ProcessingInfo
}

type PipelineOption func(*Pipeline)

func WithCache(c Cache) PipelineOption {
	return func(p *Pipeline) {
		if c != nil {
			p.cache = c
		}
	}
}

func WithProcessingInfo(info model.ProcessingInfo) PipelineOption {
	return func(p *Pipeline) {
		p.info = &info
	}
}

func NewPipeline(catalog *Catalog, detector Detector, decoder Decoder, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		catalog:  catalog,
		detector: detector,
		decoder:  decoder,
		cache:    nopCache{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) Catalog() *Catalog {
	return p.catalog
}

// Analyze 对原始图片字节执行检测，返回的错误均为 *Error
func (p *Pipeline) Analyze(ctx context.Context, name string, data []byte) (*model.DetectionResponse, error) {
	if len(data) == 0 {
		return nil, ErrMissingInput("No image data provided")
	}

	key := utils.BytesMD5(data)
	cached, err := p.cache.Get(ctx, key)
	if err != nil {
		utils.Logger.Warn("failed to get cache", zap.Error(err))
	}
	if cached != nil {
		utils.Logger.Debug("cache hit", zap.String("md5", key))
		return p.respond(name, cached), nil
	}

	img, err := p.decoder.Decode(data)
	if err != nil {
		if KindOf(err) == KindInternal {
			return nil, ErrInternal(err)
		}
		return nil, err
	}

	dets, err := p.detector.Detect(ctx, img)
	if err != nil {
		return nil, ErrInternal(fmt.Errorf("detect: %w", err))
	}

	result := &CachedResult{
		Width:      img.Width,
		Height:     img.Height,
		Detections: AssembleAll(dets, p.catalog, img.Width, img.Height, AssembleOptions{}),
	}

	if err := p.cache.Set(ctx, key, result); err != nil {
		utils.Logger.Warn("failed to set cache", zap.Error(err))
	}

	utils.Logger.Info("image analyzed",
		zap.String("image_name", name),
		zap.String("md5", key),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
		zap.Int("detections", len(result.Detections)))

	return p.respond(name, result), nil
}

func (p *Pipeline) respond(name string, result *CachedResult) *model.DetectionResponse {
	resp := model.NewDetectionResponse(name, result.Width, result.Height, result.Detections)
	resp.Status = model.StatusSuccess
	if p.info != nil {
		info := *p.info
		resp.ProcessingInfo = &info
	}
	return resp
}

// BuildPipeline 按配置组装流水线。Redis 不可用时退化为无缓存，
// 返回的 close 函数释放缓存连接。
func BuildPipeline(ctx context.Context, dc *config.DetectorConfig, rc *config.RedisConfig) (*Pipeline, func() error, error) {
	detector, err := NewPlaceholderDetector(dc.Mode)
	if err != nil {
		return nil, nil, err
	}

	opts := []PipelineOption{
		WithProcessingInfo(model.ProcessingInfo{
			Model:        dc.Model,
			Framework:    dc.Framework,
			Deployment:   dc.Deployment,
			Optimization: dc.Optimization,
		}),
	}

	closer := func() error { return nil }
	if rc.Enabled {
		cache := NewRedisCache(rc, "detect:"+dc.Mode+":")
		if err := cache.Ping(ctx); err != nil {
			utils.Logger.Warn("redis connection failed, cache disabled", zap.Error(err))
			_ = cache.Close()
		} else {
			utils.Logger.Info("redis connected successfully")
			opts = append(opts, WithCache(cache))
			closer = cache.Close
		}
	}

	return NewPipeline(COCOCatalog(), detector, NewDecoder(), opts...), closer, nil
}
