package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Saideva9826/YOLO/config"
	"github.com/Saideva9826/YOLO/model"
	"github.com/Saideva9826/YOLO/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedResult 与图片名无关的检测结果
type CachedResult struct {
	Width      int                     `json:"width"`
	Height     int                     `json:"height"`
	Detections []model.DetectionRecord `json:"detections"`
}

// Cache 以图片内容哈希为键的结果缓存，未命中时返回 (nil, nil)
type Cache interface {
	Get(ctx context.Context, key string) (*CachedResult, error)
	Set(ctx context.Context, key string, result *CachedResult) error
}

type nopCache struct{}

func (nopCache) Get(context.Context, string) (*CachedResult, error) { return nil, nil }

func (nopCache) Set(context.Context, string, *CachedResult) error { return nil }

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisCache(cfg *config.RedisConfig, prefix string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisCache{
		client: client,
		ttl:    cfg.TTL,
		prefix: prefix,
	}
}

func (s *RedisCache) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Get 从缓存获取检测结果
func (s *RedisCache) Get(ctx context.Context, key string) (*CachedResult, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // 缓存未命中
		}
		return nil, err
	}

	var result CachedResult
	if err := json.Unmarshal(data, &result); err != nil {
		utils.Logger.Error("failed to unmarshal cached result",
			zap.String("key", key), zap.Error(err))
		return nil, err
	}

	return &result, nil
}

// Set 写入检测结果
func (s *RedisCache) Set(ctx context.Context, key string, result *CachedResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, s.prefix+key, data, s.ttl).Err()
}

func (s *RedisCache) Close() error {
	return s.client.Close()
}
