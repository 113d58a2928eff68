package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 YOLO_SERVER_PORT
const EnvPrefix = "YOLO"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Detector  DetectorConfig  `mapstructure:"detector"`
	Lambda    DetectorConfig  `mapstructure:"lambda"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Converter ConverterConfig `mapstructure:"converter"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type UploadConfig struct {
	MaxSize          int64  `mapstructure:"max_size"`
	FieldName        string `mapstructure:"field_name"`
	DefaultImageName string `mapstructure:"default_image_name"`
}

// DetectorConfig 占位检测器及 processing_info 的配置
type DetectorConfig struct {
	Mode             string `mapstructure:"mode"` // fixed, threshold
	Model            string `mapstructure:"model"`
	Framework        string `mapstructure:"framework"`
	Version          string `mapstructure:"version"`
	Optimization     string `mapstructure:"optimization"`
	Deployment       string `mapstructure:"deployment"`
	DefaultImageName string `mapstructure:"default_image_name"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type ConverterConfig struct {
	Workers      int    `mapstructure:"workers"`
	OutputSuffix string `mapstructure:"output_suffix"`
}

// Load 从 YAML 文件加载配置
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

// FromEnv 仅使用默认值和环境变量，适用于没有配置文件的 Lambda 环境
func FromEnv() (*Config, error) {
	return unmarshal(newViper())
}

// New 使用默认配置路径加载配置
func New() *Config {
	cfg, err := Load("config.yaml")
	if err != nil {
		// 如果加载失败，使用默认值和环境变量
		if cfg, err = FromEnv(); err != nil {
			return getDefaultConfig()
		}
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := getDefaultConfig()

	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("server.mode", def.Server.Mode)
	v.SetDefault("server.read_timeout", def.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", def.Server.WriteTimeout)

	v.SetDefault("upload.max_size", def.Upload.MaxSize)
	v.SetDefault("upload.field_name", def.Upload.FieldName)
	v.SetDefault("upload.default_image_name", def.Upload.DefaultImageName)

	setDetectorDefaults(v, "detector", def.Detector)
	setDetectorDefaults(v, "lambda", def.Lambda)

	v.SetDefault("redis.enabled", def.Redis.Enabled)
	v.SetDefault("redis.addr", def.Redis.Addr)
	v.SetDefault("redis.password", def.Redis.Password)
	v.SetDefault("redis.db", def.Redis.DB)
	v.SetDefault("redis.ttl", def.Redis.TTL)

	v.SetDefault("converter.workers", def.Converter.Workers)
	v.SetDefault("converter.output_suffix", def.Converter.OutputSuffix)
}

func setDetectorDefaults(v *viper.Viper, prefix string, d DetectorConfig) {
	v.SetDefault(prefix+".mode", d.Mode)
	v.SetDefault(prefix+".model", d.Model)
	v.SetDefault(prefix+".framework", d.Framework)
	v.SetDefault(prefix+".version", d.Version)
	v.SetDefault(prefix+".optimization", d.Optimization)
	v.SetDefault(prefix+".deployment", d.Deployment)
	v.SetDefault(prefix+".default_image_name", d.DefaultImageName)
}

func getDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":8080",
			Mode:         "debug",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Upload: UploadConfig{
			MaxSize:          10 * 1024 * 1024,
			FieldName:        "image",
			DefaultImageName: "uploaded_image.jpg",
		},
		Detector: DetectorConfig{
			Mode:             "fixed",
			Model:            "YOLOv5 (Mock)",
			Framework:        "PyTorch",
			Version:          "1.0.0",
			Optimization:     "Enabled",
			DefaultImageName: "uploaded_image.jpg",
		},
		Lambda: DetectorConfig{
			Mode:             "threshold",
			Model:            "YOLOv5-Lambda",
			Framework:        "PyTorch",
			Version:          "1.0.0",
			Optimization:     "Enabled for serverless",
			Deployment:       "AWS Lambda",
			DefaultImageName: "lambda_image.jpg",
		},
		Redis: RedisConfig{
			Enabled:  false,
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
			TTL:      10 * time.Minute,
		},
		Converter: ConverterConfig{
			Workers:      4,
			OutputSuffix: ".json",
		},
	}
}
