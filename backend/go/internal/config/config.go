package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RedisConfig 定义了 Redis 数据库的连接配置。
type RedisConfig struct {
	Address  string `yaml:"address"`  // Redis 服务器地址 (例如: "localhost:6379")
	Password string `yaml:"password"` // Redis 密码
	DB       int    `yaml:"db"`       // Redis 数据库编号
}

// MinIOConfig 定义了 MinIO 对象存储的连接配置。
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`  // MinIO 服务端点
	AccessKey string `yaml:"accessKey"` // 访问密钥
	SecretKey string `yaml:"secretKey"` // Secret 密钥
	Bucket    string `yaml:"bucket"`    // 原始文件归档使用的存储桶名称
	Secure    bool   `yaml:"secure"`    // 是否使用HTTPS
}

// DatabaseConfigs 包含所有外部存储的配置。
type DatabaseConfigs struct {
	Redis RedisConfig `yaml:"redis"` // Redis 数据库配置
	MinIO MinIOConfig `yaml:"minio"` // MinIO 对象存储配置
}

// LLMConfig 包含了不同分析服务提供商的配置。
type LLMConfig struct {
	Provider       string       `yaml:"provider"`       // 提供商 (例如: "openai", "gemini", "ollama")
	TimeoutSeconds int          `yaml:"timeoutSeconds"` // 单次分析调用的超时时间 (秒)，0 表示默认 60 秒
	OpenAI         OpenAIConfig `yaml:"openai"`         // OpenAI 模型配置
	Gemini         GeminiConfig `yaml:"gemini"`         // Gemini 模型配置
	Ollama         OllamaConfig `yaml:"ollama"`         // Ollama 模型配置
}

// OpenAIConfig 包含了 OpenAI 模型的配置。
type OpenAIConfig struct {
	APIKey string `yaml:"apiKey"` // OpenAI API 密钥
	Model  string `yaml:"model"`  // 模型名称
}

// GeminiConfig 包含了 Gemini 模型的配置。
type GeminiConfig struct {
	APIKey string `yaml:"apiKey"` // Gemini API 密钥
	Model  string `yaml:"model"`  // 模型名称
}

// OllamaConfig 包含了 Ollama 本地模型的配置。
type OllamaConfig struct {
	BaseURL string `yaml:"baseURL"` // Ollama 服务地址，为空时使用默认值
	Model   string `yaml:"model"`   // 模型名称
}

// UploadConfig 定义了文件上传的限制。
type UploadConfig struct {
	MaxSizeMB       int      `yaml:"maxSizeMB"`       // 单个文件的最大体积 (MB)，0 表示默认 16MB
	AllowedPatterns []string `yaml:"allowedPatterns"` // 允许上传的文件名 glob 模式列表
}

// ServerConfig 定义了 HTTP 服务的监听配置。
type ServerConfig struct {
	Address string `yaml:"address"` // 监听地址 (例如: ":8080")
}

// RateLimiterConfig 定义了上传接口限流器的配置。
type RateLimiterConfig struct {
	Enabled  bool    `yaml:"enabled"`  // 是否启用限流
	Rate     float64 `yaml:"rate"`     // 每秒生成的令牌数
	Capacity int     `yaml:"capacity"` // 令牌桶容量 (突发大小)
}

// MiddlewareConfig 包含所有中间件的配置。
type MiddlewareConfig struct {
	RateLimiter RateLimiterConfig `yaml:"rateLimiter"`
}

// AppInfo 对应 'app' 部分，包含应用程序的基本信息。
type AppInfo struct {
	Name        string `yaml:"name"`        // 应用程序名称
	Version     string `yaml:"version"`     // 应用程序版本
	Environment string `yaml:"environment"` // 运行环境 (例如: "development", "production")
}

// LoggerConfig 定义了日志记录器的配置。
type LoggerConfig struct {
	Level string `yaml:"level"` // 日志级别 (例如: "info", "debug", "warn", "error")
}

// AppConfig 是整个 YAML 文件的根结构，包含了应用程序的所有配置。
type AppConfig struct {
	App        AppInfo          `yaml:"app"`        // 应用程序信息
	Server     ServerConfig     `yaml:"server"`     // HTTP 服务配置
	Logger     LoggerConfig     `yaml:"logger"`     // 日志记录器配置
	Upload     UploadConfig     `yaml:"upload"`     // 上传限制配置
	LLM        LLMConfig        `yaml:"llm"`        // 分析服务配置
	Databases  DatabaseConfigs  `yaml:"databases"`  // 外部存储配置
	Middleware MiddlewareConfig `yaml:"middleware"` // 中间件配置
}

// LoadConfig 从指定路径读取并解析 YAML 配置文件。
func LoadConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取配置文件 %s: %w", path, err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("无法解析配置文件 %s: %w", path, err)
	}

	return &cfg, nil
}
