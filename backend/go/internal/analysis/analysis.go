package analysis

import (
	"ResearchHub/backend/go/internal/config"
	"ResearchHub/backend/go/internal/models"
	"context"
	"fmt"
)

// Analyzer 定义了所有文档分析客户端必须实现的通用接口。
// 实现者将文档文本发送给一个大型语言模型，并返回结构化的分析结果。
// 任何传输失败或响应解析失败都以 error 返回，由调用方决定是否降级。
type Analyzer interface {
	Analyze(ctx context.Context, title, text string) (models.AnalysisResult, error)
}

// NewClient 是一个工厂函数，根据提供的配置创建并返回一个实现了 Analyzer 接口的客户端。
func NewClient(cfg config.LLMConfig) (Analyzer, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAI(cfg.OpenAI.Model, cfg.OpenAI.APIKey)
	case "gemini":
		return NewGemini(context.Background(), cfg.Gemini.Model, cfg.Gemini.APIKey)
	case "ollama":
		return NewOllama(cfg.Ollama.Model, cfg.Ollama.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported analysis provider: %s", cfg.Provider)
	}
}
