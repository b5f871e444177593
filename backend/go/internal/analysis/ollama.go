package analysis

import (
	"ResearchHub/backend/go/internal/models"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	olla "github.com/ollama/ollama/api"
)

// Ollama 是一个基于本地 Ollama 服务的文档分析客户端。
type Ollama struct {
	client *olla.Client // Ollama 客户端实例。
	model  string       // 要使用的模型名称。
}

// NewOllama 创建一个新的 Ollama 分析客户端。
//
// 参数:
//
//	model: 要使用的模型名称。
//	baseURL: Ollama 服务的基准 URL。如果为空，则默认为 "http://localhost:11434"。
func NewOllama(model, baseURL string) (*Ollama, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	// 创建一个带有超时设置的 HTTP 客户端。
	hc := &http.Client{
		Timeout: 120 * time.Second,
	}

	return &Ollama{client: olla.NewClient(parsedURL, hc), model: model}, nil
}

// Analyze 将文档文本发送给 Ollama 并解析返回的结构化分析。
func (o *Ollama) Analyze(ctx context.Context, title, text string) (models.AnalysisResult, error) {
	stream := false
	var sb strings.Builder

	err := o.client.Generate(ctx, &olla.GenerateRequest{
		Model:  o.model,
		Prompt: buildPrompt(title, text),
		Stream: &stream, // 设置为非流式传输。
	}, func(resp olla.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("failed to generate content with ollama: %w", err)
	}

	return ParseResponse(sb.String())
}

// compile-time check to ensure Ollama implements the Analyzer interface
var _ Analyzer = (*Ollama)(nil)
