package analysis

import (
	"ResearchHub/backend/go/internal/models"
	"context"
	"fmt"

	openai "github.com/meguminnnnnnnnn/go-openai"
)

// OpenAI 是一个基于 OpenAI API 的文档分析客户端。
type OpenAI struct {
	client *openai.Client // OpenAI 客户端实例。
	model  string         // 要使用的模型名称。
}

// NewOpenAI 创建一个新的 OpenAI 分析客户端。
func NewOpenAI(model string, apiKey string) (*OpenAI, error) {
	config := openai.DefaultConfig(apiKey)
	client := openai.NewClientWithConfig(config)
	return &OpenAI{
		client: client,
		model:  model,
	}, nil
}

// Analyze 将文档文本发送给 OpenAI 并解析返回的结构化分析。
func (o *OpenAI) Analyze(ctx context.Context, title, text string) (models.AnalysisResult, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(title, text),
			},
		},
	})
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return models.AnalysisResult{}, fmt.Errorf("openai response contained no choices")
	}

	return ParseResponse(resp.Choices[0].Message.Content)
}

// compile-time check to ensure OpenAI implements the Analyzer interface
var _ Analyzer = (*OpenAI)(nil)
