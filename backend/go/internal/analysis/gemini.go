package analysis

import (
	"ResearchHub/backend/go/internal/models"
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini 是一个基于 Gemini API 的文档分析客户端。
type Gemini struct {
	model *genai.GenerativeModel // Gemini 生成模型实例。
}

// NewGemini 创建一个新的 Gemini 分析客户端。
//
// 参数:
//
//	ctx: 上下文，用于控制客户端的生命周期。
//	model: 要使用的 Gemini 模型名称。
//	apiKey: Gemini API 密钥。
func NewGemini(ctx context.Context, model, apiKey string) (*Gemini, error) {
	// 使用 API 密钥创建 GenAI 客户端。
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &Gemini{
		model: client.GenerativeModel(model),
	}, nil
}

// Analyze 将文档文本发送给 Gemini 并解析返回的结构化分析。
func (g *Gemini) Analyze(ctx context.Context, title, text string) (models.AnalysisResult, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(buildPrompt(title, text)))
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("failed to generate content with gemini: %w", err)
	}

	// 将所有候选内容中的文本部分拼接为一个完整的响应字符串。
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
	}

	if sb.Len() == 0 {
		return models.AnalysisResult{}, fmt.Errorf("gemini response was empty or in an unexpected format")
	}

	return ParseResponse(sb.String())
}

// compile-time check to ensure Gemini implements the Analyzer interface
var _ Analyzer = (*Gemini)(nil)
