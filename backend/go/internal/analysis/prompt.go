package analysis

import (
	"ResearchHub/backend/go/internal/models"
	"encoding/json"
	"fmt"
	"strings"
)

// maxPromptRunes 是发送给模型的文档文本前缀的最大长度。
const maxPromptRunes = 5000

// buildPrompt 构造发送给模型的分析提示词。
// 超过 maxPromptRunes 的文本会被截断，只分析开头部分。
func buildPrompt(title, text string) string {
	sample := text
	if runes := []rune(text); len(runes) > maxPromptRunes {
		sample = string(runes[:maxPromptRunes])
	}

	return fmt.Sprintf(`Analyze this research document titled "%s".

Text: %s

Provide a JSON response with:
{
  "summary": "2-3 sentence summary",
  "keywords": ["keyword1", "keyword2", "keyword3", "keyword4", "keyword5"],
  "entities": ["entity1", "entity2", "entity3"],
  "topic": "main topic category"
}

Respond ONLY with valid JSON, no other text.`, title, sample)
}

// ParseResponse 将模型返回的原始文本解析为 AnalysisResult。
// 模型偶尔会用 markdown 代码块包裹 JSON，解析前先防御性地剥掉围栏标记。
func ParseResponse(raw string) (models.AnalysisResult, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return models.AnalysisResult{}, fmt.Errorf("unparsable analysis response: %w", err)
	}
	return result, nil
}
