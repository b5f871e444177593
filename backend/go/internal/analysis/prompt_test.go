package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt_TruncatesLongText(t *testing.T) {
	long := strings.Repeat("字", maxPromptRunes+500)

	prompt := buildPrompt("paper", long)

	assert.Contains(t, prompt, `titled "paper"`)
	// The sample inside the prompt is capped at maxPromptRunes runes.
	assert.Equal(t, maxPromptRunes, strings.Count(prompt, "字"))
}

func TestBuildPrompt_ShortTextUnchanged(t *testing.T) {
	prompt := buildPrompt("notes", "Alice met Bob.")
	assert.Contains(t, prompt, "Text: Alice met Bob.")
}

func TestParseResponse_PlainJSON(t *testing.T) {
	raw := `{"summary":"s","keywords":["k1","k2"],"entities":["e1"],"topic":"Physics"}`

	result, err := ParseResponse(raw)
	require.NoError(t, err)

	assert.Equal(t, "s", result.Summary)
	assert.Equal(t, []string{"k1", "k2"}, result.Keywords)
	assert.Equal(t, []string{"e1"}, result.Entities)
	assert.Equal(t, "Physics", result.Topic)
}

func TestParseResponse_StripsCodeFences(t *testing.T) {
	raw := "```json\n{\"summary\":\"s\",\"keywords\":[],\"entities\":[],\"topic\":\"General\"}\n```"

	result, err := ParseResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, "General", result.Topic)
}

func TestParseResponse_InvalidJSON(t *testing.T) {
	_, err := ParseResponse("the model rambled instead of answering")
	assert.Error(t, err)
}
