package shared

import (
	"time"
)

// Language selects which localized menu content is requested.
type Language string

const (
	LangFinnish Language = "fi"
	LangEnglish Language = "en"
)

// ParseLanguage maps arbitrary input to a supported language, defaulting to Finnish.
func ParseLanguage(s string) Language {
	if Language(s) == LangEnglish {
		return LangEnglish
	}
	return LangFinnish
}

// TokenUsage tracks the tokens consumed by a request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// AgentMeta holds operational metadata for an extraction call.
type AgentMeta struct {
	AgentName string
	Usage     TokenUsage
	Latency   time.Duration
}
