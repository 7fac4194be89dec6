package optimizer

import (
	"regexp"
	"strings"
)

// 模型偶尔会在正文前加一句"以下是优化后的文章"之类的客套话。
// 这里识别首段是否为这类元说明，是则剥掉。
var preambleRe = regexp.MustCompile(`(?i)^(以下是|这是|已按|已根据|好的[，,、]|当然[，,]|here is|here's|sure[,.]|certainly[,.]|i have (optimized|rewritten|revised)|i've (optimized|rewritten|revised))`)

// StripPreamble 去掉稿件开头的元说明段。
// 返回处理后的文本，以及是否处于干净状态：
// 没有检测到前言、或前言被完整剥离都算干净；
// 检测到前言但找不到段落边界时原样返回并报告不干净，由调用方记告警。
func StripPreamble(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return trimmed, true
	}

	firstLine := trimmed
	if i := strings.IndexByte(trimmed, '\n'); i >= 0 {
		firstLine = trimmed[:i]
	}
	firstLine = strings.TrimSpace(firstLine)

	// 标题行不可能是客套前言。
	if strings.HasPrefix(firstLine, "#") || !preambleRe.MatchString(firstLine) {
		return trimmed, true
	}

	// 前言应独立成段：剥掉第一个空行之前的内容。
	if idx := strings.Index(trimmed, "\n\n"); idx >= 0 {
		rest := strings.TrimSpace(trimmed[idx+2:])
		if rest != "" {
			return rest, true
		}
	}

	// 前言和正文挤在同一段（例如只以冒号分隔换行），无法安全剥离。
	return trimmed, false
}
