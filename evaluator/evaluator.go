package evaluator

import (
	"fmt"
	"strings"

	"auto_blog_article_optimizer/config"
	"auto_blog_article_optimizer/images"
)

// Report 是一次质量评估的结果，分数均在 [0,100] 区间。
type Report struct {
	Readability       float64  `json:"readability_score"`
	Originality       float64  `json:"originality_score"`
	AvgSentenceLength float64  `json:"avg_sentence_length"`
	ParagraphCount    int      `json:"paragraph_count"`
	Composite         float64  `json:"quality_score"`
	NeedsRewrite      bool     `json:"needs_rewrite"`
	Suggestions       []string `json:"suggestions,omitempty"`
}

// Evaluator 按配置阈值对稿件打分，纯计算、无副作用。
type Evaluator struct {
	cfg config.QualityConfig
}

func New(cfg config.QualityConfig) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Evaluate 对 text 打分；reference 非空时额外计算原创性。
// 空文本直接返回零分报告（NeedsRewrite=true），不报错，保证循环可继续。
func (e *Evaluator) Evaluate(text, reference string) Report {
	if strings.TrimSpace(text) == "" {
		return Report{
			NeedsRewrite: true,
			Suggestions:  []string{"Content is empty, nothing to evaluate"},
		}
	}

	readability := e.readability(text)
	originality := 100.0
	if reference != "" {
		originality = e.originality(text, reference)
	}
	avgSentenceLen := avgSentenceLength(text)
	paragraphs := countParagraphs(text)
	markers := strings.Count(text, images.Marker)

	composite := e.composite(readability, originality, avgSentenceLen, paragraphs, markers)

	return Report{
		Readability:       readability,
		Originality:       originality,
		AvgSentenceLength: avgSentenceLen,
		ParagraphCount:    paragraphs,
		Composite:         composite,
		NeedsRewrite:      composite < e.cfg.Threshold,
		Suggestions:       e.suggestions(readability, originality, avgSentenceLen, paragraphs),
	}
}

// readability 是简化版 Flesch 阅读易读度公式。
func (e *Evaluator) readability(text string) float64 {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return 0
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	avgSentenceLen := float64(len(words)) / float64(len(sentences))

	var chars int
	for _, w := range words {
		chars += len([]rune(w))
	}
	avgWordLen := float64(chars) / float64(len(words))

	score := 206.835 - 1.015*avgSentenceLen - 84.6*avgWordLen
	return clamp(score, 0, 100)
}

// originality 统计有多少候选句子原样出现在参考文本里。
func (e *Evaluator) originality(text, reference string) float64 {
	var candidates, borrowed int
	for _, s := range SplitSentences(text) {
		if len([]rune(s)) <= 10 {
			continue
		}
		candidates++
		if strings.Contains(reference, s) {
			borrowed++
		}
	}
	if candidates == 0 {
		return 100
	}
	return 100 - float64(borrowed)/float64(candidates)*100
}

func (e *Evaluator) composite(readability, originality, avgSentenceLen float64, paragraphs, markers int) float64 {
	score := 0.30*readability + 0.30*originality

	// 句长适配度：不超过上限给满分，超出按比例折扣。
	sentenceFitness := 1.0
	if avgSentenceLen <= 0 {
		sentenceFitness = 0
	} else if avgSentenceLen > e.cfg.MaxAvgSentenceLength {
		sentenceFitness = e.cfg.MaxAvgSentenceLength / avgSentenceLen
	}
	score += 25 * sentenceFitness

	paragraphFitness := 1.0
	if paragraphs < e.cfg.MinParagraphCount {
		paragraphFitness = float64(paragraphs) / float64(e.cfg.MinParagraphCount)
	}
	score += 15 * paragraphFitness

	// 嵌图奖励最多 5 分，总分不超过 100。
	bonus := float64(markers)
	if bonus > 5 {
		bonus = 5
	}
	score += bonus

	return clamp(score, 0, 100)
}

func (e *Evaluator) suggestions(readability, originality, avgSentenceLen float64, paragraphs int) []string {
	var out []string
	if readability < e.cfg.MinReadabilityScore {
		out = append(out, fmt.Sprintf("Low readability score (%.2f), consider simplifying sentence structure and using more common language", readability))
	}
	if originality < e.cfg.MinOriginalityScore {
		out = append(out, fmt.Sprintf("Low originality score (%.2f), consider rephrasing sentences that closely follow the source text", originality))
	}
	if avgSentenceLen > e.cfg.MaxAvgSentenceLength {
		out = append(out, fmt.Sprintf("Average sentence length is too long (%.2f words), consider shortening sentences", avgSentenceLen))
	}
	if paragraphs < e.cfg.MinParagraphCount {
		out = append(out, fmt.Sprintf("Too few paragraphs (%d), consider splitting the text into at least %d paragraphs", paragraphs, e.cfg.MinParagraphCount))
	}
	return out
}

// SplitSentences 以 . ! ? 切分句子并去掉空白项。
func SplitSentences(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func avgSentenceLength(text string) float64 {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return 0
	}
	words := strings.Fields(text)
	return float64(len(words)) / float64(len(sentences))
}

// countParagraphs 按空行切分段落；独立成行的图片标记各算一个额外段落单位。
func countParagraphs(text string) int {
	count := 0
	for _, block := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		count++
		for _, line := range strings.Split(block, "\n") {
			if strings.TrimSpace(line) == images.Marker {
				count++
			}
		}
	}
	return count
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
