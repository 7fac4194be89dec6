package optimizer

import "strings"

// Strategy 决定下一轮改写指令由哪类建议主导。
type Strategy string

const (
	StrategyQuality  Strategy = "focus_on_quality"
	StrategySEO      Strategy = "focus_on_seo"
	StrategyBalanced Strategy = "balanced_optimization"
)

// 低于这个分数的维度被视为短板，优先单独补救。
const bottleneckScore = 50

// SelectStrategy 先救质量短板，再救 SEO 短板，否则均衡优化。
func SelectStrategy(qualityScore, seoScore float64) Strategy {
	if qualityScore < bottleneckScore {
		return StrategyQuality
	}
	if seoScore < bottleneckScore {
		return StrategySEO
	}
	return StrategyBalanced
}

// 建议归类关键词。均衡策略合并两份报告的建议时，
// 同类建议视为重复，保留更具体（更长）的那条。
var suggestionCategories = []struct {
	name  string
	words []string
}{
	{"readability", []string{"readability"}},
	{"keyword", []string{"keyword", "density"}},
	{"length", []string{"sentence length", "too few words", "word count"}},
	{"heading", []string{"heading", "h2", "h3"}},
	{"link", []string{"link"}},
	{"image", []string{"image"}},
}

func categorize(s string) string {
	lower := strings.ToLower(s)
	for _, c := range suggestionCategories {
		for _, w := range c.words {
			if strings.Contains(lower, w) {
				return c.name
			}
		}
	}
	return ""
}

// MergeSuggestions 按出现顺序合并多组建议并按类别去重。
// 无法归类的建议原样保留。
func MergeSuggestions(groups ...[]string) []string {
	var out []string
	index := map[string]int{} // 类别 -> out 下标

	for _, group := range groups {
		for _, s := range group {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			cat := categorize(s)
			if cat == "" {
				out = append(out, s)
				continue
			}
			if i, ok := index[cat]; ok {
				if len(s) > len(out[i]) {
					out[i] = s
				}
				continue
			}
			index[cat] = len(out)
			out = append(out, s)
		}
	}
	return out
}
