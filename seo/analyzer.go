package seo

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"auto_blog_article_optimizer/config"
	"auto_blog_article_optimizer/images"
)

const (
	StatusGood = "good"
	StatusBad  = "bad"

	// 软下限：短于这些长度的标题/描述只给建议，不计入硬检查。
	titleSoftMinLength       = 30
	descriptionSoftMinLength = 70
)

// CountStat 是一项结构计数及其达标状态。
type CountStat struct {
	Count  int    `json:"count"`
	Status string `json:"status"`
}

// KeywordStat 是单个关键词的出现次数与密度。
type KeywordStat struct {
	Count   int     `json:"count"`
	Density float64 `json:"density"`
	Status  string  `json:"status"`
}

// ContentReport 是正文部分的 SEO 分析结果。
type ContentReport struct {
	WordCount       int                    `json:"word_count"`
	WordCountStatus string                 `json:"word_count_status"`
	KeywordDensity  map[string]KeywordStat `json:"keyword_density"`
	InternalLinks   CountStat              `json:"internal_links"`
	Images          CountStat              `json:"images"`
	H2Tags          CountStat              `json:"h2_tags"`
	H3Tags          CountStat              `json:"h3_tags"`
}

// MetaReport 是标题或元描述的分析结果，只看长度与关键词。
type MetaReport struct {
	Length       int    `json:"length"`
	LengthStatus string `json:"length_status"`
	HasKeyword   bool   `json:"has_keyword"`
}

// Analyzer 按配置标准做 SEO 打分，纯计算、无副作用。
type Analyzer struct {
	cfg config.SEOConfig
	md  goldmark.Markdown
}

func New(cfg config.SEOConfig) *Analyzer {
	return &Analyzer{cfg: cfg, md: goldmark.New()}
}

// AnalyzeContent 分析正文：字数、关键词密度、链接/图片/标题结构。
// 空文本返回全 bad 的零值报告而不是报错。
func (a *Analyzer) AnalyzeContent(text string, keywords []string) ContentReport {
	report := ContentReport{
		WordCountStatus: StatusBad,
		KeywordDensity:  map[string]KeywordStat{},
		InternalLinks:   CountStat{Status: StatusBad},
		Images:          CountStat{Status: StatusBad},
		H2Tags:          CountStat{Status: StatusBad},
		H3Tags:          CountStat{Status: StatusBad},
	}
	if strings.TrimSpace(text) == "" {
		return report
	}

	words := strings.Fields(text)
	report.WordCount = len(words)
	report.WordCountStatus = statusOf(report.WordCount >= a.cfg.MinWordCount)

	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		count := countOccurrences(text, kw)
		density := 0.0
		if report.WordCount > 0 {
			density = float64(count) / float64(report.WordCount)
		}
		report.KeywordDensity[kw] = KeywordStat{
			Count:   count,
			Density: density,
			Status:  statusOf(a.densityOK(density)),
		}
	}

	counts := a.structuralCounts(text)
	report.InternalLinks = CountStat{Count: counts.links, Status: statusOf(counts.links >= a.cfg.MinInternalLinks)}
	// 未替换的 [IMAGE] 标记也算作图片占位。
	totalImages := counts.images + images.CountMarkers(text)
	report.Images = CountStat{Count: totalImages, Status: statusOf(totalImages >= a.cfg.MinImages)}
	report.H2Tags = CountStat{Count: counts.h2, Status: statusOf(counts.h2 >= a.cfg.MinH2Tags)}
	report.H3Tags = CountStat{Count: counts.h3, Status: statusOf(counts.h3 >= a.cfg.MinH3Tags)}

	return report
}

// AnalyzeTitle 只按长度上限和关键词出现情况评估标题。
func (a *Analyzer) AnalyzeTitle(title string, keywords []string) MetaReport {
	length := len([]rune(title))
	return MetaReport{
		Length:       length,
		LengthStatus: statusOf(length > 0 && length <= a.cfg.TitleMaxLength),
		HasKeyword:   containsAnyKeyword(title, keywords),
	}
}

// AnalyzeMetaDescription 只按长度上限和关键词出现情况评估元描述。
func (a *Analyzer) AnalyzeMetaDescription(description string, keywords []string) MetaReport {
	length := len([]rune(description))
	return MetaReport{
		Length:       length,
		LengthStatus: statusOf(length > 0 && length <= a.cfg.MetaDescriptionLength),
		HasKeyword:   containsAnyKeyword(description, keywords),
	}
}

// Composite 聚合三份报告：正文 0.6、标题 0.25、描述 0.15，
// 每个子分数是该部分通过检查项的比例。
func (a *Analyzer) Composite(content ContentReport, title, description MetaReport) float64 {
	return 0.6*contentScore(content) + 0.25*metaScore(title) + 0.15*metaScore(description)
}

func contentScore(r ContentReport) float64 {
	passed, total := 0, 0

	check := func(ok bool) {
		total++
		if ok {
			passed++
		}
	}
	check(r.WordCountStatus == StatusGood)
	for _, ks := range r.KeywordDensity {
		check(ks.Status == StatusGood)
	}
	check(r.InternalLinks.Status == StatusGood)
	check(r.Images.Status == StatusGood)
	check(r.H2Tags.Status == StatusGood)
	check(r.H3Tags.Status == StatusGood)

	return float64(passed) / float64(total) * 100
}

func metaScore(r MetaReport) float64 {
	passed, total := 0, 2
	if r.LengthStatus == StatusGood {
		passed++
	}
	if r.HasKeyword {
		passed++
	}
	return float64(passed) / float64(total) * 100
}

func (a *Analyzer) densityOK(density float64) bool {
	return density >= a.cfg.KeywordDensity*0.5 && density <= a.cfg.KeywordDensity*1.5
}

type structCounts struct {
	links  int
	images int
	h2     int
	h3     int
}

// structuralCounts 用 goldmark AST 统计链接、图片和 H2/H3 标题。
func (a *Analyzer) structuralCounts(text string) structCounts {
	var c structCounts
	src := []byte(text)
	doc := a.md.Parser().Parse(gmtext.NewReader(src))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Heading:
			if v.Level == 2 {
				c.h2++
			}
			if v.Level == 3 {
				c.h3++
			}
		case *ast.Link:
			c.links++
		case *ast.AutoLink:
			c.links++
		case *ast.Image:
			c.images++
		}
		return ast.WalkContinue, nil
	})
	return c
}

// SplitKeywords 兼容逗号分隔的关键词串。
func SplitKeywords(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// countOccurrences 统计大小写不敏感的子串出现次数（不重叠）。
func countOccurrences(text, keyword string) int {
	return strings.Count(strings.ToLower(text), strings.ToLower(keyword))
}

func containsAnyKeyword(s string, keywords []string) bool {
	lower := strings.ToLower(s)
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func statusOf(ok bool) string {
	if ok {
		return StatusGood
	}
	return StatusBad
}
