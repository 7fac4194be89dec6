package optimizer

import (
	"context"
	"regexp"
	"strings"

	"auto_blog_article_optimizer/seo"
)

var titleRe = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// RefineMetadata 在正文定稿后单独打磨标题与元描述。
// 缺省值从正文推导；有针对性建议时交给模型优化，失败则保留原值。
func (o *Optimizer) RefineMetadata(ctx context.Context, draft Draft, keywords []string) Draft {
	if draft.Title == "" {
		draft.Title = extractTitle(draft.Text)
	}
	if draft.Description == "" {
		draft.Description = defaultDescription(draft.Text, 120)
	}

	titleReport := o.analyzer.AnalyzeTitle(draft.Title, keywords)
	descReport := o.analyzer.AnalyzeMetaDescription(draft.Description, keywords)
	suggestions := o.analyzer.Suggestions(seo.ContentReport{}, titleReport, descReport)

	if items := suggestions[seo.CategoryTitle]; len(items) > 0 {
		if out, err := o.model.OptimizeTitle(ctx, draft.Title, items); err != nil {
			o.logger.Printf("[optimizer] title optimization failed, keeping original: %v", err)
		} else if out != "" {
			draft.Title = out
		}
	}

	if items := suggestions[seo.CategoryDescription]; len(items) > 0 {
		if out, err := o.model.OptimizeDescription(ctx, draft.Description, items); err != nil {
			o.logger.Printf("[optimizer] description optimization failed, keeping original: %v", err)
		} else if out != "" {
			draft.Description = out
		}
	}

	return draft
}

func extractTitle(md string) string {
	if m := titleRe.FindStringSubmatch(md); len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// defaultDescription 取首段非标题文本并截断。
func defaultDescription(md string, limit int) string {
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		runes := []rune(line)
		if len(runes) <= limit {
			return line
		}
		return string(runes[:limit])
	}
	return ""
}
