package seo

import (
	"fmt"
	"sort"
)

// 建议按类别分组，便于上层按策略拼装改写指令。
const (
	CategoryContent     = "content"
	CategoryTitle       = "title"
	CategoryDescription = "description"
)

// Suggestions 根据三份报告生成按类别分组的优化建议。
func (a *Analyzer) Suggestions(content ContentReport, title, description MetaReport) map[string][]string {
	out := map[string][]string{
		CategoryContent:     {},
		CategoryTitle:       {},
		CategoryDescription: {},
	}

	if content.WordCountStatus == StatusBad {
		out[CategoryContent] = append(out[CategoryContent],
			fmt.Sprintf("Too few words (%d), consider expanding the article to at least %d words", content.WordCount, a.cfg.MinWordCount))
	}

	// map 遍历无序，排序保证建议顺序稳定。
	keywords := make([]string, 0, len(content.KeywordDensity))
	for kw := range content.KeywordDensity {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)
	for _, kw := range keywords {
		ks := content.KeywordDensity[kw]
		switch {
		case ks.Density < a.cfg.KeywordDensity*0.5:
			out[CategoryContent] = append(out[CategoryContent],
				fmt.Sprintf("Keyword '%s' density is too low (%.2f%%), consider increasing frequency", kw, ks.Density*100))
		case ks.Density > a.cfg.KeywordDensity*1.5:
			out[CategoryContent] = append(out[CategoryContent],
				fmt.Sprintf("Keyword '%s' density is too high (%.2f%%), consider reducing frequency", kw, ks.Density*100))
		}
	}

	if content.InternalLinks.Status == StatusBad {
		out[CategoryContent] = append(out[CategoryContent],
			fmt.Sprintf("Too few internal links (%d), consider adding at least %d internal links to improve SEO", content.InternalLinks.Count, a.cfg.MinInternalLinks))
	}
	if content.Images.Status == StatusBad {
		out[CategoryContent] = append(out[CategoryContent],
			fmt.Sprintf("Too few images (%d), consider adding at least %d images with alt text to improve SEO", content.Images.Count, a.cfg.MinImages))
	}
	if content.H2Tags.Status == StatusBad {
		out[CategoryContent] = append(out[CategoryContent],
			fmt.Sprintf("Too few H2 headings (%d), consider adding at least %d H2 headings to improve structure and SEO", content.H2Tags.Count, a.cfg.MinH2Tags))
	}
	if content.H3Tags.Status == StatusBad {
		out[CategoryContent] = append(out[CategoryContent],
			fmt.Sprintf("Too few H3 headings (%d), consider adding at least %d H3 headings to improve structure and SEO", content.H3Tags.Count, a.cfg.MinH3Tags))
	}

	switch {
	case title.Length > a.cfg.TitleMaxLength:
		out[CategoryTitle] = append(out[CategoryTitle],
			fmt.Sprintf("Title is too long (%d characters), consider shortening to %d characters or less", title.Length, a.cfg.TitleMaxLength))
	case title.Length < titleSoftMinLength:
		out[CategoryTitle] = append(out[CategoryTitle],
			fmt.Sprintf("Title is too short (%d characters), consider extending to %d-%d characters", title.Length, titleSoftMinLength, a.cfg.TitleMaxLength))
	}
	if !title.HasKeyword {
		out[CategoryTitle] = append(out[CategoryTitle], "Title does not contain keywords, consider adding main keywords")
	}

	switch {
	case description.Length > a.cfg.MetaDescriptionLength:
		out[CategoryDescription] = append(out[CategoryDescription],
			fmt.Sprintf("Description is too long (%d characters), consider shortening to %d characters or less", description.Length, a.cfg.MetaDescriptionLength))
	case description.Length < descriptionSoftMinLength:
		out[CategoryDescription] = append(out[CategoryDescription],
			fmt.Sprintf("Description is too short (%d characters), consider extending to %d-%d characters", description.Length, descriptionSoftMinLength, a.cfg.MetaDescriptionLength))
	}
	if !description.HasKeyword {
		out[CategoryDescription] = append(out[CategoryDescription], "Description does not contain keywords, consider adding main keywords")
	}

	return out
}
