package optimizer

import (
	"auto_blog_article_optimizer/evaluator"
	"auto_blog_article_optimizer/seo"
)

// Draft 是一轮迭代的稿件。产出后不可变，新一轮生成新的 Draft。
type Draft struct {
	Text        string `json:"text"`
	Iteration   int    `json:"iteration"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SEOReport 把三份 SEO 子报告和综合分打包，便于记录与返回。
type SEOReport struct {
	Content     seo.ContentReport   `json:"content"`
	Title       seo.MetaReport      `json:"title"`
	Description seo.MetaReport      `json:"description"`
	Composite   float64             `json:"composite"`
	Suggestions map[string][]string `json:"suggestions"`
}

// Step 记录一次评估：稿件、两份报告以及随后选择的策略。
// 终态（接受或预算用尽）那一步 Strategy 为空。
type Step struct {
	Draft    Draft            `json:"draft"`
	Quality  evaluator.Report `json:"quality"`
	SEO      SEOReport        `json:"seo"`
	Combined float64          `json:"combined"`
	Strategy Strategy         `json:"strategy,omitempty"`
}

// Session 持有一次优化运行的全部历史，运行结束即可丢弃。
type Session struct {
	Steps             []Step     `json:"steps"`
	StrategyHistory   []Strategy `json:"strategy_history"`
	MaxIterations     int        `json:"max_iterations"`
	QualityThreshold  float64    `json:"quality_threshold"`
	SEOThreshold      float64    `json:"seo_threshold"`
	CombinedThreshold float64    `json:"combined_threshold"`
}

// Result 是优化循环的最终产物：无论是否达标，总有一稿可用。
type Result struct {
	Draft    Draft            `json:"draft"`
	Quality  evaluator.Report `json:"quality"`
	SEO      SEOReport        `json:"seo"`
	Combined float64          `json:"combined"`
	Accepted bool             `json:"accepted"`
	Session  *Session         `json:"session"`
}
