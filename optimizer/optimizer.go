package optimizer

import (
	"context"
	"log"
	"strings"

	"auto_blog_article_optimizer/config"
	"auto_blog_article_optimizer/evaluator"
	"auto_blog_article_optimizer/generator"
	"auto_blog_article_optimizer/images"
	"auto_blog_article_optimizer/seo"
)

// 综合分与接受阈值的权重是经验常数，集中在这里便于调整。
const (
	qualityWeight = 0.6
	seoWeight     = 0.4
)

// Optimizer 驱动"评估-决策-改写"循环，顺序执行、单线程。
// 不论生成服务表现如何，循环都在 MaxIterations 次评估内结束，
// 并且总会返回一份稿件和它的报告。
type Optimizer struct {
	model    generator.TextGenerator
	quality  *evaluator.Evaluator
	analyzer *seo.Analyzer

	maxIterations     int
	qualityThreshold  float64
	seoThreshold      float64
	combinedThreshold float64

	logger  *log.Logger
	verbose bool
}

func New(model generator.TextGenerator, cfg config.Config, verbose bool, logger *log.Logger) *Optimizer {
	if logger == nil {
		logger = log.Default()
	}
	maxIter := cfg.Optimizer.MaxIterations
	if maxIter < 1 {
		maxIter = 1
	}
	return &Optimizer{
		model:             model,
		quality:           evaluator.New(cfg.Quality),
		analyzer:          seo.New(cfg.SEO),
		maxIterations:     maxIter,
		qualityThreshold:  cfg.Quality.Threshold,
		seoThreshold:      cfg.SEO.Threshold,
		combinedThreshold: qualityWeight*cfg.Quality.Threshold + seoWeight*cfg.SEO.Threshold,
		logger:            logger,
		verbose:           verbose,
	}
}

func (o *Optimizer) infof(format string, args ...interface{}) {
	if !o.verbose {
		return
	}
	o.logger.Printf("[optimizer] "+format, args...)
}

// Run 执行一次完整的优化会话。
// reference 非空时用于原创性对比；keywords 参与 SEO 打分。
// 取消只在迭代边界生效：ctx 结束时返回当前最好的结果和 ctx 错误。
func (o *Optimizer) Run(ctx context.Context, initial Draft, keywords []string, reference string) (Result, error) {
	session := &Session{
		MaxIterations:     o.maxIterations,
		QualityThreshold:  o.qualityThreshold,
		SEOThreshold:      o.seoThreshold,
		CombinedThreshold: o.combinedThreshold,
	}

	draft := initial
	var result Result
	var history []generator.Message

	for i := 0; i < o.maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		draft.Iteration = i
		qualityReport := o.quality.Evaluate(draft.Text, reference)
		seoReport := o.analyzeSEO(draft, keywords)
		combined := qualityWeight*qualityReport.Composite + seoWeight*seoReport.Composite

		step := Step{Draft: draft, Quality: qualityReport, SEO: seoReport, Combined: combined}
		result = Result{
			Draft:    draft,
			Quality:  qualityReport,
			SEO:      seoReport,
			Combined: combined,
			Session:  session,
		}

		if combined >= o.combinedThreshold {
			session.Steps = append(session.Steps, step)
			result.Accepted = true
			o.infof("iteration %d accepted: combined=%.2f threshold=%.2f", i, combined, o.combinedThreshold)
			return result, nil
		}

		if i >= o.maxIterations-1 {
			// 预算用尽：返回当前稿而不是报错，保证总有产出。
			session.Steps = append(session.Steps, step)
			o.logger.Printf("[optimizer] iteration budget exhausted after %d evaluations, combined=%.2f threshold=%.2f", i+1, combined, o.combinedThreshold)
			return result, nil
		}

		strategy := SelectStrategy(qualityReport.Composite, seoReport.Composite)
		step.Strategy = strategy
		session.Steps = append(session.Steps, step)
		session.StrategyHistory = append(session.StrategyHistory, strategy)
		o.infof("iteration %d: combined=%.2f quality=%.2f seo=%.2f strategy=%s", i, combined, qualityReport.Composite, seoReport.Composite, strategy)

		instruction := o.buildInstruction(strategy, qualityReport, seoReport)
		draft = o.nextDraft(ctx, draft, instruction, history)
		// 指令以 user 消息进入后续轮次的历史，模型据此避免重复同类修改。
		history = append(history, generator.Message{Role: "user", Content: instruction})
	}

	return result, nil
}

// nextDraft 调生成服务产出下一稿；失败或输出为空时保留上一稿原文，
// 迭代计数照常推进，确保循环必然终止。
func (o *Optimizer) nextDraft(ctx context.Context, prev Draft, instruction string, history []generator.Message) Draft {
	next := Draft{
		Text:        prev.Text,
		Iteration:   prev.Iteration + 1,
		Title:       prev.Title,
		Description: prev.Description,
	}

	out, err := o.model.Optimize(ctx, prev.Text, instruction, history)
	if err != nil {
		o.logger.Printf("[optimizer] generation failed, keeping previous draft: %v", err)
		return next
	}
	if strings.TrimSpace(out) == "" {
		o.logger.Printf("[optimizer] generation returned empty output, keeping previous draft")
		return next
	}

	out, clean := StripPreamble(out)
	if !clean {
		// 数据质量问题而非错误：前言没剥干净也继续往下走。
		o.logger.Printf("[optimizer] meta preamble detected but not cleanly stripped")
	}

	// 改写丢掉图片标记（全部或部分）时按原数量重新均匀补插。
	if want := images.CountMarkers(prev.Text); want > 0 && images.CountMarkers(out) < want {
		redistributed, placed := images.Redistribute(out, want)
		out = redistributed
		if placed < want {
			o.logger.Printf("[optimizer] marker reinsertion shortfall: placed %d of %d", placed, want)
		}
	}

	next.Text = out
	return next
}

func (o *Optimizer) buildInstruction(strategy Strategy, q evaluator.Report, s SEOReport) string {
	var items []string
	switch strategy {
	case StrategyQuality:
		items = q.Suggestions
	case StrategySEO:
		items = s.Suggestions[seo.CategoryContent]
	default:
		items = MergeSuggestions(q.Suggestions, s.Suggestions[seo.CategoryContent])
	}
	if len(items) == 0 {
		return "Improve overall readability, structure and search visibility"
	}
	return "- " + strings.Join(items, "\n- ")
}

func (o *Optimizer) analyzeSEO(draft Draft, keywords []string) SEOReport {
	content := o.analyzer.AnalyzeContent(draft.Text, keywords)
	title := o.analyzer.AnalyzeTitle(draft.Title, keywords)
	description := o.analyzer.AnalyzeMetaDescription(draft.Description, keywords)
	return SEOReport{
		Content:     content,
		Title:       title,
		Description: description,
		Composite:   o.analyzer.Composite(content, title, description),
		Suggestions: o.analyzer.Suggestions(content, title, description),
	}
}
