package generator

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultMaxRetries = 3
	defaultRetryDelay = 5 * time.Second
)

// Model 在底层 LLMClient 之上实现 TextGenerator：
// 统一重试、限流与提示词拼装，外部只关心四个业务操作。
type Model struct {
	client     LLMClient
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	logger     *log.Logger
	verbose    bool
}

func NewModel(client LLMClient, verbose bool, logger *log.Logger) (*Model, error) {
	if client == nil {
		return nil, errors.New("llm client is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Model{
		client: client,
		// 外部 API 有配额，突发允许 2 个请求，之后 2 秒一个。
		limiter:    rate.NewLimiter(rate.Every(2*time.Second), 2),
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
		logger:     logger,
		verbose:    verbose,
	}, nil
}

func (m *Model) infof(format string, args ...interface{}) {
	if !m.verbose {
		return
	}
	m.logger.Printf("[llm] "+format, args...)
}

// Rewrite 整篇改写；instruction 可选，附加额外的风格或结构要求。
func (m *Model) Rewrite(ctx context.Context, text string, meta Metadata, instruction string) (string, error) {
	return m.complete(ctx, BuildRewritePrompt(text, meta, instruction))
}

// Optimize 按建议做定向修订；history 为此前几轮的指令（可空）。
func (m *Model) Optimize(ctx context.Context, text, instruction string, history []Message) (string, error) {
	return m.complete(ctx, BuildOptimizePrompt(text, instruction, history))
}

// OptimizeTitle 优化标题，返回单行文本。
func (m *Model) OptimizeTitle(ctx context.Context, title string, suggestions []string) (string, error) {
	out, err := m.complete(ctx, BuildTitlePrompt(title, suggestions))
	if err != nil {
		return "", err
	}
	return firstLine(out), nil
}

// OptimizeDescription 优化元描述，返回单段文本。
func (m *Model) OptimizeDescription(ctx context.Context, description string, suggestions []string) (string, error) {
	out, err := m.complete(ctx, BuildDescriptionPrompt(description, suggestions))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// complete 带限流与有界重试地调用底层客户端。
func (m *Model) complete(ctx context.Context, prompt Prompt) (string, error) {
	var lastErr error
	for attempt := 0; attempt < m.maxRetries; attempt++ {
		if err := m.limiter.Wait(ctx); err != nil {
			return "", err
		}
		out, err := m.client.Complete(ctx, prompt)
		if err == nil {
			return strings.TrimSpace(out), nil
		}
		lastErr = err
		if attempt < m.maxRetries-1 {
			m.logger.Printf("[llm] call failed, retrying (%d/%d): %v", attempt+1, m.maxRetries, err)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(m.retryDelay):
			}
		}
	}
	return "", lastErr
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.Trim(strings.TrimSpace(s), `"“”`)
}
