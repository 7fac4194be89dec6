package generator

import "context"

// LLMClient 抽象大模型客户端，便于替换/Mock。
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings 提供给具体实现的基础配置。
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	// SecretKey 仅百度 ERNIE 换取 access_token 时使用。
	SecretKey string
	BaseURL   string
}

// Metadata 是改写时随稿件一起提供的元信息。
type Metadata struct {
	Title       string
	Description string
	Keywords    string
}

// TextGenerator 是优化循环消费的文本生成服务契约。
// 实现方自带有界重试；失败时调用方保留上一稿继续推进。
// history 携带此前几轮的优化指令，让模型知道哪些修改已经要求过。
type TextGenerator interface {
	Rewrite(ctx context.Context, text string, meta Metadata, instruction string) (string, error)
	Optimize(ctx context.Context, text, instruction string, history []Message) (string, error)
	OptimizeTitle(ctx context.Context, title string, suggestions []string) (string, error)
	OptimizeDescription(ctx context.Context, description string, suggestions []string) (string, error)
}
