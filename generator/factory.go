package generator

import (
	"fmt"
	"log"

	"auto_blog_article_optimizer/config"
)

// New 按配置里的 provider 字符串选择后端实现并包上 Model。
// openai / deepseek / siliconflow 走 OpenAI 兼容协议，
// anthropic、ollama、baidu 各自直连，mock 用于本地调试。
func New(cfg *config.LLMConfig, verbose bool, logger *log.Logger) (*Model, error) {
	if cfg == nil || cfg.Provider == "" {
		return nil, fmt.Errorf("llm config missing; please set llm.provider/model/api_key in config")
	}

	settings := &LLMSettings{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		SecretKey: cfg.SecretKey,
		BaseURL:   cfg.BaseURL,
	}

	var (
		client LLMClient
		err    error
	)
	switch cfg.Provider {
	case "openai":
		client, err = NewOpenAILLM(settings)
	case "deepseek", "siliconflow":
		// OpenAI 兼容接口，必须显式给出网关地址。
		if settings.BaseURL == "" {
			return nil, fmt.Errorf("llm provider %s requires base_url (OpenAI-compatible endpoint)", cfg.Provider)
		}
		client, err = NewOpenAILLM(settings)
	case "anthropic":
		client, err = NewAnthropicLLM(settings)
	case "ollama":
		client, err = NewOllamaLLM(settings)
	case "baidu":
		client, err = NewBaiduLLM(settings)
	case "mock":
		client = MockLLM{}
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return NewModel(client, verbose, logger)
}
