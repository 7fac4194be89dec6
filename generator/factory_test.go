package generator

import (
	"testing"

	"auto_blog_article_optimizer/config"
)

func TestNewRequiresProvider(t *testing.T) {
	if _, err := New(nil, false, nil); err == nil {
		t.Fatal("expected error for missing llm config")
	}
	if _, err := New(&config.LLMConfig{}, false, nil); err == nil {
		t.Fatal("expected error for empty provider")
	}
}

func TestNewMockProvider(t *testing.T) {
	m, err := New(&config.LLMConfig{Provider: "mock"}, false, nil)
	if err != nil {
		t.Fatalf("mock provider failed: %v", err)
	}
	if m == nil {
		t.Fatal("expected model instance")
	}
}

func TestNewOpenAICompatibleRequiresBaseURL(t *testing.T) {
	for _, provider := range []string{"deepseek", "siliconflow"} {
		cfg := &config.LLMConfig{Provider: provider, Model: "m", APIKey: "k"}
		if _, err := New(cfg, false, nil); err == nil {
			t.Fatalf("provider %s without base_url should fail", provider)
		}
	}
}

func TestNewUnsupportedProvider(t *testing.T) {
	if _, err := New(&config.LLMConfig{Provider: "unknown", Model: "m"}, false, nil); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}
