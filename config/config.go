package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Config 汇总整条流水线的配置，结构对应 config.json 的各段。
type Config struct {
	Quality    QualityConfig    `json:"content_quality"`
	SEO        SEOConfig        `json:"seo"`
	Optimizer  OptimizerConfig  `json:"optimizer"`
	Images     ImageConfig      `json:"image_processing"`
	LLM        *LLMConfig       `json:"llm,omitempty"`
	WordPress  *WordPressConfig `json:"wordpress,omitempty"`
	ServerAddr string           `json:"server_addr,omitempty"`
}

// QualityConfig 控制内容质量评估的各项阈值。
type QualityConfig struct {
	MinReadabilityScore  float64 `json:"min_readability_score"`
	MinOriginalityScore  float64 `json:"min_originality_score"`
	MaxAvgSentenceLength float64 `json:"max_avg_sentence_length"`
	MinParagraphCount    int     `json:"min_paragraph_count"`
	Threshold            float64 `json:"threshold"`
}

// SEOConfig 控制 SEO 分析的各项标准。
type SEOConfig struct {
	MinWordCount          int     `json:"min_word_count"`
	KeywordDensity        float64 `json:"keyword_density"`
	TitleMaxLength        int     `json:"title_max_length"`
	MetaDescriptionLength int     `json:"meta_description_length"`
	MinInternalLinks      int     `json:"min_internal_links"`
	MinImages             int     `json:"min_images"`
	MinH2Tags             int     `json:"min_h2_tags"`
	MinH3Tags             int     `json:"min_h3_tags"`
	Threshold             float64 `json:"threshold"`
}

// OptimizerConfig 控制迭代优化循环。
type OptimizerConfig struct {
	MaxIterations int `json:"max_iterations"`
}

// ImageConfig 控制图片下载与插入。
type ImageConfig struct {
	SaveDir                string `json:"save_dir"`
	MaxImages              int    `json:"max_images"`
	MaxConcurrentDownloads int    `json:"max_concurrent_downloads"`
	// StripLeftoverMarkers 决定替换后多余的 [IMAGE] 标记是否从正文移除。
	StripLeftoverMarkers bool `json:"strip_leftover_markers"`
}

// LLMConfig 是生成模块的模型配置。
type LLMConfig struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
	// SecretKey 仅百度 ERNIE 需要（换取 access_token）。
	SecretKey string `json:"secret_key,omitempty"`
	BaseURL   string `json:"base_url,omitempty"`
}

// WordPressConfig holds the publishing target credentials.
type WordPressConfig struct {
	URL        string `json:"url"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Status     string `json:"status,omitempty"`
	Categories []int  `json:"categories,omitempty"`
	Tags       []int  `json:"tags,omitempty"`
}

// Default 返回内置的默认阈值。
func Default() Config {
	return Config{
		Quality: QualityConfig{
			MinReadabilityScore:  60,
			MinOriginalityScore:  70,
			MaxAvgSentenceLength: 25,
			MinParagraphCount:    5,
			Threshold:            70,
		},
		SEO: SEOConfig{
			MinWordCount:          800,
			KeywordDensity:        0.02,
			TitleMaxLength:        60,
			MetaDescriptionLength: 160,
			MinInternalLinks:      2,
			MinImages:             1,
			MinH2Tags:             2,
			MinH3Tags:             3,
			Threshold:             80,
		},
		Optimizer: OptimizerConfig{MaxIterations: 3},
		Images: ImageConfig{
			SaveDir:                "data/images",
			MaxImages:              5,
			MaxConcurrentDownloads: 5,
		},
	}
}

// Load reads JSON config from disk and fills missing values with defaults.
// 反序列化直接覆盖在 Default() 之上：文件里没写的字段保留默认值，
// 显式写出的零值（比如 "min_images": 0）按原样生效。
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// normalize 补齐指针段里无法预填默认值的字段。
func (c *Config) normalize() {
	if c.WordPress != nil && c.WordPress.Status == "" {
		c.WordPress.Status = "draft"
	}
}

func (c *Config) validate() error {
	if c.WordPress != nil {
		if c.WordPress.URL == "" || c.WordPress.Username == "" || c.WordPress.Password == "" {
			return errors.New("wordpress config must include url, username and password")
		}
	}
	if c.LLM != nil && c.LLM.Provider != "" && c.LLM.Provider != "mock" && c.LLM.Model == "" {
		return errors.New("llm config must include model when provider is set")
	}
	return nil
}
