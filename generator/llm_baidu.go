package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	baiduTokenURL = "https://aip.baidubce.com/oauth/2.0/token"
	baiduChatURL  = "https://aip.baidubce.com/rpc/2.0/ai_custom/v1/wenxinworkshop/chat/"
)

// BaiduLLM 对接文心一言（ERNIE）。厂商协议特殊：
// 先用 API Key/Secret Key 换 access_token，再按模型名拼接聊天端点。
type BaiduLLM struct {
	model     string
	apiKey    string
	secretKey string
	client    *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewBaiduLLM(cfg *LLMSettings) (*BaiduLLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("baidu requires llm.api_key and llm.secret_key")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	return &BaiduLLM{
		model:     cfg.Model,
		apiKey:    cfg.APIKey,
		secretKey: cfg.SecretKey,
		client:    &http.Client{Timeout: 120 * time.Second},
	}, nil
}

type baiduTokenResp struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error,omitempty"`
	ErrorDesc   string `json:"error_description,omitempty"`
}

type baiduChatRequest struct {
	Messages []baiduMessage `json:"messages"`
	System   string         `json:"system,omitempty"`
}

type baiduMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type baiduChatResp struct {
	Result   string `json:"result"`
	ErrCode  int    `json:"error_code,omitempty"`
	ErrorMsg string `json:"error_msg,omitempty"`
}

func (b *BaiduLLM) token(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.accessToken != "" && time.Now().Before(b.tokenExpiry) {
		return b.accessToken, nil
	}

	q := url.Values{}
	q.Set("grant_type", "client_credentials")
	q.Set("client_id", b.apiKey)
	q.Set("client_secret", b.secretKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baiduTokenURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var data baiduTokenResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", err
	}
	if data.AccessToken == "" {
		return "", fmt.Errorf("baidu token: %s %s", data.Error, data.ErrorDesc)
	}

	b.accessToken = data.AccessToken
	// 提前一分钟过期，避免边界上拿到失效 token。
	b.tokenExpiry = time.Now().Add(time.Duration(data.ExpiresIn)*time.Second - time.Minute)
	return b.accessToken, nil
}

func (b *BaiduLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	token, err := b.token(ctx)
	if err != nil {
		return "", err
	}

	msgs := make([]baiduMessage, 0, len(prompt.History)+1)
	for _, h := range prompt.History {
		role := h.Role
		if role != "assistant" {
			role = "user"
		}
		msgs = append(msgs, baiduMessage{Role: role, Content: h.Content})
	}
	msgs = append(msgs, baiduMessage{Role: "user", Content: prompt.User})

	body, err := json.Marshal(baiduChatRequest{Messages: msgs, System: prompt.System})
	if err != nil {
		return "", err
	}

	endpoint := baiduChatURL + url.PathEscape(b.model) + "?access_token=" + url.QueryEscape(token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var data baiduChatResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", err
	}
	if data.ErrCode != 0 {
		return "", fmt.Errorf("baidu chat: %d %s", data.ErrCode, data.ErrorMsg)
	}
	if data.Result == "" {
		return "", errors.New("baidu: empty completion")
	}
	return data.Result, nil
}
