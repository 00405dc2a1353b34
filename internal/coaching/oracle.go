package coaching

import (
	"bytes"
	"context"
	"devtrack_backend/internal/config"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Oracle 外部教练（LLM）接口，测试中可以替换为桩实现
type Oracle interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

var ErrOracleNotConfigured = errors.New("coaching oracle is not configured")

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string            `json:"model"`
	Messages       []ChatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// OpenAIOracle 兼容 OpenAI /chat/completions 协议的客户端
type OpenAIOracle struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *http.Client
}

func NewOpenAIOracle(cfg config.AIConfig) *OpenAIOracle {
	return &OpenAIOracle{config: cfg, client: &http.Client{}}
}

func NewOpenAIOracleWithClient(cfg config.AIConfig, hc *http.Client) *OpenAIOracle {
	return &OpenAIOracle{config: cfg, client: hc}
}

// UpdateConfig 配置热更新
func (o *OpenAIOracle) UpdateConfig(cfg config.AIConfig) {
	o.mu.Lock()
	o.config = cfg
	o.mu.Unlock()
}

func (o *OpenAIOracle) settings() config.AIConfig {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.config
}

func (o *OpenAIOracle) Complete(ctx context.Context, system, prompt string) (string, error) {
	cfg := o.settings()
	if cfg.BaseURL == "" || cfg.APIKey == "" {
		return "", ErrOracleNotConfigured
	}
	if cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	reqBody := chatCompletionRequest{
		Model: cfg.Model,
		Messages: []ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature:    0.4,
		ResponseFormat: map[string]string{"type": "json_object"},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", err
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("AI API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", errors.New("AI API returned no choices")
	}
	return chatResp.Choices[0].Message.Content, nil
}
