package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/Malowking/flowpilot/core/errors"
	"github.com/Malowking/flowpilot/pkg/schema"
)

// Config 接口，用于提取chat配置
type Config interface {
	GetAPIKey() string
	GetBaseURL() string
	GetChatModel() string
}

// Client 调用OpenAI兼容/chat/completions接口的生成客户端
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewClient 创建生成客户端
func NewClient(conf Config) (*Client, error) {
	apiKey := conf.GetAPIKey()
	baseURL := conf.GetBaseURL()
	model := conf.GetChatModel()

	if apiKey == "" {
		return nil, errors.Newf(errors.ErrInvalidParameter, "chat apiKey is required")
	}
	if baseURL == "" {
		return nil, errors.Newf(errors.ErrInvalidParameter, "chat baseURL is required")
	}
	if model == "" {
		return nil, errors.Newf(errors.ErrInvalidParameter, "chat model not found")
	}

	httpClient := &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			Dial: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).Dial,
			TLSHandshakeTimeout: 30 * time.Second,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
		},
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
	}, nil
}

// Generate 发送角色标记的消息序列并返回模型回答文本
func (c *Client) Generate(ctx context.Context, messages []*schema.Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.Newf(errors.ErrInvalidParameter, "messages cannot be empty")
	}

	req := chatRequest{Model: c.model}
	for _, m := range messages {
		req.Messages = append(req.Messages, chatMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", errors.Newf(errors.ErrGenerationFailed, "failed to marshal request: %v", err)
	}

	url := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", errors.Newf(errors.ErrGenerationFailed, "failed to create request: %v", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", errors.Newf(errors.ErrGenerationFailed, "failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			return "", errors.Newf(errors.ErrGenerationFailed, "HTTP %d: failed to decode error response: %v", resp.StatusCode, err)
		}
		return "", errors.Newf(errors.ErrGenerationFailed, "API error (HTTP %d): %s", resp.StatusCode, errResp.Error.Message)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", errors.Newf(errors.ErrGenerationFailed, "failed to decode response: %v", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", errors.Newf(errors.ErrGenerationFailed, "no choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}
