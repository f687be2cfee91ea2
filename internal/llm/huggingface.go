package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultHuggingFaceURL = "https://router.huggingface.co/hf-inference/mistralai/Mistral-7B-Instruct-v0.2"
	defaultTimeout        = 60 * time.Second
	maxResponseBytes      = 4 << 20
)

type hfRequest struct {
	Inputs string `json:"inputs"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

type hfError struct {
	Error any `json:"error"`
}

// HuggingFaceClient calls the hosted inference API with a single text input.
type HuggingFaceClient struct {
	url        string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

type HuggingFaceOption func(*HuggingFaceClient)

func WithHuggingFaceURL(url string) HuggingFaceOption {
	return func(c *HuggingFaceClient) {
		if url != "" {
			c.url = url
		}
	}
}

func WithHTTPClient(hc *http.Client) HuggingFaceOption {
	return func(c *HuggingFaceClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithHuggingFaceLogger(logger *zap.Logger) HuggingFaceOption {
	return func(c *HuggingFaceClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewHuggingFaceClient(token string, opts ...HuggingFaceOption) *HuggingFaceClient {
	c := &HuggingFaceClient{
		url:        DefaultHuggingFaceURL,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("huggingface")
	return c
}

// Complete posts {"inputs": prompt} and returns the first generated_text.
func (c *HuggingFaceClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.token == "" {
		return "", ErrNotConfigured
	}
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	ctx, cancel := withDefaultTimeout(ctx, c.httpClient.Timeout)
	defer cancel()

	body, err := json.Marshal(hfRequest{Inputs: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upstream := &UpstreamError{StatusCode: resp.StatusCode, Message: upstreamMessage(raw)}
		c.logger.Error("inference error",
			zap.Int("status", resp.StatusCode),
			zap.String("message", upstream.Message))
		return "", upstream
	}

	if !json.Valid(raw) {
		return "", errors.New("decode response: body is not valid JSON")
	}

	text, ok := firstGeneration(raw)
	if !ok {
		c.logger.Warn("response is not a generation list", zap.Int("response_len", len(raw)))
	}

	c.logger.Debug("inference completed",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("prompt_len", len(prompt)),
		zap.Int("response_len", len(text)))

	return text, nil
}

// firstGeneration returns the generated_text of the first element when raw
// is a JSON array of generations. Any other JSON shape yields "".
func firstGeneration(raw []byte) (string, bool) {
	var generations []hfGeneration
	if err := json.Unmarshal(raw, &generations); err != nil {
		return "", false
	}
	if len(generations) == 0 {
		return "", true
	}
	return generations[0].GeneratedText, true
}

func upstreamMessage(raw []byte) string {
	var e hfError
	if err := json.Unmarshal(raw, &e); err == nil {
		switch v := e.Error.(type) {
		case string:
			if v != "" {
				return v
			}
		case nil:
		default:
			if b, err := json.Marshal(v); err == nil {
				return string(b)
			}
		}
	}
	return "HF API error"
}
