package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.paystack.co"

var (
	ErrConfigInvalid    = errors.New("paystack config invalid")
	ErrRequestFailed    = errors.New("paystack request failed")
	ErrResponseInvalid  = errors.New("paystack response invalid")
	ErrTransactionNotOK = errors.New("paystack transaction not successful")
)

// Config Paystack 配置
type Config struct {
	SecretKey   string `json:"secret_key"`   // 商户密钥（sk_ 开头）
	BaseURL     string `json:"base_url"`     // 接口基础地址
	CallbackURL string `json:"callback_url"` // 支付完成跳转地址
	TimeoutMS   int    `json:"timeout_ms"`   // 请求超时（毫秒）
}

// ValidateConfig 校验 Paystack 配置完整性
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return fmt.Errorf("%w: secret_key is required", ErrConfigInvalid)
	}
	return nil
}

// Client Paystack 接口客户端
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient 创建 Paystack 客户端
func NewClient(cfg Config) (*Client, error) {
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	timeout := 10 * time.Second
	if cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	return &Client{cfg: cfg, client: &http.Client{Timeout: timeout}}, nil
}

// InitializeInput 发起交易输入
type InitializeInput struct {
	Email      string                 `json:"email"`
	AmountKobo int64                  `json:"amount"` // 最小货币单位（kobo）
	Reference  string                 `json:"reference"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// InitializeResult 发起交易结果
type InitializeResult struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// VerifyResult 交易核验结果
type VerifyResult struct {
	Reference  string `json:"reference"`
	Status     string `json:"status"`
	AmountKobo int64  `json:"amount"`
	Channel    string `json:"channel"`
	PaidAt     string `json:"paid_at"`
}

// InitializeTransaction 发起一笔交易，返回收银台跳转地址
// Reference 由调用方生成并复用为结算幂等键，保证端到端幂等。
func (c *Client) InitializeTransaction(ctx context.Context, input InitializeInput) (*InitializeResult, error) {
	if strings.TrimSpace(input.Email) == "" || input.AmountKobo <= 0 || strings.TrimSpace(input.Reference) == "" {
		return nil, fmt.Errorf("%w: email, amount and reference are required", ErrConfigInvalid)
	}
	payload := map[string]interface{}{
		"email":     input.Email,
		"amount":    input.AmountKobo,
		"reference": input.Reference,
	}
	if c.cfg.CallbackURL != "" {
		payload["callback_url"] = c.cfg.CallbackURL
	}
	if len(input.Metadata) > 0 {
		payload["metadata"] = input.Metadata
	}

	respBytes, err := c.postJSON(ctx, "/transaction/initialize", payload)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Status  bool             `json:"status"`
		Message string           `json:"message"`
		Data    InitializeResult `json:"data"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if !resp.Status {
		return nil, fmt.Errorf("%w: %s", ErrRequestFailed, resp.Message)
	}
	if resp.Data.Reference != input.Reference {
		return nil, fmt.Errorf("%w: reference mismatch", ErrResponseInvalid)
	}
	return &resp.Data, nil
}

// VerifyTransaction 按交易引用号核验支付结果
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*VerifyResult, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, fmt.Errorf("%w: reference is required", ErrConfigInvalid)
	}

	respBytes, err := c.getJSON(ctx, "/transaction/verify/"+url.PathEscape(reference))
	if err != nil {
		return nil, err
	}
	var resp struct {
		Status  bool         `json:"status"`
		Message string       `json:"message"`
		Data    VerifyResult `json:"data"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if !resp.Status {
		return nil, fmt.Errorf("%w: %s", ErrRequestFailed, resp.Message)
	}
	if !strings.EqualFold(resp.Data.Status, "success") {
		return &resp.Data, fmt.Errorf("%w: status %s", ErrTransactionNotOK, resp.Data.Status)
	}
	return &resp.Data, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) getJSON(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}
	return respBytes, nil
}
