package ledger

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

// 传输方式标识
const (
	TransportDirect   = "direct"
	TransportDegraded = "degraded"
	TransportForm     = "form"
)

var (
	ErrRequestFailed   = errors.New("ledger request failed")
	ErrResponseInvalid = errors.New("ledger response invalid")
	ErrLedgerRejected  = errors.New("ledger rejected record")
)

// Transport 单个台账传输方式
// Send 返回 nil 表示本次传输按自身的置信度标准成功，由流水线映射为终态。
type Transport interface {
	Kind() string
	Send(ctx context.Context, record *Record) error
}

// NewHTTPTransports 按置信度从高到低构造三种 HTTP 传输方式
func NewHTTPTransports(endpoint string, timeout time.Duration) []Transport {
	client := &http.Client{Timeout: timeout}
	return []Transport{
		&directTransport{endpoint: endpoint, client: client},
		&degradedTransport{endpoint: endpoint, client: client},
		&formTransport{endpoint: endpoint, client: client},
	}
}

// directTransport 标准 JSON 请求，解析应用层响应，置信度最高
type directTransport struct {
	endpoint string
	client   *http.Client
}

func (t *directTransport) Kind() string { return TransportDirect }

func (t *directTransport) Send(ctx context.Context, record *Record) error {
	body, err := json.Marshal(map[string]interface{}{
		"action": "addSale",
		"data":   record,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	var parsed struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if !parsed.Success {
		return fmt.Errorf("%w: %s", ErrLedgerRejected, parsed.Error)
	}
	return nil
}

// degradedTransport 发后即忘：请求发出即算成功，不读取远端响应
type degradedTransport struct {
	endpoint string
	client   *http.Client
}

func (t *degradedTransport) Kind() string { return TransportDegraded }

func (t *degradedTransport) Send(ctx context.Context, record *Record) error {
	body, err := json.Marshal(map[string]interface{}{
		"action": "addSale",
		"data":   record,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	// 响应不可观测，只要请求发出就视为已提交
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return nil
}

// formTransport 表单提交兜底：键值对编码，成功与否只看客户端是否抛错
type formTransport struct {
	endpoint string
	client   *http.Client
}

func (t *formTransport) Kind() string { return TransportForm }

func (t *formTransport) Send(ctx context.Context, record *Record) error {
	values := url.Values{}
	for k, v := range record.FormFields() {
		if v == "" {
			continue
		}
		values.Set(k, v)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return nil
}
