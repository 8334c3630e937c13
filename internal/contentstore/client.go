package contentstore

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

var (
	ErrConfigMissing    = errors.New("content store config missing")
	ErrRequestFailed    = errors.New("content store request failed")
	ErrPermissionDenied = errors.New("content store permission denied")
	ErrRevisionConflict = errors.New("content store revision conflict")
	ErrResponseInvalid  = errors.New("content store response invalid")
)

const (
	defaultAPIVersion = "v2024-12-01"
	defaultTimeout    = 15 * time.Second
	maxErrorBodyBytes = 64 << 10
)

// Config 远端内容平台连接配置
type Config struct {
	ProjectID  string
	Dataset    string
	Token      string
	APIVersion string
	APIHost    string // 覆盖默认域名，测试或私有部署使用
	Timeout    time.Duration
}

func (c *Config) normalize() {
	c.ProjectID = strings.TrimSpace(c.ProjectID)
	c.Dataset = strings.TrimSpace(c.Dataset)
	c.Token = strings.TrimSpace(c.Token)
	c.APIHost = strings.TrimRight(strings.TrimSpace(c.APIHost), "/")
	c.APIVersion = strings.TrimSpace(c.APIVersion)
	if c.APIVersion == "" {
		c.APIVersion = defaultAPIVersion
	}
	if !strings.HasPrefix(c.APIVersion, "v") {
		c.APIVersion = "v" + c.APIVersion
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// ValidateRead 校验读取所需配置
func (c Config) ValidateRead() error {
	if c.ProjectID == "" && c.APIHost == "" {
		return fmt.Errorf("%w: project id is not configured", ErrConfigMissing)
	}
	if c.Dataset == "" {
		return fmt.Errorf("%w: dataset is not configured", ErrConfigMissing)
	}
	return nil
}

// ValidateWrite 校验写入与上传所需配置
func (c Config) ValidateWrite() error {
	if err := c.ValidateRead(); err != nil {
		return err
	}
	if c.Token == "" {
		return fmt.Errorf("%w: write token is not configured", ErrConfigMissing)
	}
	return nil
}

// Client 远端内容平台 HTTP 客户端，不持有跨调用状态
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient 指定 http.Client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient 创建客户端
func NewClient(cfg Config, opts ...Option) *Client {
	cfg.normalize()
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Config 返回规范化后的配置
func (c *Client) Config() Config {
	return c.cfg
}

func (c *Client) baseURL() string {
	if c.cfg.APIHost != "" {
		return c.cfg.APIHost + "/" + c.cfg.APIVersion
	}
	return fmt.Sprintf("https://%s.api.sanity.io/%s", c.cfg.ProjectID, c.cfg.APIVersion)
}

// Query 执行查询，结果写入 dest；远端返回 null 时 dest 保持不变并返回 false
func (c *Client) Query(ctx context.Context, query string, params map[string]interface{}, dest interface{}) (bool, error) {
	if err := c.cfg.ValidateRead(); err != nil {
		return false, err
	}
	values := url.Values{}
	values.Set("query", query)
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return false, fmt.Errorf("%w: encode param %s failed", ErrRequestFailed, name)
		}
		values.Set("$"+name, string(encoded))
	}
	endpoint := fmt.Sprintf("%s/data/query/%s?%s", c.baseURL(), url.PathEscape(c.cfg.Dataset), values.Encode())

	body, err := c.do(ctx, http.MethodGet, endpoint, "", nil)
	if err != nil {
		return false, err
	}
	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return false, fmt.Errorf("%w: decode query response failed", ErrResponseInvalid)
	}
	result := bytes.TrimSpace(envelope.Result)
	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		return false, nil
	}
	if dest == nil {
		return true, nil
	}
	if err := json.Unmarshal(result, dest); err != nil {
		return false, fmt.Errorf("%w: decode query result failed: %v", ErrResponseInvalid, err)
	}
	return true, nil
}

// Mutate 提交一批变更，服务端按批原子执行
func (c *Client) Mutate(ctx context.Context, mutations ...Mutation) (*MutateResult, error) {
	if err := c.cfg.ValidateWrite(); err != nil {
		return nil, err
	}
	if len(mutations) == 0 {
		return nil, fmt.Errorf("%w: no mutations", ErrRequestFailed)
	}
	payload, err := json.Marshal(map[string]interface{}{"mutations": mutations})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal mutations failed", ErrRequestFailed)
	}
	endpoint := fmt.Sprintf("%s/data/mutate/%s?returnIds=true&returnDocuments=true", c.baseURL(), url.PathEscape(c.cfg.Dataset))

	body, err := c.do(ctx, http.MethodPost, endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusConflict && hasRevisionCondition(mutations) {
			return nil, fmt.Errorf("%w: status %d: %s", ErrRevisionConflict, statusErr.StatusCode, statusErr.Body)
		}
		return nil, err
	}
	var result MutateResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: decode mutate response failed", ErrResponseInvalid)
	}
	return &result, nil
}

// UploadImage 上传图片二进制到资源接口
func (c *Client) UploadImage(ctx context.Context, body io.Reader, filename, contentType string) (*Asset, error) {
	if err := c.cfg.ValidateWrite(); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("%w: empty body", ErrRequestFailed)
	}
	values := url.Values{}
	values.Set("filename", filename)
	endpoint := fmt.Sprintf("%s/assets/images/%s?%s", c.baseURL(), url.PathEscape(c.cfg.Dataset), values.Encode())

	respBody, err := c.do(ctx, http.MethodPost, endpoint, contentType, body)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Document *Asset `json:"document"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode upload response failed", ErrResponseInvalid)
	}
	if envelope.Document == nil {
		return &Asset{}, nil
	}
	return envelope.Document, nil
}

func (c *Client) do(ctx context.Context, method, endpoint, contentType string, body io.Reader) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response failed", ErrRequestFailed)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return respBody, nil
	}

	detail := strings.TrimSpace(string(truncate(respBody, maxErrorBodyBytes)))
	switch resp.StatusCode {
	case http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d: %s", ErrPermissionDenied, resp.StatusCode, detail)
	default:
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: detail}
	}
}

func truncate(b []byte, limit int) []byte {
	if len(b) <= limit {
		return b
	}
	return b[:limit]
}

// StatusError 远端非 2xx 响应
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", ErrRequestFailed.Error(), e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", ErrRequestFailed.Error(), e.StatusCode, e.Body)
}

// Is 使 errors.Is(err, ErrRequestFailed) 成立
func (e *StatusError) Is(target error) bool {
	return target == ErrRequestFailed
}
