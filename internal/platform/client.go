package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"agentConsole/internal/session"
)

// 远端平台的调用错误分类。
var (
	// ErrUnauthorized 表示凭证无效或令牌已失效，调用方应引导重新登录。
	ErrUnauthorized = errors.New("platform: unauthorized")
	// ErrNotFound 表示目标资源不存在（例如用户尚无已保存偏好）。
	ErrNotFound = errors.New("platform: not found")
)

// RequestError 表示网络层失败（连接失败、超时等），属于可恢复错误：
// 调用方的内存状态不应因此被改动。
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("platform: %s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Client 是营销物料平台 API 的 HTTP/JSON 客户端。
// 所有经鉴权的操作显式接收会话对象，不读取任何全局状态。
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient 构造平台客户端。timeout 约束每次请求的整体时限。
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// apiEnvelope 是平台响应的通用外层。
type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// doJSON 发送一次 JSON 请求并把响应体解码到 out（out 可为 nil）。
// sess 为 nil 时不携带 Authorization 头（仅登录使用）。
func (c *Client) doJSON(ctx context.Context, method, path string, sess *session.Session, body any, out any) error {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body for %s: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.decorate(req, sess)

	return c.send(req, op, out)
}

// decorate 设置鉴权与关联 ID 请求头。
func (c *Client) decorate(req *http.Request, sess *session.Session) {
	req.Header.Set("X-Correlation-ID", uuid.NewString())
	if sess != nil {
		req.Header.Set("Authorization", sess.Authorization())
	}
}

// send 执行请求并按状态码归类错误。
func (c *Client) send(req *http.Request, op string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("platform request failed", slog.String("op", op), slog.Any("error", err))
		return &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8*1024))
		return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response for %s: %w", op, err)
	}
	return nil
}
