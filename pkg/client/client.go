// Package client 调用 wordstack 的点赞切换接口
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/d60-Lab/wordstack/pkg/presenter"
)

var (
	ErrUnauthenticated = errors.New("sign in required")
	ErrNotFound        = errors.New("subject not found")
)

// StatusError 非 2xx 响应
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("like-toggle: unexpected status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithToken 设置 Bearer 访问令牌
func WithToken(token string) Option { return func(c *Client) { c.token = token } }

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type toggleRequest struct {
	SubjectID   string `json:"subjectId"`
	SubjectType string `json:"subjectType,omitempty"`
}

// ToggleLike POST /like-toggle；subjectType 为空时服务端按 poem 处理
func (c *Client) ToggleLike(ctx context.Context, subjectType, subjectID string) (presenter.Snapshot, error) {
	body, err := json.Marshal(toggleRequest{SubjectID: subjectID, SubjectType: subjectType})
	if err != nil {
		return presenter.Snapshot{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/like-toggle", bytes.NewReader(body))
	if err != nil {
		return presenter.Snapshot{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return presenter.Snapshot{}, errors.Wrap(err, "like-toggle")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return presenter.Snapshot{}, ErrUnauthenticated
	case http.StatusNotFound:
		return presenter.Snapshot{}, ErrNotFound
	default:
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(io.LimitReader(resp.Body, 4096))
		return presenter.Snapshot{}, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(buf.String())}
	}

	var out presenter.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return presenter.Snapshot{}, errors.Wrap(err, "decode like-toggle response")
	}
	return out, nil
}

// Toggler 绑定到某个主体，供 presenter.LikeState.Toggle 使用
func (c *Client) Toggler(subjectType, subjectID string) presenter.ToggleFunc {
	return func(ctx context.Context) (presenter.Snapshot, error) {
		return c.ToggleLike(ctx, subjectType, subjectID)
	}
}
