// Package ingest 摄取协作方：校验来源 URL，调用外部抓取/归并服务，
// 未配置服务时退化为占位数据生成器。
package ingest

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

	"github.com/MaxiE97/homologation-vehicle/internal/model"
)

// 校验错误：在任何状态变更之前报告给用户
var (
	ErrNoURLs         = errors.New("at least one source URL is required")
	ErrInvalidURL     = errors.New("invalid source URL")
	ErrHostNotAllowed = errors.New("source URL host is not allow-listed")
)

// Client 摄取服务客户端
type Client interface {
	// Fetch 抓取并归并三个来源，返回按主键顺序排列的字段行
	Fetch(ctx context.Context, req model.IngestRequest) ([]model.VehicleRow, error)
}

// ValidateRequest 摄取前置校验：至少一个 URL，且每个非空 URL 的
// 主机名必须落在允许域名内（含子域名）。校验失败不发起任何网络调用。
func ValidateRequest(req model.IngestRequest, allowedHosts []string) error {
	urls := req.URLs()
	any := false
	for _, raw := range urls {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		any = true
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
		}
		if len(allowedHosts) > 0 && !hostAllowed(u.Hostname(), allowedHosts) {
			return fmt.Errorf("%w: %q", ErrHostNotAllowed, u.Hostname())
		}
	}
	if !any {
		return ErrNoURLs
	}
	return nil
}

func hostAllowed(host string, allowed []string) bool {
	host = strings.ToLower(host)
	for _, a := range allowed {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		if host == a || strings.HasSuffix(host, "."+a) {
			return true
		}
	}
	return false
}

// HTTPClient 通过 REST JSON 调用外部处理服务
type HTTPClient struct {
	serviceURL string
	client     *http.Client
}

// NewHTTPClient 创建摄取服务客户端
// serviceURL 形如 http://host:port，实际端点为 <serviceURL>/process-vehicle。
func NewHTTPClient(serviceURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		serviceURL: strings.TrimRight(serviceURL, "/"),
		client:     &http.Client{Timeout: timeout},
	}
}

type processRequest struct {
	URL1               string `json:"url1,omitempty"`
	URL2               string `json:"url2,omitempty"`
	URL3               string `json:"url3,omitempty"`
	TransmissionOption string `json:"transmission_option,omitempty"`
}

// Fetch 调用处理服务并解析字段行
func (c *HTTPClient) Fetch(ctx context.Context, req model.IngestRequest) ([]model.VehicleRow, error) {
	payload, err := json.Marshal(processRequest{
		URL1:               req.URL1,
		URL2:               req.URL2,
		URL3:               req.URL3,
		TransmissionOption: req.TransmissionOption,
	})
	if err != nil {
		return nil, fmt.Errorf("encode process request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serviceURL+"/process-vehicle", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build process request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call processing service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("processing service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var rows []model.VehicleRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode processing response: %w", err)
	}
	return rows, nil
}
