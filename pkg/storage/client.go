// Package storage provides a lightweight Supabase Storage API client.
// Uses raw HTTP calls (no SDK) to minimize external dependencies.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// probeTimeout bounds URL reachability checks so a dead endpoint cannot
// hang the resolution cascade.
const probeTimeout = 5 * time.Second

// ErrNotConfigured はストレージが設定されていない場合のエラー
var ErrNotConfigured = errors.New("storage: not configured")

// ObjectInfo は list API が返すオブジェクトのメタデータ
type ObjectInfo struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Client はストレージ API クライアントのインターフェース
type Client interface {
	// CreateSignedURL は path の署名付き URL を ttl 付きで発行する
	CreateSignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
	// PublicURL は path の公開 URL を組み立てる（ネットワーク呼び出しなし）
	PublicURL(path string) string
	// Upload は path にオブジェクトをアップロードする
	Upload(ctx context.Context, path, contentType string, body io.Reader) error
	// List は prefix 配下のオブジェクト一覧を取得する
	List(ctx context.Context, prefix string, limit int) ([]ObjectInfo, error)
	// CheckURL は url が到達可能か HEAD リクエストで確認する（5秒上限）
	CheckURL(ctx context.Context, url string) error
}

// RealClient はストレージ API への raw HTTP クライアント実装
type RealClient struct {
	BaseURL    string // e.g. https://x.supabase.co
	ServiceKey string // service-role key
	Bucket     string
	httpClient *http.Client
}

// NewClient は RealClient を生成する
func NewClient(baseURL, serviceKey, bucket string) *RealClient {
	return &RealClient{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		ServiceKey: serviceKey,
		Bucket:     bucket,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateSignedURL は POST /storage/v1/object/sign/{bucket}/{path} を呼ぶ
func (c *RealClient) CreateSignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	if c.BaseURL == "" || c.ServiceKey == "" {
		return "", ErrNotConfigured
	}

	reqBody, err := json.Marshal(map[string]int{"expiresIn": int(ttl.Seconds())})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/sign/%s/%s", c.BaseURL, c.Bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	c.setAuth(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage: sign %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("storage: sign %s: status %d: %s", path, resp.StatusCode, readErrorBody(resp.Body))
	}

	var result struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("storage: sign %s: decode response: %w", path, err)
	}
	if result.SignedURL == "" {
		return "", fmt.Errorf("storage: sign %s: empty signed URL in response", path)
	}

	// The API returns a path like /object/sign/{bucket}/{key}?token=...
	if strings.HasPrefix(result.SignedURL, "/") {
		return c.BaseURL + "/storage/v1" + result.SignedURL, nil
	}
	return result.SignedURL, nil
}

// PublicURL は公開オブジェクト URL を返す。ローカルな文字列組み立てのみ。
func (c *RealClient) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.BaseURL, c.Bucket, path)
}

// Upload は POST /storage/v1/object/{bucket}/{path} でオブジェクトを保存する
func (c *RealClient) Upload(ctx context.Context, path, contentType string, body io.Reader) error {
	if c.BaseURL == "" || c.ServiceKey == "" {
		return ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.BaseURL, c.Bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return err
	}
	c.setAuth(req)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storage: upload %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("storage: upload %s: status %d: %s", path, resp.StatusCode, readErrorBody(resp.Body))
	}
	return nil
}

// List は POST /storage/v1/object/list/{bucket} でオブジェクト一覧を取得する
func (c *RealClient) List(ctx context.Context, prefix string, limit int) ([]ObjectInfo, error) {
	if c.BaseURL == "" || c.ServiceKey == "" {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = 100
	}

	reqBody, err := json.Marshal(map[string]any{
		"prefix": prefix,
		"limit":  limit,
	})
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/list/%s", c.BaseURL, c.Bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	c.setAuth(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage: list %s: %w", prefix, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("storage: list %s: status %d: %s", prefix, resp.StatusCode, readErrorBody(resp.Body))
	}

	var objects []ObjectInfo
	if err := json.NewDecoder(resp.Body).Decode(&objects); err != nil {
		return nil, fmt.Errorf("storage: list %s: decode response: %w", prefix, err)
	}
	return objects, nil
}

// CheckURL は url に HEAD リクエストを送り、2xx 以外をエラーとする
func (c *RealClient) CheckURL(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storage: probe %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("storage: probe %s: status %d", url, resp.StatusCode)
	}
	return nil
}

func (c *RealClient) setAuth(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.ServiceKey)
	req.Header.Set("apikey", c.ServiceKey)
}

// readErrorBody は失敗レスポンスの本文をログ用に短縮して読み出す
func readErrorBody(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
