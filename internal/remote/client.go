package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/odysseus0/feedsync/internal/config"
	"github.com/odysseus0/feedsync/internal/model"
)

const maxBodyBytes = 16 << 20

// Client talks to the posts API. Each call is exactly one HTTP attempt.
type Client struct {
	baseURL   string
	userAgent string
	apiKey    string
	client    *http.Client
}

func NewClient(cfg config.Config) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		TLSHandshakeTimeout: 5 * time.Second,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
	}

	return &Client{
		baseURL:   strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		userAgent: cfg.UserAgent,
		apiKey:    cfg.APIKey,
		client: &http.Client{
			Timeout:   cfg.HTTPTimeout,
			Transport: transport,
		},
	}
}

// Latest returns the newest count posts, newest first.
func (c *Client) Latest(ctx context.Context, count int) ([]model.Post, error) {
	return c.get(ctx, "posts/latest", count)
}

// After returns posts newer than id, newest first.
func (c *Client) After(ctx context.Context, id int64, count int) ([]model.Post, error) {
	return c.get(ctx, "posts/"+strconv.FormatInt(id, 10)+"/after", count)
}

// Before returns at most count posts older than id, newest first.
func (c *Client) Before(ctx context.Context, id int64, count int) ([]model.Post, error) {
	return c.get(ctx, "posts/"+strconv.FormatInt(id, 10)+"/before", count)
}

func (c *Client) get(ctx context.Context, path string, count int) ([]model.Post, error) {
	req, err := c.newRequest(ctx, path, count)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "GET " + path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Op: "read " + path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Code: resp.StatusCode, Message: statusMessage(resp)}
	}
	return decodePosts(resp, body)
}

func (c *Client) newRequest(ctx context.Context, path string, count int) (*http.Request, error) {
	u, err := url.Parse(c.baseURL + "/" + path)
	if err != nil {
		return nil, fmt.Errorf("build request url: %w", err)
	}
	q := u.Query()
	q.Set("count", strconv.Itoa(count))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		req.Header.Set("Api-Key", c.apiKey)
	}
	if id := RequestID(ctx); id != "" {
		req.Header.Set("X-Request-Id", id)
	}
	return req, nil
}

// A 2xx without a usable JSON array is reported like any other bad response.
func decodePosts(resp *http.Response, body []byte) ([]model.Post, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, &APIError{Code: resp.StatusCode, Message: "empty response body"}
	}
	var posts []model.Post
	if err := json.Unmarshal(body, &posts); err != nil {
		return nil, &APIError{Code: resp.StatusCode, Message: "undecodable response body", Err: err}
	}
	for _, p := range posts {
		if p.ID <= 0 {
			return nil, &APIError{Code: resp.StatusCode, Message: fmt.Sprintf("post with non-positive id %d", p.ID)}
		}
	}
	return posts, nil
}

func statusMessage(resp *http.Response) string {
	// resp.Status is "404 Not Found"; keep the reason phrase only.
	if _, reason, ok := strings.Cut(resp.Status, " "); ok && reason != "" {
		return reason
	}
	return http.StatusText(resp.StatusCode)
}
