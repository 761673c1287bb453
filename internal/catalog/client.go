package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dropdex/internal/config"
)

// DatasetNames lists every raw drop-table dataset the pipeline consumes, in
// the order data:fetch retrieves them.
var DatasetNames = []string{
	"items",
	"missionRewards",
	"transientRewards",
	"cetusBountyRewards",
	"solarisBountyRewards",
	"deimosRewards",
	"zarimanRewards",
	"resourceByAvatar",
	"miscItems",
	"itemCatalog",
	"sourcesTable",
	"requirements",
}

type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.DataTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(rateInterval(cfg.DataRateLimitRPS)),
	}
}

func rateInterval(requestsPerSecond int) time.Duration {
	if requestsPerSecond <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(requestsPerSecond)
}

// FetchDataset retrieves one raw dataset body, retrying retryable statuses
// with jittered backoff. The body is validated as JSON before being returned:
// a malformed dataset aborts the run here rather than poisoning the cache.
func (c *Client) FetchDataset(ctx context.Context, name string) ([]byte, string, error) {
	baseURL := strings.TrimRight(c.cfg.DataBaseURL, "/")
	u, err := url.Parse(baseURL + "/" + name + ".json")
	if err != nil {
		return nil, "", err
	}

	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		c.limiter.WaitTurn()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, "", err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < 5 {
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				time.Sleep(backoff)
				lastErr = fmt.Errorf("dataset %s: status %d", name, resp.StatusCode)
				continue
			}
			return nil, "", fmt.Errorf("dataset %s: status=%d body=%s", name, resp.StatusCode, truncate(body, 200))
		}

		if !json.Valid(body) {
			return nil, "", fmt.Errorf("dataset %s: response is not valid JSON", name)
		}
		return body, u.String(), nil
	}

	if lastErr == nil {
		lastErr = errors.New("dataset request failed")
	}
	return nil, "", lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
