package oracle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ErrRead covers every gateway failure: transport errors, non-200 responses
// and unparsable payloads. The gateway never retries; that policy belongs to
// the caller.
var ErrRead = errors.New("oracle read failed")

// Quote is a fixed-point price: Answer scaled by 10^Decimals.
type Quote struct {
	Feed      string
	Answer    int64
	Decimals  uint8
	UpdatedAt int64
}

// Client is a read-only adapter to an external price feed endpoint serving
// aggregator-style JSON: {"feed": ..., "answer": ..., "decimals": ...,
// "updatedAt": ...}.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// LatestPrice fetches the latest quote for a feed identifier such as
// "BTC/USD". Fails closed with ErrRead on any transport or format problem.
func (c *Client) LatestPrice(ctx context.Context, feed string) (Quote, error) {
	endpoint := fmt.Sprintf("%s/v1/feeds/latest?feed=%s", c.baseURL, url.QueryEscape(feed))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", ErrRead, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", ErrRead, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("%w: status %d", ErrRead, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", ErrRead, err)
	}
	if !gjson.ValidBytes(body) {
		return Quote{}, fmt.Errorf("%w: invalid JSON", ErrRead)
	}

	answer := gjson.GetBytes(body, "answer")
	decimals := gjson.GetBytes(body, "decimals")
	if !answer.Exists() || !decimals.Exists() {
		return Quote{}, fmt.Errorf("%w: missing answer or decimals", ErrRead)
	}
	if decimals.Int() < 0 || decimals.Int() > 18 {
		return Quote{}, fmt.Errorf("%w: decimals out of range: %d", ErrRead, decimals.Int())
	}

	return Quote{
		Feed:      feed,
		Answer:    answer.Int(),
		Decimals:  uint8(decimals.Int()),
		UpdatedAt: gjson.GetBytes(body, "updatedAt").Int(),
	}, nil
}
