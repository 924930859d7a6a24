package websearch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/vongohren/fpl-ai-assist/internal/logging"
)

const defaultBaseURL = "https://api.search.brave.com/res/v1"

// Result is one web search hit.
type Result struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Client talks to the Brave web search API. An empty API key leaves the
// client unconfigured; callers check Configured before searching.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	log     *logging.Logger
}

func NewClient(apiKey string, log *logging.Logger) *Client {
	if log == nil {
		log = logging.NewNop()
	}
	return &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: defaultBaseURL,
		apiKey:  strings.TrimSpace(apiKey),
		log:     log,
	}
}

// WithBaseURL overrides the API endpoint, used by tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = strings.TrimRight(base, "/")
	return c
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Search runs one free-text query and returns up to count hits.
func (c *Client) Search(ctx context.Context, query string, count int) ([]Result, error) {
	if !c.Configured() {
		return nil, errors.New("websearch: no API key configured")
	}
	if count <= 0 {
		count = 10
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("count", strconv.Itoa(count))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/web/search?"+q.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "websearch: build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

	c.log.Debug("web search", "query", query, "count", count)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "websearch: query %q", query)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Newf("websearch: query %q failed: %d", query, resp.StatusCode)
	}

	var payload struct {
		Web struct {
			Results []Result `json:"results"`
		} `json:"web"`
	}
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrap(err, "websearch: decode response")
	}
	return payload.Web.Results, nil
}
