package fplapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/vongohren/fpl-ai-assist/internal/logging"
)

const defaultBaseURL = "https://fantasy.premierleague.com/api"

// ErrAuthRequired is returned before any request is made when an
// authenticated resource is requested and no credential is configured.
var ErrAuthRequired = errors.New("fpl: authentication required: set FPL_COOKIE or FPL_X_API_AUTH")

// StatusError is an upstream HTTP failure carrying the numeric status.
type StatusError struct {
	Code    int
	Path    string
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fpl: GET %s failed: %d %s", e.Path, e.Code, e.Message)
}

// AsStatusError unwraps err into a StatusError if possible.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// ClientConfig carries overrides for Client; zero values take defaults.
type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	UserAgent  string
	Cookie     string
	XAPIAuth   string
}

// Client issues read-only requests against the FPL API. One method per
// resource, no retries; the transport timeout is the only deadline.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	cookie    string
	xAPIAuth  string
	log       *logging.Logger
}

func NewClient(cfg ClientConfig, log *logging.Logger) *Client {
	if log == nil {
		log = logging.NewNop()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "fpl-ai-assist/1.0 (+https://fantasy.premierleague.com)"
	}
	return &Client{
		http:      httpClient,
		baseURL:   baseURL,
		userAgent: userAgent,
		cookie:    strings.TrimSpace(cfg.Cookie),
		xAPIAuth:  strings.TrimSpace(cfg.XAPIAuth),
		log:       log,
	}
}

// HasCredentials reports whether any authenticated call can be attempted.
func (c *Client) HasCredentials() bool {
	return c.cookie != "" || c.xAPIAuth != ""
}

// Bootstrap fetches the player/team/gameweek catalog.
func (c *Client) Bootstrap(ctx context.Context) (Bootstrap, error) {
	var out Bootstrap
	err := c.get(ctx, "/bootstrap-static/", false, &out)
	return out, err
}

// Fixtures fetches every fixture in the season.
func (c *Client) Fixtures(ctx context.Context) ([]Fixture, error) {
	var out []Fixture
	err := c.get(ctx, "/fixtures/", false, &out)
	return out, err
}

// FixturesForGameweek fetches the fixtures scheduled in one gameweek.
func (c *Client) FixturesForGameweek(ctx context.Context, gw int) ([]Fixture, error) {
	var out []Fixture
	err := c.get(ctx, fmt.Sprintf("/fixtures/?event=%d", gw), false, &out)
	return out, err
}

// Picks fetches a manager's confirmed picks for a gameweek (public).
func (c *Client) Picks(ctx context.Context, managerID, gw int) (PicksResponse, error) {
	var out PicksResponse
	err := c.get(ctx, fmt.Sprintf("/entry/%d/event/%d/picks/", managerID, gw), false, &out)
	return out, err
}

// MyTeam fetches the live authenticated team state for a manager.
func (c *Client) MyTeam(ctx context.Context, managerID int) (MyTeam, error) {
	var out MyTeam
	err := c.get(ctx, fmt.Sprintf("/my-team/%d/", managerID), true, &out)
	return out, err
}

// Manager fetches a manager's public profile.
func (c *Client) Manager(ctx context.Context, managerID int) (Manager, error) {
	var out Manager
	err := c.get(ctx, fmt.Sprintf("/entry/%d/", managerID), false, &out)
	return out, err
}

// History fetches a manager's per-gameweek season history.
func (c *Client) History(ctx context.Context, managerID int) (History, error) {
	var out History
	err := c.get(ctx, fmt.Sprintf("/entry/%d/history/", managerID), false, &out)
	return out, err
}

func (c *Client) get(ctx context.Context, path string, authenticated bool, out any) error {
	if authenticated && !c.HasCredentials() {
		return ErrAuthRequired
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrapf(err, "fpl: build request %s", path)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Origin", "https://fantasy.premierleague.com")
	req.Header.Set("Referer", "https://fantasy.premierleague.com/")
	req.Header.Set("x-requested-with", "XMLHttpRequest")
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}
	if c.xAPIAuth != "" {
		req.Header.Set("X-Api-Authorization", c.xAPIAuth)
	}

	c.log.Debug("fpl request", "path", path, "authenticated", authenticated)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "fpl: GET %s", path)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Code:    resp.StatusCode,
			Path:    path,
			Message: http.StatusText(resp.StatusCode),
		}
	}

	if err := sonic.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "fpl: decode %s", path)
	}
	return nil
}
