package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	BaseURL          = "https://games.espn.com/ffl/api/v2/"
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (compatible; PowerRankings/1.0)"
)

// Client defines the interface for interacting with the ESPN fantasy API
type Client interface {
	// GetLeague retrieves the season snapshot (teams and records)
	GetLeague(ctx context.Context, leagueID string) (*League, error)
	// GetSchedule retrieves every scheduled week with matchup scores
	GetSchedule(ctx context.Context, leagueID string) (*Schedule, error)
}

// ClientConfig holds optional settings for NewHTTPClient. Zero values fall
// back to the package defaults.
type ClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Cache     Cache
}

// HTTPClient implements the Client interface using HTTP requests
type HTTPClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	cache      Cache
	logger     *logrus.Logger
}

// NewHTTPClient creates a new HTTP client for the ESPN API
func NewHTTPClient(logger *logrus.Logger, cfg ClientConfig) Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = BaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &HTTPClient{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache:  cfg.Cache,
		logger: logger,
	}
}

// makeRequest performs an HTTP GET request to the ESPN API and decodes the body into result
func (c *HTTPClient) makeRequest(ctx context.Context, endpoint, leagueID string, result interface{}) error {
	requestURL := fmt.Sprintf("%s%s", c.baseURL, endpoint)

	body, err := c.fetch(ctx, requestURL, leagueID)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		c.logger.WithError(err).WithField("url", requestURL).Error("Failed to unmarshal response")
		return fmt.Errorf("%w: failed to unmarshal response: %v", ErrMalformedPayload, err)
	}

	c.logger.WithField("url", requestURL).Debug("API request completed successfully")
	return nil
}

// fetch returns the raw response body for a URL, consulting the cache first when one is configured
func (c *HTTPClient) fetch(ctx context.Context, requestURL, leagueID string) ([]byte, error) {
	if c.cache != nil {
		cached, ok, err := c.cache.Get(ctx, requestURL)
		if err != nil {
			c.logger.WithError(err).WithField("url", requestURL).Warn("Cache lookup failed, requesting from API")
		} else if ok {
			c.logger.WithField("url", requestURL).Debug("Serving API response from cache")
			return cached, nil
		}
	}

	c.logger.WithField("url", requestURL).Debug("Making API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("HTTP request failed")
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.WithError(err).Error("Failed to read response body")
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"response":    string(body),
			"league_id":   leagueID,
		}).Error("API request failed")

		return nil, &ESPNError{
			Type:       "api_error",
			Message:    fmt.Sprintf("API request failed with status %d: %s", resp.StatusCode, string(body)),
			StatusCode: resp.StatusCode,
			LeagueID:   leagueID,
		}
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, requestURL, body); err != nil {
			c.logger.WithError(err).WithField("url", requestURL).Warn("Failed to cache API response")
		}
	}

	return body, nil
}

// GetLeague retrieves the season snapshot for a league and validates it
func (c *HTTPClient) GetLeague(ctx context.Context, leagueID string) (*League, error) {
	endpoint := fmt.Sprintf("teams?leagueId=%s", url.QueryEscape(leagueID))
	var league League

	if err := c.makeRequest(ctx, endpoint, leagueID, &league); err != nil {
		return nil, fmt.Errorf("failed to get league %s: %w", leagueID, err)
	}

	if err := league.Validate(); err != nil {
		return nil, fmt.Errorf("failed to get league %s: %w", leagueID, err)
	}
	league.LeagueSize = len(league.Teams)

	return &league, nil
}

// GetSchedule retrieves the league schedule and validates every decided matchup
func (c *HTTPClient) GetSchedule(ctx context.Context, leagueID string) (*Schedule, error) {
	endpoint := fmt.Sprintf("leagueSchedules?leagueId=%s", url.QueryEscape(leagueID))
	var envelope LeagueSchedule

	if err := c.makeRequest(ctx, endpoint, leagueID, &envelope); err != nil {
		return nil, fmt.Errorf("failed to get schedule for league %s: %w", leagueID, err)
	}

	schedule := envelope.LeagueSchedule
	if err := schedule.Validate(); err != nil {
		return nil, fmt.Errorf("failed to get schedule for league %s: %w", leagueID, err)
	}

	return &schedule, nil
}
