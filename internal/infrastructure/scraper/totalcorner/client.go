package totalcorner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/match-stats-scheduler/internal/domain/match"
	"github.com/riskibarqy/match-stats-scheduler/internal/domain/matchstats"
	"github.com/riskibarqy/match-stats-scheduler/internal/platform/logging"
	"github.com/riskibarqy/match-stats-scheduler/internal/platform/resilience"
)

const DefaultBaseURL = "https://www.totalcorner.com"

var (
	ErrUnexpectedStatus = errors.New("unexpected status from stats site")
	errTransient        = errors.New("stats site transient failure")
)

type Config struct {
	BaseURL        string
	UserAgent      string
	Timeout        time.Duration
	MaxRetries     int
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches totalcorner team and match pages. It satisfies both the
// match source and the statistics source of the pipelines.
type Client struct {
	http    *resty.Client
	baseURL string
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

func NewClient(cfg Config, logger *logging.Logger) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid stats site base url %q", baseURL)
	}
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	if retries > 1 {
		retries = 1
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTransport(otelhttp.NewTransport(http.DefaultTransport))
	client.SetCookieJar(jar)
	client.SetTimeout(timeout)
	if ua := strings.TrimSpace(cfg.UserAgent); ua != "" {
		client.SetHeader("User-Agent", ua)
	}
	client.SetRetryCount(retries)
	client.SetRetryWaitTime(time.Second)
	client.SetRetryMaxWaitTime(2 * time.Second)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return res != nil && isRetryableStatus(res.StatusCode())
	})

	return &Client{
		http:    client,
		baseURL: baseURL,
		breaker: resilience.NewFromConfig(cfg.CircuitBreaker),
		logger:  logger.Named("totalcorner"),
	}, nil
}

// UpcomingMatches scrapes the fixture list of team's page.
func (c *Client) UpcomingMatches(ctx context.Context, team match.TrackedTeam) ([]match.ScrapedRow, error) {
	path := "/team/view/" + url.PathEscape(strings.TrimSpace(team.ExternalID))
	body, err := c.fetch(ctx, path)
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch team page team=%s", team.Name)
	}

	rows, err := ParseTeamPage(bytes.NewReader(body), c.baseURL)
	if err != nil {
		return nil, crerr.Wrapf(err, "parse team page team=%s", team.Name)
	}
	c.logger.DebugContext(ctx, "team page scraped", "team", team.Name, "rows", len(rows))
	return rows, nil
}

// MatchStatistics scrapes the raw statistics fields of a match detail page.
func (c *Client) MatchStatistics(ctx context.Context, statsURL string) (matchstats.Fields, error) {
	if strings.TrimSpace(statsURL) == "" {
		return nil, crerr.New("stats url is required")
	}
	body, err := c.fetch(ctx, c.absolute(statsURL))
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch stats page url=%s", statsURL)
	}

	fields, err := ParseStatsPage(bytes.NewReader(body))
	if err != nil {
		return nil, crerr.Wrapf(err, "parse stats page url=%s", statsURL)
	}
	return fields, nil
}

func (c *Client) fetch(ctx context.Context, target string) ([]byte, error) {
	var body []byte
	err := c.breaker.Execute(func() error {
		res, err := c.http.R().SetContext(ctx).Get(target)
		if err != nil {
			return fmt.Errorf("%w: GET %s: %v", errTransient, target, err)
		}
		if res.StatusCode()/100 != 2 {
			if isRetryableStatus(res.StatusCode()) {
				return fmt.Errorf("%w: %w: GET %s status=%d", errTransient, ErrUnexpectedStatus, target, res.StatusCode())
			}
			return fmt.Errorf("%w: GET %s status=%d", ErrUnexpectedStatus, target, res.StatusCode())
		}
		body = res.Body()
		return nil
	}, func(err error) bool { return errors.Is(err, errTransient) })
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "stats site circuit breaker rejected request", "target", target, "state", c.breaker.State())
		}
		return nil, err
	}
	return body, nil
}

func (c *Client) absolute(link string) string {
	return resolveLink(c.baseURL, link)
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
