package jobqueue

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-resty/resty/v2"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/match-stats-scheduler/internal/platform/logging"
	"github.com/riskibarqy/match-stats-scheduler/internal/platform/resilience"
)

// errTransient marks publish failures that may succeed later. Only these
// count against the circuit breaker.
var errTransient = crerr.New("qstash transient failure")

const (
	forwardedTokenHeader = "X-Internal-Job-Token"
	maxPreviewBody       = 4096
)

type QStashPublisherConfig struct {
	BaseURL          string
	Token            string
	TargetBaseURL    string
	Retries          int
	InternalJobToken string
	Timeout          time.Duration
	CircuitBreaker   resilience.CircuitBreakerConfig
}

// QStashPublisher publishes delayed HTTP deliveries through Upstash QStash.
// Each publish asks QStash to POST the payload to TargetBaseURL+path once
// the delay has elapsed.
type QStashPublisher struct {
	http         *resty.Client
	publishBase  string
	target       string
	token        string
	forwardToken string
	retries      int
	configErr    error
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
}

func NewQStashPublisher(cfg QStashPublisherConfig, logger *logging.Logger) *QStashPublisher {
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New()
	client.SetTransport(otelhttp.NewTransport(http.DefaultTransport))
	client.SetTimeout(timeout)

	p := &QStashPublisher{
		http:         client,
		token:        strings.TrimSpace(cfg.Token),
		forwardToken: strings.TrimSpace(cfg.InternalJobToken),
		retries:      cfg.Retries,
		logger:       logger.Named("qstash"),
		breaker:      resilience.NewFromConfig(cfg.CircuitBreaker),
	}

	base, err := httpBaseURL("QSTASH_BASE_URL", cfg.BaseURL)
	if err != nil {
		p.configErr = err
		return p
	}
	p.publishBase = base + "/v2/publish/"
	p.target, p.configErr = httpBaseURL("QSTASH_TARGET_BASE_URL", cfg.TargetBaseURL)
	return p
}

// Enqueue schedules a POST of payload to path after delay. A non-empty
// deduplicationID makes QStash drop repeated publishes of the same job.
func (p *QStashPublisher) Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error {
	if p.configErr != nil {
		return p.configErr
	}
	path = "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "/" {
		return crerr.New("job path is required")
	}
	if payload == nil {
		payload = struct{}{}
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		return crerr.Wrap(err, "marshal job payload")
	}

	req := p.newRequest(path, body, delay, strings.TrimSpace(deduplicationID))
	preview := req.curl()
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("qstash.target_url", req.target),
		attribute.String("qstash.deduplication_id", req.dedupID),
		attribute.String("qstash.request_curl_preview", preview),
	)
	p.logger.DebugContext(ctx, "qstash publish request", "path", path, "curl_preview", preview)

	err = p.breaker.Execute(func() error {
		return p.send(ctx, req)
	}, func(err error) bool {
		return stderrors.Is(err, errTransient)
	})
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		p.logger.WarnContext(ctx, "qstash circuit open, publish rejected", "state", p.breaker.State(), "path", path)
		return crerr.Wrap(err, "qstash is temporarily unavailable")
	}
	if err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "qstash job published",
		"path", path,
		"delay", delaySeconds(delay),
		"deduplication_id", req.dedupID,
	)
	return nil
}

type header struct {
	name   string
	value  string
	secret bool
}

type publishRequest struct {
	url     string
	target  string
	dedupID string
	body    []byte
	headers []header
}

func (p *QStashPublisher) newRequest(path string, body []byte, delay time.Duration, dedupID string) publishRequest {
	headers := []header{
		{name: "Authorization", value: "Bearer " + p.token, secret: true},
		{name: "Content-Type", value: "application/json"},
		{name: "Upstash-Method", value: http.MethodPost},
	}
	if p.retries > 0 {
		headers = append(headers, header{name: "Upstash-Retries", value: strconv.Itoa(p.retries)})
	}
	if delay > 0 {
		headers = append(headers, header{name: "Upstash-Delay", value: delaySeconds(delay)})
	}
	if dedupID != "" {
		headers = append(headers, header{name: "Upstash-Deduplication-Id", value: dedupID})
	}
	if p.forwardToken != "" {
		headers = append(headers, header{name: "Upstash-Forward-" + forwardedTokenHeader, value: p.forwardToken, secret: true})
	}

	target := p.target + path
	return publishRequest{
		url:     p.publishBase + target,
		target:  target,
		dedupID: dedupID,
		body:    body,
		headers: headers,
	}
}

func (p *QStashPublisher) send(ctx context.Context, req publishRequest) error {
	r := p.http.R().SetContext(ctx).SetBody(req.body)
	for _, h := range req.headers {
		r.SetHeader(h.name, h.value)
	}

	resp, err := r.Post(req.url)
	if err != nil {
		return crerr.Wrapf(errTransient, "publish to %s: %v", req.target, err)
	}
	if resp.IsSuccess() {
		return nil
	}

	status := resp.StatusCode()
	detail := clip(strings.TrimSpace(resp.String()), maxPreviewBody)
	if status == http.StatusRequestTimeout || status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
		return crerr.Wrapf(errTransient, "publish to %s: status=%d body=%s", req.target, status, detail)
	}
	return crerr.Newf("publish to %s rejected: status=%d body=%s", req.target, status, detail)
}

// curl renders the request as a shell command with secrets masked.
func (r publishRequest) curl() string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("curl -X POST ")
	_, _ = buf.WriteString(shellQuote(r.url))
	for _, h := range r.headers {
		value := h.value
		if h.secret {
			value = maskSecret(value)
		}
		_, _ = buf.WriteString(" -H ")
		_, _ = buf.WriteString(shellQuote(h.name + ": " + value))
	}
	_, _ = buf.WriteString(" -d ")
	_, _ = buf.WriteString(shellQuote(clip(string(r.body), maxPreviewBody)))
	return buf.String()
}

func maskSecret(value string) string {
	if scheme, _, ok := strings.Cut(value, " "); ok {
		return scheme + " ***"
	}
	return "***"
}

func delaySeconds(delay time.Duration) string {
	if delay <= 0 {
		return "0s"
	}
	return strconv.Itoa(int(delay.Round(time.Second).Seconds())) + "s"
}

func httpBaseURL(name, raw string) (string, error) {
	candidate := strings.TrimRight(strings.TrimSpace(raw), "/")
	if candidate == "" {
		return "", crerr.Newf("%s is empty", name)
	}
	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "invalid %s", name)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("invalid %s: scheme %q is not http or https", name, parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", crerr.Newf("invalid %s: host is empty", name)
	}
	return candidate, nil
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'"'"'`) + "'"
}

func clip(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}
