package broadcast

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
	"github.com/riskibarqy/score-predictor/internal/platform/resilience"
)

var (
	errWebhookTransient = crerr.New("webhook transient failure")
	// ErrUnavailable is returned while the circuit breaker rejects deliveries.
	ErrUnavailable = crerr.New("broadcast webhook is temporarily unavailable")
)

type WebhookConfig struct {
	URL            string
	Token          string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// WebhookPublisher POSTs match updates as JSON to a single endpoint.
type WebhookPublisher struct {
	client         *fasthttp.Client
	url            string
	token          string
	timeout        time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewWebhookPublisher(cfg WebhookConfig, logger *logging.Logger) (*WebhookPublisher, error) {
	target, err := validateHTTPURL(cfg.URL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid WEBHOOK_URL")
	}
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &WebhookPublisher{
		client: &fasthttp.Client{
			Name:                "score-predictor-broadcast",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
		url:            target,
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
	}, nil
}

func (p *WebhookPublisher) PublishMatchUpdated(ctx context.Context, event match.UpdatedEvent) error {
	if !p.circuitEnabled {
		return p.deliver(ctx, event)
	}

	err := p.breaker.Execute(func() error {
		return p.deliver(ctx, event)
	}, isWebhookCircuitFailure)
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		p.logger.WarnContext(ctx, "webhook circuit breaker rejected delivery", "state", p.breaker.State(), "match_id", event.MatchID)
		return crerr.WithSecondaryError(ErrUnavailable, err)
	}
	return err
}

func (p *WebhookPublisher) deliver(ctx context.Context, event match.UpdatedEvent) error {
	body := bytebufferpool.Get()
	defer bytebufferpool.Put(body)
	if err := sonic.ConfigStd.NewEncoder(body).Encode(event); err != nil {
		return crerr.Wrap(err, "marshal match update")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(p.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("X-Event-Type", "match.updated")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}
	req.SetBody(body.B)

	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if err := ctx.Err(); err != nil {
		return crerr.Wrap(err, "deliver webhook")
	}

	if err := p.client.DoTimeout(req, resp, timeout); err != nil {
		return fmt.Errorf("%w: post match=%s: %v", errWebhookTransient, event.MatchID, err)
	}

	status := resp.StatusCode()
	if status/100 == 2 {
		p.logger.DebugContext(ctx, "webhook delivered", "match_id", event.MatchID, "status", status)
		return nil
	}
	if isRetryableStatus(status) {
		return fmt.Errorf("%w: post match=%s status=%d body=%s", errWebhookTransient, event.MatchID, status, abbreviate(resp.Body(), 256))
	}
	return crerr.Newf("post match=%s status=%d body=%s", event.MatchID, status, abbreviate(resp.Body(), 256))
}

func isWebhookCircuitFailure(err error) bool {
	return stderrors.Is(err, errWebhookTransient)
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusRequestTimeout ||
		status == fasthttp.StatusTooManyRequests ||
		status >= fasthttp.StatusInternalServerError
}

func validateHTTPURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}
	return candidate, nil
}

func abbreviate(raw []byte, max int) string {
	text := strings.TrimSpace(string(raw))
	if len(text) <= max {
		return text
	}
	return text[:max] + "...(truncated)"
}
