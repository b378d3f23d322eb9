package gemini

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/parthos/desktop/backend/internal/domain/ai"
	"github.com/parthos/desktop/backend/internal/infrastructure/config"
	"github.com/parthos/desktop/backend/internal/infrastructure/monitoring"
	"github.com/parthos/desktop/backend/internal/infrastructure/resilience"
	"github.com/parthos/desktop/backend/internal/infrastructure/tracing"
	"github.com/parthos/desktop/backend/internal/shared/id"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const userAgent = "parthos-desktop/1.0"

// Client talks to the generative language REST API. It is safe for
// concurrent use.
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	cfg     config.AIConfig

	logger  *zap.Logger
	metrics *monitoring.Metrics
	tracer  *tracing.Tracer

	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

var _ ai.Collaborator = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithMetrics(metrics *monitoring.Metrics) Option {
	return func(c *Client) { c.metrics = metrics }
}

func WithTracer(tracer *tracing.Tracer) Option {
	return func(c *Client) { c.tracer = tracer }
}

// WithRetryWait bounds the backoff between transport retries.
func WithRetryWait(lo, hi time.Duration) Option {
	return func(c *Client) {
		c.retryWaitMin = lo
		c.retryWaitMax = hi
	}
}

// New creates a client. The API key travels in a header on every call.
func New(cfg config.AIConfig, opts ...Option) (*Client, error) {
	if !cfg.Enabled() {
		return nil, ai.ErrUnavailable
	}

	c := &Client{
		cfg:          cfg,
		logger:       zap.NewNop(),
		retryWaitMin: 1 * time.Second,
		retryWaitMax: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Transport-level retries with exponential backoff on 429 and 5xx.
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = c.retryWaitMin
	retryClient.RetryWaitMax = c.retryWaitMax
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c.resty = resty.NewWithClient(retryClient.StandardClient()).
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("x-goog-api-key", cfg.APIKey).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = max(1, int(cfg.RequestsPerSecond))
	}
	c.limiter = rate.NewLimiter(limit, burst)

	c.breaker = resilience.New("gemini", resilience.Settings{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsFailure: isFailure,
		OnStateChange: func(name string, from, to resilience.State) {
			c.logger.Warn("generation breaker changed state",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return c, nil
}

// BreakerState reports the state of the circuit guarding the remote side.
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}

// isFailure keeps caller mistakes (4xx other than 429) from tripping the
// breaker.
func isFailure(err error) bool {
	var stop *stopError
	if errors.As(err, &stop) {
		return false
	}
	var ge *ai.GenerationError
	if errors.As(err, &ge) && ge.Status >= 400 && ge.Status < 500 && ge.Status != http.StatusTooManyRequests {
		return false
	}
	return resilience.DefaultIsFailure(err)
}

// call runs fn under the rate limiter and breaker, inside a span, and
// records the outcome. Errors come back as *ai.GenerationError.
func call[T any](ctx context.Context, c *Client, op string, fn func(context.Context) (T, error)) (T, error) {
	timer := monitoring.NewTimer(c.metrics, op)
	exchange := id.NewExchangeID()
	c.logger.Debug("generation call", zap.String("op", op), zap.String("exchange_id", exchange.String()))

	var out T
	run := func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		var err error
		out, err = resilience.Execute(ctx, c.breaker, fn)
		return err
	}

	var err error
	if c.tracer != nil {
		err = c.tracer.Trace(ctx, "gemini."+op, run)
	} else {
		err = run(ctx)
	}

	status := "ok"
	if err != nil {
		status = "error"
		c.logger.Warn("generation call failed",
			zap.String("op", op),
			zap.String("exchange_id", exchange.String()),
			zap.Error(err),
		)
	}
	timer.Stop(status)
	if err != nil {
		return out, ai.Fail(op, err)
	}
	return out, nil
}

// request starts a call bound to ctx.
func (c *Client) request(ctx context.Context) *resty.Request {
	return c.resty.R().SetContext(ctx).ForceContentType("application/json")
}

// check turns a transport error or non-2xx response into a GenerationError.
func check(op string, resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsError() {
		return nil
	}
	return statusError(op, resp.StatusCode(), resp.Status(), resp.Body())
}

func statusError(op string, code int, status string, body []byte) error {
	detail := status
	var payload apiError
	if len(body) > 0 && sonic.Unmarshal(body, &payload) == nil && payload.Error.Message != "" {
		detail = payload.Error.Message
	}
	if detail == "" {
		detail = http.StatusText(code)
	}
	return &ai.GenerationError{Op: op, Detail: detail, Status: code}
}

func modelPath(model, method string) string {
	return "/models/" + model + ":" + method
}
