// Package gatekeeper calls the festival auth service to introspect access
// tokens. Token issuance and session management live entirely in that
// service; this client only verifies and maps the result to a principal.
package gatekeeper

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/kapofest/cheerboard/internal/domain/user"
	"github.com/kapofest/cheerboard/internal/platform/logging"
	"github.com/kapofest/cheerboard/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
)

var (
	errGatekeeperTransient = crerr.New("gatekeeper transient failure")

	// ErrTokenRejected means the gatekeeper answered and the token is not
	// valid; distinct from the gatekeeper being unreachable.
	ErrTokenRejected = crerr.New("access token rejected")
)

const (
	defaultTimeout       = 5 * time.Second
	principalCacheTTL    = 30 * time.Second
	principalCacheMaxLen = 4096
)

type ClientConfig struct {
	BaseURL        string
	IntrospectPath string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	http           *fasthttp.Client
	baseURL        string
	introspectPath string
	timeout        time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	cache          *principalCache
}

func NewClient(cfg ClientConfig, logger *logging.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		http: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		introspectPath: strings.TrimSpace(cfg.IntrospectPath),
		timeout:        timeout,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		cache:          newPrincipalCache(principalCacheTTL, principalCacheMaxLen),
	}
}

type introspectResponse struct {
	Active bool   `json:"active"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	School string `json:"school"`
}

// VerifyAccessToken resolves a bearer token to a principal. Verified tokens
// are cached briefly under their hash so a tap burst from one client does
// not hammer the gatekeeper.
func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, crerr.Wrap(ErrTokenRejected, "empty token")
	}

	cacheKey := hashToken(token)
	if principal, ok := c.cache.Get(cacheKey); ok {
		return principal, nil
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "gatekeeper circuit breaker rejected request", "state", string(c.breaker.State()))
			return user.Principal{}, fmt.Errorf("gatekeeper is temporarily unavailable: %w", err)
		}
	}

	principal, err := c.introspect(ctx, token)
	c.recordCircuitResult(err)
	if err != nil {
		return user.Principal{}, err
	}

	c.cache.Set(cacheKey, principal)
	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	body, err := sonic.Marshal(map[string]string{"token": token})
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "marshal introspect payload")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(buildURL(c.baseURL, c.introspectPath))
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return user.Principal{}, crerr.Wrapf(errGatekeeperTransient, "introspect token: %v", err)
	}

	status := resp.StatusCode()
	switch {
	case status == fasthttp.StatusOK:
		// fall through to decode
	case status == fasthttp.StatusUnauthorized || status == fasthttp.StatusForbidden:
		return user.Principal{}, crerr.Wrapf(ErrTokenRejected, "introspect status=%d", status)
	case isRetryableStatus(status):
		return user.Principal{}, crerr.Wrapf(errGatekeeperTransient, "introspect status=%d body=%s", status, previewBody(resp.Body()))
	default:
		return user.Principal{}, crerr.Newf("introspect status=%d body=%s", status, previewBody(resp.Body()))
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(resp.Body(), &decoded); err != nil {
		return user.Principal{}, crerr.Wrap(err, "decode introspect response")
	}
	if !decoded.Active || strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, crerr.Wrap(ErrTokenRejected, "token inactive")
	}

	return user.Principal{
		UserID: decoded.UserID,
		Name:   decoded.Name,
		School: decoded.School,
	}, nil
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if isCircuitFailure(err) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

// previewBody bounds error detail without allocating for the common path.
func previewBody(body []byte) string {
	const max = 512

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if len(body) > max {
		_, _ = buf.Write(body[:max])
		_, _ = buf.WriteString("...(truncated)")
	} else {
		_, _ = buf.Write(body)
	}

	return buf.String()
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusRequestTimeout ||
		status == fasthttp.StatusTooManyRequests ||
		status >= fasthttp.StatusInternalServerError
}
