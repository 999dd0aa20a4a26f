// Package gateway is the storefront client's HTTP layer. Every outbound
// call carries the session's bearer token, and a 401 from the server ends
// the session that made the call.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrAuthorizationDenied is returned for every 401 response.
var ErrAuthorizationDenied = errors.New("gateway: authorization denied")

// APIError is any other non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway: server responded %d", e.StatusCode)
	}
	return fmt.Sprintf("gateway: server responded %d: %s", e.StatusCode, e.Message)
}

// Session is the part of the session store the gateway needs.
type Session interface {
	Token() string
	// Invalidate ends the current session, reporting whether one existed.
	Invalidate(ctx context.Context) bool
}

// DeniedHandler is told when a 401 has ended the session, typically to
// show a notice and send the user back to login.
type DeniedHandler func(ctx context.Context)

type Gateway struct {
	http     *resty.Client
	session  Session
	log      *zap.Logger
	onDenied DeniedHandler
}

type config struct {
	hc       *http.Client
	timeout  time.Duration
	log      *zap.Logger
	onDenied DeniedHandler
}

type Option func(*config)

// WithHTTPClient sends requests through hc (tests pass httptest clients).
func WithHTTPClient(hc *http.Client) Option { return func(c *config) { c.hc = hc } }

func WithTimeout(d time.Duration) Option { return func(c *config) { c.timeout = d } }

func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

func WithDeniedHandler(h DeniedHandler) Option { return func(c *config) { c.onDenied = h } }

// New returns a gateway for the API at baseURL. sess may be nil for
// anonymous-only use.
func New(baseURL string, sess Session, opts ...Option) *Gateway {
	cfg := config{timeout: 10 * time.Second, log: zap.NewNop()}
	for _, o := range opts {
		o(&cfg)
	}

	var rc *resty.Client
	if cfg.hc != nil {
		rc = resty.NewWithClient(cfg.hc)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(cfg.timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	g := &Gateway{http: rc, session: sess, log: cfg.log, onDenied: cfg.onDenied}
	rc.OnBeforeRequest(g.attachToken)
	rc.OnAfterResponse(g.checkResponse)
	return g
}

func (g *Gateway) attachToken(_ *resty.Client, r *resty.Request) error {
	if g.session == nil {
		return nil
	}
	if tok := g.session.Token(); tok != "" {
		r.SetHeader("Authorization", "Bearer "+tok)
	}
	return nil
}

func (g *Gateway) checkResponse(_ *resty.Client, resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	msg := errorMessage(resp.Body())
	if resp.StatusCode() != http.StatusUnauthorized {
		return &APIError{StatusCode: resp.StatusCode(), Message: msg}
	}

	req := resp.Request
	ctx := req.Context()
	if g.session != nil && g.session.Invalidate(ctx) {
		g.log.Warn("session ended by server",
			zap.String("method", req.Method), zap.String("url", req.URL), zap.String("reason", msg))
		if g.onDenied != nil {
			g.onDenied(ctx)
		}
	}
	if msg == "" {
		return ErrAuthorizationDenied
	}
	return fmt.Errorf("%w: %s", ErrAuthorizationDenied, msg)
}

// errorMessage pulls a human message out of an error body shaped like
// {"error": "..."} or {"message": "..."}, falling back to the raw text.
func errorMessage(body []byte) string {
	var m struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &m) == nil {
		if m.Error != "" {
			return m.Error
		}
		if m.Message != "" {
			return m.Message
		}
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

// call issues one request. result, when non-nil, receives the decoded
// JSON body of a successful response.
func (g *Gateway) call(ctx context.Context, method, path string, params map[string]string, body, result any) (*resty.Response, error) {
	req := g.http.R().SetContext(ctx).SetPathParams(params)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		var apiErr *APIError
		if errors.Is(err, ErrAuthorizationDenied) || errors.As(err, &apiErr) {
			return resp, err
		}
		return resp, fmt.Errorf("gateway: %s %s: %w", method, path, err)
	}
	return resp, nil
}

// IsUnavailable reports whether err is a failure the caller may paper over
// with offline data: anything except an authorization failure.
func IsUnavailable(err error) bool {
	return err != nil && !errors.Is(err, ErrAuthorizationDenied)
}
