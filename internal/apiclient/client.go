package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/observability"
	apperrors "github.com/spec-kit/ticket-console/pkg/util"
)

// SessionExpiredMessage is shown when the ticket API answers 401.
const SessionExpiredMessage = "Sessão expirou, faça novamente o login."

// ErrUnauthorized is returned by every authenticated call that received HTTP 401.
var ErrUnauthorized = apperrors.NewUnauthorized(SessionExpiredMessage)

// UnauthorizedHook runs after the ticket API rejected a session's token.
type UnauthorizedHook func(ctx context.Context, session *domain.Session)

// Error is a failed ticket API call other than 401.
type Error struct {
	Operation  string
	Message    string
	StatusCode int
	Detail     string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0 && e.Detail != "":
		return fmt.Sprintf("%s: status %d: %s", e.Message, e.StatusCode, e.Detail)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d", e.Message, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Options configures a Client.
type Options struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Scopes       []string
	Timeout      time.Duration
	Transport    http.RoundTripper
	Logger       *zap.Logger
	Metrics      *observability.Metrics
}

// Client is the single point of outbound HTTP towards the ticket API.
type Client struct {
	baseURL   string
	timeout   time.Duration
	transport http.RoundTripper
	oauth     *oauth2.Config
	logger    *zap.Logger
	metrics   *observability.Metrics

	mu             sync.RWMutex
	onUnauthorized UnauthorizedHook
}

// New builds a client from options.
func New(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:   base,
		timeout:   opts.Timeout,
		transport: transport,
		oauth: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			Scopes:       opts.Scopes,
			Endpoint: oauth2.Endpoint{
				TokenURL:  base + "/api/v1/login/",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		logger:  logger,
		metrics: opts.Metrics,
	}
}

// OnUnauthorized installs the hook that tears a session down after a 401.
func (c *Client) OnUnauthorized(hook UnauthorizedHook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = hook
}

// Gateway returns the domain operations bound to session's bearer token.
func (c *Client) Gateway(session *domain.Session) *Gateway {
	token := ""
	if session != nil {
		token = session.Token
	}
	httpClient := &http.Client{
		Timeout: c.timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   c.transport,
		},
	}
	return &Gateway{client: c, session: session, http: httpClient}
}

// Ping reports whether the ticket API answers at all. Any HTTP status counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.plainHTTP().Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

func (c *Client) plainHTTP() *http.Client {
	return &http.Client{Timeout: c.timeout, Transport: c.transport}
}

func (c *Client) unauthorized(ctx context.Context, session *domain.Session) {
	c.mu.RLock()
	hook := c.onUnauthorized
	c.mu.RUnlock()
	if hook != nil {
		hook(ctx, session)
	}
}

// Gateway performs authenticated calls for one session.
type Gateway struct {
	client  *Client
	session *domain.Session
	http    *http.Client
}

type operation struct {
	name    string
	message string
}

func (g *Gateway) do(ctx context.Context, op operation, method, path string, query url.Values, body, out any) error {
	start := time.Now()
	err := g.send(ctx, op, method, path, query, body, out)

	outcome := "ok"
	switch {
	case errors.Is(err, ErrUnauthorized):
		outcome = "unauthorized"
	case err != nil:
		outcome = "error"
	}
	g.client.metrics.RecordAPICall(op.name, outcome, time.Since(start))

	if err != nil {
		g.client.logger.Warn("ticket api call failed",
			zap.String("operation", op.name),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return err
	}
	g.client.logger.Debug("ticket api call",
		zap.String("operation", op.name),
		zap.String("method", method),
		zap.String("path", path),
		zap.Duration("latency", time.Since(start)))
	return nil
}

func (g *Gateway) send(ctx context.Context, op operation, method, path string, query url.Values, body, out any) error {
	target := g.client.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &Error{Operation: op.name, Message: op.message, Err: err}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &Error{Operation: op.name, Message: op.message, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return &Error{Operation: op.name, Message: op.message, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		g.client.unauthorized(ctx, g.session)
		return ErrUnauthorized
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Operation: op.name, Message: op.message, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Operation:  op.name,
			Message:    op.message,
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(payload),
		}
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &Error{Operation: op.name, Message: op.message, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

// parseDetail extracts the API's "detail" field when it is a plain string.
func parseDetail(payload []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err != nil {
		return string(body.Detail)
	}
	return detail
}
