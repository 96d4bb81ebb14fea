package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/session"
)

// EndListener runs after a session was removed, e.g. to tear down its controllers.
type EndListener func(sessionID string)

// Sessions owns the lifecycle of staff sessions: begin at login, resolve per
// request, end at logout or after the ticket API rejected the token.
type Sessions struct {
	store      session.Store
	tokens     *TokenManager
	cookieName string
	secure     bool
	logger     *zap.Logger

	mu        sync.RWMutex
	listeners []EndListener
}

// SessionsConfig bundles Sessions dependencies.
type SessionsConfig struct {
	Store        session.Store
	Tokens       *TokenManager
	CookieName   string
	SecureCookie bool
	Logger       *zap.Logger
}

// NewSessions constructs the session service.
func NewSessions(cfg SessionsConfig) *Sessions {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	name := cfg.CookieName
	if name == "" {
		name = "console_session"
	}
	return &Sessions{
		store:      cfg.Store,
		tokens:     cfg.Tokens,
		cookieName: name,
		secure:     cfg.SecureCookie,
		logger:     logger,
	}
}

// OnEnd registers a listener called after every End.
func (s *Sessions) OnEnd(listener EndListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// Begin persists sess and sets the signed cookie.
func (s *Sessions) Begin(c *fiber.Ctx, sess *domain.Session) error {
	if err := s.store.Save(c.UserContext(), sess, s.tokens.TTL()); err != nil {
		return err
	}
	value, expiresAt, err := s.tokens.GenerateToken(sess.ID)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     s.cookieName,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	s.logger.Info("session started", zap.String("session_id", sess.ID), zap.String("role", sess.Role))
	return nil
}

// Resolve returns the session referenced by the request cookie.
func (s *Sessions) Resolve(c *fiber.Ctx) (*domain.Session, error) {
	raw := c.Cookies(s.cookieName)
	if raw == "" {
		return nil, session.ErrNotFound
	}
	claims, err := s.tokens.ParseToken(raw)
	if err != nil {
		return nil, session.ErrNotFound
	}
	sess, err := s.store.Load(c.UserContext(), claims.SessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Authenticated() {
		return nil, session.ErrNotFound
	}
	return sess, nil
}

// End deletes the session record and notifies listeners. It is the only
// teardown path, shared by logout and by 401 handling.
func (s *Sessions) End(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	err := s.store.Delete(ctx, sessionID)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		s.logger.Warn("failed to delete session", zap.String("session_id", sessionID), zap.Error(err))
	}

	s.mu.RLock()
	listeners := append([]EndListener(nil), s.listeners...)
	s.mu.RUnlock()
	for _, listener := range listeners {
		listener(sessionID)
	}
	s.logger.Info("session ended", zap.String("session_id", sessionID))
	return err
}

// ClearCookie expires the session cookie on the response.
func (s *Sessions) ClearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
