package apiclient

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/spec-kit/ticket-console/internal/domain"
)

// InvalidCredentialsMessage is shown when the password grant is refused.
const InvalidCredentialsMessage = "Credenciais inválidas"

// Login exchanges staff credentials for a session through the password grant.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	start := time.Now()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.plainHTTP())

	token, err := c.oauth.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		c.metrics.RecordAPICall("login", "error", time.Since(start))
		c.logger.Warn("login rejected", zap.String("username", username), zap.Error(err))
		return nil, loginError(err)
	}
	c.metrics.RecordAPICall("login", "ok", time.Since(start))

	session := &domain.Session{
		ID:     uuid.NewString(),
		Token:  token.AccessToken,
		Scopes: []string{},
	}
	if role, ok := token.Extra("role").(string); ok {
		session.Role = role
	}
	if scopes, ok := token.Extra("scopes").([]interface{}); ok {
		for _, scope := range scopes {
			if s, ok := scope.(string); ok {
				session.Scopes = append(session.Scopes, s)
			}
		}
	}
	return session, nil
}

func loginError(err error) error {
	apiErr := &Error{Operation: "login", Message: InvalidCredentialsMessage, Err: err}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		apiErr.StatusCode = retrieveErr.Response.StatusCode
		apiErr.Detail = parseDetail(retrieveErr.Body)
	}
	return apiErr
}
