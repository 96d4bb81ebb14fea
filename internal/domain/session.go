package domain

import "slices"

// ScopeAdmin gates destructive and privileged ticket actions.
const ScopeAdmin = "admin"

// Session is the only client state the console persists for a staff member.
type Session struct {
	ID     string   `json:"id"`
	Token  string   `json:"access_token"`
	Role   string   `json:"role"`
	Scopes []string `json:"scopes"`
}

// Authenticated reports whether the session carries an access token.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// HasScope reports whether the session was granted scope.
func (s *Session) HasScope(scope string) bool {
	if s == nil {
		return false
	}
	return slices.Contains(s.Scopes, scope)
}

// IsAdmin reports whether the session may delete tickets and generate comments.
func (s *Session) IsAdmin() bool {
	return s.HasScope(ScopeAdmin)
}
