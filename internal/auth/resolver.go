package auth

import (
	"net/http"
	"strings"
)

// AuthType records which strategy resolved the request's identity.
type AuthType string

const (
	AuthTypeNone    AuthType = "none"
	AuthTypeSession AuthType = "session" // provider-managed session
	AuthTypeBearer  AuthType = "bearer"  // self-issued token, Authorization header
	AuthTypeCookie  AuthType = "cookie"  // self-issued token, "token" cookie
	AuthTypeGuest   AuthType = "guest"   // explicit guest mode
)

// Strategy attempts to resolve an identity from a request. A strategy
// that cannot resolve reports ok=false and the chain falls through to
// the next one; it never produces a partial identity.
type Strategy interface {
	// Type identifies the strategy in the resolved context.
	Type() AuthType

	// Resolve returns the authenticated user ID, or ok=false.
	Resolve(r *http.Request) (userID uint, ok bool)
}

// Resolver determines the authenticated identity of a request by trying
// an ordered chain of strategies: provider session, then bearer header,
// then token cookie. The first strategy that yields an identity wins.
type Resolver struct {
	strategies []Strategy
}

// NewResolver builds the standard strategy chain. sessions may be nil
// when no external provider is configured; the chain then starts at the
// bearer strategy.
func NewResolver(sessions *SessionManager, issuer *TokenIssuer) *Resolver {
	var chain []Strategy
	if sessions != nil {
		chain = append(chain, &sessionStrategy{sessions: sessions})
	}
	chain = append(chain,
		&bearerStrategy{issuer: issuer},
		&cookieStrategy{issuer: issuer},
	)
	return &Resolver{strategies: chain}
}

// Resolve runs the chain. On success it returns the user ID and the
// strategy that produced it; otherwise ok=false and AuthTypeNone.
func (r *Resolver) Resolve(req *http.Request) (uint, AuthType, bool) {
	for _, s := range r.strategies {
		if userID, ok := s.Resolve(req); ok {
			return userID, s.Type(), true
		}
	}
	return 0, AuthTypeNone, false
}

// sessionStrategy resolves identities from the scs-backed provider
// session.
type sessionStrategy struct {
	sessions *SessionManager
}

func (s *sessionStrategy) Type() AuthType { return AuthTypeSession }

func (s *sessionStrategy) Resolve(r *http.Request) (uint, bool) {
	userID := s.sessions.GetUserID(r)
	if userID == 0 {
		return 0, false
	}
	return userID, true
}

// bearerStrategy resolves identities from "Authorization: Bearer"
// headers carrying a self-issued token.
type bearerStrategy struct {
	issuer *TokenIssuer
}

func (s *bearerStrategy) Type() AuthType { return AuthTypeBearer }

func (s *bearerStrategy) Resolve(r *http.Request) (uint, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return 0, false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return 0, false
	}
	userID, err := s.issuer.Verify(parts[1])
	if err != nil {
		return 0, false
	}
	return userID, true
}

// cookieStrategy resolves identities from the "token" cookie carrying a
// self-issued token.
type cookieStrategy struct {
	issuer *TokenIssuer
}

func (s *cookieStrategy) Type() AuthType { return AuthTypeCookie }

func (s *cookieStrategy) Resolve(r *http.Request) (uint, bool) {
	cookie, err := r.Cookie(TokenCookieName)
	if err != nil || cookie.Value == "" {
		return 0, false
	}
	userID, err := s.issuer.Verify(cookie.Value)
	if err != nil {
		return 0, false
	}
	return userID, true
}
