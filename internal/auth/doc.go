// Package auth provides authentication and per-request authorization.
//
// Two authentication paths coexist:
//   - Provider sessions: server-side sessions (scs) established after a
//     Google OAuth2 login, carried in the "session" cookie.
//   - Self-issued tokens: signed JWTs minted at credentials login, carried
//     in an "Authorization: Bearer" header or the "token" cookie.
//
// Every request is resolved through a single ordered chain of strategies
// (see Resolver): provider session first, then bearer header, then token
// cookie. The two paths are never merged; if both are present the provider
// session wins.
//
// # Configuration
//
//	AUTH_JWT_SECRET=<secret>        # token signing secret (dev fallback logged)
//	AUTH_TOKEN_TTL=168h             # self-issued token lifetime (7 days)
//	AUTH_BCRYPT_COST=12             # bcrypt cost factor
//	AUTH_SESSION_LIFETIME=168h      # provider-session lifetime
//	AUTH_SECURE_COOKIES=true        # HTTPS-only cookies
//
// # Usage
//
//	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
//	resolver := auth.NewResolver(sessionManager, issuer)
//	mw := auth.NewMiddleware(resolver)
//	api.Use(mw.RequireAuth())
//
// Extract the resolved identity in handlers:
//
//	userID := auth.GetUserID(c)
package auth
