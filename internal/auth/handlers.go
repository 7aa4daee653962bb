package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/entities"
)

// Controller handles the authentication HTTP endpoints.
type Controller struct {
	service  *Service
	issuer   *TokenIssuer
	sessions *SessionManager // nil when no external provider is configured
	resolver *Resolver
	// tokenResolver skips the provider-session strategy; /check validates
	// self-issued tokens only.
	tokenResolver *Resolver
	config        config.Auth
}

// NewController creates a new authentication controller.
func NewController(service *Service, issuer *TokenIssuer, sessions *SessionManager, resolver *Resolver, cfg config.Auth) *Controller {
	return &Controller{
		service:       service,
		issuer:        issuer,
		sessions:      sessions,
		resolver:      resolver,
		tokenResolver: NewResolver(nil, issuer),
		config:        cfg,
	}
}

// RegisterRoutes registers the auth endpoints on the router.
func (ac *Controller) RegisterRoutes(router gin.IRouter) {
	router.POST("/api/auth/signup", ac.Signup)
	router.POST("/api/auth/login", ac.Login)
	router.POST("/api/auth/logout", ac.Logout)
	router.GET("/api/auth/check", ac.Check)
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates a new credentials user.
// POST /api/auth/signup
//
// Signup does not auto-login: the client is expected to follow up with
// POST /api/auth/login.
func (ac *Controller) Signup(c *gin.Context) {
	if _, _, ok := ac.resolver.Resolve(c.Request); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "already authenticated"})
		return
	}

	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := ac.service.Register(req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is not available"})
		case errors.Is(err, ErrEmailInvalid), errors.Is(err, ErrEmailRequired),
			errors.Is(err, ErrPasswordRequired), errors.Is(err, ErrPasswordTooShort),
			errors.Is(err, ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			internalError(c, "signup", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"userId": user.ID})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Provider string `json:"provider"`
	Name     string `json:"name"`
}

// Login authenticates via credentials or an external-provider assertion
// and mints a self-issued token.
// POST /api/auth/login
func (ac *Controller) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	var (
		user *entities.User
		err  error
	)
	if req.Provider != "" {
		provider := entities.AuthProvider(req.Provider)
		if provider != entities.ProviderGoogle {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown provider"})
			return
		}
		user, err = ac.service.LoginWithProvider(req.Email, req.Name, provider)
		if err != nil {
			switch {
			case errors.Is(err, ErrProviderMismatch):
				// Deliberately informative: the attempted provider login
				// already implies the account exists.
				c.JSON(http.StatusBadRequest, gin.H{"error": ErrProviderMismatch.Error()})
			case errors.Is(err, ErrEmailRequired):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				internalError(c, "provider login", err)
			}
			return
		}
	} else {
		if req.Email == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}
		user, err = ac.service.Authenticate(req.Email, req.Password)
		if err != nil {
			if errors.Is(err, ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			} else {
				internalError(c, "login", err)
			}
			return
		}
	}

	token, err := ac.issuer.Issue(user.ID)
	if err != nil {
		internalError(c, "token issue", err)
		return
	}

	ac.setTokenCookie(c, token, int(ac.issuer.TTL().Seconds()))
	c.JSON(http.StatusOK, gin.H{"userId": user.ID, "token": token})
}

// Logout clears the token cookie and destroys any provider session,
// regardless of which path authenticated the caller.
// POST /api/auth/logout
func (ac *Controller) Logout(c *gin.Context) {
	ac.setTokenCookie(c, "", -1)
	if ac.sessions != nil {
		_ = ac.sessions.DestroySession(c.Request)
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Check reports whether the request carries a valid self-issued token.
// GET /api/auth/check
func (ac *Controller) Check(c *gin.Context) {
	userID, _, ok := ac.tokenResolver.Resolve(c.Request)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": userID})
}

func (ac *Controller) setTokenCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookieName, token, maxAge, "/", "", ac.config.SecureCookies, true)
}

// internalError logs the detail server-side and answers with a generic
// message; unexpected failures never leak to the client.
func internalError(c *gin.Context, context string, err error) {
	log.Printf("auth: %s failed: %v", context, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
