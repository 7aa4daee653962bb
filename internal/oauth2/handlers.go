package oauth2

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/entities"
)

// sessionKeyState holds the anti-forgery state between the redirect to
// Google and the callback.
const sessionKeyState = "oauth_state"

// Controller handles the Google login endpoints.
type Controller struct {
	provider *GoogleProvider
	service  *auth.Service
	sessions *auth.SessionManager
}

// NewController creates a Google login controller.
func NewController(provider *GoogleProvider, service *auth.Service, sessions *auth.SessionManager) *Controller {
	return &Controller{provider: provider, service: service, sessions: sessions}
}

// RegisterRoutes registers the Google login endpoints on the router.
func (gc *Controller) RegisterRoutes(router gin.IRouter) {
	router.GET("/api/auth/google", gc.Start)
	router.GET("/api/auth/google/callback", gc.Callback)
}

// Start redirects the browser to Google's consent screen.
// GET /api/auth/google
func (gc *Controller) Start(c *gin.Context) {
	state := uuid.NewString()
	gc.sessions.Put(c.Request.Context(), sessionKeyState, state)
	c.Redirect(http.StatusFound, gc.provider.BuildAuthURL(state))
}

// Callback completes the flow: verifies state, exchanges the code,
// matches or provisions the user and establishes a provider session.
// GET /api/auth/google/callback
func (gc *Controller) Callback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		c.Redirect(http.StatusFound, "/login?error="+errParam)
		return
	}

	expected := gc.sessions.PopString(c.Request.Context(), sessionKeyState)
	if expected == "" || c.Query("state") != expected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state mismatch"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	info, err := gc.provider.Exchange(c.Request.Context(), code)
	if err != nil {
		log.Printf("oauth2: code exchange failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "authorization failed"})
		return
	}

	user, err := gc.service.LoginWithProvider(info.Email, info.Name, entities.ProviderGoogle)
	if err != nil {
		if errors.Is(err, auth.ErrProviderMismatch) {
			c.Redirect(http.StatusFound, "/login?error=OAuthAccountNotLinked")
			return
		}
		log.Printf("oauth2: provider login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if err := gc.sessions.CreateSession(c.Request, user); err != nil {
		log.Printf("oauth2: session create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Redirect(http.StatusFound, "/tracker")
}
