package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack/internal/config"
)

func setupAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)
	cfg := config.Auth{
		BcryptCost:    4, // cheap hashing keeps the test fast
		TokenTTL:      time.Hour,
		SecureCookies: false,
	}

	svc := NewService(db, cfg)
	issuer := NewTokenIssuer("test-secret", cfg.TokenTTL)
	resolver := NewResolver(nil, issuer)
	controller := NewController(svc, issuer, nil, resolver, cfg)

	router := gin.New()
	controller.RegisterRoutes(router)
	return router
}

func postJSON(router *gin.Engine, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthFlow(t *testing.T) {
	router := setupAuthRouter(t)

	// Signup
	w := postJSON(router, "/api/auth/signup", `{"name":"Alex","email":"alex@example.com","password":"secret123"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, want 201: %s", w.Code, w.Body.String())
	}

	// Signup does not log in: check without a token is unauthorized
	req := httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("check after signup status = %d, want 401", rec.Code)
	}

	// Login
	w = postJSON(router, "/api/auth/login", `{"email":"alex@example.com","password":"secret123"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var loginResp struct {
		UserID uint   `json:"userId"`
		Token  string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if loginResp.Token == "" {
		t.Fatal("login returned no token")
	}

	// Login sets the token cookie
	var tokenCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == TokenCookieName {
			tokenCookie = c
		}
	}
	if tokenCookie == nil {
		t.Fatal("login did not set the token cookie")
	}
	if !tokenCookie.HttpOnly {
		t.Error("token cookie is not HttpOnly")
	}

	// Check via bearer header
	req = httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
	req.Header.Set("Authorization", "Bearer "+loginResp.Token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("check with bearer status = %d, want 200", rec.Code)
	}

	// Check via cookie
	req = httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
	req.AddCookie(tokenCookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("check with cookie status = %d, want 200", rec.Code)
	}

	// Logout expires the cookie
	w = postJSON(router, "/api/auth/logout", `{}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout status = %d, want 200", w.Code)
	}
	var cleared *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == TokenCookieName {
			cleared = c
		}
	}
	if cleared == nil {
		t.Fatal("logout did not touch the token cookie")
	}
	if cleared.MaxAge >= 0 {
		t.Errorf("logout cookie MaxAge = %d, want negative", cleared.MaxAge)
	}
}

func TestSignup_Validation(t *testing.T) {
	router := setupAuthRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing body", body: ``},
		{name: "missing email", body: `{"password":"secret123"}`},
		{name: "missing password", body: `{"email":"alex@example.com"}`},
		{name: "short password", body: `{"email":"alex@example.com","password":"short"}`},
		{name: "bad email", body: `{"email":"nope","password":"secret123"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/api/auth/signup", tt.body, nil)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	router := setupAuthRouter(t)

	w := postJSON(router, "/api/auth/signup", `{"email":"alex@example.com","password":"secret123"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("first signup status = %d, want 201", w.Code)
	}

	w = postJSON(router, "/api/auth/signup", `{"email":"alex@example.com","password":"different456"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate signup status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not available") {
		t.Errorf("duplicate signup body = %s, want availability message", w.Body.String())
	}
}

func TestSignup_WhileAuthenticated(t *testing.T) {
	router := setupAuthRouter(t)

	w := postJSON(router, "/api/auth/signup", `{"email":"alex@example.com","password":"secret123"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, want 201", w.Code)
	}
	w = postJSON(router, "/api/auth/login", `{"email":"alex@example.com","password":"secret123"}`, nil)
	var loginResp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}

	w = postJSON(router, "/api/auth/signup",
		`{"email":"second@example.com","password":"secret123"}`,
		map[string]string{"Authorization": "Bearer " + loginResp.Token})
	if w.Code != http.StatusBadRequest {
		t.Errorf("authenticated signup status = %d, want 400", w.Code)
	}
}

func TestLogin_ConcurrentFailures(t *testing.T) {
	router := setupAuthRouter(t)

	w := postJSON(router, "/api/auth/signup", `{"email":"alex@example.com","password":"secret123"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, want 201", w.Code)
	}

	// A burst of bad logins: every attempt fails identically, and the
	// account stays usable afterwards
	const attempts = 10
	var wg sync.WaitGroup
	codes := make([]int, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := postJSON(router, "/api/auth/login", `{"email":"alex@example.com","password":"wrongpassword"}`, nil)
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		if code != http.StatusUnauthorized {
			t.Errorf("attempt %d status = %d, want 401", i, code)
		}
	}

	w = postJSON(router, "/api/auth/login", `{"email":"alex@example.com","password":"secret123"}`, nil)
	if w.Code != http.StatusOK {
		t.Errorf("valid login after failed burst status = %d, want 200", w.Code)
	}
}

func TestLogin_ProviderPath(t *testing.T) {
	router := setupAuthRouter(t)

	// Unknown provider is rejected
	w := postJSON(router, "/api/auth/login", `{"email":"x@example.com","provider":"github"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown provider status = %d, want 400", w.Code)
	}

	// Google provider provisions and logs in
	w = postJSON(router, "/api/auth/login", `{"email":"g@example.com","name":"G","provider":"google"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("provider login status = %d, want 200: %s", w.Code, w.Body.String())
	}

	// The same email through the credentials path is rejected informatively
	w = postJSON(router, "/api/auth/signup", `{"email":"g@example.com","password":"secret123"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("signup over provider account status = %d, want 400", w.Code)
	}

	// And a credentials account is protected from provider takeover
	w = postJSON(router, "/api/auth/signup", `{"email":"c@example.com","password":"secret123"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, want 201", w.Code)
	}
	w = postJSON(router, "/api/auth/login", `{"email":"c@example.com","name":"C","provider":"google"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("provider login over credentials account status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "different sign-in method") {
		t.Errorf("provider mismatch body = %s, want mismatch message", w.Body.String())
	}
}
