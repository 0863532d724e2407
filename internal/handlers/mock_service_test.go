package handlers

import (
	"context"
	"net/http"
	"strings"

	"auth_portal/internal/models"
	"auth_portal/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerID  int
	registerErr error
	loginPair   service.TokenPair
	loginErr    error
	refreshPair service.TokenPair
	refreshErr  error
	logoutErr   error
	claims      *service.Claims
	parseErr    error

	lastRegister     service.RegisterInput
	lastLogin        string
	lastPassword     string
	lastRefreshToken string
	lastLogoutToken  string
	lastParseToken   string
	loginCalls       int
	registerCalls    int
}

func (m *mockAuth) Register(ctx context.Context, in service.RegisterInput) (int, error) {
	m.registerCalls++
	m.lastRegister = in
	return m.registerID, m.registerErr
}

func (m *mockAuth) Login(ctx context.Context, login, password string) (service.TokenPair, error) {
	m.loginCalls++
	m.lastLogin = login
	m.lastPassword = password
	return m.loginPair, m.loginErr
}

func (m *mockAuth) Refresh(ctx context.Context, refreshToken string) (service.TokenPair, error) {
	m.lastRefreshToken = refreshToken
	return m.refreshPair, m.refreshErr
}

func (m *mockAuth) Logout(ctx context.Context, refreshToken string) error {
	m.lastLogoutToken = refreshToken
	return m.logoutErr
}

func (m *mockAuth) ParseToken(token string) (*service.Claims, error) {
	m.lastParseToken = token
	if m.parseErr != nil {
		return nil, m.parseErr
	}
	return m.claims, nil
}

type mockAccounts struct {
	user   *models.User
	err    error
	lastID int
}

func (m *mockAccounts) Profile(ctx context.Context, userID int) (*models.User, error) {
	m.lastID = userID
	return m.user, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func jsonRequest(method, path, body string) *http.Request {
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}
