//go:build e2e

package e2e

import (
	"strconv"
	"strings"
	"testing"

	"auth_portal/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *session) login(username, password string) {
	s.t.Helper()
	s.open("/login", "#loginForm")
	s.fill(map[string]string{"#username": username, "#password": password})
}

func TestLogin_ValidCredentialsStoresTokens(t *testing.T) {
	s := newSession(t)
	u := s.app.SeedUser(t, testutil.UserFixture{
		Username:  "logintest",
		Email:     "logintest@example.com",
		FirstName: "Login",
		LastName:  "Test",
		Password:  "ValidPass123!",
	})

	s.login("logintest", "ValidPass123!")
	s.submit()

	s.waitURL("/dashboard", testutil.NavigationTimeout)
	assert.True(t, strings.HasSuffix(s.currentURL(), "/dashboard"))

	for _, key := range []string{"access_token", "refresh_token", "user_id"} {
		v, ok := s.storage(key)
		assert.True(t, ok, key)
		assert.NotEmpty(t, v, key)
	}
	userID, _ := s.storage("user_id")
	assert.Equal(t, strconv.Itoa(u.ID), userID)
}

func TestLogin_WithEmailInsteadOfUsername(t *testing.T) {
	s := newSession(t)
	s.app.SeedUser(t, testutil.UserFixture{
		Username:  "emaillogintest",
		Email:     "emaillogin@example.com",
		FirstName: "Email",
		LastName:  "Login",
		Password:  "ValidPass456!",
	})

	s.login("emaillogin@example.com", "ValidPass456!")
	s.submit()

	s.waitURL("/dashboard", testutil.NavigationTimeout)
	v, ok := s.storage("access_token")
	assert.True(t, ok)
	assert.NotEmpty(t, v)
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newSession(t)
	s.app.SeedUser(t, testutil.UserFixture{
		Username:  "wrongpasstest",
		Email:     "wrongpass@example.com",
		FirstName: "Wrong",
		LastName:  "Pass",
		Password:  "CorrectPass123!",
	})

	s.login("wrongpasstest", "WrongPass123!")
	s.trackFetches()
	s.submit()

	assert.Contains(t, s.errorText(), "invalid")
	assert.Equal(t, 1, s.fetchCount(), "credentials are checked by the server")

	_, ok := s.storage("access_token")
	assert.False(t, ok, "no token may be stored after a failed login")
	assert.True(t, strings.HasSuffix(s.currentURL(), "/login"))
}

func TestLogin_NonexistentUser(t *testing.T) {
	s := newSession(t)

	s.login("nonexistentuser99999", "SomePass123!")
	s.submit()

	assert.Contains(t, s.errorText(), "invalid")

	_, ok := s.storage("access_token")
	assert.False(t, ok)
	assert.True(t, strings.HasSuffix(s.currentURL(), "/login"))
}

func TestLogin_EmptyFields(t *testing.T) {
	s := newSession(t)
	s.open("/login", "#loginForm")
	s.trackFetches()

	s.submit()

	assert.Contains(t, s.errorText(), "fill in all fields")
	assert.Zero(t, s.fetchCount(), "empty fields are blocked before any request")
	_, ok := s.storage("access_token")
	assert.False(t, ok)
}

func TestLogin_RememberMe(t *testing.T) {
	s := newSession(t)
	s.app.SeedUser(t, testutil.UserFixture{
		Username:  "remembermetest",
		Email:     "rememberme@example.com",
		FirstName: "Remember",
		LastName:  "Me",
		Password:  "ValidPass789!",
	})

	s.login("remembermetest", "ValidPass789!")
	require.NoError(t, s.b.Check("#remember"))
	s.submit()

	s.waitURL("/dashboard", testutil.NavigationTimeout)

	remembered, ok := s.storage("remembered_username")
	require.True(t, ok)
	assert.Equal(t, "remembermetest", remembered)

	s.open("/login", "#loginForm")

	value, err := s.b.InputValue("#username")
	require.NoError(t, err)
	assert.Equal(t, "remembermetest", value)

	checked, err := s.b.IsChecked("#remember")
	require.NoError(t, err)
	assert.True(t, checked)
}
