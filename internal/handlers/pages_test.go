package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"auth_portal/internal/service"
)

func TestPages_RenderRequiredMarkup(t *testing.T) {
	r := newTestRouter(&service.Service{})

	cases := []struct {
		path string
		want []string
	}{
		{"/register", []string{
			`id="registrationForm"`, `id="username"`, `id="email"`, `id="first_name"`,
			`id="last_name"`, `id="password"`, `id="confirm_password"`, `type="submit"`,
			`id="errorAlert"`, `id="errorMessage"`, `href="/login"`, `/static/js/register.js`,
		}},
		{"/login", []string{
			`id="loginForm"`, `id="username"`, `id="password"`, `id="remember"`,
			`type="submit"`, `id="errorAlert"`, `href="/register"`, `/static/js/login.js`,
		}},
		{"/dashboard", []string{`id="logoutButton"`, `/static/js/dashboard.js`}},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("status=%d", w.Code)
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Fatalf("content-type=%q", ct)
			}
			body := w.Body.String()
			for _, s := range tc.want {
				if !strings.Contains(body, s) {
					t.Errorf("%s: missing %s", tc.path, s)
				}
			}
			if !strings.Contains(body, `class="alert alert-error hidden"`) {
				t.Errorf("%s: error alert must start hidden", tc.path)
			}
		})
	}
}

func TestIndexRedirectsToLogin(t *testing.T) {
	r := newTestRouter(&service.Service{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Fatalf("status=%d location=%q", w.Code, w.Header().Get("Location"))
	}
}

func TestStaticAssetsServed(t *testing.T) {
	r := newTestRouter(&service.Service{})
	for _, p := range []string{"/static/js/common.js", "/static/js/login.js", "/static/js/register.js", "/static/css/app.css"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
		if w.Code != http.StatusOK || w.Body.Len() == 0 {
			t.Fatalf("%s: status=%d len=%d", p, w.Code, w.Body.Len())
		}
	}
}

func TestSystemEndpoints(t *testing.T) {
	r := newTestRouter(&service.Service{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}

	// hit a counter so the family is exported
	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/auth/login", `{"username":"","password":""}`))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "auth_portal_logins_total") {
		t.Fatalf("metrics: %d", w.Code)
	}
}
