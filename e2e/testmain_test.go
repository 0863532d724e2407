//go:build e2e

package e2e

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"auth_portal/internal/testutil"

	"github.com/stretchr/testify/require"
)

var browserBin string

func TestMain(m *testing.M) {
	bin, err := testutil.ResolveBrowser()
	if err != nil {
		fmt.Fprintf(os.Stderr, "e2e: no browser available: %v\n", err)
		os.Exit(1)
	}
	browserBin = bin
	os.Exit(m.Run())
}

// session is one isolated app instance plus the browser pointed at it.
type session struct {
	t   *testing.T
	app *testutil.App
	b   *testutil.BrowserClient
}

func newSession(t *testing.T) *session {
	t.Helper()
	return &session{
		t:   t,
		app: testutil.StartApp(t),
		b:   testutil.NewBrowser(t, browserBin),
	}
}

// open navigates to path and waits for the form that marks the page as ready.
func (s *session) open(path, readySelector string) {
	s.t.Helper()
	require.NoError(s.t, s.b.Navigate(s.app.URL(path)))
	_, err := s.b.WaitVisible(readySelector, testutil.SelectorTimeout)
	require.NoError(s.t, err)
}

func (s *session) fill(fields map[string]string) {
	s.t.Helper()
	for sel, v := range fields {
		require.NoError(s.t, s.b.Fill(sel, v), sel)
	}
}

func (s *session) submit() {
	s.t.Helper()
	require.NoError(s.t, s.b.Click(`button[type="submit"]`))
}

// errorText waits for the alert to be shown and returns its message, lowercased.
func (s *session) errorText() string {
	s.t.Helper()
	_, err := s.b.WaitVisible("#errorAlert:not(.hidden)", testutil.SelectorTimeout)
	require.NoError(s.t, err)
	text, err := s.b.Text("#errorMessage")
	require.NoError(s.t, err)
	return strings.ToLower(text)
}

func (s *session) waitURL(suffix string, d time.Duration) {
	s.t.Helper()
	require.NoError(s.t, s.b.WaitURLSuffix(suffix, d))
}

func (s *session) currentURL() string {
	s.t.Helper()
	u, err := s.b.URL()
	require.NoError(s.t, err)
	return u
}

func (s *session) storage(key string) (string, bool) {
	s.t.Helper()
	v, ok, err := s.b.LocalStorage(key)
	require.NoError(s.t, err)
	return v, ok
}

// trackFetches counts requests made by the page scripts from now on.
func (s *session) trackFetches() {
	s.t.Helper()
	require.NoError(s.t, s.b.TrackFetches())
}

func (s *session) fetchCount() int {
	s.t.Helper()
	n, err := s.b.FetchCount()
	require.NoError(s.t, err)
	return n
}
