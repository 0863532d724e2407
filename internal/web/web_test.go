package web

import (
	"bytes"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{"register.html", "login.html", "dashboard.html"} {
		require.NotNil(t, tmpl.Lookup(name), name)

		var buf bytes.Buffer
		err := tmpl.ExecuteTemplate(&buf, name, map[string]any{
			"Title":             "x",
			"Scripts":           []string{"a.js"},
			"MinPasswordLength": 8,
		})
		require.NoError(t, err, name)
		assert.Contains(t, buf.String(), `src="/static/js/a.js"`, name)
		assert.Contains(t, buf.String(), `src="/static/js/common.js"`, name)
	}
}

func TestStaticAssetsEmbedded(t *testing.T) {
	for _, p := range []string{"js/common.js", "js/register.js", "js/login.js", "js/dashboard.js", "css/app.css"} {
		b, err := fs.ReadFile(Static(), p)
		require.NoError(t, err, p)
		assert.NotEmpty(t, b, p)
	}
}

// The client messages must carry the phrases the pages are checked against.
func TestScriptMessages(t *testing.T) {
	register, err := fs.ReadFile(Static(), "js/register.js")
	require.NoError(t, err)
	for _, s := range []string{"at least 8 characters", "valid email", "do not match", "uppercase letter", "/auth/register"} {
		assert.Contains(t, string(register), s)
	}

	// The page applies the server's rule: any Unicode uppercase letter, length in code points.
	assert.Contains(t, string(register), `/\p{Lu}/u`)
	assert.Contains(t, string(register), "Array.from(f.password).length")
	assert.NotContains(t, string(register), "/[A-Z]/")

	login, err := fs.ReadFile(Static(), "js/login.js")
	require.NoError(t, err)
	for _, s := range []string{"Please fill in all fields", "remembered_username", "access_token", "refresh_token", "user_id", "/dashboard"} {
		assert.Contains(t, string(login), s)
	}
}
