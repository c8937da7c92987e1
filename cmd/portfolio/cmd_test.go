package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/derekaspaulding/portfolio/contact"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestLoadSiteConfigFromYAML(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
site:
  name: Derek Spaulding
  url: https://derekaspaulding.com/
  contact_email: me@example.com
admin:
  password: pw
  session_secret: secret
contact:
  rate_limit: 3
  rate_window: 10m
archive:
  endpoint: localhost:9000
  bucket: submissions
  use_ssl: false
`)))

	cfg := loadSiteConfig(v)
	assert.Equal(t, "Derek Spaulding", cfg.Name)
	assert.Equal(t, "https://derekaspaulding.com", cfg.URL)
	assert.Equal(t, "me@example.com", cfg.ContactEmail)
	assert.Equal(t, "pw", cfg.AdminPassword)
	assert.Equal(t, 3, cfg.ContactRateLimit)
	assert.Equal(t, 10*time.Minute, cfg.ContactRateWindow)
	assert.Equal(t, "submissions", cfg.Archive.Bucket)
	assert.False(t, cfg.Archive.UseSSL)

	// Untouched keys keep their defaults.
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, contact.DefaultFormName, cfg.ContactFormName)
	assert.Equal(t, 5*time.Minute, cfg.PostCacheTTL)
}

func TestLegacyEnvironment(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "from-env")
	t.Setenv("PORTFOLIO_ADMIN_SESSION_SECRET", "prefixed")

	v := viper.New()
	setDefaults(v)
	bindLegacyEnv(v)

	cfg := loadSiteConfig(v)
	assert.Equal(t, "from-env", cfg.AdminPassword)
	assert.Equal(t, "prefixed", cfg.SessionSecret)
}

func TestWritePosts(t *testing.T) {
	posts := []postInfo{
		{Title: "Second", Date: "2024-02-01", Slug: "/blog/second/"},
		{Title: "First", Date: "2024-01-01", Slug: "/blog/first/", Description: "hello"},
	}

	var buf bytes.Buffer
	require.NoError(t, writePosts(&buf, "table", posts))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "TITLE")
	assert.Contains(t, lines[1], "/blog/second/")

	buf.Reset()
	require.NoError(t, writePosts(&buf, "json", posts))
	var fromJSON []postInfo
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, posts, fromJSON)

	buf.Reset()
	require.NoError(t, writePosts(&buf, "yaml", posts))
	var fromYAML []postInfo
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, posts, fromYAML)

	buf.Reset()
	require.NoError(t, writePosts(&buf, "table", nil))
	assert.Equal(t, "No posts found.\n", buf.String())

	assert.Error(t, writePosts(&buf, "csv", posts))
}

func TestContactCommand(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		got = r.PostForm
	}))
	defer srv.Close()

	out, _, err := execute(t, "contact", "--endpoint", srv.URL+"/", "-n", "Ada", "-e", "ada@example.com", "-m", "Hi & bye")
	require.NoError(t, err)
	assert.Contains(t, out, "Message sent")
	assert.Equal(t, "contact", got.Get("form-name"))
	assert.Equal(t, "Hi & bye", got.Get("message"))
}

func TestContactCommandInvalid(t *testing.T) {
	_, stderr, err := execute(t, "contact", "--endpoint", "http://127.0.0.1:1/", "-n", "Ada", "-e", "nope", "-m", "Hi")
	require.ErrorIs(t, err, contact.ErrInvalid)
	assert.Contains(t, stderr, "email: Must be a valid email.")
}

func TestContactCommandBackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, _, err := execute(t, "contact", "--endpoint", srv.URL+"/", "-n", "Ada", "-e", "ada@example.com", "-m", "Hi")
	var status *contact.StatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, http.StatusInternalServerError, status.Code)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version", "--format", "json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "dev", info["version"])
}
