package portfolio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derekaspaulding/portfolio/contact"
	"github.com/derekaspaulding/portfolio/content"
)

func text(format string, args ...any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, format, args...)
		return err
	})
}

func formText(kind string, p Page, form contact.State) templ.Component {
	var errs []string
	for _, f := range contact.Fields {
		if msg := form.VisibleError(f); msg != "" {
			errs = append(errs, string(f)+":"+msg)
		}
	}
	return text("%s outcome=%s name=%s csrf=%s errors=%s", kind, form.Outcome, form.Values.Name, p.CSRF, strings.Join(errs, ","))
}

func stubViews() ViewFuncs {
	return ViewFuncs{
		Home: func(p Page, about content.Post, recent []content.Post) templ.Component {
			return text("home title=%s about=%s recent=%d", p.FullTitle(), about.Title, len(recent))
		},
		Blog: func(p Page, posts []content.Post) templ.Component {
			return text("blog posts=%d", len(posts))
		},
		Post: func(p Page, post content.Post, newer, older *content.Post) templ.Component {
			return text("post %s newer=%t older=%t", post.Title, newer != nil, older != nil)
		},
		Contact: func(p Page, form contact.State) templ.Component {
			return formText("contact", p, form)
		},
		ContactForm: func(p Page, form contact.State) templ.Component {
			return formText("form", p, form)
		},
		Received: func(p Page, sub Submission) templ.Component {
			return text("received %s", sub.Name)
		},
		AdminLogin: func(p Page, showError bool) templ.Component {
			return text("login error=%t csrf=%s", showError, p.CSRF)
		},
		AdminInbox: func(p Page, subs []Submission, msg string) templ.Component {
			return text("inbox %d msg=%s csrf=%s", len(subs), msg, p.CSRF)
		},
		AdminImages: func(p Page, images []Image) templ.Component {
			return text("images %d", len(images))
		},
		NotFound: func(p Page) templ.Component {
			return text("not found")
		},
		ServerError: func(p Page) templ.Component {
			return text("server error")
		},
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func newTestApp(t *testing.T, cfg SiteConfig, opts ...Option) *App {
	t.Helper()
	dir := t.TempDir()
	contentDir := filepath.Join(dir, "content")
	writeFile(t, filepath.Join(contentDir, "about.md"), "---\ntitle: About Me\n---\nHi, I build things.\n")
	writeFile(t, filepath.Join(contentDir, "posts", "hello.md"), "---\ntitle: Hello\ndate: 2024-02-01\ndescription: First post\n---\nHello **world**.\n")
	writeFile(t, filepath.Join(contentDir, "posts", "2024", "nested.md"), "---\ntitle: Nested\ndate: 2024-03-01\n---\nDeeper.\n")

	store := setupTestStore(t)

	cfg.ContentDir = contentDir
	cfg.StaticDir = filepath.Join(dir, "public")
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "hunter2"
	}
	cfg.SessionSecret = "0123456789abcdef0123456789abcdef"

	a := New(cfg, stubViews(), append(opts, WithStore(store))...)
	require.NoError(t, a.Init(context.Background()))
	t.Cleanup(func() { a.Close() })
	return a
}

type request struct {
	method  string
	target  string
	form    url.Values
	headers map[string]string
	cookies []*http.Cookie
}

func (a *App) serve(t *testing.T, r request) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if r.form != nil {
		body = strings.NewReader(r.form.Encode())
	}
	req := httptest.NewRequest(r.method, r.target, body)
	if r.form != nil {
		req.Header.Set("Content-Type", contact.ContentTypeForm)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	for _, c := range r.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func cookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// csrf fetches a page to obtain a token and the cookie it is bound to.
func (a *App) csrf(t *testing.T, path string) (string, *http.Cookie) {
	t.Helper()
	rec := a.serve(t, request{method: http.MethodGet, target: path})
	c := cookie(rec, "_csrf")
	require.NotNil(t, c, "no csrf cookie from %s", path)
	return c.Value, c
}

func validForm() url.Values {
	return url.Values{
		"name":    {"Ada"},
		"email":   {"ada@example.com"},
		"message": {"Hello there"},
	}
}

func (a *App) postContact(t *testing.T, form url.Values, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	token, c := a.csrf(t, "/contact/")
	form.Set("_csrf", token)
	return a.serve(t, request{method: http.MethodPost, target: "/contact/", form: form, headers: headers, cookies: []*http.Cookie{c}})
}

func count(t *testing.T, a *App) int {
	t.Helper()
	n, err := a.Store.CountSubmissions(context.Background())
	require.NoError(t, err)
	return n
}

func TestInitRequiresSecrets(t *testing.T) {
	a := New(SiteConfig{}, stubViews())
	assert.Error(t, a.Init(context.Background()))

	a = New(SiteConfig{AdminPassword: "x"}, stubViews())
	assert.Error(t, a.Init(context.Background()))
}

func TestHomeAndBlog(t *testing.T) {
	a := newTestApp(t, SiteConfig{Name: "Test Site"})

	rec := a.serve(t, request{method: http.MethodGet, target: "/"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "home title=Test Site about=About Me recent=2", rec.Body.String())

	rec = a.serve(t, request{method: http.MethodGet, target: "/blog/"})
	assert.Equal(t, "blog posts=2", rec.Body.String())

	rec = a.serve(t, request{method: http.MethodGet, target: "/blog"})
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/blog/", rec.Header().Get("Location"))
}

func TestHomeWithoutAboutPage(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	require.NoError(t, os.Remove(filepath.Join(a.Config.ContentDir, "about.md")))

	rec := a.serve(t, request{method: http.MethodGet, target: "/"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "about= ")
}

func TestPostRoutes(t *testing.T) {
	a := newTestApp(t, SiteConfig{})

	rec := a.serve(t, request{method: http.MethodGet, target: "/blog/hello/"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "post Hello newer=true older=false", rec.Body.String())

	rec = a.serve(t, request{method: http.MethodGet, target: "/blog/2024/nested/"})
	assert.Equal(t, "post Nested newer=false older=true", rec.Body.String())

	rec = a.serve(t, request{method: http.MethodGet, target: "/blog/missing/"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", rec.Body.String())
}

func TestFeedSitemapRobots(t *testing.T) {
	a := newTestApp(t, SiteConfig{URL: "https://example.com"})

	rec := a.serve(t, request{method: http.MethodGet, target: "/feed.xml"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Hello</title>")
	assert.Contains(t, rec.Body.String(), "https://example.com/blog/hello/")

	rec = a.serve(t, request{method: http.MethodGet, target: "/sitemap.xml"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://example.com/contact/")
	assert.Contains(t, rec.Body.String(), "https://example.com/blog/2024/nested/")

	rec = a.serve(t, request{method: http.MethodGet, target: "/robots.txt"})
	assert.Contains(t, rec.Body.String(), "Disallow: /admin/")
	assert.Contains(t, rec.Body.String(), "Sitemap: https://example.com/sitemap.xml")
}

func TestEmbeddedAssets(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	for _, name := range embeddedFiles {
		rec := a.serve(t, request{method: http.MethodGet, target: "/public/" + name})
		assert.Equal(t, http.StatusOK, rec.Code, name)
		assert.Equal(t, "public, max-age=86400", rec.Header().Get("Cache-Control"), name)
	}
}

func TestInbox(t *testing.T) {
	a := newTestApp(t, SiteConfig{})

	t.Run("unknown form", func(t *testing.T) {
		form := validForm()
		form.Set("form-name", "newsletter")
		rec := a.serve(t, request{method: http.MethodPost, target: "/", form: form})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid values", func(t *testing.T) {
		form := validForm()
		form.Set("form-name", "contact")
		form.Set("email", "nope")
		rec := a.serve(t, request{method: http.MethodPost, target: "/", form: form})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "email: Must be a valid email.")
	})

	t.Run("accepted without csrf", func(t *testing.T) {
		form := validForm()
		form.Set("form-name", "contact")
		rec := a.serve(t, request{method: http.MethodPost, target: "/", form: form, headers: map[string]string{"User-Agent": "curl/8"}})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "received Ada", rec.Body.String())
	})

	subs, err := a.Store.ListSubmissions(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "contact", subs[0].FormName)
	assert.Equal(t, "curl/8", subs[0].UserAgent)
	assert.NotEmpty(t, subs[0].RemoteIP)
}

func TestInboxAcceptsHTTPSubmitter(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	srv := httptest.NewServer(a.Echo)
	defer srv.Close()

	flow := contact.NewFlow(contact.NewHTTPSubmitter(srv.URL+"/"), contact.WithValues(contact.Values{
		Name:    "Grace",
		Email:   "grace@example.com",
		Message: "Line one\nline & two",
	}))
	outcome, err := flow.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, contact.OutcomeSuccess, outcome)

	subs, err := a.Store.ListSubmissions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Line one\nline & two", subs[0].Message)
}

func TestInboxRateLimited(t *testing.T) {
	a := newTestApp(t, SiteConfig{ContactRateLimit: 1})
	form := validForm()
	form.Set("form-name", "contact")

	rec := a.serve(t, request{method: http.MethodPost, target: "/", form: form})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = a.serve(t, request{method: http.MethodPost, target: "/", form: form})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 1, count(t, a))
}

func TestContactPage(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := a.serve(t, request{method: http.MethodGet, target: "/contact/"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "contact outcome=idle name= ")
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	rec = a.serve(t, request{method: http.MethodGet, target: "/contact/success/"})
	assert.Contains(t, rec.Body.String(), "contact outcome=success")
}

func TestContactSubmitRequiresCSRF(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := a.serve(t, request{method: http.MethodPost, target: "/contact/", form: validForm()})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 0, count(t, a))
}

func TestContactSubmitPlainRedirects(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := a.postContact(t, validForm(), nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/contact/success/", rec.Header().Get("Location"))
	assert.Equal(t, 1, count(t, a))
}

func TestContactSubmitPartialSuccess(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := a.postContact(t, validForm(), map[string]string{HeaderHXRequest: "true"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "form outcome=success"), rec.Body.String())
	assert.Equal(t, 1, count(t, a))
}

func TestContactSubmitInvalid(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	form := validForm()
	form.Set("email", "")
	rec := a.postContact(t, form, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "contact outcome=idle name=Ada")
	assert.Contains(t, rec.Body.String(), "email:Required.")
	assert.Equal(t, 0, count(t, a))
}

func TestContactSubmitFailureKeepsValues(t *testing.T) {
	failing := contact.SubmitterFunc(func(context.Context, contact.Payload) error {
		return errors.New("backend down")
	})
	a := newTestApp(t, SiteConfig{}, WithSubmitter(failing))

	rec := a.postContact(t, validForm(), map[string]string{HeaderHXRequest: "true"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "form outcome=error name=Ada"), rec.Body.String())
}

func TestContactSubmitUsesExternalEndpoint(t *testing.T) {
	var got url.Values
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got = r.PostForm
	}))
	defer backend.Close()

	a := newTestApp(t, SiteConfig{ContactEndpoint: backend.URL + "/", ContactFormName: "hello"})
	rec := a.postContact(t, validForm(), nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "hello", got.Get("form-name"))
	assert.Equal(t, "ada@example.com", got.Get("email"))
	assert.Equal(t, 0, count(t, a))
}

func TestContactValidate(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	token, c := a.csrf(t, "/contact/")

	form := url.Values{"email": {"bad"}, "_csrf": {token}}
	rec := a.serve(t, request{
		method:  http.MethodPost,
		target:  "/contact/validate/",
		form:    form,
		headers: map[string]string{HeaderHXRequest: "true", HeaderHXTriggerName: "email"},
		cookies: []*http.Cookie{c},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "errors=email:Must be a valid email.")
	assert.NotContains(t, rec.Body.String(), "name:")

	form.Add("touched", "name")
	rec = a.serve(t, request{
		method:  http.MethodPost,
		target:  "/contact/validate/",
		form:    form,
		headers: map[string]string{HeaderHXRequest: "true", HeaderHXTriggerName: "email"},
		cookies: []*http.Cookie{c},
	})
	assert.Contains(t, rec.Body.String(), "name:Required.")
}

func TestAdminLogin(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	require.NoError(t, a.Store.SaveSubmission(context.Background(), testSubmission("s1", a.Inbox.now())))

	rec := a.serve(t, request{method: http.MethodGet, target: "/admin/"})
	assert.Contains(t, rec.Body.String(), "login error=false")

	token, c := a.csrf(t, "/admin/")
	rec = a.serve(t, request{method: http.MethodPost, target: "/admin/login/", form: url.Values{"password": {"wrong"}, "_csrf": {token}}, cookies: []*http.Cookie{c}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "login error=true")

	rec = a.serve(t, request{method: http.MethodPost, target: "/admin/login/", form: url.Values{"password": {"hunter2"}, "_csrf": {token}}, cookies: []*http.Cookie{c}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	sess := cookie(rec, sessionName)
	require.NotNil(t, sess)

	rec = a.serve(t, request{method: http.MethodGet, target: "/admin/", cookies: []*http.Cookie{c, sess}})
	assert.Contains(t, rec.Body.String(), "inbox 1")

	rec = a.serve(t, request{method: http.MethodPost, target: "/admin/submissions/s1/delete/", form: url.Values{"_csrf": {token}}, cookies: []*http.Cookie{c, sess}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/?msg=deleted", rec.Header().Get("Location"))
	assert.Equal(t, 0, count(t, a))
}

func TestAdminDeleteRequiresSession(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	require.NoError(t, a.Store.SaveSubmission(context.Background(), testSubmission("s1", a.Inbox.now())))

	token, c := a.csrf(t, "/admin/")
	rec := a.serve(t, request{method: http.MethodPost, target: "/admin/submissions/s1/delete/", form: url.Values{"_csrf": {token}}, cookies: []*http.Cookie{c}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, count(t, a))
}

func TestCustomRoutes(t *testing.T) {
	a := newTestApp(t, SiteConfig{}, WithCustomRoutes(func(a *App) {
		a.Echo.GET("/uses/", func(c echo.Context) error {
			return c.String(http.StatusOK, "uses")
		})
	}))
	rec := a.serve(t, request{method: http.MethodGet, target: "/uses/"})
	assert.Equal(t, "uses", rec.Body.String())
}
