package views

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"github.com/derekaspaulding/portfolio"
	"github.com/derekaspaulding/portfolio/contact"
	"github.com/derekaspaulding/portfolio/content"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestLayoutTitleAndNav(t *testing.T) {
	page := portfolio.Page{Title: "Blog", SiteName: "Derek Spaulding", Path: "/blog/hello/"}
	out := render(t, Blog(page, nil))

	if !strings.Contains(out, "<title>Blog - Derek Spaulding</title>") {
		t.Errorf("missing title in %s", out)
	}
	if !strings.Contains(out, `<a href="/blog/" class="nav-link active" aria-current="page">Blog</a>`) {
		t.Errorf("blog link not active: %s", out)
	}
	if !strings.Contains(out, `<a href="/" class="nav-link">About</a>`) {
		t.Errorf("about link should not be active: %s", out)
	}
	if !strings.Contains(out, `<span class="accent">D</span>erek`) {
		t.Errorf("missing accented name: %s", out)
	}
	if strings.Contains(out, "live.js") {
		t.Errorf("live reload script included without LiveReload")
	}
}

func TestHomeUsesBareSiteName(t *testing.T) {
	out := render(t, Home(portfolio.Page{SiteName: "Derek Spaulding", Path: "/"}, content.Post{HTML: "<p>Hi</p>"}, nil))
	if !strings.Contains(out, "<title>Derek Spaulding</title>") {
		t.Errorf("title: %s", out)
	}
	if !strings.Contains(out, "<p>Hi</p>") {
		t.Errorf("about body missing: %s", out)
	}
}

func TestContactFormHidesUntouchedErrors(t *testing.T) {
	flow := contact.NewFlow(nil, contact.WithValues(contact.Values{Email: "bad-email"}))
	flow.Touch(contact.FieldEmail)
	out := render(t, ContactForm(portfolio.Page{CSRF: "tok"}, flow.Snapshot()))

	if !strings.Contains(out, `data-error-for="email">Must be a valid email.</div>`) {
		t.Errorf("email error not shown: %s", out)
	}
	if !strings.Contains(out, `data-error-for="name"></div>`) {
		t.Errorf("untouched name error should be hidden: %s", out)
	}
	if !strings.Contains(out, `class="field has-error"`) {
		t.Errorf("missing error class: %s", out)
	}
	if !strings.Contains(out, `name="_csrf" value="tok"`) {
		t.Errorf("missing csrf token: %s", out)
	}
	if !strings.Contains(out, `value="bad-email"`) {
		t.Errorf("value not preserved: %s", out)
	}
	if !strings.Contains(out, `data-touched="[&#34;email&#34;]"`) {
		t.Errorf("touched list: %s", out)
	}
}

func TestContactFormBanners(t *testing.T) {
	state := contact.NewState()
	if out := render(t, ContactForm(portfolio.Page{}, state)); strings.Contains(out, successMessage) || strings.Contains(out, "banner-error") {
		t.Errorf("idle form shows a banner: %s", out)
	}

	state.Outcome = contact.OutcomeSuccess
	if out := render(t, ContactForm(portfolio.Page{}, state)); !strings.Contains(out, successMessage) {
		t.Errorf("success banner missing: %s", out)
	}

	state.Outcome = contact.OutcomeError
	out := render(t, ContactForm(portfolio.Page{}, state))
	if !strings.Contains(out, "banner-error") || strings.Contains(out, successMessage) {
		t.Errorf("error banner wrong: %s", out)
	}
}

func TestContactFormEscapesValues(t *testing.T) {
	state := contact.NewFlow(nil, contact.WithValues(contact.Values{Message: "</textarea><script>x</script>"})).Snapshot()
	out := render(t, ContactForm(portfolio.Page{}, state))
	if strings.Contains(out, "<script>x</script>") {
		t.Errorf("message not escaped: %s", out)
	}
}

func TestContactShowsMailLink(t *testing.T) {
	out := render(t, Contact(portfolio.Page{Title: "Contact Me", ContactEmail: "me@example.com", Path: "/contact/"}, contact.NewState()))
	if !strings.Contains(out, `href="mailto:me@example.com"`) {
		t.Errorf("mail link missing: %s", out)
	}
}

func TestPostPager(t *testing.T) {
	older := content.Post{Title: "Old", Slug: "/blog/old/"}
	out := render(t, Post(portfolio.Page{}, content.Post{Title: "Now", HTML: "<p>body</p>"}, nil, &older))
	if !strings.Contains(out, `href="/blog/old/" class="older"`) {
		t.Errorf("older link missing: %s", out)
	}
	if strings.Contains(out, `class="newer"`) {
		t.Errorf("unexpected newer link: %s", out)
	}
}

func TestPostListSanitizesURLs(t *testing.T) {
	posts := []content.Post{{Title: "Bad", Slug: "javascript:alert(1)"}}
	out := render(t, Blog(portfolio.Page{Title: "Blog"}, posts))
	if strings.Contains(out, "javascript:") {
		t.Errorf("unsafe href rendered: %s", out)
	}
	if !strings.Contains(out, `href="about:invalid#TemplFailedSanitizationURL"`) {
		t.Errorf("href not replaced: %s", out)
	}
}

func TestAdminInboxEscapesDeleteAction(t *testing.T) {
	subs := []portfolio.Submission{{
		ID:        "a/b",
		Name:      "Ada",
		Email:     "ada@example.com",
		Message:   "<b>hi</b>",
		CreatedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}}
	out := render(t, AdminInbox(portfolio.Page{CSRF: "tok"}, subs, ""))

	if !strings.Contains(out, `action="/admin/submissions/a%2Fb/delete/"`) {
		t.Errorf("delete action not escaped: %s", out)
	}
	if !strings.Contains(out, `<time datetime="2024-03-01T09:30:00Z">Mar 1, 2024 09:30</time>`) {
		t.Errorf("received time: %s", out)
	}
	if !strings.Contains(out, `href="mailto:ada@example.com"`) {
		t.Errorf("reply link missing: %s", out)
	}
	if strings.Contains(out, "<b>hi</b>") {
		t.Errorf("message not escaped: %s", out)
	}
}

func TestAdminImagesSnippet(t *testing.T) {
	images := []portfolio.Image{{Filename: "cat.png", OriginalName: "Cat", Width: 640, Height: 480}}
	out := render(t, AdminImages(portfolio.Page{}, images))
	if !strings.Contains(out, `src="/public/uploads/cat.png" alt="Cat" width="640" height="480"`) {
		t.Errorf("image tag: %s", out)
	}
	if !strings.Contains(out, "<code>![Cat](/public/uploads/cat.png)</code>") {
		t.Errorf("snippet: %s", out)
	}
}

func TestNameWords(t *testing.T) {
	got := nameWords("Derek  Spaulding")
	want := []accentWord{{First: "D", Rest: "erek"}, {Sep: " ", First: "S", Rest: "paulding"}}
	if len(got) != len(want) {
		t.Fatalf("nameWords = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
