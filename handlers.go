package portfolio

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/derekaspaulding/portfolio/content"
)

func (a *App) handleHome(c echo.Context) error {
	about, err := a.Library.Page("about")
	if err != nil && !errors.Is(err, content.ErrNotFound) {
		return err
	}
	recent, err := a.Cache.Recent(RecentPosts)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(a.page(c, "", ""), about, recent))
}

func (a *App) handleBlog(c echo.Context) error {
	posts, err := a.Cache.ListPosts()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Blog(a.page(c, "Blog", ""), posts))
}

func (a *App) handlePost(c echo.Context) error {
	slug := content.BlogPrefix + "/" + strings.Trim(c.Param("*"), "/")
	post, newer, older, err := a.Cache.GetPost(slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	return Render(c, a.Views.Post(a.page(c, post.Title, post.Description), post, newer, older))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts()
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleFavicon(c echo.Context) error {
	p := filepath.Join(a.Config.StaticDir, "favicon.svg")
	if _, err := os.Stat(p); err != nil {
		return echo.ErrNotFound
	}
	return c.File(p)
}

func (a *App) handleRobots(c echo.Context) error {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Disallow: /admin/\n")
	b.WriteString("\nSitemap: " + strings.TrimRight(a.Config.URL, "/") + "/sitemap.xml\n")
	return c.String(http.StatusOK, b.String())
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.page(c, "Not Found", "")))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError(a.page(c, "Error", "")))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
