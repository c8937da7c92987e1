package portfolio

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// HeaderHXRequest marks requests made by the page's own scripts, which only
// want a fragment back.
const HeaderHXRequest = "HX-Request"

// HeaderHXTriggerName names the input that triggered a partial request.
const HeaderHXTriggerName = "HX-Trigger-Name"

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// IsPartial reports whether the request asked for a fragment.
func IsPartial(c echo.Context) bool {
	return c.Request().Header.Get(HeaderHXRequest) == "true"
}

// page builds the per-request layout data.
func (a *App) page(c echo.Context, title, description string) Page {
	if description == "" {
		description = a.Config.Description
	}
	return Page{
		Title:        title,
		Description:  description,
		Path:         c.Request().URL.Path,
		SiteName:     a.Config.Name,
		SiteURL:      a.Config.URL,
		ContactEmail: a.Config.ContactEmail,
		CSRF:         CsrfToken(c),
		LiveReload:   a.Config.LiveReload,
		Admin:        IsAdmin(c),
	}
}
