package portfolio

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/derekaspaulding/portfolio/metrics"
)

// inboxLimit caps how many submissions the admin inbox lists.
const inboxLimit = 200

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(a.page(c, "Admin", ""), false))
	}
	return a.renderInbox(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		metrics.IncrementRateLimitHits("login")
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	return RenderStatus(c, http.StatusUnauthorized, a.Views.AdminLogin(a.page(c, "Admin", ""), true))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleSubmissionDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	err := a.Store.DeleteSubmission(c.Request().Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg=not+found")
	}
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/?msg=deleted")
}

func (a *App) renderInbox(c echo.Context, msg string) error {
	subs, err := a.Store.ListSubmissions(c.Request().Context(), inboxLimit)
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminInbox(a.page(c, "Inbox", ""), subs, msg))
}
