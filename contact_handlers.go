package portfolio

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/derekaspaulding/portfolio/contact"
)

const contactTitle = "Contact Me"

func (a *App) newContactFlow(opts ...contact.FlowOption) *contact.Flow {
	opts = append([]contact.FlowOption{contact.WithFormName(a.Config.ContactFormName)}, opts...)
	return contact.NewFlow(a.submitter, opts...)
}

func (a *App) handleContact(c echo.Context) error {
	return Render(c, a.Views.Contact(a.page(c, contactTitle, ""), a.newContactFlow().Snapshot()))
}

// handleContactSuccess is where plain form posts land after a successful
// submission.
func (a *App) handleContactSuccess(c echo.Context) error {
	state := a.newContactFlow().Snapshot()
	state.Outcome = contact.OutcomeSuccess
	return Render(c, a.Views.Contact(a.page(c, contactTitle, ""), state))
}

// handleContactValidate re-renders the form for validate-on-change. Fields
// listed in "touched" and the field that triggered the request show their
// errors; the rest stay quiet until the user reaches them.
func (a *App) handleContactValidate(c echo.Context) error {
	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	flow := a.newContactFlow(contact.WithValues(contact.ValuesFromForm(form)))
	for _, name := range form["touched"] {
		if f, ok := contact.ParseField(name); ok {
			flow.Touch(f)
		}
	}
	if f, ok := contact.ParseField(c.Request().Header.Get(HeaderHXTriggerName)); ok {
		flow.Touch(f)
	}
	return Render(c, a.Views.ContactForm(a.page(c, contactTitle, ""), flow.Snapshot()))
}

// handleContactSubmit runs one submission. Script-driven requests get the
// form fragment with its banner back; plain form posts are redirected to
// the success page or shown the full page with the error banner.
func (a *App) handleContactSubmit(c echo.Context) error {
	if err := rateLimit(c, a.contactLimiter, "contact"); err != nil {
		return err
	}
	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	flow := a.newContactFlow(contact.WithValues(contact.ValuesFromForm(form)))

	ctx := withOrigin(c.Request().Context(), Origin{
		RemoteIP:  c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	_, err = flow.Submit(ctx)
	state := flow.Snapshot()
	page := a.page(c, contactTitle, "")

	switch {
	case errors.Is(err, contact.ErrInvalid):
		return a.renderContact(c, http.StatusUnprocessableEntity, page, state)
	case err != nil:
		c.Logger().Errorf("contact submission failed: %v", err)
		return a.renderContact(c, http.StatusBadGateway, page, state)
	}

	if IsPartial(c) {
		return Render(c, a.Views.ContactForm(page, state))
	}
	return c.Redirect(http.StatusSeeOther, "/contact/success/")
}

func (a *App) renderContact(c echo.Context, code int, page Page, state contact.State) error {
	if IsPartial(c) {
		return RenderStatus(c, code, a.Views.ContactForm(page, state))
	}
	return RenderStatus(c, code, a.Views.Contact(page, state))
}

// handleInbox is the form backend: urlencoded posts discriminated by
// form-name.
func (a *App) handleInbox(c echo.Context) error {
	if err := rateLimit(c, a.contactLimiter, "inbox"); err != nil {
		return err
	}
	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	payload := contact.Payload{
		FormName: form.Get(contact.FormNameKey),
		Values:   contact.ValuesFromForm(form),
	}
	sub, err := a.Inbox.Receive(c.Request().Context(), payload, Origin{
		RemoteIP:  c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		var verr *contact.ValidationError
		switch {
		case errors.Is(err, ErrUnknownForm):
			return echo.ErrNotFound
		case errors.As(err, &verr):
			return c.String(http.StatusBadRequest, verr.Error())
		}
		return err
	}
	c.Logger().Infof("received %s submission %s", sub.FormName, sub.ID)
	return Render(c, a.Views.Received(a.page(c, "Thank You", ""), sub))
}
