// Package views holds the site's stock templ components.
package views

import "github.com/derekaspaulding/portfolio"

// Default returns the stock views for portfolio.New.
func Default() portfolio.ViewFuncs {
	return portfolio.ViewFuncs{
		Home:        Home,
		Blog:        Blog,
		Post:        Post,
		Contact:     Contact,
		ContactForm: ContactForm,
		Received:    Received,
		AdminLogin:  AdminLogin,
		AdminInbox:  AdminInbox,
		AdminImages: AdminImages,
		NotFound:    NotFound,
		ServerError: ServerError,
	}
}
