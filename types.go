package portfolio

import "github.com/derekaspaulding/portfolio/contact"

// Submission is a form submission accepted by the inbox.
type Submission = contact.Record

// Image is metadata for an uploaded image stored under <static>/uploads.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}

// Page carries per-request data every layout needs: the title, the current
// path for navigation highlighting, and the CSRF token for forms.
type Page struct {
	Title        string // page title without the site name
	Description  string
	Path         string
	SiteName     string
	SiteURL      string
	ContactEmail string
	CSRF         string
	LiveReload   bool
	Admin        bool
}

// FullTitle is the document title: "<page> - <site>", or the bare site
// name when the page has no title of its own.
func (p Page) FullTitle() string {
	return PageTitle(p.Title, p.SiteName)
}

// Nav returns the navigation links with the active one marked.
func (p Page) Nav() []NavItem {
	items := make([]NavItem, len(NavLinks))
	for i, l := range NavLinks {
		items[i] = NavItem{
			Label:  l.Label,
			Href:   l.Href,
			Active: IsActive(p.Path, l.Href, l.Partial),
		}
	}
	return items
}

// Canonical returns the absolute URL of the page.
func (p Page) Canonical() string {
	if p.Path == "" || p.Path == "/" {
		return BuildURL(p.SiteURL)
	}
	return BuildURL(p.SiteURL, p.Path)
}
