package portfolio

import "testing"

func TestIsActive(t *testing.T) {
	tests := []struct {
		current string
		href    string
		partial bool
		want    bool
	}{
		{"/", "/", false, true},
		{"/blog/", "/", false, false},
		{"/blog/", "/blog/", true, true},
		{"/blog/2024/hello/", "/blog/", true, true},
		{"/blog", "/blog/", true, true},
		{"/blogger/", "/blog/", true, false},
		{"/contact/success/", "/contact/", true, true},
		{"/contact/?x=1", "/contact/", true, true},
		{"/blog/hello/", "/blog/", false, false},
		{"/anything/", "/", true, false},
	}
	for _, tt := range tests {
		if got := IsActive(tt.current, tt.href, tt.partial); got != tt.want {
			t.Errorf("IsActive(%q, %q, %v) = %v, want %v", tt.current, tt.href, tt.partial, got, tt.want)
		}
	}
}

func TestPageNav(t *testing.T) {
	nav := Page{Path: "/blog/some-post/"}.Nav()
	if len(nav) != len(NavLinks) {
		t.Fatalf("got %d nav items, want %d", len(nav), len(NavLinks))
	}
	active := map[string]bool{}
	for _, item := range nav {
		active[item.Label] = item.Active
	}
	if active["About"] || !active["Blog"] || active["Contact"] {
		t.Errorf("active = %v", active)
	}
}

func TestPageTitle(t *testing.T) {
	tests := []struct {
		page, site, want string
	}{
		{"Contact", "Derek Spaulding", "Contact - Derek Spaulding"},
		{"", "Derek Spaulding", "Derek Spaulding"},
		{"  ", "Site", "Site"},
		{"Site", "Site", "Site"},
		{"Only", "", "Only"},
	}
	for _, tt := range tests {
		if got := PageTitle(tt.page, tt.site); got != tt.want {
			t.Errorf("PageTitle(%q, %q) = %q, want %q", tt.page, tt.site, got, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello World", "hello-world"},
		{"  Go & Echo!  ", "go-echo"},
		{"IMG_0042", "img-0042"},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com", []string{"blog", "post"}, "https://example.com/blog/post/"},
		{"https://example.com/", []string{"/blog/2024/x/"}, "https://example.com/blog/2024/x/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segs...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
}
