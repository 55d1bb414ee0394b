package sites

import (
	"testing"

	"github.com/grindhq/grindd/internal/models"
)

func TestExtractDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		url    string
		domain string
		ok     bool
	}{
		{name: "https with subdomain and port", url: "https://sub.example.com:8080/x", domain: "sub.example.com", ok: true},
		{name: "plain http", url: "http://example.com/path?q=1", domain: "example.com", ok: true},
		{name: "no scheme", url: "example.com/path", domain: "example.com", ok: true},
		{name: "empty", url: "", ok: false},
		{name: "whitespace only", url: "   ", ok: false},
		{name: "chrome internal", url: "chrome://settings", ok: false},
		{name: "chrome extension page", url: "chrome-extension://abcdef/popup.html", ok: false},
		{name: "firefox extension page", url: "moz-extension://abcdef/options.html", ok: false},
		{name: "edge internal", url: "edge://flags", ok: false},
		{name: "about page", url: "about:blank", ok: false},
		{name: "data uri", url: "data:text/html,hi", ok: false},
		{name: "file url", url: "file:///tmp/x.html", ok: false},
		{name: "javascript uri", url: "javascript:void(0)", ok: false},
		{name: "unparseable", url: "http://[::1:bad", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			domain, ok := ExtractDomain(tt.url)
			if ok != tt.ok {
				t.Fatalf("ExtractDomain(%q) ok = %v, want %v", tt.url, ok, tt.ok)
			}
			if ok && domain != tt.domain {
				t.Errorf("ExtractDomain(%q) = %q, want %q", tt.url, domain, tt.domain)
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		domain string
		want   models.Category
	}{
		{name: "productive exact", domain: "github.com", want: models.CategoryProductive},
		{name: "productive subdomain contains", domain: "gist.github.com", want: models.CategoryProductive},
		{name: "unproductive", domain: "www.youtube.com", want: models.CategoryUnproductive},
		{name: "neutral", domain: "example.org", want: models.CategoryNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Categorize(tt.domain, DefaultProductiveSites, DefaultUnproductiveSites)
			if got != tt.want {
				t.Errorf("Categorize(%q) = %q, want %q", tt.domain, got, tt.want)
			}
		})
	}
}

func TestCategorizeProductiveWins(t *testing.T) {
	t.Parallel()

	// A domain matching both lists takes the productive classification
	// because that list is checked first.
	got := Categorize("reddit.com", []string{"reddit.com"}, []string{"reddit.com"})
	if got != models.CategoryProductive {
		t.Errorf("Categorize = %q, want productive", got)
	}
}

func TestCategorizeUserLists(t *testing.T) {
	t.Parallel()

	productive := append([]string{"mycompany.dev"}, DefaultProductiveSites...)
	got := Categorize("wiki.mycompany.dev", productive, DefaultUnproductiveSites)
	if got != models.CategoryProductive {
		t.Errorf("Categorize with user list = %q, want productive", got)
	}
}
