// Package sites holds the pure helpers that classify tab URLs: hostname
// extraction with non-web scheme filtering, and productivity categorization.
package sites

import (
	"net/url"
	"strings"

	"github.com/grindhq/grindd/internal/models"
)

// Schemes that never map to a trackable website. Tabs on these pages are
// treated as having no domain at all.
var untrackableSchemes = []string{
	"chrome://",
	"chrome-extension://",
	"moz-extension://",
	"edge://",
	"about:",
	"data:",
	"file://",
	"javascript:",
}

// ExtractDomain maps a raw tab URL to its hostname. The second return is
// false for empty input, untrackable schemes, and anything net/url rejects.
// Scheme-less input ("example.com/path") is parsed as http so that bare
// hostnames still resolve.
func ExtractDomain(rawURL string) (string, bool) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", false
	}

	for _, scheme := range untrackableSchemes {
		if strings.HasPrefix(trimmed, scheme) {
			return "", false
		}
	}

	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil || u.Hostname() == "" {
		return "", false
	}
	return u.Hostname(), true
}

// Built-in categorization lists. User-supplied lists (settings or config
// file) are appended by the caller; matching is substring "contains", not
// exact, so "m.youtube.com" matches the "youtube.com" entry.
var (
	DefaultProductiveSites = []string{
		"github.com", "stackoverflow.com", "developer.mozilla.org",
		"docs.microsoft.com", "aws.amazon.com", "cloud.google.com",
		"docs.google.com", "notion.so", "trello.com", "asana.com",
		"coursera.org", "udemy.com", "khanacademy.org", "edx.org",
		"linkedin.com", "medium.com", "dev.to", "hashnode.com",
	}

	DefaultUnproductiveSites = []string{
		"facebook.com", "twitter.com", "instagram.com",
		"tiktok.com", "reddit.com", "youtube.com", "netflix.com",
		"twitch.tv", "discord.com", "snapchat.com", "pinterest.com",
		"9gag.com", "buzzfeed.com", "imgur.com", "vine.co",
	}
)

// Categorize classifies a domain. The productive list wins when a domain
// appears in both.
func Categorize(domain string, productive, unproductive []string) models.Category {
	for _, site := range productive {
		if site != "" && strings.Contains(domain, site) {
			return models.CategoryProductive
		}
	}
	for _, site := range unproductive {
		if site != "" && strings.Contains(domain, site) {
			return models.CategoryUnproductive
		}
	}
	return models.CategoryNeutral
}
