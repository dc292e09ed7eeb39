package urlutil

import (
	"fmt"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractLinks parses an HTML document and returns the absolute http(s)
// targets of its anchors in document order, without duplicates. Relative
// hrefs are resolved against base, or against the document's <base href>
// when it has one.
func ExtractLinks(r io.Reader, base string) ([]string, error) {
	baseURL, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if u, err := baseURL.Parse(strings.TrimSpace(href)); err == nil {
			baseURL = u
		}
	}

	seen := make(map[string]struct{})
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return
		}
		u, err := baseURL.Parse(href)
		if err != nil {
			return
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return
		}
		link := u.String()
		if _, ok := seen[link]; ok {
			return
		}
		seen[link] = struct{}{}
		links = append(links, link)
	})
	return links, nil
}

// RenderLink renders a markdown link as an anchor. Links that point outside
// trustedDomain and its subdomains get rel="nofollow" and open in a new tab.
func RenderLink(href, title, text, trustedDomain string) string {
	label := text
	if title != "" {
		label = title
	}
	attr := html.EscapeString(href)

	if isTrustedHost(href, trustedDomain) {
		return fmt.Sprintf(`<a href="%s">%s</a>`, attr, label)
	}
	return fmt.Sprintf(`<a rel="nofollow" target="_blank" href="%s">%s</a>`, attr, label)
}

func isTrustedHost(href, trustedDomain string) bool {
	if trustedDomain == "" {
		return false
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Hostname()), "."+strings.ToLower(trustedDomain))
}

// DecreaseHeadingLevel renders a heading one level below level, so an h1
// in embedded markdown becomes an h2.
func DecreaseHeadingLevel(text string, level int) string {
	level++
	return fmt.Sprintf("<h%d>%s</h%d>", level, text, level)
}
