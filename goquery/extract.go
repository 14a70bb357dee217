// Package goquery extracts links and container markup from rendered HTML using
// goquery CSS selection.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docmerge"
)

// AnchorSelector matches every anchor element in a page.
const AnchorSelector = "a"

// ExtractLinks returns the href of every anchor in html, resolved against
// pageURL, that starts with prefix.
//
// Links keep document order and are not deduplicated. Anchors without an
// href attribute, and hrefs that cannot be parsed, are skipped. The prefix
// test is a literal string comparison: trailing slashes, case and query
// strings are not normalized.
func ExtractLinks(html string, pageURL string, prefix string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, docmerge.Errorf(docmerge.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docmerge.Errorf(docmerge.EINVALID, "failed to parse HTML: %v", err)
	}

	var links []string
	doc.Find(AnchorSelector).Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists {
			return
		}

		resolved, ok := resolveURL(base, href)
		if !ok {
			return
		}

		if strings.HasPrefix(resolved, prefix) {
			links = append(links, resolved)
		}
	})

	return links, nil
}

// hrefCleaner drops the ASCII tab and newline characters browsers remove
// from URLs before parsing them.
var hrefCleaner = strings.NewReplacer("\t", "", "\r", "", "\n", "")

// resolveURL resolves href against base the way a browser computes an
// anchor's href property: relative paths, protocol-relative and absolute
// references all produce an absolute URL.
func resolveURL(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(hrefCleaner.Replace(href)))
	if err != nil {
		return "", false
	}
	return base.ResolveReference(ref).String(), true
}
