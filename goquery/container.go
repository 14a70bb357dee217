package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docmerge"
)

// ContainerHTML returns the inner HTML of the first element matching
// selector. found is false when no element matches.
func ContainerHTML(rawHTML string, selector string) (inner string, found bool, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", false, docmerge.Errorf(docmerge.EINVALID, "failed to parse HTML: %v", err)
	}

	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", false, nil
	}

	inner, err = sel.Html()
	if err != nil {
		return "", false, err
	}
	return inner, true, nil
}
