package parser

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const siteBase = "https://thangs.com"

// modelLinkRe matches the canonical detail-page path:
// /designer/<designer>/3d-model/<slug>-<numeric id>
var modelLinkRe = regexp.MustCompile(`(?i)/designer/[^/]+/3d-model/[^?\s]+-\d+$`)

// CollectModelLinks returns the deduplicated, sorted set of absolute model
// URLs found in the markup. Anchors matching the strict detail-page pattern
// are preferred; when none match, any href containing /3d-model/ is accepted
// so a layout change doesn't blind the discoverer entirely.
func CollectModelLinks(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	base, err := url.Parse(siteBase)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	seen := make(map[string]struct{})
	var links []string

	collect := func(match func(string) bool) {
		doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
			href := strings.TrimSpace(s.AttrOr("href", ""))
			if href == "" || !match(href) {
				return
			}

			ref, err := url.Parse(href)
			if err != nil {
				return
			}

			abs := base.ResolveReference(ref).String()
			if _, ok := seen[abs]; ok {
				return
			}
			seen[abs] = struct{}{}
			links = append(links, abs)
		})
	}

	collect(modelLinkRe.MatchString)

	if len(links) == 0 {
		collect(func(href string) bool {
			return strings.Contains(href, "/3d-model/")
		})
	}

	sort.Strings(links)
	return links, nil
}
