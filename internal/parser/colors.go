package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// headerRe locates the promotional block heading. The long form appears on
	// newer pages, the short form on older ones; line breaks inside the phrase
	// are common, hence (?s).
	headerRe = regexp.MustCompile(`(?is)(want\s+your.*?)?shop\s+the\s+filament\s+we\s+used\s+on\s+the\s+polymaker\s+website`)

	// polyItemRe captures the finish+hue words between the brand and the
	// material suffix, e.g. "Polymaker Matte Ash Gray PLA" -> "Matte Ash Gray".
	polyItemRe = regexp.MustCompile(`(?i)Polymaker\s+([A-Za-z]+(?:\s+[A-Za-z]+)*?)\s+PLA\b`)

	polyDomainRe = regexp.MustCompile(`(?i)https?://([a-z0-9-]+\.)*polymaker\.com\b`)

	titleSuffixRe = regexp.MustCompile(`(?i)\s*\(no support.*$`)

	greySpellingRe = regexp.MustCompile(`(?i)\bgrey\b`)
	mattePrefixRe  = regexp.MustCompile(`(?i)^matte\b`)
	plaSuffixRe    = regexp.MustCompile(`(?i)\s*PLA\s*$`)
)

// scan limits bound how far past the block header we look before giving up;
// the promotional list is always near the top of its container.
const (
	strictScanLimit  = 80
	relaxedScanLimit = 120
)

// ExtractModelPage pulls the model title and the Polymaker color names out of
// a detail page. Extraction runs three tiers, strictest first, each
// short-circuiting on any result: partner-domain anchors inside the
// promotional block, then any text inside that block, then the whole page.
func ExtractModelPage(html, pageURL string) (string, []string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	title := extractTitle(doc, pageURL)

	colors := extractBlockColors(doc, true, strictScanLimit)
	if len(colors) == 0 {
		colors = extractBlockColors(doc, false, relaxedScanLimit)
	}
	if len(colors) == 0 {
		colors = extractItems(doc.Text())
	}

	return title, NormalizeColors(colors), nil
}

func extractTitle(doc *goquery.Document, pageURL string) string {
	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" {
		if i := strings.LastIndex(pageURL, "/"); i >= 0 {
			title = pageURL[i+1:]
		} else {
			title = pageURL
		}
	}

	return strings.TrimSpace(titleSuffixRe.ReplaceAllString(title, ""))
}

// findBlockContainer returns the nearest sectioning element around the
// promotional header text, or nil when the header is absent.
func findBlockContainer(doc *goquery.Document) *goquery.Selection {
	var node *goquery.Selection

	// Document order puts parents before children, so the last match is the
	// element closest around the header text itself.
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		if headerRe.MatchString(s.Text()) {
			node = s
		}
	})
	if node == nil {
		return nil
	}

	container := node.Closest("section, div, article, main")
	if container.Length() == 0 {
		container = node.Parent()
	}
	return container
}

// extractBlockColors scans a bounded number of elements inside the
// promotional block in document order, stopping at the first heading or
// divider past the header itself. With anchorsOnly set, only links pointing
// at the partner domain are considered.
func extractBlockColors(doc *goquery.Document, anchorsOnly bool, limit int) []string {
	container := findBlockContainer(doc)
	if container == nil {
		return nil
	}

	var colors []string
	seen := make(map[string]struct{})
	scanned := 0

	container.Find("a, li, p, div, span, h1, h2, h3, hr").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if scanned >= limit {
			return false
		}
		scanned++

		switch goquery.NodeName(s) {
		case "h1", "h2", "h3", "hr":
			// a new section begins; the block header itself is exempt
			return headerRe.MatchString(s.Text())
		}

		if anchorsOnly {
			if goquery.NodeName(s) != "a" {
				return true
			}
			if !polyDomainRe.MatchString(strings.TrimSpace(s.AttrOr("href", ""))) {
				return true
			}
		}

		for _, item := range extractItems(s.Text()) {
			if len(strings.Fields(item)) < 2 {
				continue
			}
			key := strings.ToLower(item)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			colors = append(colors, item)
		}

		return true
	})

	return colors
}

// extractItems applies the color item pattern to free text.
func extractItems(text string) []string {
	var items []string
	for _, m := range polyItemRe.FindAllStringSubmatch(text, -1) {
		items = append(items, strings.TrimSpace(m[1]))
	}
	return items
}

// NormalizeColor canonicalizes a single extracted color name. It collapses
// whitespace, settles the Grey/Gray spelling, fixes the case of a leading
// finish word, drops a trailing material token and stray punctuation, and
// rejects anything that reduces to the bare finish word or a single word.
// Normalizing an already-normalized name returns it unchanged.
func NormalizeColor(c string) string {
	x := strings.Join(strings.Fields(c), " ")
	x = greySpellingRe.ReplaceAllString(x, "Gray")
	x = mattePrefixRe.ReplaceAllString(x, "Matte")
	x = plaSuffixRe.ReplaceAllString(x, "")
	x = strings.Trim(x, " -–—·.")

	if strings.EqualFold(x, "Matte") || len(strings.Fields(x)) < 2 {
		return ""
	}
	return x
}

// NormalizeColors normalizes every candidate and deduplicates
// case-insensitively, preserving first-seen order.
func NormalizeColors(colors []string) []string {
	var clean []string
	seen := make(map[string]struct{})

	for _, c := range colors {
		x := NormalizeColor(c)
		if x == "" {
			continue
		}
		key := strings.ToLower(x)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		clean = append(clean, x)
	}

	return clean
}
