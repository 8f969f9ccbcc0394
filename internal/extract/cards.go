package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// reEventID pulls the numeric listing id out of an event permalink. Short
// digit runs are page furniture, not ids.
var reEventID = regexp.MustCompile(`/events/(\d{5,})`)

// cardContainerSelector matches the ancestor elements that act as one
// listing's card in the rendered feed markup.
const cardContainerSelector = `[role="article"], [role="button"], [class*="x1n2onr6"], [class*="xdt5ytf"]`

// Card is the raw material for one listing: the id-bearing anchor plus the
// text of its surrounding card container.
type Card struct {
	ID       string
	URL      string
	RawTitle string
	Text     string
}

// TextSource extracts the working text of a card container. The two
// strategies differ in how much of the container's structure survives:
// FlattenedText is cheap and usually enough, LeafText keeps the text-node
// boundaries as spaces so fields glued together in the markup stay apart.
type TextSource func(*goquery.Selection) string

// FlattenedText returns the container's entire text content as one run.
func FlattenedText(sel *goquery.Selection) string {
	return sel.Text()
}

// LeafText walks the container's nodes in document order and joins the text
// nodes with spaces.
func LeafText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

// CollectCards scans a rendered feed document for event permalinks and
// returns one Card per anchor, in document order. Duplicate ids are kept;
// deduplication happens downstream so first-seen order is preserved in one
// place.
func CollectCards(doc *goquery.Document, source TextSource) []Card {
	if source == nil {
		source = FlattenedText
	}

	var cards []Card
	doc.Find(`a[href*="/events/"]`).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		m := reEventID.FindStringSubmatch(href)
		if m == nil {
			return
		}

		title := collapse(a.Text())
		if title == "" {
			title, _ = a.Attr("aria-label")
			title = collapse(title)
		}

		container := a.Closest(cardContainerSelector)
		if container.Length() == 0 {
			container = a.Closest("div")
		}
		if container.Length() == 0 {
			container = a.Parent()
		}

		cards = append(cards, Card{
			ID:       m[1],
			URL:      href,
			RawTitle: title,
			Text:     collapse(source(container)),
		})
	})
	return cards
}
