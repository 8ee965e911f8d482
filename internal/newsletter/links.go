package newsletter

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
)

// NewsletterLink is one entry of the generated link list.
type NewsletterLink struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PostedBy    string `json:"posted_by"`
}

// NewsletterPayload is the structured view of a generated newsletter.
type NewsletterPayload struct {
	Links []NewsletterLink `json:"links"`
}

// ExtractLinks parses the newsletter HTML back into its list entries. Entries
// missing a field keep it empty; HTML without any <li> yields no links.
func ExtractLinks(html string) (*NewsletterPayload, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse newsletter HTML: %w", err)
	}

	links := []NewsletterLink{}
	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		links = append(links, linkFromItem(li))
	})

	return &NewsletterPayload{Links: links}, nil
}

func linkFromItem(li *goquery.Selection) NewsletterLink {
	anchor := li.Find("a[href]").First()
	href, _ := anchor.Attr("href")

	paragraphs := li.Find("p").Map(func(_ int, p *goquery.Selection) string {
		return collapseSpace(p.Text())
	})

	return NewsletterLink{
		Title:       collapseSpace(li.Find("strong").First().Text()),
		Description: strings.Join(lo.Compact(paragraphs), "\n\n"),
		URL:         strings.TrimSpace(href),
		PostedBy:    posterName(li.Find(".poster").First().Text()),
	}
}

// posterName reduces a credit such as "by Stavros." to the bare username.
func posterName(credit string) string {
	name := collapseSpace(credit)
	name = strings.TrimPrefix(name, "by ")
	name = strings.TrimPrefix(name, "Posted by ")
	return strings.TrimSpace(strings.TrimSuffix(name, "."))
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
