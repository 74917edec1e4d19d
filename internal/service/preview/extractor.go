package preview

import (
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"linkpreview/internal/domain"
)

const (
	openGraphPrefix   = "og:"
	twitterCardPrefix = "twitter:"
)

// Extract builds a LinkMetadata record from raw HTML.
//
// Open Graph tags overwrite the seeded fields in document order, so the last
// duplicate wins. Twitter Card tags only fill fields that are still empty.
// <title> and <meta name="description"> are used when title or description
// remain empty. Empty fields are pruned from the result. Malformed markup is
// never an error.
func Extract(body, pageURL string) domain.LinkMetadata {
	seed := domain.NewLinkMetadata(pageURL)

	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		// Only reader failures surface here, which strings.Reader never has
		return seed.Pruned()
	}
	doc := goquery.NewDocumentFromNode(root)

	metadata := applyOverwrite(seed, metaTags(doc, "property", openGraphPrefix))
	metadata = applyFill(metadata, metaTags(doc, "name", twitterCardPrefix))

	if metadata[domain.FieldTitle] == "" {
		metadata[domain.FieldTitle] = doc.Find("title").Text()
	}

	if metadata[domain.FieldDescription] == "" {
		metadata[domain.FieldDescription] = doc.Find(`meta[name="description"]`).AttrOr("content", "")
	}

	return metadata.Pruned()
}

// metaTags yields (field, content) for each <meta> whose attr starts with prefix,
// in document order. The field is the attribute value with prefix removed; an
// attribute equal to the bare prefix yields the empty field name.
func metaTags(doc *goquery.Document, attr, prefix string) iter.Seq2[string, string] {
	selector := `meta[` + attr + `^="` + prefix + `"]`

	return func(yield func(string, string) bool) {
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			name, _ := s.Attr(attr)
			content, _ := s.Attr("content")
			return yield(strings.TrimPrefix(name, prefix), content)
		})
	}
}

// applyOverwrite returns a copy of acc with every tag assigned unconditionally.
// The url field always keeps the requested address.
func applyOverwrite(acc domain.LinkMetadata, tags iter.Seq2[string, string]) domain.LinkMetadata {
	out := acc.Clone()
	for field, content := range tags {
		if field == domain.FieldURL {
			continue
		}
		out[field] = content
	}
	return out
}

// applyFill returns a copy of acc with tags assigned only to empty fields
func applyFill(acc domain.LinkMetadata, tags iter.Seq2[string, string]) domain.LinkMetadata {
	out := acc.Clone()
	for field, content := range tags {
		if out[field] == "" {
			out[field] = content
		}
	}
	return out
}
