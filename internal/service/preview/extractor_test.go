package preview

import (
	"maps"
	"slices"
	"testing"

	"linkpreview/internal/domain"
)

const pageURL = "https://example.com/article"

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		html string
		want domain.LinkMetadata
	}{
		{
			name: "Open Graph takes precedence over Twitter Card",
			html: `<html><head>
				<meta property="og:title" content="A">
				<meta name="twitter:title" content="B">
			</head></html>`,
			want: domain.LinkMetadata{"url": pageURL, "title": "A"},
		},
		{
			name: "Twitter Card fills fields Open Graph left empty",
			html: `<head>
				<meta property="og:title" content="">
				<meta name="twitter:title" content="B">
				<meta name="twitter:card" content="summary_large_image">
				<meta name="twitter:image" content="https://cdn.example.com/t.png">
			</head>`,
			want: domain.LinkMetadata{
				"url":   pageURL,
				"title": "B",
				"card":  "summary_large_image",
				"image": "https://cdn.example.com/t.png",
			},
		},
		{
			name: "Twitter Card fills a field whose og tag has no content attribute",
			html: `<meta property="og:description"><meta name="twitter:description" content="From twitter">`,
			want: domain.LinkMetadata{"url": pageURL, "description": "From twitter"},
		},
		{
			name: "falls back to the title element",
			html: `<html><head><title>Hello</title></head><body></body></html>`,
			want: domain.LinkMetadata{"url": pageURL, "title": "Hello"},
		},
		{
			name: "title text is not trimmed",
			html: `<title>  Hello  World </title>`,
			want: domain.LinkMetadata{"url": pageURL, "title": "  Hello  World "},
		},
		{
			name: "falls back to meta description",
			html: `<head><meta name="description" content="Plain description"></head>`,
			want: domain.LinkMetadata{"url": pageURL, "description": "Plain description"},
		},
		{
			name: "og description beats meta description",
			html: `<meta name="description" content="Plain"><meta property="og:description" content="Rich">`,
			want: domain.LinkMetadata{"url": pageURL, "description": "Rich"},
		},
		{
			name: "first meta description is used",
			html: `<meta name="description" content="First"><meta name="description" content="Second">`,
			want: domain.LinkMetadata{"url": pageURL, "description": "First"},
		},
		{
			name: "empty og image is pruned",
			html: `<meta property="og:image" content=""><meta property="og:title" content="T">`,
			want: domain.LinkMetadata{"url": pageURL, "title": "T"},
		},
		{
			name: "last duplicate og tag wins",
			html: `<meta property="og:image" content="https://a/1.png">
				<meta property="og:image" content="https://a/2.png">
				<meta property="og:image" content="https://a/3.png">`,
			want: domain.LinkMetadata{"url": pageURL, "image": "https://a/3.png"},
		},
		{
			name: "suffixes are used verbatim as field names",
			html: `<meta property="og:site_name" content="Example">
				<meta property="og:type" content="article">
				<meta property="og:image:width" content="1200">
				<meta property="og:Locale" content="en_GB">`,
			want: domain.LinkMetadata{
				"url":         pageURL,
				"site_name":   "Example",
				"type":        "article",
				"image:width": "1200",
				"Locale":      "en_GB",
			},
		},
		{
			name: "empty og suffix produces an empty field name",
			html: `<meta property="og:" content="bare">`,
			want: domain.LinkMetadata{"url": pageURL, "": "bare"},
		},
		{
			name: "attribute values are matched case-sensitively",
			html: `<meta property="OG:title" content="Upper"><meta name="Twitter:title" content="Upper">`,
			want: domain.LinkMetadata{"url": pageURL},
		},
		{
			name: "og url never replaces the requested url",
			html: `<meta property="og:url" content="https://canonical.example.com/">
				<meta name="twitter:url" content="https://t.example.com/">`,
			want: domain.LinkMetadata{"url": pageURL},
		},
		{
			name: "values keep their whitespace",
			html: `<meta property="og:title" content="  spaced  ">`,
			want: domain.LinkMetadata{"url": pageURL, "title": "  spaced  "},
		},
		{
			name: "entities are decoded by the parser",
			html: `<meta property="og:title" content="Fish &amp; Chips">`,
			want: domain.LinkMetadata{"url": pageURL, "title": "Fish & Chips"},
		},
		{
			name: "partial markup still yields matches",
			html: `<html><head><meta property="og:title" content="Partial"><title>Unclosed`,
			want: domain.LinkMetadata{"url": pageURL, "title": "Partial"},
		},
		{
			name: "garbage input yields only the url",
			html: `<<<>>> not html at all </div></span>`,
			want: domain.LinkMetadata{"url": pageURL},
		},
		{
			name: "empty document yields only the url",
			html: ``,
			want: domain.LinkMetadata{"url": pageURL},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.html, pageURL)
			if !maps.Equal(got, tt.want) {
				t.Errorf("Extract() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	html := `<meta property="og:title" content="T"><meta name="twitter:site" content="@example">`

	first := Extract(html, pageURL)
	second := Extract(html, pageURL)
	if !maps.Equal(first, second) {
		t.Errorf("Extract() not idempotent: %v vs %v", first, second)
	}
}

func TestMetaTagsDocumentOrder(t *testing.T) {
	html := `<meta property="og:title" content="1"><body><meta property="og:image" content="2"></body>
		<meta name="twitter:title" content="ignored"><meta property="og:title" content="3">`

	root := mustParse(t, html)

	var fields, contents []string
	for field, content := range metaTags(root, "property", openGraphPrefix) {
		fields = append(fields, field)
		contents = append(contents, content)
	}

	if !slices.Equal(fields, []string{"title", "image", "title"}) {
		t.Errorf("fields = %v", fields)
	}
	if !slices.Equal(contents, []string{"1", "2", "3"}) {
		t.Errorf("contents = %v", contents)
	}

	// Stopping early must not panic or continue the scan
	count := 0
	for range metaTags(root, "property", openGraphPrefix) {
		count++
		break
	}
	if count != 1 {
		t.Errorf("early break visited %d tags", count)
	}
}

func TestFoldsDoNotMutateInput(t *testing.T) {
	seed := domain.NewLinkMetadata(pageURL)
	tags := func(yield func(string, string) bool) {
		yield("title", "changed")
	}

	overwritten := applyOverwrite(seed, tags)
	filled := applyFill(seed, tags)

	if seed["title"] != "" {
		t.Errorf("seed mutated: %v", seed)
	}
	if overwritten["title"] != "changed" || filled["title"] != "changed" {
		t.Errorf("folds did not apply: %v / %v", overwritten, filled)
	}
}
