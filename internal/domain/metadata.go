package domain

import "maps"

// LinkMetadata is the flat set of preview fields extracted from a page.
// Only non-empty values are kept once a record has been pruned.
type LinkMetadata map[string]string

// Well-known field names
const (
	FieldURL         = "url"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldImage       = "image"
	FieldSiteName    = "siteName"
	FieldType        = "type"
)

// NewLinkMetadata seeds a record with the request URL and empty placeholders
// for the well-known preview fields
func NewLinkMetadata(url string) LinkMetadata {
	return LinkMetadata{
		FieldURL:         url,
		FieldTitle:       "",
		FieldDescription: "",
		FieldImage:       "",
		FieldSiteName:    "",
		FieldType:        "",
	}
}

// Pruned returns a copy without any empty-valued fields
func (m LinkMetadata) Pruned() LinkMetadata {
	out := make(LinkMetadata, len(m))
	for k, v := range m {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Clone returns an independent copy of the record
func (m LinkMetadata) Clone() LinkMetadata {
	if m == nil {
		return LinkMetadata{}
	}
	return maps.Clone(m)
}
