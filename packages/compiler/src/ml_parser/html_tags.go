package ml_parser

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// HtmlTagDefinitionOptions configures an HtmlTagDefinition
type HtmlTagDefinitionOptions struct {
	ContentType TagContentType
	// ContentTypeByPrefix overrides ContentType for elements in a namespace.
	ContentTypeByPrefix map[string]TagContentType
}

// HtmlTagDefinition implements TagDefinition for HTML tags
type HtmlTagDefinition struct {
	contentType         TagContentType
	contentTypeByPrefix map[string]TagContentType
}

// NewHtmlTagDefinition creates a new HtmlTagDefinition
func NewHtmlTagDefinition(opts HtmlTagDefinitionOptions) *HtmlTagDefinition {
	return &HtmlTagDefinition{
		contentType:         opts.ContentType,
		contentTypeByPrefix: opts.ContentTypeByPrefix,
	}
}

// GetContentType returns the content type for this tag
func (h *HtmlTagDefinition) GetContentType(prefix string) TagContentType {
	if prefix != "" {
		if overrideType, exists := h.contentTypeByPrefix[prefix]; exists {
			return overrideType
		}
	}
	return h.contentType
}

var (
	defaultTagDefinition = NewHtmlTagDefinition(HtmlTagDefinitionOptions{
		ContentType: TagContentTypePARSABLE_DATA,
	})

	tagDefinitions = map[atom.Atom]*HtmlTagDefinition{
		atom.Style: NewHtmlTagDefinition(HtmlTagDefinitionOptions{
			ContentType: TagContentTypeRAW_TEXT,
		}),
		atom.Script: NewHtmlTagDefinition(HtmlTagDefinitionOptions{
			ContentType: TagContentTypeRAW_TEXT,
		}),
		atom.Title: NewHtmlTagDefinition(HtmlTagDefinitionOptions{
			ContentType: TagContentTypeESCAPABLE_RAW_TEXT,
			ContentTypeByPrefix: map[string]TagContentType{
				"svg": TagContentTypePARSABLE_DATA,
			},
		}),
		atom.Textarea: NewHtmlTagDefinition(HtmlTagDefinitionOptions{
			ContentType: TagContentTypeESCAPABLE_RAW_TEXT,
		}),
	}
)

// GetHtmlTagDefinition returns the HTML tag definition for a tag name.
// Lookup ignores case; unknown tags hold parsable data.
func GetHtmlTagDefinition(tagName string) TagDefinition {
	a := atom.Lookup([]byte(strings.ToLower(tagName)))
	if def, exists := tagDefinitions[a]; exists && a != 0 {
		return def
	}
	return defaultTagDefinition
}
