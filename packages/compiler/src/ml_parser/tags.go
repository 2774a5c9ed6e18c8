package ml_parser

import (
	"fmt"
	"strings"
)

// TagContentType represents the content type of a tag
type TagContentType int

const (
	TagContentTypeRAW_TEXT TagContentType = iota
	TagContentTypeESCAPABLE_RAW_TEXT
	TagContentTypePARSABLE_DATA
)

func (t TagContentType) String() string {
	switch t {
	case TagContentTypeRAW_TEXT:
		return "RAW_TEXT"
	case TagContentTypeESCAPABLE_RAW_TEXT:
		return "ESCAPABLE_RAW_TEXT"
	default:
		return "PARSABLE_DATA"
	}
}

// TagDefinition tells the tokenizer how to read the content of an element.
// prefix is the namespace prefix of the element, "" when it has none.
type TagDefinition interface {
	GetContentType(prefix string) TagContentType
}

// MergeNsAndName merges namespace prefix and local name
func MergeNsAndName(prefix, localName string) string {
	if prefix != "" {
		return ":" + prefix + ":" + localName
	}
	return localName
}

// SplitNsName splits a name built by MergeNsAndName back into its prefix and
// local name. Names without a leading colon have no prefix.
func SplitNsName(elementName string) (prefix, name string, err error) {
	if !strings.HasPrefix(elementName, ":") {
		return "", elementName, nil
	}
	prefix, name, ok := strings.Cut(elementName[1:], ":")
	if !ok {
		return "", elementName, fmt.Errorf("unsupported format %q expecting \":namespace:name\"", elementName)
	}
	return prefix, name, nil
}

// GetNsPrefix returns the namespace prefix of fullName, "" if it has none.
func GetNsPrefix(fullName string) string {
	prefix, _, _ := SplitNsName(fullName)
	return prefix
}
