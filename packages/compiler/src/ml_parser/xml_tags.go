package ml_parser

// XmlTagDefinition implements TagDefinition for XML tags
type XmlTagDefinition struct{}

// GetContentType returns the content type for this tag
func (x *XmlTagDefinition) GetContentType(prefix string) TagContentType {
	return TagContentTypePARSABLE_DATA
}

var xmlTagDefinition = &XmlTagDefinition{}

// GetXmlTagDefinition returns the XML tag definition for a tag name. XML has
// no raw text elements, so every tag shares one definition.
func GetXmlTagDefinition(tagName string) TagDefinition {
	return xmlTagDefinition
}
