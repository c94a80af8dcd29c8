package assets

import "fmt"

// ElementImage names the full-resolution element image.
func ElementImage(typeName string) string {
	return fmt.Sprintf("element-%s.png", typeName)
}

// ElementThumb names the downscaled element image.
func ElementThumb(typeName string) string {
	return fmt.Sprintf("element-%s-thumbnail.png", typeName)
}

// PortImage names the full-resolution image of a port frame.
func PortImage(typeName, port string) string {
	return fmt.Sprintf("port-%s-%s.png", typeName, port)
}

// PortThumb names the titled port thumbnail.
func PortThumb(typeName, port string) string {
	return fmt.Sprintf("port-%s-%s-thumb.png", typeName, port)
}

// Document names an element document.
func Document(typeName string) string { return typeName + ".md" }

// Preview names the HTML preview of a document.
func Preview(typeName string) string { return typeName + ".html" }
