package images

import (
	"fmt"
	"mime"
	"net/http"
	"strings"
)

// sniffLen is how many bytes http.DetectContentType inspects.
const sniffLen = 512

var extensionsByMime = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

func sniffMimeType(value string) (string, error) {
	clean := strings.TrimSpace(value)
	if clean == "" {
		return "", fmt.Errorf("mime type required")
	}
	mediaType, _, err := mime.ParseMediaType(clean)
	if err != nil {
		return "", fmt.Errorf("mime type invalid: %w", err)
	}
	if mediaType == "" {
		return "", fmt.Errorf("mime type missing")
	}
	return strings.ToLower(mediaType), nil
}

// detectImageType trusts the file content over the declared header.
func detectImageType(head []byte) (string, bool) {
	detected, err := sniffMimeType(http.DetectContentType(head))
	if err != nil {
		return "", false
	}
	_, ok := extensionsByMime[detected]
	return detected, ok
}

func extensionFor(mimeType string) string {
	return extensionsByMime[mimeType]
}
