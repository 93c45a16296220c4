package header

import (
	"net/http"
	"strings"
)

// mediaType returns the lowercased media type of the request
// without parameters.
func mediaType(r *http.Request) string {
	contentType := r.Header.Get("Content-Type")
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(contentType, ";"); i > -1 {
		contentType = strings.TrimSpace(contentType[0:i])
	}
	return contentType
}

// IsApplicationJSONContentType returns true if the content type of the
// request is application/json, with or without a charset.
func IsApplicationJSONContentType(r *http.Request) bool {
	return mediaType(r) == "application/json"
}
