package squirreldex

import (
	"net/http"
	"strings"
)

// sniffLen is how many leading bytes DetectImageType needs; matches the
// amount http.DetectContentType considers.
const sniffLen = 512

// allowed upload types and their canonical extensions
var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// DetectImageType sniffs the content type from the leading bytes of an
// upload. It returns the MIME type and canonical extension when the bytes
// are one of the allowed image types. ok is false when the type is not
// allowed; a type that cannot be determined at all reports
// "application/octet-stream" with ok false.
func DetectImageType(head []byte) (mimeType, ext string, ok bool) {
	mimeType = http.DetectContentType(head)

	// DetectContentType may append charset parameters for text types
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	ext, ok = imageExtensions[mimeType]
	return mimeType, ext, ok
}
