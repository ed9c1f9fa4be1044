package squirreldex

import (
	"fmt"
	"strings"
)

// AssetBucket is the fixed bucket prefix under which asset blobs live.
const AssetBucket = "assets"

// BlobPath builds the object key for a filename within a bucket. Upload and
// URL construction both go through here so a key reconstructed later from a
// stored URL names the same object.
func BlobPath(bucket, filename string) string {
	return fmt.Sprintf("%s/%s", bucket, filename)
}

// FilenameFromURL returns the trailing path segment of a stored blob URL.
func FilenameFromURL(url string) string {
	idx := strings.LastIndex(url, "/")
	if idx < 0 {
		return url
	}
	return url[idx+1:]
}

// SplitFilename splits "name.ext" into its two parts.
func SplitFilename(filename string) (name, ext string, err error) {
	parts := strings.Split(filename, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid filename %q", filename)
	}
	return parts[0], parts[1], nil
}
