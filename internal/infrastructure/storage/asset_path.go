// Package storage provides the static asset sources the storefront serves
// its landing page, base template and images from.
package storage

import (
	"mime"
	"path"
	"strings"
)

const indexDocument = "index.html"

// objectKey maps a request path to a slash-separated key relative to the
// asset root. A trailing slash selects the directory's index document.
// Paths that climb out of the root are rejected.
func objectKey(requestPath string) (string, bool) {
	if requestPath == "" {
		requestPath = "/"
	}
	for _, seg := range strings.Split(requestPath, "/") {
		if seg == ".." {
			return "", false
		}
	}
	if strings.HasSuffix(requestPath, "/") {
		requestPath += indexDocument
	}
	key := strings.TrimPrefix(path.Clean("/"+requestPath), "/")
	if key == "" || key == "." {
		return "", false
	}
	return key, true
}

// contentTypeFor guesses a content type from the file extension.
func contentTypeFor(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// joinPrefix prepends a bucket key prefix.
func joinPrefix(prefix, key string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}
