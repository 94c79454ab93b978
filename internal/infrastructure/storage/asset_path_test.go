package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"/index.html", "index.html", true},
		{"/", "index.html", true},
		{"", "index.html", true},
		{"/app/", "app/index.html", true},
		{"/app", "app", true},
		{"/templates/game.html", "templates/game.html", true},
		{"screamer.js", "screamer.js", true},
		{"/assets//images/1.png", "assets/images/1.png", true},
		{"/../etc/passwd", "", false},
		{"/assets/../../secret", "", false},
		{"/assets/..", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := objectKey(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "text/html; charset=utf-8", contentTypeFor("index.html"))
	assert.Equal(t, "image/png", contentTypeFor("assets/images/1.png"))
	assert.Contains(t, contentTypeFor("screamer.js"), "javascript")
	assert.Equal(t, "application/octet-stream", contentTypeFor("LICENSE"))
}

func TestJoinPrefix(t *testing.T) {
	assert.Equal(t, "index.html", joinPrefix("", "index.html"))
	assert.Equal(t, "public/index.html", joinPrefix("/public/", "index.html"))
}
