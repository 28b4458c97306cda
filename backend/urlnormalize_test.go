package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
)

func TestNormalizeServerURL(t *testing.T) {
	for _, tt := range []struct {
		input string
		want  string
	}{
		{"", ""},
		{"   ", ""},
		{"http://192.168.1.1:4533", "http://192.168.1.1:4533"},
		{"https://music.example.com", "https://music.example.com"},
		{"192.168.1.1:4533", "http://192.168.1.1:4533"},
		{" music.example.com ", "http://music.example.com"},
		{"http://192.168.1.1:4533///", "http://192.168.1.1:4533"},
		{"https://example.com/navidrome/", "https://example.com/navidrome"},
		{"müsic.example:4533/", "http://xn--msic-0ra.example:4533"},
	} {
		assert.Equal(t, tt.want, NormalizeServerURL(tt.input), "input %q", tt.input)
	}
}

func TestNormalizeJellyfinURL(t *testing.T) {
	for _, tt := range []struct {
		input string
		want  string
	}{
		{"", ""},
		{"192.168.1.1:8096/", "http://192.168.1.1:8096"},
		{"192.168.1.1:8096/web/index.html", "http://192.168.1.1:8096"},
		{"http://192.168.1.1:8096/web/", "http://192.168.1.1:8096"},
		{"https://jellyfin.example.com/web", "https://jellyfin.example.com"},
		{"https://example.com/jellyfin/web/index.html", "https://example.com/jellyfin"},
		{"https://example.com/webradio", "https://example.com/webradio"},
	} {
		assert.Equal(t, tt.want, NormalizeJellyfinURL(tt.input), "input %q", tt.input)
	}
}

func TestNormalizeURLByType(t *testing.T) {
	assert.Equal(t, "http://host/web", NormalizeURL(mediaprovider.ServerTypeNavidrome, "host/web"))
	assert.Equal(t, "http://host", NormalizeURL(mediaprovider.ServerTypeJellyfin, "host/web"))
}
