package backend

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// NormalizeServerURL trims whitespace, prepends "http://" if no scheme is
// present, converts an internationalized host name to its ASCII form, then
// strips trailing slashes.
func NormalizeServerURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "http://" + rawURL
	}
	return strings.TrimRight(asciiHost(rawURL), "/")
}

// asciiHost punycode-encodes the host of rawURL. The URL is returned
// unchanged if it does not parse or the host is already ASCII.
func asciiHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	host := u.Hostname()
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil || ascii == host {
		return rawURL
	}
	if port := u.Port(); port != "" {
		u.Host = net.JoinHostPort(ascii, port)
	} else {
		u.Host = ascii
	}
	return u.String()
}

// jellyfinWebSuffixes are web UI paths users tend to paste along with the server URL.
var jellyfinWebSuffixes = []string{"/web/index.html", "/web"}

// NormalizeJellyfinURL applies NormalizeServerURL, then strips a Jellyfin
// web UI path suffix.
func NormalizeJellyfinURL(rawURL string) string {
	rawURL = NormalizeServerURL(rawURL)
	for _, suffix := range jellyfinWebSuffixes {
		if trimmed, ok := strings.CutSuffix(rawURL, suffix); ok {
			return trimmed
		}
	}
	return rawURL
}
