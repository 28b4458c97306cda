package mediaprovider

import (
	"slices"
	"strconv"
	"strings"
)

type Feature string

const (
	FeatureBFR                      Feature = "bfr" // tag-based browsing + bulk file reconciliation
	FeatureTags                     Feature = "tags"
	FeatureSmartPlaylists           Feature = "smartPlaylists"
	FeatureSharingAlbumSong         Feature = "sharingAlbumSong"
	FeaturePublicPlaylist           Feature = "publicPlaylist"
	FeatureLyricsSingleStructured   Feature = "lyricsSingleStructured"
	FeatureLyricsMultipleStructured Feature = "lyricsMultipleStructured"
	FeatureFormPost                 Feature = "formPost"
	FeatureTranscodeOffset          Feature = "transcodeOffset"
)

// Features maps a supported feature to the protocol-extension versions
// the server supports for it. A feature absent from the map is unsupported.
type Features map[Feature][]int

func (f Features) Has(feat Feature) bool {
	return len(f[feat]) > 0
}

func (f Features) Clone() Features {
	c := make(Features, len(f))
	for k, v := range f {
		c[k] = slices.Clone(v)
	}
	return c
}

// Version is a parsed dotted numeric version.
type Version [3]int

func (v Version) Compare(o Version) int {
	for i := range v {
		if v[i] != o[i] {
			if v[i] < o[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// ParseVersion reads up to three leading dot-separated integers from s.
// Anything following the numeric part ("0.55.0 (abc123)", "10.9.1-rc1") is ignored.
// The second return is false if s does not begin with a number.
func ParseVersion(s string) (Version, bool) {
	var v Version
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	for i := 0; i < 3; i++ {
		end := 0
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		if end == 0 {
			return v, i > 0
		}
		n, _ := strconv.Atoi(s[:end])
		v[i] = n
		s = s[end:]
		if !strings.HasPrefix(s, ".") {
			return v, true
		}
		s = s[1:]
	}
	return v, true
}

type VersionThreshold struct {
	MinVersion string
	Features   Features
}

// VersionTable lists feature thresholds in ascending version order.
type VersionTable []VersionThreshold

// Resolve merges the features of every threshold the given server
// version meets, so newer servers inherit everything unlocked earlier.
// On duplicate features the later (higher) threshold's versions win.
func (t VersionTable) Resolve(version string) Features {
	out := make(Features)
	sv, ok := ParseVersion(version)
	if !ok {
		return out
	}
	for _, th := range t {
		tv, ok := ParseVersion(th.MinVersion)
		if !ok || sv.Compare(tv) < 0 {
			continue
		}
		for feat, versions := range th.Features {
			out[feat] = slices.Clone(versions)
		}
	}
	return out
}

// Extension is a protocol extension advertised by the server.
type Extension struct {
	Name     string `json:"name"`
	Versions []int  `json:"versions"`
}

// ExtensionMap maps a server extension name to the feature it provides.
type ExtensionMap map[string]Feature

// ApplyExtensions makes the advertised extension list authoritative over
// version inference: every feature backed by an entry in m is granted with
// the advertised versions if present, and removed if not advertised.
// A nil extensions slice means the server did not advertise a list at all,
// and base is returned unchanged.
func ApplyExtensions(base Features, extensions []Extension, m ExtensionMap) Features {
	out := base.Clone()
	if extensions == nil {
		return out
	}
	for _, feat := range m {
		delete(out, feat)
	}
	for _, ext := range extensions {
		feat, ok := m[ext.Name]
		if !ok || len(ext.Versions) == 0 {
			continue
		}
		out[feat] = slices.Clone(ext.Versions)
	}
	return out
}
