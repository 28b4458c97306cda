package mediaprovider

// CustomFilter carries backend-specific list filters that have no
// cross-backend equivalent. Each controller only reads its own variant.
type CustomFilter interface {
	customFilter()
}

// NavidromeFilter params are added verbatim to Navidrome native API queries.
type NavidromeFilter struct {
	Params map[string]string
	// Smart restricts playlist lists to smart (true) or regular (false) playlists.
	Smart *bool
}

// JellyfinFilter params are added verbatim to Jellyfin item queries.
type JellyfinFilter struct {
	Params map[string]string
}

func (NavidromeFilter) customFilter() {}
func (JellyfinFilter) customFilter()  {}

// PlaylistCustom carries backend-specific playlist write fields.
type PlaylistCustom interface {
	playlistCustom()
}

type NavidromePlaylistCustom struct {
	Rules map[string]any
	Sync  bool
}

func (NavidromePlaylistCustom) playlistCustom() {}

// NavidromeParams returns the Navidrome variant of f, if that is what f holds.
func NavidromeParams(f CustomFilter) (NavidromeFilter, bool) {
	nf, ok := f.(NavidromeFilter)
	return nf, ok
}

func JellyfinParams(f CustomFilter) (JellyfinFilter, bool) {
	jf, ok := f.(JellyfinFilter)
	return jf, ok
}
