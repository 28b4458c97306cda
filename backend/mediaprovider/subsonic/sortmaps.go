package subsonic

import "github.com/dweymouth/sonicbridge/backend/mediaprovider"

type albumListType string

const (
	albumListRandom               albumListType = "random"
	albumListNewest               albumListType = "newest"
	albumListHighest              albumListType = "highest"
	albumListFrequent             albumListType = "frequent"
	albumListRecent               albumListType = "recent"
	albumListAlphabeticalByName   albumListType = "alphabeticalByName"
	albumListAlphabeticalByArtist albumListType = "alphabeticalByArtist"
	albumListStarred              albumListType = "starred"
	albumListByYear               albumListType = "byYear"
	albumListByGenre              albumListType = "byGenre"
)

// getAlbumList2 always needs a list type, so sorts missing here
// fall back to defaultAlbumListType rather than being omitted.
var albumListTypes = map[mediaprovider.AlbumListSort]albumListType{
	mediaprovider.AlbumSortAlbumArtist:    albumListAlphabeticalByArtist,
	mediaprovider.AlbumSortFavorited:      albumListStarred,
	mediaprovider.AlbumSortName:           albumListAlphabeticalByName,
	mediaprovider.AlbumSortPlayCount:      albumListFrequent,
	mediaprovider.AlbumSortRandom:         albumListRandom,
	mediaprovider.AlbumSortRating:         albumListHighest,
	mediaprovider.AlbumSortRecentlyAdded:  albumListNewest,
	mediaprovider.AlbumSortRecentlyPlayed: albumListRecent,
	mediaprovider.AlbumSortYear:           albumListByYear,
}

const defaultAlbumListType = albumListAlphabeticalByName

func albumListTypeFor(sort mediaprovider.AlbumListSort) albumListType {
	if t, ok := albumListTypes[sort]; ok {
		return t
	}
	return defaultAlbumListType
}
