package navidrome

import "github.com/dweymouth/sonicbridge/backend/mediaprovider"

// Sort keys missing from these tables have no native equivalent;
// the _sort parameter is then omitted and the server default applies.

var albumListSorts = map[mediaprovider.AlbumListSort]string{
	mediaprovider.AlbumSortAlbumArtist:    "album_artist",
	mediaprovider.AlbumSortArtist:         "artist",
	mediaprovider.AlbumSortDuration:       "duration",
	mediaprovider.AlbumSortFavorited:      "starred_at",
	mediaprovider.AlbumSortName:           "name",
	mediaprovider.AlbumSortPlayCount:      "play_count",
	mediaprovider.AlbumSortRandom:         "random",
	mediaprovider.AlbumSortRating:         "rating",
	mediaprovider.AlbumSortRecentlyAdded:  "recently_added",
	mediaprovider.AlbumSortRecentlyPlayed: "play_date",
	mediaprovider.AlbumSortSongCount:      "songCount",
	mediaprovider.AlbumSortYear:           "max_year",
}

var songListSorts = map[mediaprovider.SongListSort]string{
	mediaprovider.SongSortAlbum:          "album",
	mediaprovider.SongSortAlbumArtist:    "order_album_artist_name",
	mediaprovider.SongSortArtist:         "artist",
	mediaprovider.SongSortBPM:            "bpm",
	mediaprovider.SongSortChannels:       "channels",
	mediaprovider.SongSortComment:        "comment",
	mediaprovider.SongSortDuration:       "duration",
	mediaprovider.SongSortFavorited:      "starred_at",
	mediaprovider.SongSortGenre:          "genre",
	mediaprovider.SongSortID:             "id",
	mediaprovider.SongSortName:           "title",
	mediaprovider.SongSortPlayCount:      "play_count",
	mediaprovider.SongSortRandom:         "random",
	mediaprovider.SongSortRating:         "rating",
	mediaprovider.SongSortRecentlyAdded:  "created_at",
	mediaprovider.SongSortRecentlyPlayed: "play_date",
	mediaprovider.SongSortYear:           "year",
}

var albumArtistListSorts = map[mediaprovider.AlbumArtistListSort]string{
	mediaprovider.AlbumArtistSortAlbumCount: "album_count",
	mediaprovider.AlbumArtistSortFavorited:  "starred_at",
	mediaprovider.AlbumArtistSortName:       "name",
	mediaprovider.AlbumArtistSortPlayCount:  "play_count",
	mediaprovider.AlbumArtistSortRandom:     "random",
	mediaprovider.AlbumArtistSortRating:     "rating",
	mediaprovider.AlbumArtistSortSongCount:  "song_count",
}

var artistListSorts = map[mediaprovider.ArtistListSort]string{
	mediaprovider.ArtistSortAlbumCount: "album_count",
	mediaprovider.ArtistSortFavorited:  "starred_at",
	mediaprovider.ArtistSortName:       "name",
	mediaprovider.ArtistSortPlayCount:  "play_count",
	mediaprovider.ArtistSortRandom:     "random",
	mediaprovider.ArtistSortRating:     "rating",
	mediaprovider.ArtistSortSongCount:  "song_count",
}

var genreListSorts = map[mediaprovider.GenreListSort]string{
	mediaprovider.GenreSortName: "name",
}

var playlistListSorts = map[mediaprovider.PlaylistListSort]string{
	mediaprovider.PlaylistSortDuration:  "duration",
	mediaprovider.PlaylistSortName:      "name",
	mediaprovider.PlaylistSortOwner:     "owner_name",
	mediaprovider.PlaylistSortPublic:    "public",
	mediaprovider.PlaylistSortSongCount: "song_count",
	mediaprovider.PlaylistSortUpdatedAt: "updated_at",
}

var userListSorts = map[mediaprovider.UserListSort]string{
	mediaprovider.UserSortName: "name",
}

var sortOrders = map[mediaprovider.SortOrder]string{
	mediaprovider.SortAsc:  "ASC",
	mediaprovider.SortDesc: "DESC",
}
