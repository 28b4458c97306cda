package jellyfin

import "github.com/dweymouth/sonicbridge/backend/mediaprovider"

// Values are comma-separated SortBy chains; later fields break ties.
// Unmapped keys send no SortBy and the server default applies.

var albumListSorts = map[mediaprovider.AlbumListSort]string{
	mediaprovider.AlbumSortAlbumArtist:     "AlbumArtist,SortName",
	mediaprovider.AlbumSortArtist:          "Artist,SortName",
	mediaprovider.AlbumSortCommunityRating: "CommunityRating,SortName",
	mediaprovider.AlbumSortCriticRating:    "CriticRating,SortName",
	mediaprovider.AlbumSortDuration:        "Runtime,SortName",
	mediaprovider.AlbumSortFavorited:       "IsFavoriteOrLiked,SortName",
	mediaprovider.AlbumSortName:            "SortName",
	mediaprovider.AlbumSortPlayCount:       "PlayCount,SortName",
	mediaprovider.AlbumSortRandom:          "Random,SortName",
	mediaprovider.AlbumSortRecentlyAdded:   "DateCreated,SortName",
	mediaprovider.AlbumSortRecentlyPlayed:  "DatePlayed,SortName",
	mediaprovider.AlbumSortReleaseDate:     "PremiereDate,ProductionYear,SortName",
	mediaprovider.AlbumSortYear:            "ProductionYear,PremiereDate,SortName",
}

var songListSorts = map[mediaprovider.SongListSort]string{
	mediaprovider.SongSortAlbum:          "Album,SortName",
	mediaprovider.SongSortAlbumArtist:    "AlbumArtist,Album,SortName",
	mediaprovider.SongSortArtist:         "Artist,Album,SortName",
	mediaprovider.SongSortDuration:       "Runtime,AlbumArtist,Album,SortName",
	mediaprovider.SongSortFavorited:      "IsFavoriteOrLiked,SortName",
	mediaprovider.SongSortName:           "Name",
	mediaprovider.SongSortPlayCount:      "PlayCount,SortName",
	mediaprovider.SongSortRandom:         "Random,SortName",
	mediaprovider.SongSortRecentlyAdded:  "DateCreated,SortName",
	mediaprovider.SongSortRecentlyPlayed: "DatePlayed,SortName",
	mediaprovider.SongSortReleaseDate:    "PremiereDate,AlbumArtist,Album,SortName",
	mediaprovider.SongSortYear:           "ProductionYear,AlbumArtist,Album,SortName",
}

var albumArtistListSorts = map[mediaprovider.AlbumArtistListSort]string{
	mediaprovider.AlbumArtistSortAlbum:         "Album,SortName",
	mediaprovider.AlbumArtistSortDuration:      "Runtime,SortName",
	mediaprovider.AlbumArtistSortFavorited:     "IsFavoriteOrLiked,SortName",
	mediaprovider.AlbumArtistSortName:          "SortName,Name",
	mediaprovider.AlbumArtistSortRandom:        "Random,SortName",
	mediaprovider.AlbumArtistSortRecentlyAdded: "DateCreated,SortName",
	mediaprovider.AlbumArtistSortReleaseDate:   "PremiereDate,SortName",
}

var artistListSorts = map[mediaprovider.ArtistListSort]string{
	mediaprovider.ArtistSortFavorited: "IsFavoriteOrLiked,SortName",
	mediaprovider.ArtistSortName:      "SortName,Name",
	mediaprovider.ArtistSortRandom:    "Random,SortName",
}

var genreListSorts = map[mediaprovider.GenreListSort]string{
	mediaprovider.GenreSortName: "SortName",
}

var playlistListSorts = map[mediaprovider.PlaylistListSort]string{
	mediaprovider.PlaylistSortDuration: "Runtime",
	mediaprovider.PlaylistSortName:     "SortName",
}

var sortOrders = map[mediaprovider.SortOrder]string{
	mediaprovider.SortAsc:  "Ascending",
	mediaprovider.SortDesc: "Descending",
}
